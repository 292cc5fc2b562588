package main

import (
	"fmt"
	"os"

	"github.com/vishnusainzb97/AI-Powered-ECG-Interpreter/cmd/ecg-interpreter/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
