package main

import (
	"fmt"
	"os"

	"github.com/DIO0550/plugin-manager/cmd/plm/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
