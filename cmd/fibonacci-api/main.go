package main

import (
	"fmt"
	"os"
)

var version = "dev"

func main() {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
