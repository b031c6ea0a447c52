package main

import (
	"fmt"
	"os"

	"forgebuild.dev/cli/internal/interfaces/cli"
	"forgebuild.dev/cli/internal/interfaces/di"
)

var (
	Version = "1.4.2" // Overridden by ldflags
)

func main() {
	projectRoot, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "forge: %v\n", err)
		os.Exit(1)
	}

	container, err := di.NewContainer(projectRoot, Version)
	if err != nil {
		fmt.Fprintf(os.Stderr, "forge: %v\n", err)
		os.Exit(1)
	}
	defer container.Close()

	rootCmd := cli.NewRootCommand(container)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
