package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx := context.Background()
	command := os.Args[1]

	// Dispatch to subcommand
	switch command {
	case "deploy":
		runDeploy(ctx, os.Args[2:])
	case "validate":
		runValidate(ctx, os.Args[2:])
	case "providers":
		runProviders(os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`decant - Publish build artifacts and packages from CI

Usage:
  decant <command> [options]

Commands:
  deploy     Publish to the selected provider
  validate   Dry-run: check descriptor and preview resolved uploads
  providers  List available deploy providers

Use "decant <command> --help" for more information about a command.`)
}
