package main

import (
	"flag"
	"fmt"
	"os"
)

func runProviders(args []string) {
	fs := flag.NewFlagSet("providers", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: decant providers\n\nList available deploy providers.\n")
	}
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(`Available providers:

  bintray  Publish descriptor-driven artifacts to a binary registry
           (REST API; requires --user, --key, --file)
  npm      Publish the package in the working directory to an npm
           registry (npm CLI; requires --api-key, --email)`)
}
