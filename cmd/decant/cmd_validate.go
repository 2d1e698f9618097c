package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/ochairo/decant/internal/domain-adapters/gateways"
	"github.com/ochairo/decant/internal/domain/interfaces"
	"github.com/ochairo/decant/internal/domain/services"
	jsonadapter "github.com/ochairo/decant/internal/external-adapters/json"
)

// runValidate is the dry-run path: load the descriptor, resolve the
// upload manifest and print what a deploy would send. No network calls.
func runValidate(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	file := fs.String("file", "", "Path to the JSON deploy descriptor")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: decant validate --file <descriptor.json>

Check the deploy descriptor and preview the resolved uploads with their
SHA256 digests, without contacting the registry.
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		os.Exit(1)
	}

	if *file == "" {
		fmt.Fprintf(os.Stderr, "Error: --file is required\n\n")
		fs.Usage()
		os.Exit(1)
	}

	if err := validateDescriptorFile(ctx, *file); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func validateDescriptorFile(ctx context.Context, file string) error {
	desc, err := jsonadapter.NewDescriptorRepository(file).Load(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Package: %s/%s/%s\n", desc.Package.Subject, desc.Package.Repo, desc.Package.Name)
	fmt.Printf("Version: %s\n", desc.Version.Name)
	fmt.Printf("Publish: %v\n", desc.Publish)
	fmt.Printf("Sign:    %v\n", desc.Version.GPGSign)

	resolver := services.NewManifestResolver(&interfaces.TextLogger{})
	uploads, err := resolver.Resolve(desc.Files)
	if err != nil {
		return err
	}

	if len(uploads) == 0 {
		fmt.Println("\nNo uploads resolved.")
		return nil
	}

	digester := gateways.NewDigester()
	fmt.Printf("\nResolved %d upload(s):\n", len(uploads))
	for _, up := range uploads {
		digest, err := digester.SHA256(up.SourcePath)
		if err != nil {
			return fmt.Errorf("failed to digest %s: %w", up.SourcePath, err)
		}
		fmt.Printf("  %s -> %s (sha256 %s)\n", up.SourcePath, up.TargetPath, digest)
	}
	return nil
}
