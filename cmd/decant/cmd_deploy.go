package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/ochairo/decant/internal/domain-adapters/gateways"
	"github.com/ochairo/decant/internal/domain-adapters/providers"
	"github.com/ochairo/decant/internal/domain/interfaces"
	"github.com/ochairo/decant/internal/domain/services"
	"github.com/ochairo/decant/internal/external-adapters/gpg"
	jsonadapter "github.com/ochairo/decant/internal/external-adapters/json"
	"github.com/ochairo/decant/internal/external-adapters/logging"
	yamladapter "github.com/ochairo/decant/internal/external-adapters/yaml"
)

const defaultConfigFile = ".decant.yml"

// deployOptions is the merged configuration surface of the deploy
// command: flag > environment variable > config file > default.
type deployOptions struct {
	provider string
	bintray  providers.BintrayConfig
	npm      providers.NpmConfig
	sign     yamladapter.SignConfig
}

// deployFlags carries the raw command-line values before merging.
type deployFlags struct {
	provider string

	user           string
	key            string
	file           string
	passphrase     string
	url            string
	signKey        string
	signPassphrase string

	apiKey   string
	email    string
	access   string
	tag      string
	registry string
	dir      string
}

// mergeOptions applies the precedence flag > environment variable >
// config file. getenv is injected so the merge is testable.
func mergeOptions(f deployFlags, getenv func(string) string, fileCfg *yamladapter.Config) deployOptions {
	return deployOptions{
		provider: firstNonEmpty(f.provider, fileCfg.Provider),
		bintray: providers.BintrayConfig{
			User:       firstNonEmpty(f.user, getenv("BINTRAY_USER"), fileCfg.Bintray.User),
			Key:        firstNonEmpty(f.key, getenv("BINTRAY_KEY"), fileCfg.Bintray.Key),
			File:       firstNonEmpty(f.file, fileCfg.Bintray.File),
			Passphrase: firstNonEmpty(f.passphrase, getenv("BINTRAY_PASSPHRASE"), fileCfg.Bintray.Passphrase),
			URL:        firstNonEmpty(f.url, fileCfg.Bintray.URL),
		},
		npm: providers.NpmConfig{
			APIKey:     firstNonEmpty(f.apiKey, getenv("NPM_API_KEY"), fileCfg.Npm.APIKey),
			Email:      firstNonEmpty(f.email, getenv("NPM_EMAIL"), fileCfg.Npm.Email),
			Access:     firstNonEmpty(f.access, fileCfg.Npm.Access),
			Tag:        firstNonEmpty(f.tag, fileCfg.Npm.Tag),
			Registry:   firstNonEmpty(f.registry, fileCfg.Npm.Registry),
			PackageDir: firstNonEmpty(f.dir, fileCfg.Npm.PackageDir),
		},
		sign: yamladapter.SignConfig{
			KeyFile:    firstNonEmpty(f.signKey, fileCfg.Sign.KeyFile),
			Passphrase: firstNonEmpty(f.signPassphrase, fileCfg.Sign.Passphrase),
		},
	}
}

func runDeploy(ctx context.Context, args []string) {
	fs := flag.NewFlagSet("deploy", flag.ExitOnError)
	var (
		provider   = fs.String("provider", "", "Deploy provider: bintray or npm")
		configPath = fs.String("config", "", "Path to YAML config file (default .decant.yml when present)")
		debug      = fs.Bool("debug", false, "Enable debug logging")

		// bintray flags
		user           = fs.String("user", "", "Registry user")
		key            = fs.String("key", "", "Registry API key (or BINTRAY_KEY)")
		file           = fs.String("file", "", "Path to the JSON deploy descriptor")
		passphrase     = fs.String("passphrase", "", "Passphrase for server-side version signing (or BINTRAY_PASSPHRASE)")
		apiURL         = fs.String("url", "", "Registry API base URL")
		signKey        = fs.String("sign-key", "", "Armored private key file for local detached signing of uploads")
		signPassphrase = fs.String("sign-passphrase", "", "Passphrase for the local signing key")

		// npm flags
		apiKey   = fs.String("api-key", "", "npm auth token (or NPM_API_KEY)")
		email    = fs.String("email", "", "npm account email (or NPM_EMAIL)")
		access   = fs.String("access", "", "npm publish access level (public or restricted)")
		tag      = fs.String("tag", "", "npm dist-tag to publish under")
		registry = fs.String("registry", "", "npm registry URL")
		dir      = fs.String("dir", "", "Package directory to publish (default .)")
	)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: decant deploy --provider <name> [options]

Publish build output as the last step of a CI run.

Examples:
  # Artifact registry, descriptor-driven
  decant deploy --provider bintray --user jane --key $BINTRAY_KEY --file descriptor.json

  # Same, signing every upload locally before it is sent
  decant deploy --provider bintray --file descriptor.json --sign-key release.asc

  # npm registry
  decant deploy --provider npm --api-key $NPM_API_KEY --email ci@example.com --tag next

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Environment Variables:
  BINTRAY_USER, BINTRAY_KEY, BINTRAY_PASSPHRASE
  NPM_API_KEY, NPM_EMAIL
`)
	}

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		os.Exit(1)
	}

	fileCfg, err := loadConfigFile(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	opts := mergeOptions(deployFlags{
		provider:       *provider,
		user:           *user,
		key:            *key,
		file:           *file,
		passphrase:     *passphrase,
		url:            *apiURL,
		signKey:        *signKey,
		signPassphrase: *signPassphrase,
		apiKey:         *apiKey,
		email:          *email,
		access:         *access,
		tag:            *tag,
		registry:       *registry,
		dir:            *dir,
	}, os.Getenv, fileCfg)

	if opts.provider == "" {
		fmt.Fprintf(os.Stderr, "Error: --provider is required\n\n")
		fs.Usage()
		os.Exit(1)
	}

	log, err := logging.NewZapLogger(*debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	prov, err := buildProvider(opts, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := services.NewPipeline(log).Run(ctx, prov); err != nil {
		log.Error("deploy failed", interfaces.F("provider", prov.Name()), interfaces.F("error", err))
		log.Sync()
		os.Exit(1)
	}
}

// buildProvider wires the adapters for the selected provider
func buildProvider(opts deployOptions, log interfaces.Logger) (interfaces.Provider, error) {
	switch opts.provider {
	case "bintray":
		var signer providers.UploadSigner
		if opts.sign.KeyFile != "" {
			s, err := gpg.NewSignerFromFile(opts.sign.KeyFile, opts.sign.Passphrase)
			if err != nil {
				return nil, fmt.Errorf("failed to load signing key: %w", err)
			}
			signer = s
		}
		return providers.NewBintray(
			opts.bintray,
			gateways.NewBintrayGateway(opts.bintray.URL, opts.bintray.User, opts.bintray.Key),
			jsonadapter.NewDescriptorRepository(opts.bintray.File),
			services.NewManifestResolver(log),
			signer,
			gateways.NewDigester(),
			log,
		), nil
	case "npm":
		client := gateways.NewNpmCLI(gateways.NewCommandRunner(), "")
		return providers.NewNpm(opts.npm, client, log)
	default:
		return nil, fmt.Errorf("unknown provider: %s (run \"decant providers\")", opts.provider)
	}
}

// loadConfigFile loads the YAML config. A missing default file is fine;
// a missing explicitly-requested file is an error.
func loadConfigFile(path string) (*yamladapter.Config, error) {
	if path == "" {
		if _, err := os.Stat(defaultConfigFile); err != nil {
			return &yamladapter.Config{}, nil
		}
		path = defaultConfigFile
	}
	return yamladapter.LoadConfig(path)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
