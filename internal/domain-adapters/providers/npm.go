package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ochairo/decant/internal/domain/interfaces"
	"github.com/ochairo/decant/internal/domain/interfaces/gateways"
)

// DefaultNpmRegistry is used when neither the configuration nor the local
// package manifest names a registry.
const DefaultNpmRegistry = "https://registry.npmjs.org"

// NpmConfig holds the npm provider options.
type NpmConfig struct {
	APIKey     string
	Email      string
	Access     string
	Tag        string
	Registry   string
	PackageDir string
}

// Npm publishes the package in PackageDir to an npm registry: write the
// credentials file, point the client at the registry, publish, then
// remove the credentials file again.
type Npm struct {
	cfg       NpmConfig
	client    gateways.NpmClient
	npmrcPath string
	log       interfaces.Logger
}

// NewNpm creates the npm provider. The credentials file lives at the
// client's well-known path in the user's home directory.
func NewNpm(cfg NpmConfig, client gateways.NpmClient, log interfaces.Logger) (*Npm, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve home directory: %w", err)
	}
	if cfg.PackageDir == "" {
		cfg.PackageDir = "."
	}
	if log == nil {
		log = &interfaces.NoOpLogger{}
	}
	return &Npm{
		cfg:       cfg,
		client:    client,
		npmrcPath: filepath.Join(home, ".npmrc"),
		log:       log,
	}, nil
}

// Name returns the provider's registered name
func (p *Npm) Name() string { return "npm" }

// Validate checks required options
func (p *Npm) Validate(_ context.Context) error {
	if p.cfg.APIKey == "" {
		return fmt.Errorf("missing required option: api key")
	}
	if p.cfg.Email == "" {
		return fmt.Errorf("missing required option: email")
	}
	return nil
}

// Login writes the credentials file and points the client's active
// registry at the resolved registry URL.
func (p *Npm) Login(ctx context.Context) error {
	registry := p.resolveRegistry()

	version, err := p.client.Version(ctx)
	if err != nil {
		return err
	}

	content := p.credentials(version, registry)
	if err := os.WriteFile(p.npmrcPath, []byte(content), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", p.npmrcPath, err)
	}
	p.log.Info("authenticated with npm registry",
		interfaces.F("registry", registry),
		interfaces.F("npmVersion", version))

	return p.client.SetRegistry(ctx, registry)
}

// Deploy publishes the package
func (p *Npm) Deploy(ctx context.Context) error {
	p.log.Info("publishing package",
		interfaces.F("dir", p.cfg.PackageDir),
		interfaces.F("access", p.cfg.Access),
		interfaces.F("tag", p.cfg.Tag))
	return p.client.Publish(ctx, p.cfg.PackageDir, p.cfg.Access, p.cfg.Tag)
}

// Finish removes the credentials file. Runs even after a failed deploy;
// an already-absent file is not an error.
func (p *Npm) Finish(_ context.Context) error {
	if err := os.Remove(p.npmrcPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", p.npmrcPath, err)
	}
	return nil
}

// credentials renders the npmrc content. npm 1.x only understands the
// plaintext _auth/email form; newer clients get a registry-scoped bearer
// token.
func (p *Npm) credentials(npmVersion, registry string) string {
	if legacyClient(npmVersion) {
		return fmt.Sprintf("_auth = %s\nemail = %s\n", p.cfg.APIKey, p.cfg.Email)
	}
	return fmt.Sprintf("//%s:_authToken=%s\n", registryHost(registry), p.cfg.APIKey)
}

// resolveRegistry picks the registry URL: explicit configuration wins,
// then the publishConfig.registry field of the local package manifest,
// then the public default.
func (p *Npm) resolveRegistry() string {
	if p.cfg.Registry != "" {
		return p.cfg.Registry
	}

	manifestPath := filepath.Join(p.cfg.PackageDir, "package.json")
	//nolint:gosec // G304: package manifest path is derived from configuration
	data, err := os.ReadFile(manifestPath)
	if err == nil {
		var manifest struct {
			PublishConfig struct {
				Registry string `json:"registry"`
			} `json:"publishConfig"`
		}
		if err := json.Unmarshal(data, &manifest); err == nil && manifest.PublishConfig.Registry != "" {
			return manifest.PublishConfig.Registry
		}
	}

	return DefaultNpmRegistry
}

// legacyClient reports whether the npm major version is 1
func legacyClient(version string) bool {
	major, _, _ := strings.Cut(version, ".")
	return major == "1"
}

// registryHost strips the scheme and guarantees a trailing slash, the
// form npm expects in scoped auth-token lines.
func registryHost(registry string) string {
	host := strings.TrimPrefix(registry, "https://")
	host = strings.TrimPrefix(host, "http://")
	if !strings.HasSuffix(host, "/") {
		host += "/"
	}
	return host
}
