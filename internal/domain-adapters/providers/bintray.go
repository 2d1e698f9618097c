// Package providers implements the deploy targets selectable on the
// command line.
package providers

import (
	"context"
	"fmt"

	"github.com/ochairo/decant/internal/domain/entities"
	"github.com/ochairo/decant/internal/domain/interfaces"
	"github.com/ochairo/decant/internal/domain/interfaces/gateways"
	"github.com/ochairo/decant/internal/domain/interfaces/repositories"
	"github.com/ochairo/decant/internal/domain/services"
)

// BintrayConfig holds the artifact registry provider options.
type BintrayConfig struct {
	User       string
	Key        string
	File       string // deploy descriptor path
	Passphrase string // server-side signing passphrase
	URL        string
}

// UploadSigner produces a detached signature file for an upload source.
// Optional; wired in only when a local signing key is configured.
type UploadSigner interface {
	SignDetached(path string) (string, error)
}

// UploadDigester computes content digests logged alongside each upload.
type UploadDigester interface {
	SHA256(path string) (string, error)
}

// Bintray publishes descriptor-driven artifacts to the binary registry:
// ensure the package and version exist, upload every file the manifest
// resolves to, then optionally sign and publish the version.
type Bintray struct {
	cfg         BintrayConfig
	registry    gateways.ArtifactRegistry
	descriptors repositories.DescriptorRepository
	resolver    *services.ManifestResolver
	signer      UploadSigner
	digester    UploadDigester
	log         interfaces.Logger
}

// NewBintray creates the artifact registry provider. signer may be nil.
func NewBintray(
	cfg BintrayConfig,
	registry gateways.ArtifactRegistry,
	descriptors repositories.DescriptorRepository,
	resolver *services.ManifestResolver,
	signer UploadSigner,
	digester UploadDigester,
	log interfaces.Logger,
) *Bintray {
	if log == nil {
		log = &interfaces.NoOpLogger{}
	}
	return &Bintray{
		cfg:         cfg,
		registry:    registry,
		descriptors: descriptors,
		resolver:    resolver,
		signer:      signer,
		digester:    digester,
		log:         log,
	}
}

// Name returns the provider's registered name
func (p *Bintray) Name() string { return "bintray" }

// Validate checks required options and descriptor shape without touching
// the registry.
func (p *Bintray) Validate(ctx context.Context) error {
	if p.cfg.User == "" {
		return fmt.Errorf("missing required option: user")
	}
	if p.cfg.Key == "" {
		return fmt.Errorf("missing required option: key")
	}
	if p.cfg.File == "" {
		return fmt.Errorf("missing required option: file")
	}

	desc, err := p.descriptors.Load(ctx)
	if err != nil {
		return err
	}
	return validateDescriptor(desc)
}

// Deploy runs the fixed publish sequence. The first failure aborts the
// remaining steps; resources created or uploaded so far are left as-is.
func (p *Bintray) Deploy(ctx context.Context) error {
	desc, err := p.descriptors.Load(ctx)
	if err != nil {
		return err
	}
	pkg, ver := &desc.Package, &desc.Version

	if err := p.ensurePackage(ctx, pkg); err != nil {
		return err
	}
	if err := p.ensureVersion(ctx, pkg, ver); err != nil {
		return err
	}

	uploads, err := p.resolver.Resolve(desc.Files)
	if err != nil {
		return err
	}
	if p.signer != nil {
		uploads, err = p.signUploads(uploads)
		if err != nil {
			return err
		}
	}

	for _, up := range uploads {
		if err := p.upload(ctx, pkg, ver, up); err != nil {
			return err
		}
	}

	if ver.GPGSign {
		p.log.Info("requesting version signing",
			interfaces.F("package", pkg.Name), interfaces.F("version", ver.Name))
		if err := p.registry.SignVersion(ctx, pkg, ver, p.cfg.Passphrase); err != nil {
			return err
		}
	}

	if desc.Publish {
		p.log.Info("publishing version",
			interfaces.F("package", pkg.Name), interfaces.F("version", ver.Name))
		if err := p.registry.PublishVersion(ctx, pkg, ver); err != nil {
			return err
		}
	}

	return nil
}

// ensurePackage creates the package only when the existence probe says it
// is absent, so a second deploy run skips creation.
func (p *Bintray) ensurePackage(ctx context.Context, pkg *entities.Package) error {
	exists, err := p.registry.PackageExists(ctx, pkg)
	if err != nil {
		return err
	}
	if exists {
		p.log.Debug("package already exists", interfaces.F("package", pkg.Name))
		return nil
	}

	p.log.Info("creating package",
		interfaces.F("subject", pkg.Subject),
		interfaces.F("repo", pkg.Repo),
		interfaces.F("package", pkg.Name))
	return p.registry.CreatePackage(ctx, pkg)
}

func (p *Bintray) ensureVersion(ctx context.Context, pkg *entities.Package, ver *entities.Version) error {
	exists, err := p.registry.VersionExists(ctx, pkg, ver)
	if err != nil {
		return err
	}
	if exists {
		p.log.Debug("version already exists", interfaces.F("version", ver.Name))
		return nil
	}

	p.log.Info("creating version",
		interfaces.F("package", pkg.Name), interfaces.F("version", ver.Name))
	return p.registry.CreateVersion(ctx, pkg, ver)
}

// signUploads produces a detached signature next to each source file and
// appends it to the upload list with the same matrix params.
func (p *Bintray) signUploads(uploads []entities.Upload) ([]entities.Upload, error) {
	signed := make([]entities.Upload, 0, len(uploads)*2)
	for _, up := range uploads {
		signed = append(signed, up)

		sigPath, err := p.signer.SignDetached(up.SourcePath)
		if err != nil {
			return nil, fmt.Errorf("failed to sign %s: %w", up.SourcePath, err)
		}
		signed = append(signed, entities.Upload{
			SourcePath:   sigPath,
			TargetPath:   up.TargetPath + ".asc",
			MatrixParams: up.MatrixParams,
		})
	}
	return signed, nil
}

func (p *Bintray) upload(ctx context.Context, pkg *entities.Package, ver *entities.Version, up entities.Upload) error {
	fields := []interfaces.Field{
		interfaces.F("source", up.SourcePath),
		interfaces.F("target", up.TargetPath),
	}
	if p.digester != nil {
		if digest, err := p.digester.SHA256(up.SourcePath); err == nil {
			fields = append(fields, interfaces.F("sha256", digest))
		}
	}
	p.log.Info("uploading", fields...)

	return p.registry.UploadContent(ctx, pkg, ver, up)
}

// validateDescriptor enforces the identity fields every registry call
// needs.
func validateDescriptor(desc *entities.Descriptor) error {
	if desc.Package.Name == "" {
		return fmt.Errorf("%w: package.name is required", entities.ErrDescriptorInvalid)
	}
	if desc.Package.Subject == "" {
		return fmt.Errorf("%w: package.subject is required", entities.ErrDescriptorInvalid)
	}
	if desc.Package.Repo == "" {
		return fmt.Errorf("%w: package.repo is required", entities.ErrDescriptorInvalid)
	}
	if desc.Version.Name == "" {
		return fmt.Errorf("%w: version.name is required", entities.ErrDescriptorInvalid)
	}
	return nil
}
