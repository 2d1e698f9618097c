// Package gateways defines interfaces for external service adapters.
package gateways

import (
	"context"

	"github.com/ochairo/decant/internal/domain/entities"
)

// ArtifactRegistry defines operations against the binary registry REST
// API. Existence checks are read-only; everything else mutates remote
// state and must fail hard on a non-2xx answer.
type ArtifactRegistry interface {
	// PackageExists reports whether the package resource exists.
	PackageExists(ctx context.Context, pkg *entities.Package) (bool, error)

	// CreatePackage creates the package, posting its attributes
	// separately when present.
	CreatePackage(ctx context.Context, pkg *entities.Package) error

	// VersionExists reports whether the version resource exists.
	VersionExists(ctx context.Context, pkg *entities.Package, ver *entities.Version) (bool, error)

	// CreateVersion creates the version, posting its attributes
	// separately when present.
	CreateVersion(ctx context.Context, pkg *entities.Package, ver *entities.Version) error

	// UploadContent PUTs one upload's bytes to the version content path.
	UploadContent(ctx context.Context, pkg *entities.Package, ver *entities.Version, up entities.Upload) error

	// SignVersion asks the registry to GPG-sign the version.
	SignVersion(ctx context.Context, pkg *entities.Package, ver *entities.Version, passphrase string) error

	// PublishVersion makes the uploaded version publicly visible.
	PublishVersion(ctx context.Context, pkg *entities.Package, ver *entities.Version) error
}

// NpmClient defines the operations performed through the npm CLI.
type NpmClient interface {
	// Version returns the npm client version string (e.g. "10.2.4").
	Version(ctx context.Context) (string, error)

	// SetRegistry points the client's active registry at the given URL.
	SetRegistry(ctx context.Context, registry string) error

	// Publish publishes the package in dir; access and tag are passed
	// through when non-empty.
	Publish(ctx context.Context, dir, access, tag string) error
}
