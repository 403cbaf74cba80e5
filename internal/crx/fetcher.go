package crx

import (
	"context"
	"fmt"

	"github.com/oshokin/crlset-mirror/internal/config"
	"github.com/oshokin/crlset-mirror/internal/logger"
)

// Getter fetches a URL and returns its body.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Fetcher downloads and validates packages.
type Fetcher struct {
	getter     Getter
	descriptor config.Descriptor
}

// NewFetcher creates a Fetcher validating against descriptor.
func NewFetcher(getter Getter, descriptor config.Descriptor) *Fetcher {
	return &Fetcher{
		getter:     getter,
		descriptor: descriptor,
	}
}

// FetchPackage downloads the container at url and validates its magic.
func (f *Fetcher) FetchPackage(ctx context.Context, url string) (Package, error) {
	logger.InfoKV(ctx, "Downloading package", "url", url)

	data, err := f.getter.Get(ctx, url)
	if err != nil {
		return Package{}, fmt.Errorf("download package: %w", err)
	}

	pkg, err := Validate(data, f.descriptor)
	if err != nil {
		return Package{}, fmt.Errorf("validate package from %s: %w", url, err)
	}

	logger.DebugKV(ctx, "Package validated", "bytes", pkg.Size())

	return pkg, nil
}
