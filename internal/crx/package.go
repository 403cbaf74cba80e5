package crx

import (
	"bytes"
	"fmt"

	"github.com/oshokin/crlset-mirror/internal/config"
	"github.com/oshokin/crlset-mirror/internal/domain/crlset"
)

// Package is a downloaded container that passed magic validation.
type Package struct {
	data         []byte
	headerLength int
}

// Validate checks data against the descriptor's magic and header length.
// Failures wrap crlset.ErrFormat.
func Validate(data []byte, descriptor config.Descriptor) (Package, error) {
	magic := []byte(descriptor.Magic)

	if !bytes.HasPrefix(data, magic) {
		prefix := data[:min(len(data), len(magic))]

		return Package{}, fmt.Errorf("expected magic %q, got %q: %w", descriptor.Magic, prefix, crlset.ErrFormat)
	}

	if len(data) < descriptor.HeaderLength {
		return Package{}, fmt.Errorf(
			"package is %d bytes, shorter than its %d-byte header: %w",
			len(data), descriptor.HeaderLength, crlset.ErrFormat,
		)
	}

	return Package{
		data:         data,
		headerLength: descriptor.HeaderLength,
	}, nil
}

// Archive returns the embedded archive that follows the header.
func (p Package) Archive() []byte {
	return p.data[p.headerLength:]
}

// Size returns the full container size in bytes.
func (p Package) Size() int {
	return len(p.data)
}
