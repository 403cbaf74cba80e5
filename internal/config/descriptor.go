package config

import (
	"errors"
	"fmt"
	"net/url"
)

const (
	// DefaultAppID identifies the CRL set component in the update service.
	DefaultAppID = "hfnkpimlhhgieaddgfemjhofmfblmnib"

	// DefaultUpdateURL is the update-check endpoint.
	DefaultUpdateURL = "https://clients2.google.com/service/update2/crx"

	// DefaultNamespace is the XML namespace of update-check responses.
	DefaultNamespace = "http://www.google.com/update2/response"

	// DefaultAcceptFormat is the package format requested from the update service.
	DefaultAcceptFormat = "crx3"

	// DefaultTag forces the service to return a full package instead of a diff.
	DefaultTag = "force_full"

	// DefaultMagic prefixes every package container.
	DefaultMagic = "Cr24"

	// DefaultHeaderLength is the size of the container header preceding the archive.
	DefaultHeaderLength = 16
)

var (
	errAppIDRequired     = errors.New("application id must be provided")
	errUpdateURLRequired = errors.New("update url must be provided")
	errNamespaceRequired = errors.New("xml namespace must be provided")
	errBadMagic          = errors.New("package magic must be exactly 4 bytes")
	errBadHeaderLength   = errors.New("header length must not be shorter than the magic")
)

// Descriptor describes the upstream component being mirrored.
// It is passed by value and never mutated after construction.
type Descriptor struct {
	// AppID is the application identifier sent in the update-check query.
	AppID string `yaml:"app_id" mapstructure:"app_id"`
	// UpdateURL is the update-check endpoint without query parameters.
	UpdateURL string `yaml:"update_url" mapstructure:"update_url"`
	// Namespace is the XML namespace of the update-check response.
	Namespace string `yaml:"namespace" mapstructure:"namespace"`
	// AcceptFormat is the requested package format.
	AcceptFormat string `yaml:"accept_format" mapstructure:"accept_format"`
	// Tag is sent as the tag query parameter.
	Tag string `yaml:"tag" mapstructure:"tag"`
	// Magic is the 4-byte marker every package must begin with.
	Magic string `yaml:"magic" mapstructure:"magic"`
	// HeaderLength is the fixed header size stripped before the archive.
	HeaderLength int `yaml:"header_length" mapstructure:"header_length"`
}

// DefaultDescriptor returns the descriptor of the real CRL set component.
func DefaultDescriptor() Descriptor {
	return Descriptor{
		AppID:        DefaultAppID,
		UpdateURL:    DefaultUpdateURL,
		Namespace:    DefaultNamespace,
		AcceptFormat: DefaultAcceptFormat,
		Tag:          DefaultTag,
		Magic:        DefaultMagic,
		HeaderLength: DefaultHeaderLength,
	}
}

// Validate checks that the descriptor is usable.
func (d Descriptor) Validate() error {
	if d.AppID == "" {
		return errAppIDRequired
	}

	if d.UpdateURL == "" {
		return errUpdateURLRequired
	}

	if _, err := url.ParseRequestURI(d.UpdateURL); err != nil {
		return fmt.Errorf("invalid update url: %w", err)
	}

	if d.Namespace == "" {
		return errNamespaceRequired
	}

	if len(d.Magic) != 4 {
		return errBadMagic
	}

	if d.HeaderLength < len(d.Magic) {
		return errBadHeaderLength
	}

	return nil
}
