package omaha

import (
	"context"
	"fmt"
	"net/url"

	"github.com/oshokin/crlset-mirror/internal/config"
	"github.com/oshokin/crlset-mirror/internal/domain/crlset"
	"github.com/oshokin/crlset-mirror/internal/logger"
)

// Getter fetches a URL and returns its body.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Result is the outcome of a successful update check.
type Result struct {
	// Version is the latest version advertised for the application.
	Version crlset.Version
	// DownloadURL is where the package for Version can be fetched.
	DownloadURL string
	// Status is the updatecheck status attribute, usually "ok".
	Status string
}

// Client performs update checks for a single application.
type Client struct {
	getter     Getter
	descriptor config.Descriptor
}

// NewClient creates a Client for the application described by descriptor.
func NewClient(getter Getter, descriptor config.Descriptor) *Client {
	return &Client{
		getter:     getter,
		descriptor: descriptor,
	}
}

// CheckForUpdate asks the endpoint for the latest version.
// The query always carries an empty current version, so the endpoint reports
// the latest release rather than "no update".
func (c *Client) CheckForUpdate(ctx context.Context) (*Result, error) {
	queryURL, err := BuildQueryURL(c.descriptor)
	if err != nil {
		return nil, err
	}

	logger.DebugKV(ctx, "Requesting update check", "url", queryURL)

	body, err := c.getter.Get(ctx, queryURL)
	if err != nil {
		return nil, fmt.Errorf("update check request: %w", err)
	}

	result, err := ParseResponse(body, c.descriptor)
	if err != nil {
		return nil, err
	}

	logger.DebugKV(ctx, "Update check parsed",
		"version", result.Version.String(), "codebase", result.DownloadURL, "status", result.Status)

	return result, nil
}

// BuildQueryURL returns the update-check URL for descriptor.
// Query parameters already present in the endpoint URL are preserved.
func BuildQueryURL(descriptor config.Descriptor) (string, error) {
	endpoint, err := url.Parse(descriptor.UpdateURL)
	if err != nil {
		return "", fmt.Errorf("parse update url: %w", err)
	}

	query := endpoint.Query()
	// "uc" is a bare flag with no value, which url.Values cannot express.
	query.Set("x", "id="+url.QueryEscape(descriptor.AppID)+"&v=&uc&acceptformat="+url.QueryEscape(descriptor.AcceptFormat))

	if descriptor.Tag != "" {
		query.Set("tag", descriptor.Tag)
	}

	endpoint.RawQuery = query.Encode()

	return endpoint.String(), nil
}
