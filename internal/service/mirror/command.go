package mirror

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/oshokin/crlset-mirror/internal/config"
	"github.com/oshokin/crlset-mirror/internal/crx"
	"github.com/oshokin/crlset-mirror/internal/domain/crlset"
	"github.com/oshokin/crlset-mirror/internal/logger"
	"github.com/oshokin/crlset-mirror/internal/omaha"
	"github.com/oshokin/crlset-mirror/internal/repository/install"
	"github.com/oshokin/crlset-mirror/internal/transport"
	"github.com/oshokin/crlset-mirror/internal/version"
)

var errOptionsNotSet = errors.New("options are not set")

// Options are inputs accepted by the mirror entry points.
type Options struct {
	// Config holds the settings of the run; Config.Path is the root directory.
	Config *config.Config
}

// Report describes what a successful run did.
type Report struct {
	// Version is the version advertised by the update-check endpoint.
	Version crlset.Version
	// Path is the directory holding Version.
	Path string
	// UpToDate is true when Version was already installed and nothing was written.
	UpToDate bool
	// Pruned is the retention outcome; nil when the run stopped early.
	Pruned *install.PruneResult
}

// runner holds the collaborators of a single pipeline execution.
type runner struct {
	cfg     *config.Config
	repo    *install.Repository
	checker *omaha.Client
	fetcher *crx.Fetcher
}

// Run executes the pipeline and is the public entry point for the CLI.
// The caller reports the outcome, so failures are only logged at debug level.
func Run(ctx context.Context, opts *Options) (*Report, error) {
	ctx = logger.WithName(ctx, "crlset-mirror")
	ctx = logger.WithKV(ctx, "run_id", uuid.NewString())

	r, err := newRunner(opts)
	if err != nil {
		return nil, err
	}

	report, err := r.Run(ctx)
	if err != nil {
		logger.DebugKV(ctx, "Mirror run failed", "error", err)
		return nil, err
	}

	return report, nil
}

// List validates the root directory and returns installed versions in ascending order.
func List(ctx context.Context, opts *Options) ([]crlset.Version, error) {
	ctx = logger.WithName(ctx, "crlset-mirror")

	r, err := newRunner(opts)
	if err != nil {
		return nil, err
	}

	return r.repo.List(ctx)
}

// newRunner validates settings and the root directory before any network access.
func newRunner(opts *Options) (*runner, error) {
	if opts == nil || opts.Config == nil {
		return nil, fmt.Errorf("%w: %w", crlset.ErrInvalidInput, errOptionsNotSet)
	}

	cfg := opts.Config
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid settings: %w: %w", crlset.ErrInvalidInput, err)
	}

	root, err := config.ValidateRoot(cfg.Path)
	if err != nil {
		return nil, err
	}

	client := transport.New(
		transport.WithTimeout(cfg.Timeout),
		transport.WithUserAgent(version.UserAgent(cfg.UserAgent)),
	)

	return &runner{
		cfg:     cfg,
		repo:    install.NewRepository(root),
		checker: omaha.NewClient(client, cfg.Descriptor),
		fetcher: crx.NewFetcher(client, cfg.Descriptor),
	}, nil
}

// Run executes the workflow for this runner instance:
// 1) Ask the update-check endpoint for the latest version.
// 2) Stop if that version is already installed.
// 3) Download and validate the package.
// 4) Extract it into a new version directory.
// 5) Prune old versions.
func (r *runner) Run(ctx context.Context) (*Report, error) {
	logger.InfoKV(ctx, "Checking for the latest CRL set", "root", r.repo.Root())

	result, err := r.checker.CheckForUpdate(ctx)
	if err != nil {
		return nil, fmt.Errorf("check for update: %w", err)
	}

	report := &Report{
		Version: result.Version,
		Path:    r.repo.PathOf(result.Version),
	}

	installed, err := r.repo.IsInstalled(ctx, result.Version)
	if err != nil {
		return nil, fmt.Errorf("check installed versions: %w", err)
	}

	if installed {
		logger.DebugKV(ctx, "Version is already installed", "version", result.Version.String())

		report.UpToDate = true

		return report, nil
	}

	logger.InfoKV(ctx, "New CRL set available", "version", result.Version.String())

	pkg, err := r.fetcher.FetchPackage(ctx, result.DownloadURL)
	if err != nil {
		return nil, fmt.Errorf("fetch package: %w", err)
	}

	if report.Path, err = r.repo.Extract(ctx, pkg.Archive(), result.Version); err != nil {
		return nil, fmt.Errorf("extract package: %w", err)
	}

	logger.InfoKV(ctx, "Extracted CRL set", "path", report.Path)

	if report.Pruned, err = r.repo.PruneOldVersions(ctx, r.cfg.Keep); err != nil {
		return nil, fmt.Errorf("prune old versions: %w", err)
	}

	logger.DebugKV(ctx, "Pipeline finished",
		"version", result.Version.String(), "kept", len(report.Pruned.Kept), "deleted", len(report.Pruned.Deleted))

	return report, nil
}
