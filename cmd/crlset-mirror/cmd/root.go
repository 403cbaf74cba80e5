package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/oshokin/crlset-mirror/internal/config"
	"github.com/oshokin/crlset-mirror/internal/domain/crlset"
	"github.com/oshokin/crlset-mirror/internal/logger"
	"github.com/oshokin/crlset-mirror/internal/service/mirror"
	"github.com/oshokin/crlset-mirror/internal/version"
)

// flags are the command-line inputs shared by every subcommand.
type flags struct {
	// configPath to the optional configuration YAML file.
	configPath string
	// rootPath is the CertificateRevocation directory.
	rootPath string
	// keep is how many versions survive pruning.
	keep int
	// timeout bounds every HTTP request.
	timeout time.Duration
	// logLevel is the minimum log level.
	logLevel string
}

// NewRootCommand builds the crlset-mirror command tree.
func NewRootCommand() *cobra.Command {
	f := new(flags)

	root := &cobra.Command{
		Use:   "crlset-mirror --path <dir>",
		Short: "Download the latest CRL set and keep the most recent versions",
		Long: `Download the latest CRLSet component from the update service and extract it
into the given CertificateRevocation directory, for browsers that do not fetch
it themselves. Older versions beyond --keep are deleted, so do not store
anything you care about inside the version directories.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := f.options(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			report, err := mirror.Run(ctx, opts)
			if err != nil {
				return err
			}

			if report.UpToDate {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Already up to date (%s).\n", report.Version)
				return nil
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Successfully updated CRL set to %s.\n", report.Version)

			return nil
		},
	}

	root.PersistentFlags().StringVarP(&f.configPath, "config", "c", "", "path to configuration file (default "+config.DefaultConfigFilename+" if present)")
	root.PersistentFlags().StringVarP(&f.rootPath, "path", "p", "", "the CertificateRevocation directory to extract the CRL set into")
	root.PersistentFlags().IntVarP(&f.keep, "keep", "k", config.DefaultKeep, "number of most recent versions to keep")
	root.PersistentFlags().DurationVarP(&f.timeout, "timeout", "t", config.DefaultTimeout, "timeout of each HTTP request")
	root.PersistentFlags().StringVarP(&f.logLevel, "log-level", "l", config.DefaultLogLevel, "log level (debug, info, warn, error)")

	root.AddCommand(newListCommand(f))
	version.AttachCobraVersionCommand(root)

	return root
}

// Execute runs the crlset-mirror CLI and exits with a per-error-class status on failure.
func Execute() {
	root := NewRootCommand()

	if err := root.ExecuteContext(context.Background()); err != nil {
		_, _ = fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
		os.Exit(crlset.ExitCode(err))
	}
}

// options merges the settings file, environment and explicitly set flags, and
// applies the log level.
func (f *flags) options(cmd *cobra.Command) (*mirror.Options, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w: %w", crlset.ErrInvalidInput, err)
	}

	changed := cmd.Flags().Changed

	if changed("path") {
		cfg.Path = f.rootPath
	}

	if changed("keep") {
		cfg.Keep = f.keep
	}

	if changed("timeout") {
		cfg.Timeout = f.timeout
	}

	if changed("log-level") {
		cfg.LogLevel = f.logLevel
	}

	level, ok := logger.ParseLogLevel(cfg.LogLevel)
	if !ok {
		return nil, fmt.Errorf("unknown log level %q: %w", cfg.LogLevel, crlset.ErrInvalidInput)
	}

	logger.SetLevel(level)

	return &mirror.Options{Config: cfg}, nil
}
