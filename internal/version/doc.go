// Package version exposes build metadata for crlset-mirror.
//
// Version, Commit and BuildTime are injected at build time via ldflags.
// The strings rendered here appear in the `version` subcommand and in the
// User-Agent header sent to the update service.
package version
