// Package mirror runs the CRL set mirroring pipeline.
//
// A run queries the update-check endpoint, stops early when the advertised
// version is already installed, otherwise downloads and validates the
// package, extracts it atomically into the root directory and prunes old
// versions. Every failure is returned to the caller; nothing is retried.
package mirror
