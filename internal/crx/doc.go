// Package crx downloads and validates the package container that wraps a CRL set.
//
// A container starts with a 4-byte magic marker and a fixed-size header;
// the embedded zip archive follows the header.
package crx
