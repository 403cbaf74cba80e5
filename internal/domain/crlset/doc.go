// Package crlset contains core domain types for mirroring CRL set components.
//
// It defines Version (a dot-separated numeric identifier that doubles as the
// install directory name) together with the error classes every pipeline
// stage reports, and the mapping from those classes to process exit codes.
package crlset
