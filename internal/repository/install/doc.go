// Package install manages installed CRL set versions under a root directory.
//
// Each installed version is a directory named after its version number; the
// directory listing is the only record of what is installed. The Repository
// answers "is this version installed", unpacks new versions atomically and
// prunes all but the most recent ones.
package install
