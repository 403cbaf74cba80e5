package crlset

import (
	"errors"
	"fmt"
	"math/big"
	"slices"
	"strings"
)

var errEmptyVersion = errors.New("version is empty")

// Version is a parsed dot-separated identifier of non-negative integers.
type Version struct {
	// raw is the text exactly as received; it is also the directory name.
	raw string
	// components holds the numeric parts in order.
	components []*big.Int
}

// ParseVersion parses s into a Version.
// Every dot-separated component must be a non-empty run of ASCII digits.
func ParseVersion(s string) (Version, error) {
	if s == "" {
		return Version{}, errEmptyVersion
	}

	parts := strings.Split(s, ".")
	components := make([]*big.Int, 0, len(parts))

	for _, part := range parts {
		if !isDigits(part) {
			return Version{}, fmt.Errorf("invalid version %q: component %q is not numeric", s, part)
		}

		// Components may exceed uint64 in theory; big.Int keeps the order exact.
		n, _ := new(big.Int).SetString(part, 10)
		components = append(components, n)
	}

	return Version{
		raw:        s,
		components: components,
	}, nil
}

// MustParseVersion is like ParseVersion but panics on malformed input.
// Intended for tests and compiled-in constants.
func MustParseVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}

	return v
}

// IsVersionName reports whether name is a valid version directory name.
func IsVersionName(name string) bool {
	_, err := ParseVersion(name)

	return err == nil
}

// String returns the original text of the version.
func (v Version) String() string {
	return v.raw
}

// IsZero reports whether v is the zero value.
func (v Version) IsZero() bool {
	return v.raw == ""
}

// Compare returns -1, 0 or +1 depending on whether v sorts before, equal to
// or after other. Components compare numerically; when one version is a
// prefix of the other, the longer one is greater.
func (v Version) Compare(other Version) int {
	for i := range min(len(v.components), len(other.components)) {
		if c := v.components[i].Cmp(other.components[i]); c != 0 {
			return c
		}
	}

	switch {
	case len(v.components) < len(other.components):
		return -1
	case len(v.components) > len(other.components):
		return 1
	default:
		return 0
	}
}

// SortVersions orders versions ascending in place.
func SortVersions(versions []Version) {
	slices.SortStableFunc(versions, Version.Compare)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}

	for i := range len(s) {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	return true
}
