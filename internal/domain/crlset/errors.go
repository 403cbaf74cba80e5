package crlset

import "errors"

// Error classes reported by the mirroring pipeline.
// Callers wrap them with context using fmt.Errorf("...: %w", err).
var (
	// ErrInvalidInput means the supplied root directory is missing or misnamed.
	ErrInvalidInput = errors.New("invalid input")
	// ErrTransport covers network failures, timeouts and non-2xx responses.
	ErrTransport = errors.New("transport error")
	// ErrProtocolParse means the update-check response could not be understood.
	ErrProtocolParse = errors.New("update-check response parse error")
	// ErrFormat means the downloaded package no longer matches the expected container format.
	ErrFormat = errors.New("package format changed, please report this upstream")
	// ErrAlreadyExists means the target version directory exists at extraction time.
	ErrAlreadyExists = errors.New("version directory already exists")
	// ErrArchive means the embedded archive could not be unpacked.
	ErrArchive = errors.New("archive extraction failed")
	// ErrUnsafePath means retention computed a deletion target it refuses to touch.
	ErrUnsafePath = errors.New("unsafe deletion target")
)

// Process exit codes per error class.
const (
	ExitOK = iota
	ExitUnknown
	ExitInvalidInput
	ExitTransport
	ExitProtocolParse
	ExitFormat
	ExitAlreadyExists
	ExitArchive
	ExitUnsafePath
)

// ExitCode maps an error returned by the pipeline to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, ErrInvalidInput):
		return ExitInvalidInput
	case errors.Is(err, ErrTransport):
		return ExitTransport
	case errors.Is(err, ErrProtocolParse):
		return ExitProtocolParse
	case errors.Is(err, ErrFormat):
		return ExitFormat
	case errors.Is(err, ErrAlreadyExists):
		return ExitAlreadyExists
	case errors.Is(err, ErrArchive):
		return ExitArchive
	case errors.Is(err, ErrUnsafePath):
		return ExitUnsafePath
	default:
		return ExitUnknown
	}
}
