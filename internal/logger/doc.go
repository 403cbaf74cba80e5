// Package logger provides a small wrapper around zap to offer:
//   - a global sugared logger with a console encoder that writes progress to
//     stdout and errors to stderr,
//   - context helpers (ToContext/FromContext/WithName/WithKV),
//   - level configuration and parsing utilities,
//   - key-value helpers for each level (DebugKV, InfoKV, WarnKV).
//
// Pipeline stages accept a context and extract the logger from it, so a run
// id and stage names attached once show up on every line.
package logger
