// Package errs defines the closed set of failure kinds surfaced by a scan.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies a scan failure. Callers branch on Kind, never on message text.
type Kind string

const (
	KindConfiguration  Kind = "configuration"
	KindContextBuild   Kind = "context_build"
	KindValidation     Kind = "validation"
	KindAnalysis       Kind = "analysis"
	KindInsight        Kind = "insight"
	KindFileProcessing Kind = "file_processing"
	KindUnknown        Kind = "unknown"
)

// Error is a tagged error carrying its kind and optional cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds a tagged error without a cause.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Newf builds a tagged error from a format string.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap tags an underlying error. Returns nil when err is nil.
func Wrap(kind Kind, msg string, err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// KindOf extracts the kind of err, or KindUnknown when untagged.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// Hint returns a kind-specific remediation hint for the CLI, empty when
// nothing actionable exists.
func Hint(kind Kind) string {
	switch kind {
	case KindConfiguration:
		return "run 'vulnsight config setup' to store an API key and model"
	case KindContextBuild:
		return "check the directory path and that it contains supported source files"
	case KindValidation:
		return "check the scan arguments and configuration values"
	case KindAnalysis:
		return "the analysis request failed; re-run the scan or try a different model"
	case KindInsight:
		return "the insight request failed; re-run the scan or try a different model"
	case KindFileProcessing:
		return "check that the file exists and is readable"
	default:
		return ""
	}
}
