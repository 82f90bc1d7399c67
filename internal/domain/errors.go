package domain

import (
	"errors"
	"fmt"
)

// ErrSetup marks failures that abort a run before any file is processed.
var ErrSetup = errors.New("setup error")

type ErrorKind string

const (
	ErrorKindUnsupportedFormat ErrorKind = "unsupported_format"
	ErrorKindConversion        ErrorKind = "conversion_failure"
	ErrorKindRemoteCall        ErrorKind = "remote_call_failure"
	ErrorKindResponseParse     ErrorKind = "response_parse_failure"
	ErrorKindUnknown           ErrorKind = "unknown"
)

// ExtractionError is the only error shape the retry wrapper reasons about.
type ExtractionError struct {
	Kind        ErrorKind
	Err         error
	RawResponse string // truncated model output, set for response_parse_failure
}

func NewExtractionError(kind ErrorKind, err error) *ExtractionError {
	return &ExtractionError{Kind: kind, Err: err}
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

func (e *ExtractionError) Retryable() bool {
	return e.Kind != ErrorKindUnsupportedFormat
}

// KindOf reports the kind of err, ErrorKindUnknown for foreign errors.
func KindOf(err error) ErrorKind {
	var extErr *ExtractionError
	if errors.As(err, &extErr) {
		return extErr.Kind
	}

	return ErrorKindUnknown
}

func IsRetryable(err error) bool {
	var extErr *ExtractionError
	if errors.As(err, &extErr) {
		return extErr.Retryable()
	}

	return true
}

func RawResponseOf(err error) string {
	var extErr *ExtractionError
	if errors.As(err, &extErr) {
		return extErr.RawResponse
	}

	return ""
}

// ErrorChain flattens the unwrap chain of err, outermost first.
func ErrorChain(err error) []string {
	var chain []string
	for err != nil {
		chain = append(chain, fmt.Sprintf("%T: %v", err, err))
		err = errors.Unwrap(err)
	}

	return chain
}
