package ingest

import (
	"errors"
	"fmt"
)

// Kind classifies ingestion failures so callers can report them distinctly.
type Kind string

const (
	KindUnknown                  Kind = "unknown"
	KindInvalidURL               Kind = "invalid_url"
	KindFetchFailed              Kind = "fetch_failed"
	KindEmptyContent             Kind = "empty_content"
	KindMetadataExtractionFailed Kind = "metadata_extraction_failed"
	KindExtractionTimeout        Kind = "extraction_timeout"
	KindExtractionServiceError   Kind = "extraction_service_error"
	KindInvalidResponseFormat    Kind = "invalid_response_format"
	KindPersistenceFailed        Kind = "persistence_failed"
)

// Error is a classified ingestion failure attached to a single item or book.
// Failures never propagate past the item boundary; the pipeline records them
// and moves on.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewError wraps err with an ingestion failure kind.
func NewError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// Errorf builds a classified failure from a format string.
func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// KindOf extracts the failure kind from an error chain, or KindUnknown when
// the error carries no classification.
func KindOf(err error) Kind {
	var ie *Error
	if errors.As(err, &ie) {
		return ie.Kind
	}
	return KindUnknown
}
