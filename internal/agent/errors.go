package agent

import (
	"errors"
	"fmt"
)

// ErrNoResults is returned by the fetch stage when every provider answered
// but nothing usable came back.
var ErrNoResults = errors.New("no sources found")

// ErrNoInsights is returned by aggregation when no insight survived
// extraction and deduplication.
var ErrNoInsights = errors.New("no usable insights")

// InvalidRequestError rejects bad input before any network work happens.
type InvalidRequestError struct {
	Reason string
}

func (e *InvalidRequestError) Error() string {
	return fmt.Sprintf("invalid request: %s", e.Reason)
}

// RetrievalError is fatal to the request: every upstream provider failed or
// returned garbage.
type RetrievalError struct {
	Err error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("source retrieval failed: %v", e.Err)
}

func (e *RetrievalError) Unwrap() error { return e.Err }

// ExtractionError marks one source item as unusable. It is absorbed during
// aggregation and never aborts sibling items.
type ExtractionError struct {
	URL    string
	Reason string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed for %s: %s", e.URL, e.Reason)
}

// EmptyResultError is fatal: the pipeline ran but nothing survived to
// synthesize from.
type EmptyResultError struct {
	Stage string
	Err   error
}

func (e *EmptyResultError) Error() string {
	return fmt.Sprintf("no usable results after %s: %v", e.Stage, e.Err)
}

func (e *EmptyResultError) Unwrap() error { return e.Err }
