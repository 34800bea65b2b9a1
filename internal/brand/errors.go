package brand

import (
	"errors"
	"fmt"
)

// FetchError indicates document retrieval failed. It is the only error
// that aborts the pipeline: without a document there is nothing to
// extract from.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// ProviderError wraps a single failed screenshot or vision attempt. It
// is always recovered locally by retry or provider advance and never
// reaches the caller.
type ProviderError struct {
	Provider string
	Attempt  int
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s attempt %d: %v", e.Provider, e.Attempt, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// IsFetchError reports whether err is (or wraps) a FetchError.
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}
