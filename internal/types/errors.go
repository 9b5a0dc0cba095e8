package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	ErrCustomURLRequired = errors.New("custom URL required when site is \"custom\"")
	ErrInvalidURL        = errors.New("invalid URL")
)

// FetchError wraps errors that occur during fetching. Fetch failures
// degrade to "treat this page as empty" at the point of use; they are
// never propagated past discovery or the crawler.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch error for %s (status %d): %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch error for %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ExtractError wraps errors that occur while extracting a field or
// container from page markup. Caught per field: the field is left
// empty rather than the record dropped.
type ExtractError struct {
	URL      string
	Selector string
	Err      error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("extract error for %s (selector=%q): %v", e.URL, e.Selector, e.Err)
}

func (e *ExtractError) Unwrap() error { return e.Err }

// StorageError wraps errors that occur while persisting artifacts.
type StorageError struct {
	Backend string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error (%s): %v", e.Backend, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// ConfigError is a rejected request: bad site key handling, missing
// required inputs. Surfaced to the caller, never silently substituted,
// except where config documents an explicit fallback.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error (%s): %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }
