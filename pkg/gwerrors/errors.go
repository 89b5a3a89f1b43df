// Package gwerrors defines the gateway-wide error taxonomy.
// Tool and widget handlers never let these escape into the agent
// runtime or the UI event loop; every branch resolves to a structured
// result. The types here exist so the surrounding system can classify
// what went wrong after the fact.
package gwerrors

import (
	"errors"
	"fmt"
)

var (
	// ErrAttachmentUnavailable means the backing store could not supply
	// the attachment bytes (missing, expired, permission denied).
	ErrAttachmentUnavailable = errors.New("attachment unavailable")

	// ErrUnsupportedAttachmentType means a mime type has no mapping to
	// an agent input block.
	ErrUnsupportedAttachmentType = errors.New("unsupported attachment type")

	// ErrInvalidParams means tool parameters were malformed or missing.
	ErrInvalidParams = errors.New("invalid tool parameters")

	// ErrUnknownTool means the invocation named a tool outside the
	// registered set. Dispatch treats this as a forward-compatible
	// no-op, not a fault.
	ErrUnknownTool = errors.New("unknown tool")

	// ErrMissingURL means a widget action payload lacked its url field.
	ErrMissingURL = errors.New("missing url")
)

// FetchError reports a failed resource fetch (image download and
// similar). Surfaced to the user as a visible but non-fatal notice.
type FetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s failed: HTTP %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch %s failed: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// RelayError reports a failed backend widget-action relay. Always
// returned as a structured failure, never thrown to the UI layer.
type RelayError struct {
	Endpoint string
	Status   int
	Err      error
}

func (e *RelayError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("widget-action relay to %s failed: HTTP %d", e.Endpoint, e.Status)
	}
	return fmt.Sprintf("widget-action relay to %s failed: %v", e.Endpoint, e.Err)
}

func (e *RelayError) Unwrap() error {
	return e.Err
}

// IsFetchError checks whether err is a resource fetch failure.
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}

// IsRelayError checks whether err is a backend relay failure.
func IsRelayError(err error) bool {
	var re *RelayError
	return errors.As(err, &re)
}

// IsAttachmentUnavailable reports whether err means the attachment
// store could not supply bytes.
func IsAttachmentUnavailable(err error) bool {
	return errors.Is(err, ErrAttachmentUnavailable)
}
