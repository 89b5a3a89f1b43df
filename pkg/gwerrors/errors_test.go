package gwerrors

import (
	"errors"
	"fmt"
	"testing"
)

func TestFetchError(t *testing.T) {
	inner := errors.New("connection refused")
	err := &FetchError{URL: "https://x/y.png", Err: inner}
	if !IsFetchError(err) {
		t.Fatalf("IsFetchError should match")
	}
	if !errors.Is(err, inner) {
		t.Fatalf("FetchError should unwrap to its cause")
	}

	statusErr := &FetchError{URL: "https://x/y.png", Status: 404}
	if IsFetchError(nil) {
		t.Fatalf("nil is not a fetch error")
	}
	if statusErr.Error() == "" {
		t.Fatalf("status-only error needs a message")
	}
}

func TestRelayError(t *testing.T) {
	err := &RelayError{Endpoint: "/api/widget-action", Status: 502}
	if !IsRelayError(err) {
		t.Fatalf("IsRelayError should match")
	}
	if IsRelayError(errors.New("other")) {
		t.Fatalf("plain errors are not relay errors")
	}
}

func TestIsAttachmentUnavailable(t *testing.T) {
	wrapped := fmt.Errorf("read abc: %w", ErrAttachmentUnavailable)
	if !IsAttachmentUnavailable(wrapped) {
		t.Fatalf("wrapped sentinel should match")
	}
	if IsAttachmentUnavailable(errors.New("other")) {
		t.Fatalf("unrelated error should not match")
	}
}
