// Package attach provides attachment references and the byte-retrieval
// boundary to the content-addressed attachment store. The converter and
// HTTP layer hold references only; raw bytes stay inside the scope of a
// single read.
package attach

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Ref identifies an attachment held by the store. The store owns the
// bytes; a Ref never carries them.
type Ref struct {
	ID           string `json:"id"`
	Name         string `json:"name,omitempty"`
	MimeType     string `json:"mime_type"`
	SizeBytes    int64  `json:"size"`
	SourceHandle string `json:"source_handle,omitempty"`
}

// IsImage reports whether the attachment carries an image mime type.
func (r Ref) IsImage() bool {
	return strings.HasPrefix(r.MimeType, "image/")
}

// Reader resolves an attachment reference to its raw bytes. Content
// type comes from the Ref metadata, never inferred from the bytes.
//
// Implementations do not retry; the caller decides whether to fail the
// whole turn or degrade by omitting the attachment.
type Reader interface {
	Read(ctx context.Context, ref Ref) ([]byte, error)
}

// Store is the full attachment store surface consumed by the HTTP
// layer: two-phase create/upload plus retrieval and deletion.
type Store interface {
	Reader

	// Create registers metadata and returns the Ref the client uploads
	// against (phase 1 of the two-phase upload).
	Create(ctx context.Context, name, mimeType string, size int64) (Ref, error)

	// Put stores the bytes for a previously created attachment
	// (phase 2). Storing against an unknown id fails.
	Put(ctx context.Context, id string, data []byte) error

	// Stat returns the Ref for a stored attachment.
	Stat(ctx context.Context, id string) (Ref, error)

	// Delete removes the attachment and its metadata.
	Delete(ctx context.Context, id string) error
}

// NewID generates an attachment id from the mime type and a random
// UUID, hashed so ids stay opaque and fixed-width.
func NewID(mimeType string) string {
	sum := md5.Sum([]byte(fmt.Sprintf("%s_%s", mimeType, uuid.NewString())))
	return hex.EncodeToString(sum[:])
}
