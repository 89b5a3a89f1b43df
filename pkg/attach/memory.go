package attach

import (
	"context"
	"fmt"
	"sync"

	"github.com/cekat/assistant-gateway/pkg/gwerrors"
)

type memoryEntry struct {
	ref  Ref
	data []byte
}

// MemoryStore keeps attachments in process memory. Used for tests and
// local development; production deployments use the S3 store.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*memoryEntry
}

// NewMemoryStore creates an empty in-memory attachment store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]*memoryEntry)}
}

func (s *MemoryStore) Create(_ context.Context, name, mimeType string, size int64) (Ref, error) {
	ref := Ref{
		ID:        NewID(mimeType),
		Name:      name,
		MimeType:  mimeType,
		SizeBytes: size,
	}
	s.mu.Lock()
	s.entries[ref.ID] = &memoryEntry{ref: ref}
	s.mu.Unlock()
	return ref, nil
}

func (s *MemoryStore) Put(_ context.Context, id string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[id]
	if !ok {
		return fmt.Errorf("put %s: %w", id, gwerrors.ErrAttachmentUnavailable)
	}
	entry.data = data
	entry.ref.SizeBytes = int64(len(data))
	if w, h, ok := SniffDimensions(data); ok {
		entry.ref.SourceHandle = fmt.Sprintf("mem:%s;%dx%d", id, w, h)
	}
	return nil
}

func (s *MemoryStore) Read(_ context.Context, ref Ref) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[ref.ID]
	if !ok || entry.data == nil {
		return nil, fmt.Errorf("read %s: %w", ref.ID, gwerrors.ErrAttachmentUnavailable)
	}
	return entry.data, nil
}

func (s *MemoryStore) Stat(_ context.Context, id string) (Ref, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[id]
	if !ok {
		return Ref{}, fmt.Errorf("stat %s: %w", id, gwerrors.ErrAttachmentUnavailable)
	}
	return entry.ref, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return fmt.Errorf("delete %s: %w", id, gwerrors.ErrAttachmentUnavailable)
	}
	delete(s.entries, id)
	return nil
}

// Seed inserts a fully populated attachment in one step. Test helper.
func (s *MemoryStore) Seed(ref Ref, data []byte) {
	s.mu.Lock()
	s.entries[ref.ID] = &memoryEntry{ref: ref, data: data}
	s.mu.Unlock()
}
