// Package facts persists the facts the record_fact tool captures. The
// dispatcher only depends on the Store interface; the SQLite
// implementation backs the REST endpoints as well.
package facts

import (
	"context"
	"time"
)

// Status tracks a fact's lifecycle.
type Status string

const (
	StatusSaved     Status = "saved"
	StatusDiscarded Status = "discarded"
)

// Fact is one captured fact. ID doubles as the dedupe key upstream.
type Fact struct {
	ID        string    `json:"fact_id"`
	Text      string    `json:"fact_text"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store is the persistence contract behind the record_fact side effect
// and the /facts endpoints.
type Store interface {
	// Save upserts a fact as saved. Saving an existing id refreshes
	// its text and timestamp.
	Save(ctx context.Context, id, text string) (Fact, error)
	// Discard marks a fact discarded. Unknown ids return ErrNotFound.
	Discard(ctx context.Context, id string) (Fact, error)
	// Get fetches one fact by id.
	Get(ctx context.Context, id string) (Fact, error)
	// ListSaved returns saved facts, newest first.
	ListSaved(ctx context.Context) ([]Fact, error)
	// Close releases the backing resources.
	Close() error
}
