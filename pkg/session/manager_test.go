package session

import (
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/cekat/assistant-gateway/pkg/profile"
)

func testManager(maxAge time.Duration) *Manager {
	factory := func(threadID string) *Orchestrator {
		return NewOrchestrator(threadID, profile.Default(), nil, nil, nil, zerolog.Nop())
	}
	return NewManager(factory, maxAge, zerolog.Nop())
}

func TestManagerGetReusesSession(t *testing.T) {
	m := testManager(time.Hour)

	a := m.Get("thread-1")
	b := m.Get("thread-1")
	if a != b {
		t.Fatalf("same thread should return the same orchestrator")
	}
	if m.Get("thread-2") == a {
		t.Fatalf("different threads must not share a session")
	}
	if m.Len() != 2 {
		t.Fatalf("len = %d, want 2", m.Len())
	}
}

func TestManagerDrop(t *testing.T) {
	m := testManager(time.Hour)
	m.Get("thread-1")
	m.Drop("thread-1")
	if m.Len() != 0 {
		t.Fatalf("len = %d after drop", m.Len())
	}
}

func TestManagerSweep(t *testing.T) {
	m := testManager(10 * time.Millisecond)
	stale := m.Get("stale")
	stale.History().AddUser("old message")

	time.Sleep(30 * time.Millisecond)
	fresh := m.Get("fresh")
	fresh.History().AddUser("new message")

	m.sweep()

	if m.Len() != 1 {
		t.Fatalf("len = %d after sweep, want 1", m.Len())
	}
	if m.Get("fresh") != fresh {
		t.Fatalf("fresh session should survive the sweep")
	}
}

func TestHistoryContextBlock(t *testing.T) {
	h := NewHistory()
	if h.ContextBlock(profile.DefaultModel, 100) != "" {
		t.Fatalf("empty history should render nothing")
	}

	h.AddUser("what is the capital of France?")
	h.AddAgent("Paris.")

	block := h.ContextBlock(profile.DefaultModel, 1000)
	if !strings.HasPrefix(block, "=== CONVERSATION CONTEXT ===") {
		t.Fatalf("block = %q", block)
	}
	if !strings.Contains(block, "User: what is the capital of France?") {
		t.Fatalf("missing user turn: %q", block)
	}
	if !strings.Contains(block, "Assistant: Paris.") {
		t.Fatalf("missing agent turn: %q", block)
	}
}

func TestHistoryContextBudget(t *testing.T) {
	h := NewHistory()
	h.AddUser(strings.Repeat("very long early message ", 100))
	h.AddAgent("short reply")

	block := h.ContextBlock(profile.DefaultModel, 20)
	if strings.Contains(block, "very long early message") {
		t.Fatalf("over-budget turn should be trimmed: %q", block)
	}
	if !strings.Contains(block, "short reply") {
		t.Fatalf("newest turn must always survive: %q", block)
	}
}

func TestHistoryIgnoresEmptyTurns(t *testing.T) {
	h := NewHistory()
	h.AddUser("   ")
	h.AddAgent("")
	if block := h.ContextBlock(profile.DefaultModel, 100); block != "" {
		t.Fatalf("whitespace turns should not be recorded: %q", block)
	}
}
