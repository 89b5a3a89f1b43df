// Package session owns the per-thread coordination: conversation
// history, the dispatch session, and the orchestrator that drives the
// agent runtime and forwards its stream to the UI.
package session

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cekat/assistant-gateway/pkg/agentrt"
)

// Turn is one recorded exchange unit.
type Turn struct {
	Role    string
	Content string
	At      time.Time
}

// History is the rolling conversation record for one thread. It backs
// the context block injected ahead of each agent turn.
type History struct {
	mu    sync.Mutex
	turns []Turn
	last  time.Time
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{last: time.Now()}
}

// AddUser records a user turn.
func (h *History) AddUser(content string) {
	h.add("User", content)
}

// AddAgent records an agent turn.
func (h *History) AddAgent(content string) {
	h.add("Assistant", content)
}

func (h *History) add(role, content string) {
	content = strings.TrimSpace(content)
	if content == "" {
		return
	}
	h.mu.Lock()
	h.turns = append(h.turns, Turn{Role: role, Content: content, At: time.Now()})
	h.last = time.Now()
	h.mu.Unlock()
}

// LastActive reports when the history last changed. Used by the
// manager's stale-session sweep.
func (h *History) LastActive() time.Time {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.last
}

// Clear drops all recorded turns.
func (h *History) Clear() {
	h.mu.Lock()
	h.turns = nil
	h.last = time.Now()
	h.mu.Unlock()
}

// ContextBlock renders recent turns, newest kept, trimmed to a token
// budget estimated for the given model. Empty when there is nothing
// worth injecting.
func (h *History) ContextBlock(model string, maxTokens int) string {
	h.mu.Lock()
	turns := make([]Turn, len(h.turns))
	copy(turns, h.turns)
	h.mu.Unlock()

	if len(turns) == 0 {
		return ""
	}

	var kept []string
	used := 0
	for i := len(turns) - 1; i >= 0; i-- {
		line := fmt.Sprintf("%s: %s", turns[i].Role, turns[i].Content)
		cost := agentrt.EstimateTokens(line, model)
		if used+cost > maxTokens && len(kept) > 0 {
			break
		}
		kept = append([]string{line}, kept...)
		used += cost
	}

	return "=== CONVERSATION CONTEXT ===\n" + strings.Join(kept, "\n") + "\n=== END CONTEXT ==="
}
