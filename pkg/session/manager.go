package session

import (
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Factory builds a new orchestrator for a thread that has no live
// session yet.
type Factory func(threadID string) *Orchestrator

// Manager keeps one live orchestrator per thread and sweeps out
// sessions that have gone idle past maxAge on a cron schedule.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Orchestrator
	factory  Factory
	maxAge   time.Duration
	cron     *cron.Cron
	log      zerolog.Logger
}

// NewManager creates a manager. Sessions idle longer than maxAge are
// dropped by the hourly sweep once Start is called.
func NewManager(factory Factory, maxAge time.Duration, log zerolog.Logger) *Manager {
	return &Manager{
		sessions: make(map[string]*Orchestrator),
		factory:  factory,
		maxAge:   maxAge,
		cron:     cron.New(),
		log:      log.With().Str("component", "session_manager").Logger(),
	}
}

// Start schedules the stale-session sweep.
func (m *Manager) Start() error {
	_, err := m.cron.AddFunc("@hourly", m.sweep)
	if err != nil {
		return err
	}
	m.cron.Start()
	return nil
}

// Stop halts the sweep schedule.
func (m *Manager) Stop() {
	m.cron.Stop()
}

// Get returns the live orchestrator for threadID, creating one on
// first use.
func (m *Manager) Get(threadID string) *Orchestrator {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o, ok := m.sessions[threadID]; ok {
		return o
	}
	o := m.factory(threadID)
	m.sessions[threadID] = o
	m.log.Debug().Str("thread_id", threadID).Msg("Created session")
	return o
}

// Drop removes a thread's session, if any.
func (m *Manager) Drop(threadID string) {
	m.mu.Lock()
	delete(m.sessions, threadID)
	m.mu.Unlock()
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) sweep() {
	cutoff := time.Now().Add(-m.maxAge)
	m.mu.Lock()
	var dropped int
	for id, o := range m.sessions {
		if o.History().LastActive().Before(cutoff) {
			delete(m.sessions, id)
			dropped++
		}
	}
	remaining := len(m.sessions)
	m.mu.Unlock()
	if dropped > 0 {
		m.log.Info().Int("dropped", dropped).Int("remaining", remaining).Msg("Swept stale sessions")
	}
}
