package session

import (
	"context"
	"sync"
	"time"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"svc-forge/internal/model"
	"svc-forge/internal/upload"
	"svc-forge/internal/upstream"
)

// Manager owns the live sessions. Sessions are in-memory only: an
// abandoned flow is garbage, not a record, so idle ones are swept after
// the configured TTL instead of being persisted anywhere.
type Manager struct {
	client   upstream.Client
	uploads  upload.Store
	validate *validatorv10.Validate
	logger   zerolog.Logger
	ttl      time.Duration

	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session

	done    chan struct{}
	stopped sync.Once
}

// NewManager creates the session manager and starts its idle sweeper.
func NewManager(client upstream.Client, uploads upload.Store, v *validatorv10.Validate, ttl, sweepEvery time.Duration, logger zerolog.Logger) *Manager {
	m := &Manager{
		client:   client,
		uploads:  uploads,
		validate: v,
		logger:   logger.With().Str("component", "session-manager").Logger(),
		ttl:      ttl,
		sessions: make(map[uuid.UUID]*Session),
		done:     make(chan struct{}),
	}

	go m.sweepLoop(sweepEvery)
	return m
}

// Create starts a new session for the given service, fetching and
// normalizing its schema.
func (m *Manager) Create(ctx context.Context, serviceID string) (*Session, error) {
	id := uuid.New()
	s, err := newSession(ctx, id, serviceID, m.client, m.uploads, m.validate, m.logger)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.sessions[id] = s
	count := len(m.sessions)
	m.mu.Unlock()

	m.logger.Debug().Str("session_id", id.String()).Int("active_sessions", count).Msg("session registered")
	return s, nil
}

// Get returns the session with the given id.
func (m *Manager) Get(id string) (*Session, error) {
	sid, err := uuid.Parse(id)
	if err != nil {
		return nil, model.ErrSessionNotFound
	}

	m.mu.RLock()
	s, ok := m.sessions[sid]
	m.mu.RUnlock()
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	return s, nil
}

// Delete discards a session and its staged uploads.
func (m *Manager) Delete(ctx context.Context, id string) error {
	sid, err := uuid.Parse(id)
	if err != nil {
		return model.ErrSessionNotFound
	}

	m.mu.Lock()
	s, ok := m.sessions[sid]
	delete(m.sessions, sid)
	m.mu.Unlock()
	if !ok {
		return model.ErrSessionNotFound
	}

	s.discard(ctx)
	m.logger.Debug().Str("session_id", id).Msg("session discarded")
	return nil
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Close stops the sweeper. Live sessions are dropped with the process.
func (m *Manager) Close() {
	m.stopped.Do(func() { close(m.done) })
}

func (m *Manager) sweepLoop(every time.Duration) {
	if every <= 0 {
		every = time.Minute
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.sweep()
		}
	}
}

// sweep drops sessions idle past the TTL.
func (m *Manager) sweep() {
	cutoff := time.Now().Add(-m.ttl)

	m.mu.Lock()
	var expired []*Session
	for id, s := range m.sessions {
		if s.idleSince().Before(cutoff) {
			delete(m.sessions, id)
			expired = append(expired, s)
		}
	}
	m.mu.Unlock()

	if len(expired) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, s := range expired {
		s.discard(ctx)
	}
	m.logger.Info().Int("count", len(expired)).Msg("idle sessions swept")
}
