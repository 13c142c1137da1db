package chatbot

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/FACorreiaa/go-heritage-routes/internal/types"
)

const (
	defaultSessionTTL  = 2 * time.Hour
	defaultHistorySize = 8
)

// SessionStore keeps the recent conversation of each session. Idle sessions expire after the TTL.
type SessionStore struct {
	mu          sync.Mutex
	cache       *cache.Cache
	historySize int
	now         func() time.Time
}

func NewSessionStore(ttl time.Duration, historySize int) *SessionStore {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	if historySize <= 0 {
		historySize = defaultHistorySize
	}
	return &SessionStore{
		cache:       cache.New(ttl, 2*ttl),
		historySize: historySize,
		now:         time.Now,
	}
}

// Resolve returns id unchanged when non-blank, otherwise a fresh session id.
func (s *SessionStore) Resolve(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}

// Append adds messages to a session, trimming to the configured history size, and refreshes its TTL.
func (s *SessionStore) Append(id string, msgs ...types.ChatMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var history []types.ChatMessage
	if v, ok := s.cache.Get(id); ok {
		history = v.([]types.ChatMessage)
	}
	now := s.now()
	for _, m := range msgs {
		if m.Timestamp.IsZero() {
			m.Timestamp = now
		}
		history = append(history, m)
	}
	if extra := len(history) - s.historySize; extra > 0 {
		history = append([]types.ChatMessage(nil), history[extra:]...)
	}
	s.cache.SetDefault(id, history)
}

// History returns a copy of the session's messages, or false when the session is unknown or expired.
func (s *SessionStore) History(id string) ([]types.ChatMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.cache.Get(id)
	if !ok {
		return nil, false
	}
	history := v.([]types.ChatMessage)
	return append([]types.ChatMessage(nil), history...), true
}

// Clear drops a session. It reports whether the session existed.
func (s *SessionStore) Clear(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.cache.Get(id); !ok {
		return false
	}
	s.cache.Delete(id)
	return true
}

func (s *SessionStore) Len() int {
	return s.cache.ItemCount()
}
