// Package storage provides the in-memory panel expansion store.
package storage

import (
	"fmt"
	"sync"

	"github.com/hammamikhairi/tworooms/internal/domain"
	"github.com/hammamikhairi/tworooms/internal/logger"
)

// Compile-time interface check.
var _ domain.PanelStore = (*MemoryStore)(nil)

// Panel roles used in keys.
const (
	RoleClient    = "client"    // the client's interior
	RoleResponder = "responder" // therapist interior or AI process note
)

// Key builds the panel key for an entry, e.g. "ai-client-3".
func Key(side domain.ScriptID, role string, index int) string {
	return fmt.Sprintf("%s-%s-%d", side, role, index)
}

// MemoryStore holds panel expand/collapse flags. A key that was never
// toggled reads as expanded. Safe for concurrent access.
type MemoryStore struct {
	mu     sync.RWMutex
	panels map[string]bool
	log    *logger.Logger
}

// NewMemoryStore creates a store with every panel expanded.
func NewMemoryStore(log *logger.Logger) *MemoryStore {
	return &MemoryStore{
		panels: make(map[string]bool),
		log:    log,
	}
}

// Expanded reports whether the panel is open.
func (s *MemoryStore) Expanded(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	open, ok := s.panels[key]
	if !ok {
		return true
	}
	return open
}

// Toggle flips the panel's effective state and returns the new value.
func (s *MemoryStore) Toggle(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	open, ok := s.panels[key]
	if !ok {
		open = true
	}
	s.panels[key] = !open
	s.log.Debug("panel %s expanded=%t", key, !open)
	return !open
}

// Reset forgets every flag, so all panels read as expanded again.
func (s *MemoryStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.log.Debug("resetting %d panel flags", len(s.panels))
	clear(s.panels)
}
