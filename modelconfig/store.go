package modelconfig

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	// ErrNotBuilt is returned when a configuration is read before it was built
	ErrNotBuilt = errors.New("model configuration not built")
	// ErrAlreadyBuilt is returned by Put when the connection already has a configuration
	ErrAlreadyBuilt = errors.New("model configuration already built")
	// ErrNilConfiguration is returned when a nil configuration is stored
	ErrNilConfiguration = errors.New("nil model configuration")
)

// Store holds one configuration per connection. Configurations are written once
// and only read afterwards; Replace is the explicit way to rebuild one.
type Store struct {
	mu      sync.RWMutex
	configs map[string]*Configuration
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{configs: make(map[string]*Configuration)}
}

// Put stores the configuration of its connection
func (s *Store) Put(cfg *Configuration) error {
	if cfg == nil {
		return ErrNilConfiguration
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.configs[cfg.Connection]; ok {
		return fmt.Errorf("connection %q: %w", cfg.Connection, ErrAlreadyBuilt)
	}
	s.configs[cfg.Connection] = cfg
	return nil
}

// PutAll stores every configuration of a set
func (s *Store) PutAll(set Set) error {
	for _, name := range set.Connections() {
		if err := s.Put(set[name]); err != nil {
			return err
		}
	}
	return nil
}

// Replace stores the configuration, discarding any previous one for the connection
func (s *Store) Replace(cfg *Configuration) error {
	if cfg == nil {
		return ErrNilConfiguration
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.configs[cfg.Connection] = cfg
	return nil
}

// Get returns the configuration of a connection
func (s *Store) Get(connection string) (*Configuration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cfg, ok := s.configs[connection]
	if !ok {
		return nil, fmt.Errorf("connection %q: %w", connection, ErrNotBuilt)
	}
	return cfg, nil
}

// Connections returns the connection names of a set in sorted order
func (s Set) Connections() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
