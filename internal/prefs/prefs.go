// Package prefs implements services.PreferencesManager on the local store.
package prefs

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Backend persists preference values
type Backend interface {
	AllPreferences(ctx context.Context) (map[string]string, error)
	SetPreference(ctx context.Context, key, value string) error
}

const writeTimeout = 5 * time.Second

// Manager is an in-memory view of the preferences table with write-through
type Manager struct {
	backend Backend

	// held across a cache update and its persist so writes reach the
	// backend in cache order
	writeMu sync.Mutex

	mu     sync.RWMutex
	values map[string]string
}

// New loads every stored preference from backend. A load failure is
// logged and the manager starts empty.
func New(ctx context.Context, backend Backend) *Manager {
	values, err := backend.AllPreferences(ctx)
	if err != nil {
		logrus.Errorf("failed to load preferences: %v", err)
		values = make(map[string]string)
	}
	return &Manager{backend: backend, values: values}
}

func (m *Manager) get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *Manager) set(key, value string) {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	m.mu.Lock()
	m.values[key] = value
	m.mu.Unlock()

	m.persist(key, value)
}

func (m *Manager) persist(key, value string) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := m.backend.SetPreference(ctx, key, value); err != nil {
		logrus.WithField("key", key).Errorf("failed to persist preference: %v", err)
	}
}

// Bool returns the preference at key, or def when unset or not a bool
func (m *Manager) Bool(key string, def bool) bool {
	v, ok := m.get(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func (m *Manager) SetBool(key string, v bool) {
	m.set(key, strconv.FormatBool(v))
}

// Int returns the preference at key, or def when unset or not an integer
func (m *Manager) Int(key string, def int) int {
	v, ok := m.get(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func (m *Manager) SetInt(key string, v int) {
	m.set(key, strconv.Itoa(v))
}

// IncrementInt adds one to the integer at key and returns the new value.
// An unset or non-integer value counts as zero.
func (m *Manager) IncrementInt(key string) int {
	m.writeMu.Lock()
	defer m.writeMu.Unlock()

	m.mu.Lock()
	n, err := strconv.Atoi(m.values[key])
	if err != nil {
		n = 0
	}
	n++
	value := strconv.Itoa(n)
	m.values[key] = value
	m.mu.Unlock()

	m.persist(key, value)
	return n
}

// String returns the preference at key, or def when unset
func (m *Manager) String(key string, def string) string {
	v, ok := m.get(key)
	if !ok {
		return def
	}
	return v
}

func (m *Manager) SetString(key string, v string) {
	m.set(key, v)
}
