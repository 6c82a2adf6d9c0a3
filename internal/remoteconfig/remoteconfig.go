// Package remoteconfig serves remotely tuned values, falling back to local
// defaults until a fetch succeeds.
package remoteconfig

import (
	"context"
	"encoding/json"
	"math"
	"sync"

	"github.com/meur/battlebuddy/internal/models"
	"github.com/meur/battlebuddy/internal/services"
	"github.com/sirupsen/logrus"
)

// Manager implements services.RemoteConfigManager
type Manager struct {
	requestor services.HTTPRequestor
	url       string
	headers   map[string]string

	mu     sync.RWMutex
	values models.Document
}

// New creates a Manager. An empty url disables fetching.
func New(requestor services.HTTPRequestor, url string, headers map[string]string) *Manager {
	return &Manager{
		requestor: requestor,
		url:       url,
		headers:   headers,
		values:    models.Document{},
	}
}

// Fetch replaces the active values with the remote document and calls
// completion once. On failure the previous values stay active.
func (m *Manager) Fetch(ctx context.Context, completion func(ok bool)) {
	if m.url == "" {
		go completion(false)
		return
	}

	m.requestor.SendGetRequest(ctx, m.url, m.headers, func(doc models.Document) {
		if doc == nil {
			logrus.WithField("url", m.url).Warn("remote config fetch failed, keeping previous values")
			completion(false)
			return
		}

		m.mu.Lock()
		m.values = doc
		m.mu.Unlock()

		logrus.WithField("keys", len(doc)).Info("remote config updated")
		completion(true)
	})
}

func (m *Manager) lookup(key string) (interface{}, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *Manager) String(key string, def string) string {
	if s, ok := m.lookup(key); ok {
		if s, ok := s.(string); ok {
			return s
		}
	}
	return def
}

func (m *Manager) Bool(key string, def bool) bool {
	if b, ok := m.lookup(key); ok {
		if b, ok := b.(bool); ok {
			return b
		}
	}
	return def
}

// Int returns an integer value, truncating fractional numbers toward zero
func (m *Manager) Int(key string, def int) int {
	v, ok := m.lookup(key)
	if !ok {
		return def
	}

	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i)
		}
		if f, err := n.Float64(); err == nil && !math.IsInf(f, 0) {
			return int(f)
		}
	case float64:
		if !math.IsNaN(n) && !math.IsInf(n, 0) {
			return int(n)
		}
	case int:
		return n
	case int64:
		return int(n)
	}
	return def
}
