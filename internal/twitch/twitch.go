// Package twitch keeps the list of live streams of the game.
package twitch

import (
	"context"
	"sync"

	"github.com/meur/battlebuddy/internal/models"
	"github.com/meur/battlebuddy/internal/services"
	"github.com/sirupsen/logrus"
)

// Manager implements services.TwitchManager over a Helix streams endpoint
type Manager struct {
	requestor services.HTTPRequestor
	url       string
	headers   map[string]string

	mu      sync.RWMutex
	streams []models.Stream
}

// New creates a Manager. An empty url disables fetching.
func New(requestor services.HTTPRequestor, url string, headers map[string]string) *Manager {
	return &Manager{
		requestor: requestor,
		url:       url,
		headers:   headers,
		streams:   []models.Stream{},
	}
}

// LiveStreams returns a copy of the last fetched streams
func (m *Manager) LiveStreams() []models.Stream {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]models.Stream{}, m.streams...)
}

// UpdateLiveStreams fetches the current streams and calls handler once.
// On failure handler gets nil and the previous list stays.
func (m *Manager) UpdateLiveStreams(ctx context.Context, handler func([]models.Stream)) {
	if m.url == "" {
		go handler(nil)
		return
	}

	m.requestor.SendGetRequest(ctx, m.url, m.headers, func(doc models.Document) {
		if doc == nil {
			logrus.WithField("url", m.url).Warn("twitch streams fetch failed")
			handler(nil)
			return
		}

		streams, ok := models.ParseStreams(doc)
		if !ok {
			logrus.WithField("url", m.url).Warn("twitch streams response is malformed")
			handler(nil)
			return
		}

		m.mu.Lock()
		m.streams = streams
		m.mu.Unlock()

		logrus.WithField("live", len(streams)).Info("twitch streams updated")
		handler(append([]models.Stream{}, streams...))
	})
}
