// Package metadata caches the remote global metadata document and formats
// calibers with it.
package metadata

import (
	"context"
	"sync"
	"time"

	"github.com/meur/battlebuddy/internal/models"
	"github.com/meur/battlebuddy/internal/services"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// fetchTimeout bounds a shared fetch that no caller can cancel
const fetchTimeout = time.Minute

// Manager implements services.GlobalMetadataManager
type Manager struct {
	requestor services.HTTPRequestor
	url       string
	headers   map[string]string

	group singleflight.Group

	mu      sync.RWMutex
	current *models.GlobalMetadata
}

// New creates a Manager fetching url with headers through requestor
func New(requestor services.HTTPRequestor, url string, headers map[string]string) *Manager {
	return &Manager{
		requestor: requestor,
		url:       url,
		headers:   headers,
	}
}

// GlobalMetadata returns the last successfully fetched document
func (m *Manager) GlobalMetadata() (*models.GlobalMetadata, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current, m.current != nil
}

// UpdateGlobalMetadata fetches and parses a fresh document, then calls
// handler exactly once with it, or with nil on failure. Overlapping calls
// share one request, which runs detached from any single caller's ctx;
// each caller stops waiting when its own ctx is done. A failure keeps the
// previous value.
func (m *Manager) UpdateGlobalMetadata(ctx context.Context, handler func(*models.GlobalMetadata)) {
	go func() {
		shared := m.group.DoChan(m.url, func() (interface{}, error) {
			fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), fetchTimeout)
			defer cancel()
			return m.refresh(fetchCtx), nil
		})

		select {
		case res := <-shared:
			handler(res.Val.(*models.GlobalMetadata))
		case <-ctx.Done():
			handler(nil)
		}
	}()
}

func (m *Manager) refresh(ctx context.Context) *models.GlobalMetadata {
	doc := m.fetch(ctx)
	if doc == nil {
		logrus.WithField("url", m.url).Warn("global metadata fetch failed")
		return nil
	}

	parsed, ok := models.ParseGlobalMetadata(doc)
	if !ok {
		logrus.WithField("url", m.url).Warn("global metadata document is malformed")
		return nil
	}

	m.mu.Lock()
	m.current = &parsed
	m.mu.Unlock()

	logrus.WithFields(logrus.Fields{
		"calibers":    len(parsed.AmmoMetadata),
		"total_users": parsed.TotalUserCount,
	}).Info("global metadata updated")
	return &parsed
}

// fetch bridges the requestor's completion into a blocking call
func (m *Manager) fetch(ctx context.Context) models.Document {
	result := make(chan models.Document, 1)
	m.requestor.SendGetRequest(ctx, m.url, m.headers, func(doc models.Document) {
		result <- doc
	})

	select {
	case doc := <-result:
		return doc
	case <-ctx.Done():
		return nil
	}
}
