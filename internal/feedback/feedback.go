// Package feedback decides when to ask for an app review and records
// feedback messages.
package feedback

import (
	"context"
	"strings"

	"github.com/meur/battlebuddy/internal/services"
	"github.com/meur/battlebuddy/internal/storage"
	"github.com/sirupsen/logrus"
)

const (
	PrefLaunchCount    = "feedback.launch_count"
	PrefReviewPrompted = "feedback.review_prompted"
)

// Store persists feedback messages
type Store interface {
	SaveFeedback(ctx context.Context, message, contact string) (*storage.Feedback, error)
}

// Manager implements services.FeedbackManager
type Manager struct {
	prefs       services.PreferencesManager
	store       Store
	promptAfter int
}

// New creates a Manager that asks for a review after promptAfter launches
func New(prefs services.PreferencesManager, store Store, promptAfter int) *Manager {
	if promptAfter < 1 {
		promptAfter = 1
	}
	return &Manager{prefs: prefs, store: store, promptAfter: promptAfter}
}

func (m *Manager) RecordAppLaunch() {
	n := m.prefs.IncrementInt(PrefLaunchCount)
	logrus.WithField("launches", n).Debug("app launch recorded")
}

// ShouldPromptForReview is true once enough launches were recorded and the
// user has never been prompted
func (m *Manager) ShouldPromptForReview() bool {
	if m.prefs.Bool(PrefReviewPrompted, false) {
		return false
	}
	return m.prefs.Int(PrefLaunchCount, 0) >= m.promptAfter
}

func (m *Manager) MarkReviewPrompted() {
	m.prefs.SetBool(PrefReviewPrompted, true)
}

// SubmitFeedback stores message and calls completion once with the outcome.
// A blank message completes with false without touching the store.
func (m *Manager) SubmitFeedback(ctx context.Context, message, contact string, completion func(ok bool)) {
	go func() {
		if strings.TrimSpace(message) == "" {
			completion(false)
			return
		}

		f, err := m.store.SaveFeedback(ctx, message, contact)
		if err != nil {
			logrus.Errorf("failed to save feedback: %v", err)
			completion(false)
			return
		}

		logrus.WithField("feedback_id", f.ID).Info("feedback submitted")
		completion(true)
	}()
}
