// Package session implements services.SessionManager with anonymous sessions.
package session

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/meur/battlebuddy/internal/services"
	"github.com/sirupsen/logrus"
)

// Preference keys owned by the session
const (
	PrefUserID  = "session.user_id"
	PrefSignIns = "session.sign_ins"
)

// Authenticator signs the user in and returns their user ID
type Authenticator interface {
	SignIn(ctx context.Context) (string, error)
}

// PreferencesAuthenticator resumes the anonymous user saved in preferences,
// or creates and saves a new one
type PreferencesAuthenticator struct {
	Prefs services.PreferencesManager
}

func (a PreferencesAuthenticator) SignIn(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if id := a.Prefs.String(PrefUserID, ""); id != "" {
		return id, nil
	}

	id := uuid.New().String()
	a.Prefs.SetString(PrefUserID, id)
	a.Prefs.IncrementInt(PrefSignIns)
	logrus.WithField("user_id", id).Info("created anonymous user")
	return id, nil
}

// Manager owns the current session
type Manager struct {
	auth Authenticator

	// serializes initializations
	initMu sync.Mutex

	mu       sync.RWMutex
	userID   string
	delegate services.SessionDelegate
}

// New creates a Manager that signs in through auth
func New(auth Authenticator) *Manager {
	return &Manager{auth: auth}
}

// SetDelegate replaces the delegate notified when initialization finishes
func (m *Manager) SetDelegate(d services.SessionDelegate) {
	m.mu.Lock()
	m.delegate = d
	m.mu.Unlock()
}

// InitializeSession signs in on a goroutine and notifies the delegate once
// when it finishes, whether or not sign-in succeeded
func (m *Manager) InitializeSession(ctx context.Context) {
	go func() {
		m.initMu.Lock()
		m.initialize(ctx)
		m.initMu.Unlock()

		m.mu.RLock()
		d := m.delegate
		m.mu.RUnlock()
		if d != nil {
			d.SessionDidFinishLoading()
		}
	}()
}

func (m *Manager) initialize(ctx context.Context) {
	id, err := m.auth.SignIn(ctx)
	if err != nil {
		logrus.Errorf("failed to initialize session: %v", err)
		return
	}

	m.mu.Lock()
	m.userID = id
	m.mu.Unlock()
	logrus.WithField("user_id", id).Info("session initialized")
}

// IsLoggedIn reports whether a session has been established
func (m *Manager) IsLoggedIn() bool {
	return m.UserID() != ""
}

// UserID returns the signed in user, or "" without a session
func (m *Manager) UserID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.userID
}
