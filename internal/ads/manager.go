// Package ads tracks rewarded video readiness reported by an ad provider
// and the user's banner ad preference.
package ads

import (
	"context"
	"errors"
	"sync"

	"github.com/meur/battlebuddy/internal/models"
	"github.com/meur/battlebuddy/internal/services"
	"github.com/sirupsen/logrus"
)

// ErrVideoAdNotReady is returned by WatchAdVideo outside the ready state
var ErrVideoAdNotReady = errors.New("video ad is not ready")

// Preference keys owned by the ad manager
const (
	PrefBannerEnabled = "ads.banner_enabled"
	PrefAdsWatched    = "ads.watched"
)

// ProviderEvent is a signal from the ad provider
type ProviderEvent int

const (
	EventLoadStarted ProviderEvent = iota
	EventLoaded
	EventLoadFailed
	EventRewarded
	EventDismissed
)

func (e ProviderEvent) String() string {
	switch e {
	case EventLoadStarted:
		return "load_started"
	case EventLoaded:
		return "loaded"
	case EventLoadFailed:
		return "load_failed"
	case EventRewarded:
		return "rewarded"
	case EventDismissed:
		return "dismissed"
	default:
		return "unknown"
	}
}

// Provider is the ad SDK behind the manager. It reports progress through
// the handler given to SetEventHandler.
type Provider interface {
	SetEventHandler(handler func(ProviderEvent))
	LoadRewardedVideo(ctx context.Context)
	ShowRewardedVideo(p services.Presenter) error
}

// Manager implements services.AdManager
type Manager struct {
	provider Provider
	prefs    services.PreferencesManager

	mu       sync.Mutex
	state    models.VideoAdState
	delegate services.AdDelegate
}

// New creates a Manager in the unavailable state and subscribes to provider
func New(provider Provider, prefs services.PreferencesManager) *Manager {
	m := &Manager{
		provider: provider,
		prefs:    prefs,
		state:    models.VideoAdUnavailable,
	}
	provider.SetEventHandler(m.HandleProviderEvent)
	return m
}

// Start asks the provider to preload a rewarded video
func (m *Manager) Start(ctx context.Context) {
	m.provider.LoadRewardedVideo(ctx)
}

// SetDelegate replaces the delegate told about state changes
func (m *Manager) SetDelegate(d services.AdDelegate) {
	m.mu.Lock()
	m.delegate = d
	m.mu.Unlock()
}

func (m *Manager) CurrentVideoAdState() models.VideoAdState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// BannerAdsEnabled defaults to true until the user turns banners off
func (m *Manager) BannerAdsEnabled() bool {
	return m.prefs.Bool(PrefBannerEnabled, true)
}

func (m *Manager) UpdateBannerAdsSetting(enabled bool) {
	m.prefs.SetBool(PrefBannerEnabled, enabled)
}

// AdsWatched returns how many rewarded videos were completed on this device
func (m *Manager) AdsWatched() int {
	return m.prefs.Int(PrefAdsWatched, 0)
}

// WatchAdVideo shows the ready rewarded video from p. The video is consumed
// before the provider is called, so the state leaves ready right away and
// the next video must load first. In any other state it does nothing and
// returns ErrVideoAdNotReady.
func (m *Manager) WatchAdVideo(p services.Presenter) error {
	m.mu.Lock()
	if m.state != models.VideoAdReady {
		m.mu.Unlock()
		return ErrVideoAdNotReady
	}
	m.state = models.VideoAdLoading
	d := m.delegate
	m.mu.Unlock()

	if d != nil {
		d.AdManagerDidUpdate(m, models.VideoAdLoading)
	}

	if err := m.provider.ShowRewardedVideo(p); err != nil {
		logrus.Errorf("failed to show rewarded video: %v", err)
		m.transition(models.VideoAdUnavailable)
		return err
	}
	return nil
}

// HandleProviderEvent applies a provider signal. Only EventLoaded makes a
// video ready.
func (m *Manager) HandleProviderEvent(e ProviderEvent) {
	logrus.WithField("event", e.String()).Debug("ad provider event")

	switch e {
	case EventLoadStarted:
		m.transition(models.VideoAdLoading)
	case EventLoaded:
		m.transition(models.VideoAdReady)
	case EventLoadFailed:
		m.transition(models.VideoAdUnavailable)
	case EventRewarded:
		watched := m.prefs.IncrementInt(PrefAdsWatched)
		logrus.WithField("ads_watched", watched).Info("rewarded video completed")
	case EventDismissed:
		m.transition(models.VideoAdLoading)
		m.provider.LoadRewardedVideo(context.Background())
	}
}

// transition moves to next and notifies the delegate if the state changed
func (m *Manager) transition(next models.VideoAdState) {
	m.mu.Lock()
	if m.state == next {
		m.mu.Unlock()
		return
	}
	m.state = next
	d := m.delegate
	m.mu.Unlock()

	if d != nil {
		d.AdManagerDidUpdate(m, next)
	}
}
