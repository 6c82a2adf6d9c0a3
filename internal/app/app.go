// Package app builds the service container from configuration.
package app

import (
	"context"
	"fmt"

	"github.com/meur/battlebuddy/internal/ads"
	"github.com/meur/battlebuddy/internal/catalog"
	"github.com/meur/battlebuddy/internal/config"
	"github.com/meur/battlebuddy/internal/feedback"
	"github.com/meur/battlebuddy/internal/httpclient"
	"github.com/meur/battlebuddy/internal/metadata"
	"github.com/meur/battlebuddy/internal/prefs"
	"github.com/meur/battlebuddy/internal/remoteconfig"
	"github.com/meur/battlebuddy/internal/services"
	"github.com/meur/battlebuddy/internal/session"
	"github.com/meur/battlebuddy/internal/storage"
	"github.com/meur/battlebuddy/internal/twitch"
	"github.com/sirupsen/logrus"
)

// App owns the container and the resources behind it
type App struct {
	Services *services.Container
	Store    *storage.Store
	Ads      *ads.Manager
}

// Bootstrap opens the store and builds one instance of every service.
// provider backs the ad manager.
func Bootstrap(ctx context.Context, cfg *config.Config, provider ads.Provider) (*App, error) {
	store, err := storage.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	preferences := prefs.New(ctx, store)
	requestor := httpclient.New(httpclient.Options{
		Timeout:      cfg.HTTPTimeout,
		MaxRetries:   cfg.HTTPMaxRetries,
		MaxBodyBytes: cfg.HTTPMaxBodyBytes,
	})

	metadataManager := metadata.New(requestor, cfg.MetadataURL, cfg.MetadataHeaders())
	adManager := ads.New(provider, preferences)

	container, err := services.NewContainer(services.Deps{
		Session:      session.New(session.PreferencesAuthenticator{Prefs: preferences}),
		Database:     catalog.New(store),
		Requestor:    requestor,
		RemoteConfig: remoteconfig.New(requestor, cfg.RemoteConfigURL, map[string]string{"Accept": "application/json"}),
		Preferences:  preferences,
		Feedback:     feedback.New(preferences, store, cfg.ReviewPromptAfterLaunches),
		Ads:          adManager,
		Metadata:     metadataManager,
		Ammo:         metadata.NewAmmoUtilities(metadataManager),
		Twitch:       twitch.New(requestor, cfg.TwitchStreamsURL, cfg.TwitchHeaders()),
	})
	if err != nil {
		store.Close()
		return nil, err
	}

	logrus.WithField("db_path", cfg.DBPath).Info("services ready")
	return &App{Services: container, Store: store, Ads: adManager}, nil
}

// Close releases the store
func (a *App) Close() error {
	return a.Store.Close()
}
