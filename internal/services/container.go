package services

import (
	"fmt"
	"strings"
)

// Container holds one instance of every service for the life of the process.
// It is built once at the entry point and passed down explicitly.
type Container struct {
	session   SessionManager
	database  DatabaseManager
	requestor HTTPRequestor
	remote    RemoteConfigManager
	prefs     PreferencesManager
	feedback  FeedbackManager
	ads       AdManager
	metadata  GlobalMetadataManager
	ammo      AmmoUtilitiesManager
	twitch    TwitchManager
}

// Deps lists the services a Container is built from
type Deps struct {
	Session      SessionManager
	Database     DatabaseManager
	Requestor    HTTPRequestor
	RemoteConfig RemoteConfigManager
	Preferences  PreferencesManager
	Feedback     FeedbackManager
	Ads          AdManager
	Metadata     GlobalMetadataManager
	Ammo         AmmoUtilitiesManager
	Twitch       TwitchManager
}

// NewContainer wires deps into a Container. Every service is required.
func NewContainer(deps Deps) (*Container, error) {
	var missing []string
	check := func(name string, present bool) {
		if !present {
			missing = append(missing, name)
		}
	}
	check("session", deps.Session != nil)
	check("database", deps.Database != nil)
	check("requestor", deps.Requestor != nil)
	check("remote config", deps.RemoteConfig != nil)
	check("preferences", deps.Preferences != nil)
	check("feedback", deps.Feedback != nil)
	check("ads", deps.Ads != nil)
	check("metadata", deps.Metadata != nil)
	check("ammo utilities", deps.Ammo != nil)
	check("twitch", deps.Twitch != nil)
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing services: %s", strings.Join(missing, ", "))
	}

	return &Container{
		session:   deps.Session,
		database:  deps.Database,
		requestor: deps.Requestor,
		remote:    deps.RemoteConfig,
		prefs:     deps.Preferences,
		feedback:  deps.Feedback,
		ads:       deps.Ads,
		metadata:  deps.Metadata,
		ammo:      deps.Ammo,
		twitch:    deps.Twitch,
	}, nil
}

func (c *Container) SessionManager() SessionManager { return c.session }
func (c *Container) DatabaseManager() DatabaseManager { return c.database }
func (c *Container) HTTPRequestor() HTTPRequestor { return c.requestor }
func (c *Container) RemoteConfig() RemoteConfigManager { return c.remote }
func (c *Container) Preferences() PreferencesManager { return c.prefs }
func (c *Container) Feedback() FeedbackManager { return c.feedback }
func (c *Container) AdManager() AdManager { return c.ads }
func (c *Container) MetadataManager() GlobalMetadataManager { return c.metadata }
func (c *Container) AmmoUtilities() AmmoUtilitiesManager { return c.ammo }
func (c *Container) Twitch() TwitchManager { return c.twitch }
