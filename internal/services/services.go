// Package services declares the contracts client code depends on and the
// Container that hands out one instance of each.
//
// Asynchronous operations take a completion or handler that runs exactly
// once, on a goroutine owned by the implementation. Failures are never
// reported as errors to the caller; they collapse to an absent result
// (nil, empty or false).
package services

import (
	"context"

	"github.com/meur/battlebuddy/internal/models"
)

// --- Networking ---

// HTTPRequestor issues GET requests and decodes JSON object responses.
// completion receives nil on any failure.
type HTTPRequestor interface {
	SendGetRequest(ctx context.Context, url string, headers map[string]string, completion func(models.Document))
}

// --- Session ---

// SessionDelegate is told when a session initialization finishes
type SessionDelegate interface {
	SessionDidFinishLoading()
}

// SessionManager owns the user's session
type SessionManager interface {
	// InitializeSession starts or resumes a session. The delegate is
	// notified once per call when it finishes.
	InitializeSession(ctx context.Context)
	IsLoggedIn() bool
	UserID() string
	SetDelegate(d SessionDelegate)
}

// --- Database ---

// DatabaseManager runs read-only queries over the local item catalog.
// Every handler is invoked exactly once; no matches is an empty slice.
type DatabaseManager interface {
	AllItemsWithSearchQuery(ctx context.Context, query string, handler func([]models.Item))

	AllFirearms(ctx context.Context, handler func([]models.Firearm))
	AllArmor(ctx context.Context, handler func([]models.Armor))
	AllBodyArmor(ctx context.Context, handler func([]models.Armor))
	AllAmmo(ctx context.Context, handler func([]models.Ammo))
	AllMedical(ctx context.Context, handler func([]models.Medical))
	AllThrowables(ctx context.Context, handler func([]models.Throwable))
	AllMelee(ctx context.Context, handler func([]models.MeleeWeapon))

	AllFirearmsByType(ctx context.Context, handler func(map[models.FirearmType][]models.Firearm))
	AllArmorByClass(ctx context.Context, handler func(map[models.ArmorClass][]models.Armor))
	AllBodyArmorByClass(ctx context.Context, handler func(map[models.ArmorClass][]models.Armor))
	AllAmmoByCaliber(ctx context.Context, handler func(map[string][]models.Ammo))
	AllMedicalByType(ctx context.Context, handler func(map[models.MedicalItemType][]models.Medical))

	AllFirearmsOfType(ctx context.Context, t models.FirearmType, handler func([]models.Firearm))
	AllFirearmsOfCaliber(ctx context.Context, caliber string, handler func([]models.Firearm))
	AllAmmoOfCaliber(ctx context.Context, caliber string, handler func([]models.Ammo))
	AllBodyArmorOfClass(ctx context.Context, class models.ArmorClass, handler func([]models.Armor))
	AllBodyArmorWithMaterial(ctx context.Context, material models.ArmorMaterial, handler func([]models.Armor))
}

// --- Ads ---

// Presenter is the opaque context a video ad is shown from
type Presenter interface{}

// AdDelegate is told about every video ad state change
type AdDelegate interface {
	AdManagerDidUpdate(m AdManager, state models.VideoAdState)
}

// AdManager tracks rewarded video readiness and the banner ad preference
type AdManager interface {
	SetDelegate(d AdDelegate)
	CurrentVideoAdState() models.VideoAdState
	BannerAdsEnabled() bool
	UpdateBannerAdsSetting(enabled bool)
	// WatchAdVideo plays the rewarded video. It only acts in the ready
	// state and returns an error otherwise.
	WatchAdVideo(p Presenter) error
}

// --- Global metadata ---

// GlobalMetadataManager caches the remote global metadata document
type GlobalMetadataManager interface {
	GlobalMetadata() (*models.GlobalMetadata, bool)
	// UpdateGlobalMetadata fetches a fresh document. handler gets nil when
	// the fetch or the parse fails.
	UpdateGlobalMetadata(ctx context.Context, handler func(*models.GlobalMetadata))
}

// AmmoUtilitiesManager formats calibers for display
type AmmoUtilitiesManager interface {
	CaliberDisplayName(caliber string) string
	SortCalibers(calibers []string) []string
}

// --- Preferences ---

// PreferencesManager is a synchronous key-value store that never fails
type PreferencesManager interface {
	Bool(key string, def bool) bool
	SetBool(key string, v bool)
	Int(key string, def int) int
	SetInt(key string, v int)
	IncrementInt(key string) int
	String(key string, def string) string
	SetString(key string, v string)
}

// --- Feedback ---

// FeedbackManager handles review prompts and user feedback
type FeedbackManager interface {
	RecordAppLaunch()
	ShouldPromptForReview() bool
	MarkReviewPrompted()
	SubmitFeedback(ctx context.Context, message, contact string, completion func(ok bool))
}

// --- Twitch ---

// TwitchManager tracks live streams of the game
type TwitchManager interface {
	// LiveStreams returns the streams from the last successful update
	LiveStreams() []models.Stream
	// UpdateLiveStreams fetches the current streams. handler gets nil on
	// failure and an empty slice when nobody is live.
	UpdateLiveStreams(ctx context.Context, handler func([]models.Stream))
}

// --- Remote config ---

// RemoteConfigManager exposes remotely tuned values with local defaults
type RemoteConfigManager interface {
	Fetch(ctx context.Context, completion func(ok bool))
	String(key string, def string) string
	Bool(key string, def bool) bool
	Int(key string, def int) int
}
