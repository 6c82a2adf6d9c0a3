package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/meur/battlebuddy/internal/ads"
	"github.com/meur/battlebuddy/internal/app"
	"github.com/meur/battlebuddy/internal/config"
	"github.com/meur/battlebuddy/internal/models"
	"github.com/meur/battlebuddy/internal/services"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type sessionWaiter chan struct{}

func (w sessionWaiter) SessionDidFinishLoading() { w <- struct{}{} }

type options struct {
	search  string
	list    string
	watchAd bool
	banners string
	timeout time.Duration
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	var opts options
	dbPath := flag.String("db", cfg.DBPath, "SQLite database path")
	flag.StringVar(&opts.search, "search", "", "Search items by name")
	flag.StringVar(&opts.list, "list", "", "List a category: firearm, armor, ammo, medical, throwable, melee")
	flag.BoolVar(&opts.watchAd, "watch-ad", false, "Watch a rewarded video ad")
	flag.StringVar(&opts.banners, "banners", "", "Turn banner ads on or off")
	flag.DurationVar(&opts.timeout, "timeout", 15*time.Second, "Startup timeout")
	flag.Parse()
	cfg.DBPath = *dbPath

	if err := run(cfg, opts, os.Stdout); err != nil {
		logrus.Fatal(err)
	}
}

// run executes one CLI invocation. Every resource it opens is released
// before it returns, including on error.
func run(cfg *config.Config, opts options, stdout io.Writer) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	switch opts.banners {
	case "", "on", "off":
	default:
		return fmt.Errorf("-banners must be on or off, got %q", opts.banners)
	}
	cfg.ConfigureLogging()

	ctx, cancel := context.WithTimeout(context.Background(), opts.timeout)
	defer cancel()

	a, err := app.Bootstrap(ctx, cfg, &ads.LocalProvider{})
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer a.Close()

	c := a.Services
	if err := startup(ctx, c); err != nil {
		logrus.Warnf("startup did not finish: %v", err)
	}

	out := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	defer out.Flush()

	if opts.banners != "" {
		c.AdManager().UpdateBannerAdsSetting(opts.banners == "on")
	}

	switch {
	case opts.watchAd:
		if err := watchRewardedVideo(ctx, a.Ads); err != nil {
			return fmt.Errorf("failed to watch ad: %w", err)
		}
		fmt.Fprintf(out, "Thanks for watching! Ads watched:\t%d\n", a.Ads.AdsWatched())
	case opts.search != "":
		printSearch(ctx, out, c, opts.search)
	case opts.list != "":
		if err := printCategory(ctx, out, c, models.Category(opts.list)); err != nil {
			return err
		}
	default:
		printSummary(out, c)
	}

	if c.Feedback().ShouldPromptForReview() {
		fmt.Fprintln(out, "\nEnjoying BattleBuddy? Leave us a review!")
		c.Feedback().MarkReviewPrompted()
	}
	return nil
}

// startup runs the launch sequence: record the launch, then initialize
// the session and refresh remote data in parallel. Every step degrades to
// "absent" on failure, so only the startup timeout can cut it short.
func startup(ctx context.Context, c *services.Container) error {
	c.Feedback().RecordAppLaunch()

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		waiter := make(sessionWaiter, 1)
		c.SessionManager().SetDelegate(waiter)
		defer c.SessionManager().SetDelegate(nil)

		c.SessionManager().InitializeSession(groupCtx)
		select {
		case <-waiter:
			return nil
		case <-groupCtx.Done():
			return groupCtx.Err()
		}
	})

	group.Go(func() error {
		ok := await(groupCtx, c.RemoteConfig().Fetch)
		logrus.WithField("ok", ok).Debug("remote config fetched")
		return nil
	})

	group.Go(func() error {
		if md := await(groupCtx, c.MetadataManager().UpdateGlobalMetadata); md == nil {
			logrus.Warn("global metadata unavailable, showing raw calibers")
		}
		return nil
	})

	group.Go(func() error {
		await(groupCtx, c.Twitch().UpdateLiveStreams)
		return nil
	})

	return group.Wait()
}

type adWaiter chan models.VideoAdState

func (w adWaiter) AdManagerDidUpdate(m services.AdManager, state models.VideoAdState) {
	select {
	case w <- state:
	default:
	}
}

// watchRewardedVideo preloads a video, plays it once ready and waits for
// the reward to be counted
func watchRewardedVideo(ctx context.Context, m *ads.Manager) error {
	states := make(adWaiter, 8)
	m.SetDelegate(states)
	defer m.SetDelegate(nil)

	watched := m.AdsWatched()
	m.Start(ctx)
	for m.CurrentVideoAdState() != models.VideoAdReady {
		select {
		case state := <-states:
			if state == models.VideoAdUnavailable {
				return ads.ErrVideoAdNotReady
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if err := m.WatchAdVideo(nil); err != nil {
		return err
	}
	for m.AdsWatched() == watched {
		select {
		case <-states:
		case <-time.After(10 * time.Millisecond):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// await blocks until an asynchronous call delivers its result, or returns
// the zero value once ctx is done
func await[T any](ctx context.Context, call func(ctx context.Context, handler func(T))) T {
	result := make(chan T, 1)
	call(ctx, func(v T) { result <- v })

	select {
	case v := <-result:
		return v
	case <-ctx.Done():
		var zero T
		return zero
	}
}

func printSummary(w io.Writer, c *services.Container) {
	fmt.Fprintf(w, "User:\t%s\n", c.SessionManager().UserID())
	if md, ok := c.MetadataManager().GlobalMetadata(); ok {
		fmt.Fprintf(w, "Players:\t%d\n", md.TotalUserCount)
		fmt.Fprintf(w, "Ads watched:\t%d\n", md.TotalAdsWatched)
	}
	fmt.Fprintf(w, "Banner ads:\t%v\n", c.AdManager().BannerAdsEnabled())
	if motd := c.RemoteConfig().String("motd", ""); motd != "" {
		fmt.Fprintf(w, "News:\t%s\n", motd)
	}
	for _, s := range c.Twitch().LiveStreams() {
		fmt.Fprintf(w, "Live:\t%s (%d viewers)\t%s\n", s.Channel, s.Viewers, s.Title)
	}
}

func printSearch(ctx context.Context, w io.Writer, c *services.Container, query string) {
	items := await(ctx, func(ctx context.Context, h func([]models.Item)) {
		c.DatabaseManager().AllItemsWithSearchQuery(ctx, query, h)
	})
	if len(items) == 0 {
		fmt.Fprintf(w, "No items match %q\n", query)
		return
	}
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY")
	for _, item := range items {
		base := item.Base()
		fmt.Fprintf(w, "%s\t%s\t%s\n", base.ID, base.Name, base.Category)
	}
}

func printCategory(ctx context.Context, w io.Writer, c *services.Container, category models.Category) error {
	db := c.DatabaseManager()
	ammoUtils := c.AmmoUtilities()

	switch category {
	case models.CategoryFirearm:
		fmt.Fprintln(w, "NAME\tTYPE\tCALIBER\tRPM")
		for _, f := range await(ctx, db.AllFirearms) {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", f.Name, f.Type, ammoUtils.CaliberDisplayName(f.Caliber), f.FireRate)
		}
	case models.CategoryArmor:
		byClass := await(ctx, db.AllArmorByClass)
		fmt.Fprintln(w, "CLASS\tNAME\tTYPE\tMATERIAL")
		for _, class := range models.AllArmorClasses() {
			for _, a := range byClass[class] {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", class, a.Name, a.Type, a.Material)
			}
		}
	case models.CategoryAmmo:
		byCaliber := await(ctx, db.AllAmmoByCaliber)
		calibers := make([]string, 0, len(byCaliber))
		for caliber := range byCaliber {
			calibers = append(calibers, caliber)
		}
		for _, caliber := range ammoUtils.SortCalibers(calibers) {
			fmt.Fprintf(w, "%s\n", ammoUtils.CaliberDisplayName(caliber))
			for _, a := range byCaliber[caliber] {
				fmt.Fprintf(w, "  %s\tdmg %d\tpen %d\n", a.Name, a.Damage, a.Penetration)
			}
		}
	case models.CategoryMedical:
		byType := await(ctx, db.AllMedicalByType)
		fmt.Fprintln(w, "TYPE\tNAME\tUSES")
		for _, t := range models.AllMedicalItemTypes() {
			for _, m := range byType[t] {
				fmt.Fprintf(w, "%s\t%s\t%d\n", t, m.Name, m.Resources)
			}
		}
	case models.CategoryThrowable:
		fmt.Fprintln(w, "NAME\tFUSE\tRADIUS")
		for _, t := range await(ctx, db.AllThrowables) {
			fmt.Fprintf(w, "%s\t%.1fs\t%.0fm\n", t.Name, t.FuseTime, t.ExplosionRadius)
		}
	case models.CategoryMelee:
		fmt.Fprintln(w, "NAME\tSLASH\tSTAB")
		for _, m := range await(ctx, db.AllMelee) {
			fmt.Fprintf(w, "%s\t%d\t%d\n", m.Name, m.SlashDamage, m.StabDamage)
		}
	default:
		return fmt.Errorf("unknown category %q", category)
	}
	return nil
}
