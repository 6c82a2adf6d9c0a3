package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/meur/battlebuddy/internal/models"
	"github.com/meur/battlebuddy/internal/storage"
	"github.com/sirupsen/logrus"
)

var slugRegex = regexp.MustCompile(`[^\p{L}\p{N}]+`)

func slugify(s string) string {
	s = strings.ToLower(s)
	s = slugRegex.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

func main() {
	dbPath := flag.String("db", "./battlebuddy.db", "SQLite database path")
	seedsDir := flag.String("seeds", "./seeds", "Seeds directory")
	replace := flag.Bool("replace", false, "Delete existing items of every seeded category first")
	flag.Parse()

	store, err := storage.New(*dbPath)
	if err != nil {
		logrus.Fatalf("Failed to open database: %v", err)
	}
	defer store.Close()

	ctx := context.Background()

	n, err := seedItems(ctx, store, filepath.Join(*seedsDir, "items.json"), *replace)
	if err != nil {
		logrus.Fatalf("Failed to seed items: %v", err)
	}
	logrus.Infof("✓ Seeded %d items", n)

	if err := seedMetadata(ctx, store, filepath.Join(*seedsDir, "metadata.json")); err != nil {
		logrus.Warnf("failed to seed metadata: %v", err)
	} else {
		logrus.Info("✓ Seeded global metadata")
	}

	logrus.Info("🌱 Seeding complete!")
}

// seedItems imports a JSON array of items tagged with their category.
// Items without an id get one derived from their name.
func seedItems(ctx context.Context, store *storage.Store, path string, replace bool) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	items := make([]models.Item, 0, len(raw))
	categories := make(map[models.Category]bool)
	for i, entry := range raw {
		item, err := models.DecodeTaggedItem(entry)
		if err != nil {
			return 0, fmt.Errorf("item %d: %w", i, err)
		}
		base := item.Base()
		if base.ID == "" {
			base.ID = slugify(base.Name)
		}
		categories[base.Category] = true
		items = append(items, item)
	}

	if replace {
		for category := range categories {
			if err := store.DeleteItemsByCategory(ctx, category); err != nil {
				logrus.Warnf("failed to clean up %s items: %v", category, err)
			}
		}
	}

	if err := store.BulkSaveItems(ctx, items); err != nil {
		return 0, err
	}
	return len(items), nil
}

// seedMetadata stores the ammo metadata of a global metadata document and
// raises the counters to at least the document's values
func seedMetadata(ctx context.Context, store *storage.Store, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	md, ok := models.ParseGlobalMetadataJSON(data)
	if !ok {
		return fmt.Errorf("%s is not a valid global metadata document", path)
	}

	if err := store.SaveAmmoMetadata(ctx, md.AmmoMetadata); err != nil {
		return err
	}

	counters := map[string]int{
		storage.CounterTotalUsers:      md.TotalUserCount,
		storage.CounterTotalAdsWatched: md.TotalAdsWatched,
	}
	for name, target := range counters {
		current, err := store.Counter(ctx, name)
		if err != nil {
			return err
		}
		if target > current {
			if _, err := store.IncrementCounter(ctx, name, target-current); err != nil {
				return err
			}
		}
	}
	return nil
}
