// Package storagetest opens throwaway stores seeded with a small catalog.
package storagetest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/meur/battlebuddy/internal/models"
	"github.com/meur/battlebuddy/internal/storage"
)

// Open returns an empty store backed by a file in t.TempDir
func Open(t testing.TB) *storage.Store {
	t.Helper()

	store, err := storage.New(filepath.Join(t.TempDir(), "battlebuddy.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})
	return store
}

// OpenSeeded returns a store holding SampleItems and SampleAmmoMetadata
func OpenSeeded(t testing.TB) *storage.Store {
	t.Helper()

	store := Open(t)
	ctx := context.Background()
	if err := store.BulkSaveItems(ctx, SampleItems()); err != nil {
		t.Fatalf("seed items: %v", err)
	}
	if err := store.SaveAmmoMetadata(ctx, SampleAmmoMetadata()); err != nil {
		t.Fatalf("seed ammo metadata: %v", err)
	}
	return store
}

// SampleAmmoMetadata covers the calibers used by SampleItems
func SampleAmmoMetadata() []models.AmmoMetadata {
	return []models.AmmoMetadata{
		{Caliber: "9x19", DisplayName: "9x19mm Parabellum", Index: 0},
		{Caliber: "545x39", DisplayName: "5.45x39mm", Index: 1},
		{Caliber: "762x39", DisplayName: "7.62x39mm", Index: 2},
		{Caliber: "12x70", DisplayName: "12/70", Index: 3},
	}
}

// SampleItems is a small catalog with at least one item per category
func SampleItems() []models.Item {
	return []models.Item{
		&models.Firearm{
			BaseItem: models.BaseItem{ID: "ak-74n", Name: "AK-74N", ShortName: "AK-74N", Weight: 3.2},
			Type:     models.FirearmAssaultRifle, Caliber: "545x39", FireRate: 650, EffectiveRange: 500,
		},
		&models.Firearm{
			BaseItem: models.BaseItem{ID: "akm", Name: "AKM", ShortName: "AKM", Weight: 3.3},
			Type:     models.FirearmAssaultRifle, Caliber: "762x39", FireRate: 600, EffectiveRange: 400,
		},
		&models.Firearm{
			BaseItem: models.BaseItem{ID: "mp5", Name: "MP5", ShortName: "MP5", Weight: 2.5},
			Type:     models.FirearmSMG, Caliber: "9x19", FireRate: 800, EffectiveRange: 100,
		},
		&models.Firearm{
			BaseItem: models.BaseItem{ID: "mp-153", Name: "MP-153 12ga semi-automatic shotgun", ShortName: "MP-153", Weight: 3.6},
			Type:     models.FirearmShotgun, Caliber: "12x70", FireRate: 30, EffectiveRange: 50,
		},
		&models.Armor{
			BaseItem: models.BaseItem{ID: "paca", Name: "PACA Soft Armor", ShortName: "PACA", Weight: 3.5},
			Type:     models.ArmorBody, Class: 2, Material: models.MaterialAramid, Durability: 50,
			Zones:    []string{"thorax"},
		},
		&models.Armor{
			BaseItem: models.BaseItem{ID: "6b13", Name: "6B13 Assault Armor", ShortName: "6B13", Weight: 10},
			Type:     models.ArmorBody, Class: 4, Material: models.MaterialCeramic, Durability: 47,
			Zones:    []string{"thorax", "stomach"},
		},
		&models.Armor{
			BaseItem: models.BaseItem{ID: "gen4", Name: "Gen4 Full Protection Armor", ShortName: "Gen4", Weight: 15},
			Type:     models.ArmorBody, Class: 5, Material: models.MaterialCeramic, Durability: 65,
		},
		&models.Armor{
			BaseItem: models.BaseItem{ID: "ssh-68", Name: "SSh-68 Steel Helmet", ShortName: "SSh-68", Weight: 1.5},
			Type:     models.ArmorHelmet, Class: 3, Material: models.MaterialSteel, Durability: 30,
		},
		&models.Ammo{
			BaseItem: models.BaseItem{ID: "545-ps", Name: "5.45x39mm PS", ShortName: "PS", Weight: 0.01},
			Caliber:  "545x39", Damage: 50, Penetration: 28, ArmorDamage: 40,
		},
		&models.Ammo{
			BaseItem: models.BaseItem{ID: "545-bt", Name: "5.45x39mm BT", ShortName: "BT", Weight: 0.01},
			Caliber:  "545x39", Damage: 44, Penetration: 37, ArmorDamage: 48, Tracer: true,
		},
		&models.Ammo{
			BaseItem: models.BaseItem{ID: "9-pst", Name: "9x19mm Pst gzh", ShortName: "Pst gzh", Weight: 0.01},
			Caliber:  "9x19", Damage: 50, Penetration: 20, ArmorDamage: 33,
		},
		&models.Medical{
			BaseItem: models.BaseItem{ID: "ai-2", Name: "AI-2 medkit", ShortName: "AI-2", Weight: 0.1},
			Type:     models.MedicalMedkit, Resources: 100, UseTime: 2,
		},
		&models.Medical{
			BaseItem: models.BaseItem{ID: "splint", Name: "Immobilizing splint", ShortName: "Splint", Weight: 0.1},
			Type:     models.MedicalSplint, Resources: 1, UseTime: 5,
		},
		&models.Throwable{
			BaseItem: models.BaseItem{ID: "f-1", Name: "F-1 hand grenade", ShortName: "F-1", Weight: 0.6},
			FuseTime: 3.5, ExplosionRadius: 7,
		},
		&models.MeleeWeapon{
			BaseItem:    models.BaseItem{ID: "6x5", Name: "6Kh5 Bayonet", ShortName: "6Kh5", Weight: 0.3},
			SlashDamage: 30, StabDamage: 45,
		},
	}
}
