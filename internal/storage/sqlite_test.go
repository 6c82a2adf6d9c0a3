package storage_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/meur/battlebuddy/internal/models"
	"github.com/meur/battlebuddy/internal/storage"
	"github.com/meur/battlebuddy/internal/storage/storagetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequiresPath(t *testing.T) {
	_, err := storage.New("")
	assert.Error(t, err)
}

func TestNewIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")

	first, err := storage.New(path)
	require.NoError(t, err)
	require.NoError(t, first.SaveItem(context.Background(), storagetest.SampleItems()[0]))
	require.NoError(t, first.Close())

	second, err := storage.New(path)
	require.NoError(t, err)
	defer second.Close()

	item, err := second.GetItem(context.Background(), "ak-74n")
	require.NoError(t, err)
	require.NotNil(t, item)
}

func TestGetItem(t *testing.T) {
	store := storagetest.OpenSeeded(t)
	ctx := context.Background()

	item, err := store.GetItem(ctx, "6b13")
	require.NoError(t, err)
	armor, ok := item.(*models.Armor)
	require.True(t, ok, "expected *models.Armor, got %T", item)
	assert.Equal(t, models.CategoryArmor, armor.Category)
	assert.Equal(t, models.ArmorClass(4), armor.Class)
	assert.Equal(t, []string{"thorax", "stomach"}, armor.Zones)

	missing, err := store.GetItem(ctx, "does-not-exist")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSaveItemRejectsInvalid(t *testing.T) {
	store := storagetest.Open(t)
	ctx := context.Background()

	tests := []struct {
		name string
		item models.Item
	}{
		{"unknown firearm type", &models.Firearm{BaseItem: models.BaseItem{ID: "x", Name: "X"}, Type: "railgun"}},
		{"armor class out of range", &models.Armor{
			BaseItem: models.BaseItem{ID: "x", Name: "X"}, Type: models.ArmorBody, Class: 7, Material: models.MaterialSteel,
		}},
		{"unknown armor material", &models.Armor{
			BaseItem: models.BaseItem{ID: "x", Name: "X"}, Type: models.ArmorBody, Class: 2, Material: "wood",
		}},
		{"ammo without caliber", &models.Ammo{BaseItem: models.BaseItem{ID: "x", Name: "X"}}},
		{"unknown medical type", &models.Medical{BaseItem: models.BaseItem{ID: "x", Name: "X"}, Type: "potion"}},
		{"missing id", &models.Throwable{BaseItem: models.BaseItem{Name: "X"}}},
		{"nil item", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.SaveItem(ctx, tt.item)
			assert.ErrorIs(t, err, storage.ErrInvalidItem)
		})
	}

	err := store.BulkSaveItems(ctx, []models.Item{
		storagetest.SampleItems()[0],
		&models.Medical{BaseItem: models.BaseItem{ID: "y", Name: "Y"}, Type: "potion"},
	})
	assert.ErrorIs(t, err, storage.ErrInvalidItem)

	all, err := store.SearchItems(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, all, "a rejected bulk save must not write anything")
}

func TestSaveItemReplaces(t *testing.T) {
	store := storagetest.OpenSeeded(t)
	ctx := context.Background()

	require.NoError(t, store.SaveItem(ctx, &models.Firearm{
		BaseItem: models.BaseItem{ID: "mp5", Name: "MP5 Kurz", ShortName: "MP5K"},
		Type:     models.FirearmSMG,
		Caliber:  "9x19",
	}))

	smgs, err := store.FirearmsOfType(ctx, models.FirearmSMG)
	require.NoError(t, err)
	require.Len(t, smgs, 1)
	assert.Equal(t, "MP5 Kurz", smgs[0].Name)
}

func TestSearchItems(t *testing.T) {
	store := storagetest.OpenSeeded(t)
	ctx := context.Background()

	all, err := store.SearchItems(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, len(storagetest.SampleItems()))

	items, err := store.SearchItems(ctx, "ak")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "AK-74N", items[0].Base().Name)
	assert.Equal(t, "AKM", items[1].Base().Name)

	items, err = store.SearchItems(ctx, "  5.45 ")
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, item := range items {
		_, ok := item.(*models.Ammo)
		assert.True(t, ok)
	}

	items, err = store.SearchItems(ctx, "pst GZH")
	require.NoError(t, err)
	assert.Len(t, items, 1)

	items, err = store.SearchItems(ctx, "%")
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.NotNil(t, items)
}

func TestCategoryQueries(t *testing.T) {
	store := storagetest.OpenSeeded(t)
	ctx := context.Background()

	firearms, err := store.Firearms(ctx)
	require.NoError(t, err)
	assert.Len(t, firearms, 4)

	rifles, err := store.FirearmsOfType(ctx, models.FirearmAssaultRifle)
	require.NoError(t, err)
	assert.Len(t, rifles, 2)

	nineMil, err := store.FirearmsOfCaliber(ctx, "9x19")
	require.NoError(t, err)
	require.Len(t, nineMil, 1)
	assert.Equal(t, "mp5", nineMil[0].ID)

	armor, err := store.Armor(ctx)
	require.NoError(t, err)
	assert.Len(t, armor, 4)

	body, err := store.BodyArmor(ctx)
	require.NoError(t, err)
	assert.Len(t, body, 3)

	class4, err := store.BodyArmorOfClass(ctx, 4)
	require.NoError(t, err)
	require.Len(t, class4, 1)
	assert.Equal(t, "6b13", class4[0].ID)

	ceramic, err := store.BodyArmorWithMaterial(ctx, models.MaterialCeramic)
	require.NoError(t, err)
	assert.Len(t, ceramic, 2)

	steel, err := store.BodyArmorWithMaterial(ctx, models.MaterialSteel)
	require.NoError(t, err)
	assert.Empty(t, steel, "the steel helmet is not body armor")
	assert.NotNil(t, steel)

	ammo, err := store.Ammo(ctx)
	require.NoError(t, err)
	assert.Len(t, ammo, 3)

	ps, err := store.AmmoOfCaliber(ctx, "545x39")
	require.NoError(t, err)
	assert.Len(t, ps, 2)

	medical, err := store.Medical(ctx)
	require.NoError(t, err)
	assert.Len(t, medical, 2)

	throwables, err := store.Throwables(ctx)
	require.NoError(t, err)
	assert.Len(t, throwables, 1)

	melee, err := store.Melee(ctx)
	require.NoError(t, err)
	require.Len(t, melee, 1)
	assert.Equal(t, 45, melee[0].StabDamage)
}

func TestDeleteItemsByCategory(t *testing.T) {
	store := storagetest.OpenSeeded(t)
	ctx := context.Background()

	require.NoError(t, store.DeleteItemsByCategory(ctx, models.CategoryAmmo))

	ammo, err := store.Ammo(ctx)
	require.NoError(t, err)
	assert.Empty(t, ammo)

	firearms, err := store.Firearms(ctx)
	require.NoError(t, err)
	assert.Len(t, firearms, 4)
}
