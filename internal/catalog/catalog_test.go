package catalog

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/meur/battlebuddy/internal/models"
	"github.com/meur/battlebuddy/internal/storage/storagetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// await runs an async query and returns its single result
func await[T any](t *testing.T, query func(handler func(T))) T {
	t.Helper()

	done := make(chan T, 2)
	query(func(v T) { done <- v })

	var result T
	select {
	case result = <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("handler was never called")
	}

	select {
	case <-done:
		t.Fatal("handler was called more than once")
	case <-time.After(10 * time.Millisecond):
	}
	return result
}

func ids[T models.Item](items []T) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Base().ID)
	}
	sort.Strings(out)
	return out
}

func ptrs[T any](items []T) []*T {
	out := make([]*T, 0, len(items))
	for i := range items {
		out = append(out, &items[i])
	}
	return out
}

func flatten[K comparable, V any](groups map[K][]V) []V {
	var out []V
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func newSeededManager(t *testing.T) *Manager {
	return New(storagetest.OpenSeeded(t))
}

func TestAllItemsWithSearchQuery(t *testing.T) {
	m := newSeededManager(t)
	ctx := context.Background()

	items := await(t, func(h func([]models.Item)) { m.AllItemsWithSearchQuery(ctx, "armor", h) })
	assert.Equal(t, []string{"6b13", "gen4", "paca"}, ids(items))

	none := await(t, func(h func([]models.Item)) { m.AllItemsWithSearchQuery(ctx, "railgun", h) })
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestAllOfCategory(t *testing.T) {
	m := newSeededManager(t)
	ctx := context.Background()

	assert.Len(t, await(t, func(h func([]models.Firearm)) { m.AllFirearms(ctx, h) }), 4)
	assert.Len(t, await(t, func(h func([]models.Armor)) { m.AllArmor(ctx, h) }), 4)
	assert.Len(t, await(t, func(h func([]models.Armor)) { m.AllBodyArmor(ctx, h) }), 3)
	assert.Len(t, await(t, func(h func([]models.Ammo)) { m.AllAmmo(ctx, h) }), 3)
	assert.Len(t, await(t, func(h func([]models.Medical)) { m.AllMedical(ctx, h) }), 2)
	assert.Len(t, await(t, func(h func([]models.Throwable)) { m.AllThrowables(ctx, h) }), 1)
	assert.Len(t, await(t, func(h func([]models.MeleeWeapon)) { m.AllMelee(ctx, h) }), 1)
}

func TestPartitionsMatchAll(t *testing.T) {
	m := newSeededManager(t)
	ctx := context.Background()

	t.Run("firearms by type", func(t *testing.T) {
		all := await(t, func(h func([]models.Firearm)) { m.AllFirearms(ctx, h) })
		groups := await(t, func(h func(map[models.FirearmType][]models.Firearm)) { m.AllFirearmsByType(ctx, h) })

		assert.Len(t, groups, len(models.AllFirearmTypes()))
		assert.Equal(t, ids(ptrs(all)), ids(ptrs(flatten(groups))))
		for ft, group := range groups {
			for _, f := range group {
				assert.Equal(t, ft, f.Type)
			}
		}
		assert.Empty(t, groups[models.FirearmSniperRifle])
		assert.NotNil(t, groups[models.FirearmSniperRifle])
	})

	t.Run("armor by class", func(t *testing.T) {
		all := await(t, func(h func([]models.Armor)) { m.AllArmor(ctx, h) })
		groups := await(t, func(h func(map[models.ArmorClass][]models.Armor)) { m.AllArmorByClass(ctx, h) })

		assert.Len(t, groups, 6)
		assert.Equal(t, ids(ptrs(all)), ids(ptrs(flatten(groups))))
		assert.Len(t, groups[3], 1, "helmets are grouped with all armor")
	})

	t.Run("body armor by class", func(t *testing.T) {
		all := await(t, func(h func([]models.Armor)) { m.AllBodyArmor(ctx, h) })
		groups := await(t, func(h func(map[models.ArmorClass][]models.Armor)) { m.AllBodyArmorByClass(ctx, h) })

		assert.Equal(t, ids(ptrs(all)), ids(ptrs(flatten(groups))))
		assert.Empty(t, groups[3])
	})

	t.Run("ammo by caliber", func(t *testing.T) {
		all := await(t, func(h func([]models.Ammo)) { m.AllAmmo(ctx, h) })
		groups := await(t, func(h func(map[string][]models.Ammo)) { m.AllAmmoByCaliber(ctx, h) })

		assert.Equal(t, ids(ptrs(all)), ids(ptrs(flatten(groups))))
		assert.Len(t, groups, 2)
		assert.Len(t, groups["545x39"], 2)
	})

	t.Run("medical by type", func(t *testing.T) {
		all := await(t, func(h func([]models.Medical)) { m.AllMedical(ctx, h) })
		groups := await(t, func(h func(map[models.MedicalItemType][]models.Medical)) { m.AllMedicalByType(ctx, h) })

		assert.Len(t, groups, len(models.AllMedicalItemTypes()))
		assert.Equal(t, ids(ptrs(all)), ids(ptrs(flatten(groups))))
	})
}

func TestFilters(t *testing.T) {
	m := newSeededManager(t)
	ctx := context.Background()

	rifles := await(t, func(h func([]models.Firearm)) { m.AllFirearmsOfType(ctx, models.FirearmAssaultRifle, h) })
	assert.Equal(t, []string{"ak-74n", "akm"}, ids(ptrs(rifles)))

	shotguns := await(t, func(h func([]models.Firearm)) { m.AllFirearmsOfCaliber(ctx, "12x70", h) })
	assert.Equal(t, []string{"mp-153"}, ids(ptrs(shotguns)))

	nine := await(t, func(h func([]models.Ammo)) { m.AllAmmoOfCaliber(ctx, "9x19", h) })
	assert.Equal(t, []string{"9-pst"}, ids(ptrs(nine)))

	class5 := await(t, func(h func([]models.Armor)) { m.AllBodyArmorOfClass(ctx, 5, h) })
	assert.Equal(t, []string{"gen4"}, ids(ptrs(class5)))

	aramid := await(t, func(h func([]models.Armor)) { m.AllBodyArmorWithMaterial(ctx, models.MaterialAramid, h) })
	assert.Equal(t, []string{"paca"}, ids(ptrs(aramid)))

	none := await(t, func(h func([]models.Armor)) { m.AllBodyArmorWithMaterial(ctx, models.MaterialGlass, h) })
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

// brokenStore fails every query
type brokenStore struct{ Store }

var errBroken = errors.New("database is locked")

func (brokenStore) SearchItems(ctx context.Context, query string) ([]models.Item, error) {
	return nil, errBroken
}

func (brokenStore) Firearms(ctx context.Context) ([]models.Firearm, error) {
	return nil, errBroken
}

func (brokenStore) Medical(ctx context.Context) ([]models.Medical, error) {
	return nil, errBroken
}

func TestStoreErrorsCollapseToEmpty(t *testing.T) {
	m := New(brokenStore{})
	ctx := context.Background()

	items := await(t, func(h func([]models.Item)) { m.AllItemsWithSearchQuery(ctx, "ak", h) })
	assert.NotNil(t, items)
	assert.Empty(t, items)

	firearms := await(t, func(h func([]models.Firearm)) { m.AllFirearms(ctx, h) })
	assert.NotNil(t, firearms)
	assert.Empty(t, firearms)

	groups := await(t, func(h func(map[models.FirearmType][]models.Firearm)) { m.AllFirearmsByType(ctx, h) })
	require.Len(t, groups, len(models.AllFirearmTypes()))
	assert.Empty(t, flatten(groups))

	medical := await(t, func(h func(map[models.MedicalItemType][]models.Medical)) { m.AllMedicalByType(ctx, h) })
	assert.Len(t, medical, len(models.AllMedicalItemTypes()))
}
