// Package catalog implements services.DatabaseManager over the SQLite store.
//
// Every query runs on its own goroutine and delivers its result to the
// handler exactly once. Store errors are logged and delivered as an empty
// result. Partitioned results are built from the same rows as the matching
// "all" query, so the groups always add up to the full category.
package catalog

import (
	"context"

	"github.com/meur/battlebuddy/internal/models"
	"github.com/sirupsen/logrus"
)

// Store is the read side of storage.Store used by the catalog
type Store interface {
	SearchItems(ctx context.Context, query string) ([]models.Item, error)

	Firearms(ctx context.Context) ([]models.Firearm, error)
	FirearmsOfType(ctx context.Context, t models.FirearmType) ([]models.Firearm, error)
	FirearmsOfCaliber(ctx context.Context, caliber string) ([]models.Firearm, error)
	Armor(ctx context.Context) ([]models.Armor, error)
	BodyArmor(ctx context.Context) ([]models.Armor, error)
	BodyArmorOfClass(ctx context.Context, class models.ArmorClass) ([]models.Armor, error)
	BodyArmorWithMaterial(ctx context.Context, material models.ArmorMaterial) ([]models.Armor, error)
	Ammo(ctx context.Context) ([]models.Ammo, error)
	AmmoOfCaliber(ctx context.Context, caliber string) ([]models.Ammo, error)
	Medical(ctx context.Context) ([]models.Medical, error)
	Throwables(ctx context.Context) ([]models.Throwable, error)
	Melee(ctx context.Context) ([]models.MeleeWeapon, error)
}

// Manager answers catalog queries asynchronously
type Manager struct {
	store Store
}

// New creates a Manager reading from store
func New(store Store) *Manager {
	return &Manager{store: store}
}

// run executes query on a goroutine and hands the result, or empty on
// error, to handler
func run[T any](ctx context.Context, name string, empty func() T, query func(ctx context.Context) (T, error), handler func(T)) {
	go func() {
		result, err := query(ctx)
		if err != nil {
			logrus.WithField("query", name).Errorf("catalog query failed: %v", err)
			result = empty()
		}
		handler(result)
	}()
}

func emptySlice[T any]() []T { return []T{} }

// --- Search ---

func (m *Manager) AllItemsWithSearchQuery(ctx context.Context, query string, handler func([]models.Item)) {
	run(ctx, "search", emptySlice[models.Item], func(ctx context.Context) ([]models.Item, error) {
		return m.store.SearchItems(ctx, query)
	}, handler)
}

// --- All of a category ---

func (m *Manager) AllFirearms(ctx context.Context, handler func([]models.Firearm)) {
	run(ctx, "firearms", emptySlice[models.Firearm], m.store.Firearms, handler)
}

func (m *Manager) AllArmor(ctx context.Context, handler func([]models.Armor)) {
	run(ctx, "armor", emptySlice[models.Armor], m.store.Armor, handler)
}

func (m *Manager) AllBodyArmor(ctx context.Context, handler func([]models.Armor)) {
	run(ctx, "body_armor", emptySlice[models.Armor], m.store.BodyArmor, handler)
}

func (m *Manager) AllAmmo(ctx context.Context, handler func([]models.Ammo)) {
	run(ctx, "ammo", emptySlice[models.Ammo], m.store.Ammo, handler)
}

func (m *Manager) AllMedical(ctx context.Context, handler func([]models.Medical)) {
	run(ctx, "medical", emptySlice[models.Medical], m.store.Medical, handler)
}

func (m *Manager) AllThrowables(ctx context.Context, handler func([]models.Throwable)) {
	run(ctx, "throwables", emptySlice[models.Throwable], m.store.Throwables, handler)
}

func (m *Manager) AllMelee(ctx context.Context, handler func([]models.MeleeWeapon)) {
	run(ctx, "melee", emptySlice[models.MeleeWeapon], m.store.Melee, handler)
}

// --- Partitions ---

func (m *Manager) AllFirearmsByType(ctx context.Context, handler func(map[models.FirearmType][]models.Firearm)) {
	run(ctx, "firearms_by_type", func() map[models.FirearmType][]models.Firearm {
		return GroupFirearmsByType(nil)
	}, func(ctx context.Context) (map[models.FirearmType][]models.Firearm, error) {
		firearms, err := m.store.Firearms(ctx)
		if err != nil {
			return nil, err
		}
		return GroupFirearmsByType(firearms), nil
	}, handler)
}

func (m *Manager) AllArmorByClass(ctx context.Context, handler func(map[models.ArmorClass][]models.Armor)) {
	m.armorByClass(ctx, "armor_by_class", m.store.Armor, handler)
}

func (m *Manager) AllBodyArmorByClass(ctx context.Context, handler func(map[models.ArmorClass][]models.Armor)) {
	m.armorByClass(ctx, "body_armor_by_class", m.store.BodyArmor, handler)
}

func (m *Manager) armorByClass(ctx context.Context, name string, query func(context.Context) ([]models.Armor, error), handler func(map[models.ArmorClass][]models.Armor)) {
	run(ctx, name, func() map[models.ArmorClass][]models.Armor {
		return GroupArmorByClass(nil)
	}, func(ctx context.Context) (map[models.ArmorClass][]models.Armor, error) {
		armor, err := query(ctx)
		if err != nil {
			return nil, err
		}
		return GroupArmorByClass(armor), nil
	}, handler)
}

func (m *Manager) AllAmmoByCaliber(ctx context.Context, handler func(map[string][]models.Ammo)) {
	run(ctx, "ammo_by_caliber", func() map[string][]models.Ammo {
		return map[string][]models.Ammo{}
	}, func(ctx context.Context) (map[string][]models.Ammo, error) {
		ammo, err := m.store.Ammo(ctx)
		if err != nil {
			return nil, err
		}
		return GroupAmmoByCaliber(ammo), nil
	}, handler)
}

func (m *Manager) AllMedicalByType(ctx context.Context, handler func(map[models.MedicalItemType][]models.Medical)) {
	run(ctx, "medical_by_type", func() map[models.MedicalItemType][]models.Medical {
		return GroupMedicalByType(nil)
	}, func(ctx context.Context) (map[models.MedicalItemType][]models.Medical, error) {
		medical, err := m.store.Medical(ctx)
		if err != nil {
			return nil, err
		}
		return GroupMedicalByType(medical), nil
	}, handler)
}

// --- Filters ---

func (m *Manager) AllFirearmsOfType(ctx context.Context, t models.FirearmType, handler func([]models.Firearm)) {
	run(ctx, "firearms_of_type", emptySlice[models.Firearm], func(ctx context.Context) ([]models.Firearm, error) {
		return m.store.FirearmsOfType(ctx, t)
	}, handler)
}

func (m *Manager) AllFirearmsOfCaliber(ctx context.Context, caliber string, handler func([]models.Firearm)) {
	run(ctx, "firearms_of_caliber", emptySlice[models.Firearm], func(ctx context.Context) ([]models.Firearm, error) {
		return m.store.FirearmsOfCaliber(ctx, caliber)
	}, handler)
}

func (m *Manager) AllAmmoOfCaliber(ctx context.Context, caliber string, handler func([]models.Ammo)) {
	run(ctx, "ammo_of_caliber", emptySlice[models.Ammo], func(ctx context.Context) ([]models.Ammo, error) {
		return m.store.AmmoOfCaliber(ctx, caliber)
	}, handler)
}

func (m *Manager) AllBodyArmorOfClass(ctx context.Context, class models.ArmorClass, handler func([]models.Armor)) {
	run(ctx, "body_armor_of_class", emptySlice[models.Armor], func(ctx context.Context) ([]models.Armor, error) {
		return m.store.BodyArmorOfClass(ctx, class)
	}, handler)
}

func (m *Manager) AllBodyArmorWithMaterial(ctx context.Context, material models.ArmorMaterial, handler func([]models.Armor)) {
	run(ctx, "body_armor_with_material", emptySlice[models.Armor], func(ctx context.Context) ([]models.Armor, error) {
		return m.store.BodyArmorWithMaterial(ctx, material)
	}, handler)
}
