package models

import (
	"encoding/json"
	"fmt"
)

// Category identifies which catalog an item belongs to
type Category string

const (
	CategoryFirearm   Category = "firearm"
	CategoryArmor     Category = "armor"
	CategoryAmmo      Category = "ammo"
	CategoryMedical   Category = "medical"
	CategoryThrowable Category = "throwable"
	CategoryMelee     Category = "melee"
)

// AllCategories returns every catalog category
func AllCategories() []Category {
	return []Category{
		CategoryFirearm, CategoryArmor, CategoryAmmo,
		CategoryMedical, CategoryThrowable, CategoryMelee,
	}
}

// Valid reports whether c is a known category
func (c Category) Valid() bool {
	for _, known := range AllCategories() {
		if c == known {
			return true
		}
	}
	return false
}

// BaseItem holds the fields shared by every catalog entry
type BaseItem struct {
	ID          string   `json:"id"`
	Category    Category `json:"category"`
	Name        string   `json:"name"`
	ShortName   string   `json:"short_name"`
	Description string   `json:"description,omitempty"`
	Weight      float64  `json:"weight"` // kg
	ImageURL    string   `json:"image_url,omitempty"`
}

// Item is any catalog entry
type Item interface {
	Base() *BaseItem
}

// Base implements Item
func (b *BaseItem) Base() *BaseItem { return b }

// Firearm is a weapon that fires ammunition of a single caliber
type Firearm struct {
	BaseItem
	Type           FirearmType `json:"type"`
	Caliber        string      `json:"caliber"`
	FireRate       int         `json:"fire_rate"`       // rounds per minute
	EffectiveRange int         `json:"effective_range"` // meters
}

// Armor covers body armor, helmets and visors
type Armor struct {
	BaseItem
	Type       ArmorType     `json:"type"`
	Class      ArmorClass    `json:"class"`
	Material   ArmorMaterial `json:"material"`
	Durability float64       `json:"durability"`
	Zones      []string      `json:"zones,omitempty"`
}

// Ammo is a single cartridge type
type Ammo struct {
	BaseItem
	Caliber     string `json:"caliber"`
	Damage      int    `json:"damage"`
	Penetration int    `json:"penetration"`
	ArmorDamage int    `json:"armor_damage"`
	Tracer      bool   `json:"tracer,omitempty"`
}

// Medical is a consumable healing item
type Medical struct {
	BaseItem
	Type      MedicalItemType `json:"type"`
	Resources int             `json:"resources"`
	UseTime   float64         `json:"use_time"` // seconds
}

// Throwable is a grenade or other thrown item
type Throwable struct {
	BaseItem
	FuseTime        float64 `json:"fuse_time"`
	ExplosionRadius float64 `json:"explosion_radius"`
}

// MeleeWeapon is a knife or other close quarters weapon
type MeleeWeapon struct {
	BaseItem
	SlashDamage int `json:"slash_damage"`
	StabDamage  int `json:"stab_damage"`
}

// DecodeItem unmarshals data into the concrete item type for category
func DecodeItem(category Category, data []byte) (Item, error) {
	var item Item
	switch category {
	case CategoryFirearm:
		item = &Firearm{}
	case CategoryArmor:
		item = &Armor{}
	case CategoryAmmo:
		item = &Ammo{}
	case CategoryMedical:
		item = &Medical{}
	case CategoryThrowable:
		item = &Throwable{}
	case CategoryMelee:
		item = &MeleeWeapon{}
	default:
		return nil, fmt.Errorf("unknown category %q", category)
	}
	if err := json.Unmarshal(data, item); err != nil {
		return nil, err
	}
	item.Base().Category = category
	return item, nil
}

// DecodeTaggedItem decodes an item whose JSON carries its own "category"
func DecodeTaggedItem(data []byte) (Item, error) {
	var tag struct {
		Category Category `json:"category"`
	}
	if err := json.Unmarshal(data, &tag); err != nil {
		return nil, err
	}
	return DecodeItem(tag.Category, data)
}
