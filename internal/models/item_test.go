package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeTaggedItem(t *testing.T) {
	item, err := DecodeTaggedItem([]byte(`{"category": "armor", "id": "paca", "name": "PACA", "type": "body", "class": 2, "material": "aramid"}`))
	require.NoError(t, err)

	armor, ok := item.(*Armor)
	require.True(t, ok, "expected *Armor, got %T", item)
	assert.Equal(t, CategoryArmor, armor.Category)
	assert.Equal(t, ArmorClass(2), armor.Class)
	assert.Equal(t, MaterialAramid, armor.Material)

	_, err = DecodeTaggedItem([]byte(`{"category": "vehicle", "id": "btr"}`))
	assert.Error(t, err)

	_, err = DecodeTaggedItem([]byte(`{"id": "untagged"}`))
	assert.Error(t, err)

	_, err = DecodeTaggedItem([]byte(`[1, 2]`))
	assert.Error(t, err)
}

func TestDecodeItemSetsCategory(t *testing.T) {
	item, err := DecodeItem(CategoryMelee, []byte(`{"id": "6x5", "category": "ammo", "stab_damage": 45}`))
	require.NoError(t, err)
	assert.Equal(t, CategoryMelee, item.Base().Category)
	assert.Equal(t, 45, item.(*MeleeWeapon).StabDamage)
}
