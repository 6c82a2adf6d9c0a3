package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnumsValid(t *testing.T) {
	for _, ft := range AllFirearmTypes() {
		assert.True(t, ft.Valid(), ft)
	}
	assert.False(t, FirearmType("railgun").Valid())

	for _, c := range AllArmorClasses() {
		assert.True(t, c.Valid())
	}
	assert.False(t, ArmorClass(0).Valid())
	assert.False(t, ArmorClass(7).Valid())

	assert.True(t, MaterialCeramic.Valid())
	assert.False(t, ArmorMaterial("wood").Valid())
	assert.True(t, MedicalSplint.Valid())
	assert.False(t, MedicalItemType("").Valid())
	assert.True(t, ArmorVisor.Valid())
	assert.True(t, CategoryMelee.Valid())
	assert.False(t, Category("vehicle").Valid())
}

func TestVideoAdStateString(t *testing.T) {
	assert.Equal(t, "unavailable", VideoAdUnavailable.String())
	assert.Equal(t, "loading", VideoAdLoading.String())
	assert.Equal(t, "ready", VideoAdReady.String())
	assert.Equal(t, "unknown", VideoAdState(9).String())
}
