package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocalizedString_SetReportsChange(t *testing.T) {
	var name LocalizedString

	assert.True(t, name.Set("fi", "Kirjasto"))
	assert.False(t, name.Set("fi", "Kirjasto"))
	assert.True(t, name.Set("fi", "Pääkirjasto"))
	assert.True(t, name.Set("sv", "Biblioteket"))
	assert.Equal(t, "Pääkirjasto", name.Get("fi"))
}

func TestLocalizedString_Default(t *testing.T) {
	assert.Equal(t, "", LocalizedString{}.Default())
	assert.Equal(t, "B", LocalizedString{"sv": "B"}.Default())
	assert.Equal(t, "A", LocalizedString{"fi": "A", "sv": "B"}.Default())
	assert.Equal(t, "B", LocalizedString{"fi": "", "sv": "B"}.Default())
}

func TestUnit_SettersTouchOnlyOnChange(t *testing.T) {
	unit := NewUnit(1)
	assert.False(t, unit.Changed())

	unit.SetEmail("a@b.fi")
	assert.True(t, unit.Changed())

	unit.ClearChanged()
	unit.SetEmail("a@b.fi")
	unit.SetAddressZip("")
	unit.SetDataSource("")
	assert.False(t, unit.Changed())

	unit.SetLocation(22.2, 60.4)
	assert.True(t, unit.Changed())
	unit.ClearChanged()
	unit.SetLocation(22.2, 60.4)
	assert.False(t, unit.Changed())

	muni := "turku"
	unit.SetMunicipality(&muni)
	assert.True(t, unit.Changed())
	unit.ClearChanged()
	other := "turku"
	unit.SetMunicipality(&other)
	assert.False(t, unit.Changed(), "equal values behind different pointers are not a change")
}

func TestIdentifier_SetBinding(t *testing.T) {
	id := &UnitPTVIdentifier{}
	id.SetUnit(7)
	assert.True(t, id.Changed())

	id.ClearChanged()
	id.SetUnit(7)
	assert.False(t, id.Changed())
}
