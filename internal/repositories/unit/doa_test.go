package unit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fern/pkg/models"
)

func TestFromUnit_NullsEmptyFields(t *testing.T) {
	u := models.NewUnit(7)
	u.SetName("fi", "Pääkirjasto")
	u.SetDataSource(models.DataSourcePTV)
	u.LastModifiedTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	row := FromUnit(u)
	assert.Equal(t, 7, row.ID)
	assert.True(t, row.NameFi.Valid)
	assert.Equal(t, "Pääkirjasto", row.NameFi.String)
	assert.False(t, row.NameSv.Valid, "missing translations are stored as NULL")
	assert.False(t, row.Email.Valid)
	assert.False(t, row.LocationLon.Valid)
	assert.False(t, row.MunicipalityID.Valid)
	assert.Equal(t, models.DataSourcePTV, row.DataSource.String)
}

func TestToUnit_RoundTrip(t *testing.T) {
	muni := "turku"
	u := models.NewUnit(7)
	u.SetName("fi", "Pääkirjasto")
	u.SetName("sv", "Huvudbiblioteket")
	u.SetStreetAddress("fi", "Linnankatu 2")
	u.SetLocation(22.2666, 60.4518)
	u.SetAddressZip("20100")
	u.SetEmail("kirjasto@turku.fi")
	u.SetMunicipality(&muni)
	u.SetDataSource(models.DataSourcePTV)
	u.LastModifiedTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	got := ToUnit(FromUnit(u))
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, u.Name, got.Name)
	assert.Equal(t, u.StreetAddress, got.StreetAddress)
	require.NotNil(t, got.Location)
	assert.Equal(t, *u.Location, *got.Location)
	assert.Equal(t, u.AddressZip, got.AddressZip)
	assert.Equal(t, u.Email, got.Email)
	require.NotNil(t, got.MunicipalityID)
	assert.Equal(t, muni, *got.MunicipalityID)
	assert.Equal(t, u.DataSource, got.DataSource)
	assert.Equal(t, u.LastModifiedTime, got.LastModifiedTime)
	assert.False(t, got.Changed(), "rows read from the store start clean")
}
