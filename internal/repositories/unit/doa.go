package unit

import (
	"database/sql"
	"time"

	"github.com/Ramsey-B/fern/internal/database"
	"github.com/Ramsey-B/fern/pkg/models"
)

const unitTable = "units"

// UnitRow maps the unit table. Translated fields live in per-language
// columns.
type UnitRow struct {
	ID                  int             `db:"id"`
	NameFi              sql.NullString  `db:"name_fi"`
	NameSv              sql.NullString  `db:"name_sv"`
	NameEn              sql.NullString  `db:"name_en"`
	DescriptionFi       sql.NullString  `db:"description_fi"`
	DescriptionSv       sql.NullString  `db:"description_sv"`
	DescriptionEn       sql.NullString  `db:"description_en"`
	StreetAddressFi     sql.NullString  `db:"street_address_fi"`
	StreetAddressSv     sql.NullString  `db:"street_address_sv"`
	StreetAddressEn     sql.NullString  `db:"street_address_en"`
	AddressPostalFullFi sql.NullString  `db:"address_postal_full_fi"`
	AddressPostalFullSv sql.NullString  `db:"address_postal_full_sv"`
	AddressPostalFullEn sql.NullString  `db:"address_postal_full_en"`
	WWWFi               sql.NullString  `db:"www_fi"`
	WWWSv               sql.NullString  `db:"www_sv"`
	WWWEn               sql.NullString  `db:"www_en"`
	LocationLon         sql.NullFloat64 `db:"location_lon"`
	LocationLat         sql.NullFloat64 `db:"location_lat"`
	AddressZip          sql.NullString  `db:"address_zip"`
	Email               sql.NullString  `db:"email"`
	MunicipalityID      sql.NullString  `db:"municipality_id"`
	DataSource          sql.NullString  `db:"data_source"`
	LastModifiedTime    time.Time       `db:"last_modified_time"`
}

var unitStruct = database.NewStruct(new(UnitRow))

func nullStr(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}

func FromUnit(unit *models.Unit) *UnitRow {
	row := &UnitRow{
		ID:                  unit.ID,
		NameFi:              nullStr(unit.Name.Get("fi")),
		NameSv:              nullStr(unit.Name.Get("sv")),
		NameEn:              nullStr(unit.Name.Get("en")),
		DescriptionFi:       nullStr(unit.Description.Get("fi")),
		DescriptionSv:       nullStr(unit.Description.Get("sv")),
		DescriptionEn:       nullStr(unit.Description.Get("en")),
		StreetAddressFi:     nullStr(unit.StreetAddress.Get("fi")),
		StreetAddressSv:     nullStr(unit.StreetAddress.Get("sv")),
		StreetAddressEn:     nullStr(unit.StreetAddress.Get("en")),
		AddressPostalFullFi: nullStr(unit.AddressPostalFull.Get("fi")),
		AddressPostalFullSv: nullStr(unit.AddressPostalFull.Get("sv")),
		AddressPostalFullEn: nullStr(unit.AddressPostalFull.Get("en")),
		WWWFi:               nullStr(unit.WWW.Get("fi")),
		WWWSv:               nullStr(unit.WWW.Get("sv")),
		WWWEn:               nullStr(unit.WWW.Get("en")),
		AddressZip:          nullStr(unit.AddressZip),
		Email:               nullStr(unit.Email),
		DataSource:          nullStr(unit.DataSource),
		LastModifiedTime:    unit.LastModifiedTime,
	}
	if unit.Location != nil {
		row.LocationLon = sql.NullFloat64{Float64: unit.Location.Lon, Valid: true}
		row.LocationLat = sql.NullFloat64{Float64: unit.Location.Lat, Valid: true}
	}
	if unit.MunicipalityID != nil {
		row.MunicipalityID = nullStr(*unit.MunicipalityID)
	}
	return row
}

func ToUnit(row *UnitRow) *models.Unit {
	unit := &models.Unit{
		ID:               row.ID,
		AddressZip:       row.AddressZip.String,
		Email:            row.Email.String,
		DataSource:       row.DataSource.String,
		LastModifiedTime: row.LastModifiedTime,
	}
	setLocalized(&unit.Name, row.NameFi, row.NameSv, row.NameEn)
	setLocalized(&unit.Description, row.DescriptionFi, row.DescriptionSv, row.DescriptionEn)
	setLocalized(&unit.StreetAddress, row.StreetAddressFi, row.StreetAddressSv, row.StreetAddressEn)
	setLocalized(&unit.AddressPostalFull, row.AddressPostalFullFi, row.AddressPostalFullSv, row.AddressPostalFullEn)
	setLocalized(&unit.WWW, row.WWWFi, row.WWWSv, row.WWWEn)
	if row.LocationLon.Valid && row.LocationLat.Valid {
		unit.Location = &models.Point{Lon: row.LocationLon.Float64, Lat: row.LocationLat.Float64}
	}
	if row.MunicipalityID.Valid {
		id := row.MunicipalityID.String
		unit.MunicipalityID = &id
	}
	return unit
}

func setLocalized(ls *models.LocalizedString, fi, sv, en sql.NullString) {
	if fi.Valid {
		ls.Set("fi", fi.String)
	}
	if sv.Valid {
		ls.Set("sv", sv.String)
	}
	if en.Valid {
		ls.Set("en", en.String)
	}
}
