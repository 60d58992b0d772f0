package models

import "time"

// DataSourcePTV tags rows owned by the PTV catalog import.
const DataSourcePTV = "PTV"

// SectionTypePhoneOrEmail is the connection section the catalog import owns.
// Connections of this section are rewritten from the feed on every run.
const SectionTypePhoneOrEmail = "PHONE_OR_EMAIL"

// Point is a WGS84 coordinate in (longitude, latitude) order.
type Point struct {
	Lon float64 `json:"lon" db:"location_lon"`
	Lat float64 `json:"lat" db:"location_lat"`
}

// Unit is a geolocated service-delivery point.
type Unit struct {
	ID                int              `json:"id"`
	Name              LocalizedString  `json:"name"`
	Description       LocalizedString  `json:"description"`
	StreetAddress     LocalizedString  `json:"street_address"`
	AddressPostalFull LocalizedString  `json:"address_postal_full"`
	WWW               LocalizedString  `json:"www"`
	Location          *Point           `json:"location,omitempty"`
	AddressZip        string           `json:"address_zip"`
	Email             string           `json:"email"`
	MunicipalityID    *string          `json:"municipality_id,omitempty"`
	DataSource        string           `json:"data_source"`
	LastModifiedTime  time.Time        `json:"last_modified_time"`

	changeFlag
}

func NewUnit(id int) *Unit {
	return &Unit{ID: id}
}

func (u *Unit) SetName(lang, value string) {
	if u.Name.Set(lang, value) {
		u.Touch()
	}
}

func (u *Unit) SetDescription(lang, value string) {
	if u.Description.Set(lang, value) {
		u.Touch()
	}
}

func (u *Unit) SetStreetAddress(lang, value string) {
	if u.StreetAddress.Set(lang, value) {
		u.Touch()
	}
}

func (u *Unit) SetAddressPostalFull(lang, value string) {
	if u.AddressPostalFull.Set(lang, value) {
		u.Touch()
	}
}

func (u *Unit) SetWWW(lang, value string) {
	if u.WWW.Set(lang, value) {
		u.Touch()
	}
}

func (u *Unit) SetLocation(lon, lat float64) {
	if u.Location != nil && u.Location.Lon == lon && u.Location.Lat == lat {
		return
	}
	u.Location = &Point{Lon: lon, Lat: lat}
	u.Touch()
}

func (u *Unit) SetAddressZip(zip string) {
	if u.AddressZip == zip {
		return
	}
	u.AddressZip = zip
	u.Touch()
}

func (u *Unit) SetEmail(email string) {
	if u.Email == email {
		return
	}
	u.Email = email
	u.Touch()
}

func (u *Unit) SetMunicipality(id *string) {
	if equalStringPtr(u.MunicipalityID, id) {
		return
	}
	u.MunicipalityID = id
	u.Touch()
}

func (u *Unit) SetDataSource(source string) {
	if u.DataSource == source {
		return
	}
	u.DataSource = source
	u.Touch()
}

// UnitConnection is a contact-detail row attached to a unit. The catalog
// import only writes the PHONE_OR_EMAIL section; rows are replaced wholesale,
// so they carry no change flag.
type UnitConnection struct {
	ID          int64           `json:"id"`
	UnitID      int             `json:"unit_id"`
	SectionType string          `json:"section_type"`
	Name        LocalizedString `json:"name"`
	Email       *string         `json:"email,omitempty"`
	Phone       *string         `json:"phone,omitempty"`
	Order       int             `json:"order"`
}

func equalStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
