package models

// Municipality is a reference row resolved by Finnish name during the unit
// import. The municipality registry itself is maintained elsewhere.
type Municipality struct {
	ID   string `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}
