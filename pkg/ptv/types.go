package ptv

import "encoding/json"

// ResourceKind selects which catalog feed to fetch.
type ResourceKind string

const (
	ResourceUnit    ResourceKind = "unit"
	ResourceService ResourceKind = "service"
)

// ServiceChannelTypeLocation is the only channel type the importer processes;
// other channel types are not geolocated service-delivery points.
const ServiceChannelTypeLocation = "ServiceLocation"

// Payload is the envelope every catalog feed uses.
type Payload struct {
	ItemList []json.RawMessage `json:"itemList"`
}

// LocalizedText is a single translation entry.
type LocalizedText struct {
	Language string `json:"language"`
	Value    string `json:"value"`
}

// UnitRecord is one entry of the unit (service channel) feed.
type UnitRecord struct {
	ID                         string          `json:"id"`
	ServiceChannelType         string          `json:"serviceChannelType"`
	ServiceChannelNames        []LocalizedText `json:"serviceChannelNames"`
	ServiceChannelDescriptions []LocalizedText `json:"serviceChannelDescriptions"`
	Addresses                  []Address       `json:"addresses"`
	Emails                     []Email         `json:"emails"`
	PhoneNumbers               []PhoneNumber   `json:"phoneNumbers"`
	WebPages                   []WebPage       `json:"webPages"`
}

type Address struct {
	StreetAddress *StreetAddress `json:"streetAddress"`
}

type StreetAddress struct {
	Latitude     string          `json:"latitude"`
	Longitude    string          `json:"longitude"`
	PostalCode   string          `json:"postalCode"`
	StreetNumber string          `json:"streetNumber"`
	Street       []LocalizedText `json:"street"`
	PostOffice   []LocalizedText `json:"postOffice"`
	Municipality *Municipality   `json:"municipality"`
}

type Municipality struct {
	Name []LocalizedText `json:"name"`
}

type Email struct {
	Value string `json:"value"`
}

type PhoneNumber struct {
	Language              string `json:"language"`
	PrefixNumber          string `json:"prefixNumber"`
	Number                string `json:"number"`
	AdditionalInformation string `json:"additionalInformation"`
}

type WebPage struct {
	Language string `json:"language"`
	URL      string `json:"url"`
}

// ServiceRecord is one entry of the service feed.
type ServiceRecord struct {
	ID             string          `json:"id"`
	ServiceNames   []LocalizedText `json:"serviceNames"`
	ServiceClasses []ServiceClass  `json:"serviceClasses"`
}

type ServiceClass struct {
	Name []LocalizedText `json:"name"`
}
