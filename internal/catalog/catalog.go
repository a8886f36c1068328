package catalog

import (
	"slices"
	"strings"
)

// BusType is a named capacity/price configuration.
type BusType struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	TotalSeats int    `json:"totalSeats"`
	BasePrice  int64  `json:"basePrice"`
}

type Bus struct {
	ID        string `json:"id"`
	BusNumber string `json:"busNumber"`
	BusTypeID string `json:"busTypeId"`
	BasePrice int64  `json:"basePrice"`
}

type ContactInfo struct {
	Phone   string `json:"phone"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
}

type Agency struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Location     string       `json:"location"`
	Destinations []string     `json:"destinations"`
	Buses        []Bus        `json:"buses"`
	ContactInfo  *ContactInfo `json:"contactInfo,omitempty"`
}

// DefaultBusTypeID is used when an agency runs no bus of the requested type.
const DefaultBusTypeID = "30"

var busTypes = []BusType{
	{ID: "30", Name: "30-Seater", TotalSeats: 30, BasePrice: 6500},
	{ID: "56", Name: "56-Seater", TotalSeats: 56, BasePrice: 6500},
	{ID: "70", Name: "70-Seater", TotalSeats: 70, BasePrice: 6500},
}

var cities = []string{"Buea", "Limbe", "Douala", "Bamenda", "Yaounde", "Baffoussam"}

var agencies = []Agency{
	{
		ID: "agency1", Name: "Musango Express", Location: "Buea",
		Destinations: []string{"Douala", "Yaounde", "Limbe", "Bamenda", "Baffoussam", "Kumba", "Dschang"},
		Buses: []Bus{
			{ID: "bus1", BusNumber: "ME-101", BusTypeID: "30", BasePrice: 6500},
			{ID: "bus2", BusNumber: "ME-202", BusTypeID: "56", BasePrice: 6500},
			{ID: "bus3", BusNumber: "ME-303", BusTypeID: "70", BasePrice: 6500},
		},
		ContactInfo: &ContactInfo{Phone: "677000101", Address: "Mile 17, Buea"},
	},
	{
		ID: "agency2", Name: "Africon Voyages", Location: "Douala",
		Destinations: []string{"Buea", "Yaounde", "Limbe", "Bamenda", "Baffoussam", "Kumba", "Edea", "Nkongsamba"},
		Buses: []Bus{
			{ID: "bus4", BusNumber: "AV-404", BusTypeID: "70", BasePrice: 7000},
			{ID: "bus5", BusNumber: "AV-505", BusTypeID: "30", BasePrice: 7000},
		},
	},
	{
		ID: "agency3", Name: "Oasis Travels", Location: "Yaounde",
		Destinations: []string{"Douala", "Buea", "Bamenda", "Baffoussam", "Edea", "Ebolowa", "Bertoua"},
		Buses: []Bus{
			{ID: "bus6", BusNumber: "OT-606", BusTypeID: "30", BasePrice: 6000},
			{ID: "bus7", BusNumber: "OT-707", BusTypeID: "56", BasePrice: 6000},
		},
	},
	{
		ID: "agency4", Name: "Guarantee Express", Location: "Bamenda",
		Destinations: []string{"Douala", "Yaounde", "Buea", "Baffoussam", "Kumba", "Nkongsamba"},
		Buses: []Bus{
			{ID: "bus8", BusNumber: "GE-808", BusTypeID: "56", BasePrice: 5500},
			{ID: "bus9", BusNumber: "GE-909", BusTypeID: "70", BasePrice: 5500},
		},
	},
	{
		ID: "agency5", Name: "Amour Mezam", Location: "Bamenda",
		Destinations: []string{"Douala", "Yaounde", "Buea", "Baffoussam", "Ngaoundere", "Garoua"},
		Buses: []Bus{
			{ID: "bus10", BusNumber: "AM-1010", BusTypeID: "70", BasePrice: 5000},
		},
	},
	{
		ID: "agency6", Name: "Touristique Express", Location: "Douala",
		Destinations: []string{"Yaounde", "Buea", "Limbe", "Kumba", "Edea", "Bafang"},
		Buses: []Bus{
			{ID: "bus11", BusNumber: "TE-1111", BusTypeID: "30", BasePrice: 7500},
			{ID: "bus12", BusNumber: "TE-1212", BusTypeID: "56", BasePrice: 7500},
		},
	},
	{
		ID: "agency7", Name: "Nouvelle Liberte", Location: "Yaounde",
		Destinations: []string{"Douala", "Bamenda", "Baffoussam", "Ebolowa", "Bertoua", "Ngaoundere"},
		Buses: []Bus{
			{ID: "bus13", BusNumber: "NL-1313", BusTypeID: "56", BasePrice: 8000},
			{ID: "bus14", BusNumber: "NL-1414", BusTypeID: "70", BasePrice: 8000},
		},
	},
}

// BusTypes returns a copy of the bus type catalog.
func BusTypes() []BusType {
	return slices.Clone(busTypes)
}

func FindBusType(id string) (BusType, bool) {
	id = strings.TrimSpace(id)
	for _, bt := range busTypes {
		if bt.ID == id {
			return bt, true
		}
	}
	return BusType{}, false
}

func Cities() []string {
	return slices.Clone(cities)
}

func Agencies() []Agency {
	out := make([]Agency, len(agencies))
	copy(out, agencies)
	return out
}

func FindAgency(id string) (Agency, bool) {
	id = strings.TrimSpace(id)
	for _, a := range agencies {
		if a.ID == id {
			return a, true
		}
	}
	return Agency{}, false
}

// FilterAgencies keeps agencies serving both cities. An empty from or to returns everything.
func FilterAgencies(from, to string) []Agency {
	from = strings.TrimSpace(from)
	to = strings.TrimSpace(to)
	if from == "" || to == "" {
		return Agencies()
	}
	out := []Agency{}
	for _, a := range agencies {
		if a.Serves(from, to) {
			out = append(out, a)
		}
	}
	return out
}

// Serves reports whether the agency runs between from and to. The agency's own
// location counts as a stop.
func (a Agency) Serves(from, to string) bool {
	if strings.EqualFold(from, to) {
		return false
	}
	return a.stops(from) && a.stops(to)
}

func (a Agency) stops(city string) bool {
	if strings.EqualFold(a.Location, city) {
		return true
	}
	for _, d := range a.Destinations {
		if strings.EqualFold(d, city) {
			return true
		}
	}
	return false
}

// BusTypeFor resolves the bus type an agency runs for busTypeID and its price.
// Agencies override the catalog base price with their own fare.
func (a Agency) BusTypeFor(busTypeID string) (BusType, bool) {
	bt, ok := FindBusType(busTypeID)
	if !ok {
		return BusType{}, false
	}
	for _, b := range a.Buses {
		if b.BusTypeID == bt.ID {
			if b.BasePrice > 0 {
				bt.BasePrice = b.BasePrice
			}
			return bt, true
		}
	}
	return BusType{}, false
}

// DefaultBusType is the first bus type the agency operates, else the catalog default.
func (a Agency) DefaultBusType() BusType {
	for _, b := range a.Buses {
		if bt, ok := a.BusTypeFor(b.BusTypeID); ok {
			return bt
		}
	}
	bt, _ := FindBusType(DefaultBusTypeID)
	return bt
}
