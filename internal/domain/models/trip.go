package models

// TripSales aggregates the bookings of one trip for operator reports.
type TripSales struct {
	AgencyID   string `json:"agencyId"`
	BusTypeID  string `json:"busTypeId"`
	RouteFrom  string `json:"from"`
	RouteTo    string `json:"to"`
	TravelDate string `json:"travelDate"`
	Bookings   int    `json:"bookings"`
	SeatsSold  int    `json:"seatsSold"`
	// Revenue counts paid bookings only.
	Revenue int64 `json:"revenue"`
}

// ManifestEntry is one occupied seat on a trip's passenger manifest.
type ManifestEntry struct {
	SeatNumber    string `json:"seatNumber"`
	PassengerName string `json:"passengerName"`
	IDNumber      string `json:"idNumber"`
	Reference     string `json:"reference"`
	PaymentStatus string `json:"paymentStatus"`
}
