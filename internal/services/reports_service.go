package services

import (
	"context"
	"strings"

	"busticket/internal/catalog"
	"busticket/internal/domain"
	"busticket/internal/domain/models"
	"busticket/internal/repositories"
	"busticket/internal/utils"

	"go.uber.org/zap"
)

type SalesReportFilter struct {
	AgencyID  string
	StartDate string
	EndDate   string
}

// ReportsService serves operator views over sold trips.
type ReportsService struct {
	Trips     repositories.TripsRepository
	RequestID string
}

// GetSalesReport returns seats sold and paid revenue per trip within an optional date range.
func (s ReportsService) GetSalesReport(ctx context.Context, f SalesReportFilter) ([]models.TripSales, error) {
	if f.AgencyID != "" {
		if _, ok := catalog.FindAgency(f.AgencyID); !ok {
			return nil, domain.NotFoundError{Resource: "agency"}
		}
	}
	start, err := optionalDate("start_date", f.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := optionalDate("end_date", f.EndDate)
	if err != nil {
		return nil, err
	}
	if start != "" && end != "" && end < start {
		return nil, domain.ValidationError{Field: "end_date", Msg: "end date is before start date"}
	}

	list, err := s.Trips.ListTripSales(ctx, repositories.TripSalesFilter{AgencyID: f.AgencyID, StartDate: start, EndDate: end})
	if err != nil {
		return nil, domain.InternalError{Msg: "failed to build sales report", Err: err}
	}
	utils.LogEvent(s.RequestID, "reports", "sales", "sales report built", zap.Int("trips", len(list)))
	return list, nil
}

// GetManifest lists the passengers of one trip.
func (s ReportsService) GetManifest(ctx context.Context, trip models.TripKey) ([]models.ManifestEntry, error) {
	trip, err := normalizeTrip(trip)
	if err != nil {
		return nil, err
	}
	list, err := s.Trips.Manifest(ctx, trip)
	if err != nil {
		return nil, domain.InternalError{Msg: "failed to load manifest", Err: err}
	}
	return list, nil
}

func normalizeTrip(trip models.TripKey) (models.TripKey, error) {
	agency, ok := catalog.FindAgency(trip.AgencyID)
	if !ok {
		return trip, domain.NotFoundError{Resource: "agency"}
	}
	if _, ok := agency.BusTypeFor(trip.BusTypeID); !ok {
		return trip, domain.ValidationError{Field: "busTypeId", Msg: agency.Name + " does not run bus type " + trip.BusTypeID}
	}
	trip.RouteFrom = utils.NormalizeSpace(trip.RouteFrom)
	trip.RouteTo = utils.NormalizeSpace(trip.RouteTo)
	if trip.RouteFrom == "" || trip.RouteTo == "" {
		return trip, domain.ValidationError{Field: "route", Msg: "departure and destination are required"}
	}
	day, err := utils.ParseDate(trip.TravelDate)
	if err != nil {
		return trip, domain.ValidationError{Field: "travelDate", Msg: "travel date must be YYYY-MM-DD", Err: err}
	}
	trip.TravelDate = utils.FormatDate(day)
	return trip, nil
}

func optionalDate(field, v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", nil
	}
	day, err := utils.ParseDate(v)
	if err != nil {
		return "", domain.ValidationError{Field: field, Msg: "date must be YYYY-MM-DD", Err: err}
	}
	return utils.FormatDate(day), nil
}
