package services

import (
	"context"
	"testing"

	"busticket/internal/domain"
	"busticket/internal/domain/models"
	"busticket/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
)

func newReportsService(t *testing.T) (ReportsService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return ReportsService{Trips: repositories.TripsRepository{DB: db}}, mock
}

func TestSalesReport(t *testing.T) {
	svc, mock := newReportsService(t)
	mock.ExpectQuery("FROM bookings b").
		WithArgs("agency1", "2030-01-01", "2030-01-31").
		WillReturnRows(sqlmock.NewRows([]string{"agency_id", "bus_type_id", "route_from", "route_to", "day", "bookings", "seats", "revenue"}).
			AddRow("agency1", "30", "Douala", "Yaounde", "2030-01-15", 2, 3, 13500))

	list, err := svc.GetSalesReport(context.Background(), SalesReportFilter{AgencyID: "agency1", StartDate: "2030-01-01", EndDate: "2030-01-31"})
	if err != nil {
		t.Fatalf("GetSalesReport: %v", err)
	}
	if len(list) != 1 || list[0].SeatsSold != 3 || list[0].Revenue != 13500 {
		t.Fatalf("unexpected report %+v", list)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSalesReportValidation(t *testing.T) {
	svc, _ := newReportsService(t)
	ctx := context.Background()
	if _, err := svc.GetSalesReport(ctx, SalesReportFilter{StartDate: "01/01/2030"}); !domain.IsValidation(err) {
		t.Fatalf("bad date: %v", err)
	}
	if _, err := svc.GetSalesReport(ctx, SalesReportFilter{StartDate: "2030-02-01", EndDate: "2030-01-01"}); !domain.IsValidation(err) {
		t.Fatalf("inverted range: %v", err)
	}
	if _, err := svc.GetSalesReport(ctx, SalesReportFilter{AgencyID: "nope"}); !domain.IsNotFound(err) {
		t.Fatalf("unknown agency: %v", err)
	}
}

func TestManifest(t *testing.T) {
	svc, mock := newReportsService(t)
	mock.ExpectQuery("LEFT JOIN booking_passengers").
		WithArgs("agency1", "30", "Douala", "Yaounde", "2030-01-15").
		WillReturnRows(sqlmock.NewRows([]string{"seat_number", "passenger_name", "id_number", "reference", "payment_status"}).
			AddRow("3", "Ada", "CM1", "BK-TEST0001", "paid").
			AddRow("4", "Bo", "CM2", "BK-TEST0001", "paid"))

	list, err := svc.GetManifest(context.Background(), models.TripKey{
		AgencyID: "agency1", BusTypeID: "30", RouteFrom: " Douala ", RouteTo: "Yaounde", TravelDate: "2030-01-15",
	})
	if err != nil {
		t.Fatalf("GetManifest: %v", err)
	}
	if len(list) != 2 || list[0].PassengerName != "Ada" {
		t.Fatalf("unexpected manifest %+v", list)
	}

	if _, err := svc.GetManifest(context.Background(), models.TripKey{AgencyID: "agency1", BusTypeID: "99"}); !domain.IsValidation(err) {
		t.Fatalf("unknown bus type: %v", err)
	}
}
