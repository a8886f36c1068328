package services

import (
	"bytes"
	"context"
	"testing"

	"busticket/internal/domain"
	"busticket/internal/domain/models"
)

func docsBooking(paymentStatus string) models.Booking {
	return models.Booking{
		ID: 4, Reference: "BK-TEST0001", UserID: 7, AgencyID: "agency1", BusTypeID: "30",
		RouteFrom: "Douala", RouteTo: "Yaoundé", TravelDate: "2030-01-15",
		Seats:        []string{"3", "4"},
		Passengers:   []models.BookingPassenger{{SeatNumber: "3", Name: "Adèle", IDNumber: "CM1"}, {SeatNumber: "4", Name: "Bo", IDNumber: "CM2"}},
		PricePerSeat: 6500, ServiceFee: 500, Total: 13500,
		Status: models.BookingConfirmed, PaymentStatus: paymentStatus,
	}
}

func TestDocsServiceGenerateETicket(t *testing.T) {
	svc := DocsService{Loader: func(_ context.Context, id int64) (models.Booking, error) {
		return docsBooking(models.PaymentPaid), nil
	}}

	pdf, filename, err := svc.GenerateETicket(context.Background(), 7, 4)
	if err != nil {
		t.Fatalf("GenerateETicket returned error: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) || filename != "ETICKET_BK-TEST0001.pdf" {
		t.Fatalf("unexpected output: %d bytes, %q", len(pdf), filename)
	}
}

func TestDocsServiceRules(t *testing.T) {
	unpaid := DocsService{Loader: func(_ context.Context, id int64) (models.Booking, error) {
		return docsBooking(models.PaymentUnpaid), nil
	}}
	if _, _, err := unpaid.GenerateETicket(context.Background(), 7, 4); !domain.IsConflict(err) {
		t.Fatalf("unpaid booking: %v", err)
	}
	if _, _, err := unpaid.GenerateETicket(context.Background(), 8, 4); !domain.IsNotFound(err) {
		t.Fatalf("foreign booking: %v", err)
	}
}

func TestBuildManifestPDF(t *testing.T) {
	trip := models.TripKey{AgencyID: "agency1", BusTypeID: "30", RouteFrom: "Douala", RouteTo: "Yaoundé", TravelDate: "2030-01-15"}
	pdf, filename, err := BuildManifestPDF(trip, []models.ManifestEntry{
		{SeatNumber: "3", PassengerName: "Adèle", IDNumber: "CM1", Reference: "BK-TEST0001", PaymentStatus: "paid"},
	})
	if err != nil {
		t.Fatalf("BuildManifestPDF: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) || filename != "MANIFEST_agency1_30_2030-01-15.pdf" {
		t.Fatalf("unexpected output: %d bytes, %q", len(pdf), filename)
	}
}
