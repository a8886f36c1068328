package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"busticket/internal/catalog"
	"busticket/internal/domain"
	"busticket/internal/domain/models"
	"busticket/internal/pricing"
	"busticket/internal/repositories"
	"busticket/internal/utils"

	"github.com/phpdave11/gofpdf"
	"go.uber.org/zap"
)

// DocsService renders the PDF e-ticket of a paid booking.
type DocsService struct {
	Bookings  repositories.BookingRepo
	RequestID string
	Loader    func(ctx context.Context, bookingID int64) (models.Booking, error)
}

func (s DocsService) GenerateETicket(ctx context.Context, userID, bookingID int64) ([]byte, string, error) {
	b, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, "", err
	}
	if b.UserID != userID {
		return nil, "", domain.NotFoundError{Resource: "booking"}
	}
	if b.PaymentStatus != models.PaymentPaid {
		return nil, "", domain.ConflictError{Resource: "booking", Msg: "e-ticket is available once the booking is paid"}
	}
	utils.LogEvent(s.RequestID, "docs", "generate_eticket", "rendering e-ticket", zap.Int64("booking_id", b.ID))
	return buildETicketPDF(b)
}

func (s DocsService) load(ctx context.Context, bookingID int64) (models.Booking, error) {
	if s.Loader != nil {
		return s.Loader(ctx, bookingID)
	}
	return s.Bookings.GetByID(ctx, bookingID)
}

func buildETicketPDF(b models.Booking) ([]byte, string, error) {
	agencyName := b.AgencyID
	if a, ok := catalog.FindAgency(b.AgencyID); ok {
		agencyName = a.Name
	}
	busType := b.BusTypeID
	if bt, ok := catalog.FindBusType(b.BusTypeID); ok {
		busType = bt.Name
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("E-Ticket "+b.Reference, false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "E-TICKET")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Reference   : %s", safe(b.Reference, "-")),
		fmt.Sprintf("Agency      : %s", safe(agencyName, "-")),
		fmt.Sprintf("Bus         : %s", safe(busType, "-")),
		fmt.Sprintf("Route       : %s -> %s", safe(b.RouteFrom, "-"), safe(b.RouteTo, "-")),
		fmt.Sprintf("Travel date : %s", safe(dateOnly(b.TravelDate), "-")),
		fmt.Sprintf("Seats       : %s", safe(strings.Join(b.Seats, ", "), "-")),
	}
	for _, l := range lines {
		pdf.Cell(0, 7, tr(l))
		pdf.Ln(7)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Passengers")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	for _, p := range b.Passengers {
		pdf.Cell(0, 6, tr(fmt.Sprintf("Seat %-4s %s (ID %s)", p.SeatNumber, safe(p.Name, "-"), safe(p.IDNumber, "-"))))
		pdf.Ln(6)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("%d x %s", len(b.Seats), pricing.FormatFCFA(b.PricePerSeat)))
	pdf.Ln(6)
	pdf.Cell(0, 6, "Service fee: "+pricing.FormatFCFA(b.ServiceFee))
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Total: "+pricing.FormatFCFA(b.Total))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Issued "+time.Now().Format("2006-01-02 15:04")+". Show this ticket and your ID card when boarding.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("ETICKET_%s.pdf", safeFilenamePart(b.Reference))
	return buf.Bytes(), filename, nil
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func dateOnly(v string) string {
	v = strings.TrimSpace(v)
	if len(v) >= 10 {
		return v[:10]
	}
	return v
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	s = replacer.Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}

// BuildManifestPDF renders the passenger manifest handed to the driver before departure.
func BuildManifestPDF(trip models.TripKey, entries []models.ManifestEntry) ([]byte, string, error) {
	agencyName := trip.AgencyID
	if a, ok := catalog.FindAgency(trip.AgencyID); ok {
		agencyName = a.Name
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Manifest "+trip.TravelDate, false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "PASSENGER MANIFEST")
	pdf.Ln(11)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, tr(fmt.Sprintf("%s - bus type %s", agencyName, trip.BusTypeID)))
	pdf.Ln(6)
	pdf.Cell(0, 6, tr(fmt.Sprintf("%s -> %s on %s", trip.RouteFrom, trip.RouteTo, trip.TravelDate)))
	pdf.Ln(10)

	widths := []float64{18, 70, 40, 36, 26}
	pdf.SetFont("Helvetica", "B", 10)
	for i, h := range []string{"Seat", "Passenger", "ID number", "Reference", "Payment"} {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Helvetica", "", 10)
	for _, e := range entries {
		cols := []string{e.SeatNumber, safe(e.PassengerName, "-"), safe(e.IDNumber, "-"), e.Reference, e.PaymentStatus}
		for i, v := range cols {
			pdf.CellFormat(widths[i], 7, tr(v), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(4)
	pdf.Cell(0, 6, fmt.Sprintf("Seats occupied: %d", len(entries)))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("MANIFEST_%s_%s_%s.pdf", safeFilenamePart(trip.AgencyID), safeFilenamePart(trip.BusTypeID), safeFilenamePart(trip.TravelDate))
	return buf.Bytes(), filename, nil
}
