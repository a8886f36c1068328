package services

import (
	"context"
	"errors"
	"strings"

	"busticket/internal/booking"
	"busticket/internal/catalog"
	"busticket/internal/domain"
	"busticket/internal/domain/models"
	"busticket/internal/pricing"
	"busticket/internal/repositories"
	"busticket/internal/seating"
	"busticket/internal/sessions"
	"busticket/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const WarningMaxSeats = "maximum seats reached"

// BookingService drives booking sessions from seat selection to a stored booking.
type BookingService struct {
	Sessions   sessions.Store
	Bookings   repositories.BookingRepo
	Seats      repositories.BookingSeatRepo
	ServiceFee int64
	RequestID  string
	// NewID overrides session id generation in tests.
	NewID func() string
}

type StartSessionInput struct {
	AgencyID   string `json:"agencyId"`
	From       string `json:"from"`
	To         string `json:"to"`
	TravelDate string `json:"travelDate"`
	BusTypeID  string `json:"busTypeId"`
}

type ToggleResult struct {
	Outcome seating.Outcome  `json:"outcome"`
	Warning string           `json:"warning,omitempty"`
	Session *booking.Session `json:"session"`
}

type PassengerInput struct {
	SeatNumber string `json:"seatNumber"`
	Name       string `json:"name"`
	IDNumber   string `json:"idNumber"`
	IDPhoto    string `json:"idPhoto"`
}

func (s BookingService) StartSession(ctx context.Context, userID int64, in StartSessionInput) (*booking.Session, error) {
	agency, ok := catalog.FindAgency(in.AgencyID)
	if !ok {
		return nil, domain.NotFoundError{Resource: "agency"}
	}
	from := utils.NormalizeSpace(in.From)
	to := utils.NormalizeSpace(in.To)
	if from == "" || to == "" {
		return nil, domain.ValidationError{Field: "route", Msg: "departure and destination are required"}
	}
	if strings.EqualFold(from, to) {
		return nil, domain.ValidationError{Field: "route", Msg: "departure and destination must differ"}
	}
	if !agency.Serves(from, to) {
		return nil, domain.ValidationError{Field: "route", Msg: agency.Name + " does not serve " + from + " - " + to}
	}
	day, err := utils.ParseDate(in.TravelDate)
	if err != nil {
		return nil, domain.ValidationError{Field: "travelDate", Msg: "travel date must be YYYY-MM-DD", Err: err}
	}
	if utils.IsPastDate(day, utils.NowUTC()) {
		return nil, domain.ValidationError{Field: "travelDate", Msg: "travel date is in the past"}
	}

	bt := agency.DefaultBusType()
	if id := strings.TrimSpace(in.BusTypeID); id != "" {
		if bt, ok = agency.BusTypeFor(id); !ok {
			return nil, domain.ValidationError{Field: "busTypeId", Msg: agency.Name + " does not run bus type " + id}
		}
	}

	trip := models.TripKey{AgencyID: agency.ID, BusTypeID: bt.ID, RouteFrom: from, RouteTo: to, TravelDate: utils.FormatDate(day)}
	sold, err := s.Seats.SoldSeats(ctx, trip)
	if err != nil {
		return nil, domain.InternalError{Msg: "failed to load sold seats", Err: err}
	}

	sess, err := booking.NewSession(s.newID(), bt, sold, s.serviceFee())
	if err != nil {
		return nil, domain.ValidationError{Field: "busTypeId", Msg: err.Error(), Err: err}
	}
	sess.UserID = userID
	sess.AgencyID = agency.ID
	sess.From = from
	sess.To = to
	sess.TravelDate = trip.TravelDate

	if err := s.Sessions.Save(ctx, sess); err != nil {
		return nil, domain.InternalError{Msg: "failed to store booking session", Err: err}
	}
	utils.LogEvent(s.RequestID, "booking", "start_session", "session started",
		zap.String("session_id", sess.ID), zap.String("agency_id", agency.ID), zap.String("bus_type", bt.ID))
	return sess, nil
}

func (s BookingService) GetSession(ctx context.Context, userID int64, id string) (*booking.Session, error) {
	sess, err := s.Sessions.Get(ctx, id)
	if errors.Is(err, sessions.ErrNotFound) {
		return nil, domain.NotFoundError{Resource: "booking session", Err: err}
	}
	if err != nil {
		return nil, domain.InternalError{Msg: "failed to load booking session", Err: err}
	}
	if sess.UserID != userID {
		return nil, domain.NotFoundError{Resource: "booking session"}
	}
	return sess, nil
}

// ToggleSeat refreshes sold seats first so a seat sold meanwhile cannot be picked.
func (s BookingService) ToggleSeat(ctx context.Context, userID int64, id, seatNumber string) (ToggleResult, error) {
	sess, err := s.GetSession(ctx, userID, id)
	if err != nil {
		return ToggleResult{}, err
	}
	if sess.State != booking.StateConfirmed {
		if err := s.refreshSold(ctx, sess); err != nil {
			return ToggleResult{}, err
		}
	}
	out := sess.ToggleSeat(seatNumber)
	if err := s.Sessions.Save(ctx, sess); err != nil {
		return ToggleResult{}, domain.InternalError{Msg: "failed to store booking session", Err: err}
	}
	res := ToggleResult{Outcome: out, Session: sess}
	if out == seating.LimitReached {
		res.Warning = WarningMaxSeats
	}
	return res, nil
}

func (s BookingService) ChangeBusType(ctx context.Context, userID int64, id, busTypeID string) (*booking.Session, error) {
	sess, err := s.GetSession(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if sess.State == booking.StateConfirmed {
		return nil, domain.ConflictError{Resource: "booking session", Msg: booking.ErrSessionClosed.Error(), Err: booking.ErrSessionClosed}
	}
	agency, ok := catalog.FindAgency(sess.AgencyID)
	if !ok {
		return nil, domain.NotFoundError{Resource: "agency"}
	}
	bt, ok := agency.BusTypeFor(busTypeID)
	if !ok {
		return nil, domain.ValidationError{Field: "busTypeId", Msg: agency.Name + " does not run bus type " + busTypeID}
	}
	trip := tripOf(sess)
	trip.BusTypeID = bt.ID
	sold, err := s.Seats.SoldSeats(ctx, trip)
	if err != nil {
		return nil, domain.InternalError{Msg: "failed to load sold seats", Err: err}
	}
	if err := sess.ChangeBusType(bt, sold); err != nil {
		if errors.Is(err, booking.ErrSessionClosed) {
			return nil, domain.ConflictError{Resource: "booking session", Msg: err.Error(), Err: err}
		}
		return nil, domain.ValidationError{Field: "busTypeId", Msg: err.Error(), Err: err}
	}
	if err := s.Sessions.Save(ctx, sess); err != nil {
		return nil, domain.InternalError{Msg: "failed to store booking session", Err: err}
	}
	return sess, nil
}

func (s BookingService) SetPassengers(ctx context.Context, userID int64, id string, in []PassengerInput) (*booking.Session, error) {
	sess, err := s.GetSession(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if len(in) == 0 {
		return nil, domain.ValidationError{Field: "passengers", Msg: "no passenger details given"}
	}
	for _, p := range in {
		err := sess.SetPassenger(strings.TrimSpace(p.SeatNumber), booking.PassengerInfo{
			Name: p.Name, IDNumber: p.IDNumber, IDPhoto: p.IDPhoto,
		})
		if errors.Is(err, booking.ErrSessionClosed) {
			return nil, domain.ConflictError{Resource: "booking session", Msg: err.Error(), Err: err}
		}
		if err != nil {
			return nil, domain.ValidationError{Field: "passengers", Msg: err.Error(), Err: err}
		}
	}
	if err := s.Sessions.Save(ctx, sess); err != nil {
		return nil, domain.InternalError{Msg: "failed to store booking session", Err: err}
	}
	return sess, nil
}

func (s BookingService) Quote(ctx context.Context, userID int64, id string) (pricing.Quote, error) {
	sess, err := s.GetSession(ctx, userID, id)
	if err != nil {
		return pricing.Quote{}, err
	}
	return sess.Quote(), nil
}

// Confirm stores the session's selection as a booking. Confirming twice returns
// the booking created the first time.
func (s BookingService) Confirm(ctx context.Context, userID int64, id string) (models.Booking, error) {
	sess, err := s.GetSession(ctx, userID, id)
	if err != nil {
		return models.Booking{}, err
	}
	if sess.State == booking.StateConfirmed && sess.BookingID > 0 {
		return s.Bookings.GetByID(ctx, sess.BookingID)
	}

	sold, err := s.Seats.SoldSeats(ctx, tripOf(sess))
	if err != nil {
		return models.Booking{}, domain.InternalError{Msg: "failed to load sold seats", Err: err}
	}
	if lost := sess.ApplySold(sold); len(lost) > 0 {
		_ = s.Sessions.Save(ctx, sess)
		return models.Booking{}, domain.ConflictError{Resource: "seat", Msg: booking.SeatUnavailableError{Seats: lost}.Error()}
	}

	snap, err := sess.Snapshot()
	if err != nil {
		return models.Booking{}, snapshotError(err)
	}

	b := models.Booking{
		Reference:     newReference(),
		UserID:        snap.UserID,
		AgencyID:      snap.AgencyID,
		BusTypeID:     snap.BusTypeID,
		RouteFrom:     snap.From,
		RouteTo:       snap.To,
		TravelDate:    snap.TravelDate,
		Seats:         booking.SortedSeats(snap.Seats),
		PricePerSeat:  snap.Quote.BasePrice,
		ServiceFee:    snap.Quote.ServiceFee,
		Total:         snap.Quote.Total,
		Status:        models.BookingPending,
		PaymentStatus: models.PaymentUnpaid,
		CreatedAt:     utils.NowUTC(),
	}
	for _, p := range snap.Passengers {
		b.Passengers = append(b.Passengers, models.BookingPassenger{
			SeatNumber: p.SeatNumber, Name: p.Name, IDNumber: p.IDNumber, IDPhoto: p.IDPhoto,
		})
	}

	bookingID, err := s.Bookings.Create(ctx, b)
	if err != nil {
		if domain.IsConflict(err) {
			return models.Booking{}, err
		}
		return models.Booking{}, domain.InternalError{Msg: "failed to store booking", Err: err}
	}
	b.ID = bookingID

	sess.MarkConfirmed(bookingID)
	if err := s.Sessions.Save(ctx, sess); err != nil {
		zap.L().Warn("booking stored but session not updated", zap.String("session_id", sess.ID), zap.Error(err))
	}
	utils.LogEvent(s.RequestID, "booking", "confirm", "booking stored",
		zap.Int64("booking_id", bookingID), zap.Int("seats", len(b.Seats)), zap.Int64("total", b.Total))
	return b, nil
}

func (s BookingService) History(ctx context.Context, userID int64, page domain.Pagination) ([]models.Booking, domain.Pagination, error) {
	page = page.Normalize()
	list, total, err := s.Bookings.ListByUser(ctx, userID, page)
	if err != nil {
		return nil, page, domain.InternalError{Msg: "failed to load travel history", Err: err}
	}
	page.Total = total
	return list, page, nil
}

func (s BookingService) GetBooking(ctx context.Context, userID, bookingID int64) (models.Booking, error) {
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return models.Booking{}, err
	}
	if b.UserID != userID {
		return models.Booking{}, domain.NotFoundError{Resource: "booking"}
	}
	return b, nil
}

// Cancel releases the seats of an unpaid booking.
func (s BookingService) Cancel(ctx context.Context, userID, bookingID int64) (models.Booking, error) {
	b, err := s.GetBooking(ctx, userID, bookingID)
	if err != nil {
		return models.Booking{}, err
	}
	if b.Status == models.BookingCancelled {
		return b, nil
	}
	if b.PaymentStatus == models.PaymentPaid || b.PaymentStatus == models.PaymentPending {
		return models.Booking{}, domain.ConflictError{Resource: "booking", Msg: "booking with a payment in progress or done cannot be cancelled"}
	}
	if err := s.Bookings.Cancel(ctx, b.ID); err != nil {
		return models.Booking{}, domain.InternalError{Msg: "failed to cancel booking", Err: err}
	}
	b.Status = models.BookingCancelled
	utils.LogEvent(s.RequestID, "booking", "cancel", "booking cancelled", zap.Int64("booking_id", b.ID))
	return b, nil
}

func (s BookingService) refreshSold(ctx context.Context, sess *booking.Session) error {
	sold, err := s.Seats.SoldSeats(ctx, tripOf(sess))
	if err != nil {
		return domain.InternalError{Msg: "failed to load sold seats", Err: err}
	}
	sess.ApplySold(sold)
	return nil
}

func (s BookingService) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}

func (s BookingService) serviceFee() int64 {
	if s.ServiceFee < 0 {
		return 0
	}
	return s.ServiceFee
}

func tripOf(sess *booking.Session) models.TripKey {
	return models.TripKey{
		AgencyID:   sess.AgencyID,
		BusTypeID:  sess.BusType.ID,
		RouteFrom:  sess.From,
		RouteTo:    sess.To,
		TravelDate: sess.TravelDate,
	}
}

func snapshotError(err error) error {
	var missing booking.MissingPassengerError
	var unavailable booking.SeatUnavailableError
	switch {
	case errors.As(err, &missing):
		return domain.ValidationError{Field: "passengers", Msg: err.Error(), Details: map[string]any{"seats": missing.Seats}, Err: err}
	case errors.As(err, &unavailable):
		return domain.ConflictError{Resource: "seat", Msg: err.Error(), Err: err}
	case errors.Is(err, booking.ErrSessionClosed):
		return domain.ConflictError{Resource: "booking session", Msg: err.Error(), Err: err}
	default:
		return domain.ValidationError{Field: "seats", Msg: err.Error(), Err: err}
	}
}

// newReference derives a short booking reference such as BK-1A2B3C4D.
func newReference() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "BK-" + raw[:8]
}
