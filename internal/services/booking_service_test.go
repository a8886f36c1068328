package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"busticket/internal/booking"
	"busticket/internal/cache"
	"busticket/internal/domain"
	"busticket/internal/repositories"
	"busticket/internal/seating"
	"busticket/internal/sessions"

	"github.com/DATA-DOG/go-sqlmock"
)

const travelDate = "2030-01-15"

func newBookingService(t *testing.T) (BookingService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return BookingService{
		Sessions:   sessions.Store{Cache: cache.NewMemoryStore(), TTL: time.Minute},
		Bookings:   repositories.BookingRepo{DB: db},
		Seats:      repositories.BookingSeatRepo{DB: db},
		ServiceFee: 500,
		NewID:      func() string { return "sess-1" },
	}, mock
}

func expectSold(mock sqlmock.Sqlmock, busType string, seats ...string) {
	rows := sqlmock.NewRows([]string{"seat_number"})
	for _, s := range seats {
		rows.AddRow(s)
	}
	mock.ExpectQuery("FROM booking_seats s").
		WithArgs("agency1", busType, "Douala", "Yaounde", travelDate).
		WillReturnRows(rows)
}

func startSession(t *testing.T, svc BookingService, mock sqlmock.Sqlmock, sold ...string) *booking.Session {
	t.Helper()
	expectSold(mock, "30", sold...)
	sess, err := svc.StartSession(context.Background(), 7, StartSessionInput{
		AgencyID: "agency1", From: "Douala", To: "Yaounde", TravelDate: travelDate,
	})
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	return sess
}

func TestStartSessionValidatesRoute(t *testing.T) {
	svc, _ := newBookingService(t)
	ctx := context.Background()

	cases := []StartSessionInput{
		{AgencyID: "agency1", From: "Douala", To: "Douala", TravelDate: travelDate},
		{AgencyID: "agency1", From: "Douala", To: "Garoua", TravelDate: travelDate},
		{AgencyID: "agency1", From: "Douala", To: "Yaounde", TravelDate: "15/01/2030"},
		{AgencyID: "agency1", From: "Douala", To: "Yaounde", TravelDate: "2001-01-01"},
		{AgencyID: "agency1", From: "Douala", To: "Yaounde", TravelDate: travelDate, BusTypeID: "99"},
	}
	for _, in := range cases {
		if _, err := svc.StartSession(ctx, 7, in); !domain.IsValidation(err) {
			t.Fatalf("%+v: expected validation error, got %v", in, err)
		}
	}
	if _, err := svc.StartSession(ctx, 7, StartSessionInput{AgencyID: "nope"}); !domain.IsNotFound(err) {
		t.Fatalf("unknown agency: %v", err)
	}
}

func TestStartSessionMarksSoldSeats(t *testing.T) {
	svc, mock := newBookingService(t)
	sess := startSession(t, svc, mock, "1", "2")

	if sess.BusType.ID != "30" || sess.State != booking.StateEmpty {
		t.Fatalf("session: %+v", sess)
	}
	if sess.SeatMap.AvailableCount() != 28 {
		t.Fatalf("available=%d", sess.SeatMap.AvailableCount())
	}
	if _, err := svc.GetSession(context.Background(), 8, sess.ID); !domain.IsNotFound(err) {
		t.Fatalf("other users must not see the session: %v", err)
	}
}

func TestToggleSeatLimitWarning(t *testing.T) {
	ctx := context.Background()
	svc, mock := newBookingService(t)
	sess := startSession(t, svc, mock)

	for _, seat := range []string{"3", "4", "5", "6", "7"} {
		expectSold(mock, "30")
		res, err := svc.ToggleSeat(ctx, 7, sess.ID, seat)
		if err != nil || res.Outcome != seating.Added {
			t.Fatalf("toggle %s: %+v err=%v", seat, res, err)
		}
	}
	expectSold(mock, "30")
	res, err := svc.ToggleSeat(ctx, 7, sess.ID, "8")
	if err != nil {
		t.Fatalf("toggle 8: %v", err)
	}
	if res.Outcome != seating.LimitReached || res.Warning != WarningMaxSeats {
		t.Fatalf("expected limit warning, got %+v", res)
	}

	q, err := svc.Quote(ctx, 7, sess.ID)
	if err != nil || q.Total != 5*6500+500 {
		t.Fatalf("quote %+v err=%v", q, err)
	}
}

func TestToggleSeatSoldMeanwhile(t *testing.T) {
	ctx := context.Background()
	svc, mock := newBookingService(t)
	sess := startSession(t, svc, mock)

	expectSold(mock, "30")
	if _, err := svc.ToggleSeat(ctx, 7, sess.ID, "3"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	expectSold(mock, "30", "3")
	res, err := svc.ToggleSeat(ctx, 7, sess.ID, "4")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if got := res.Session.Selection.Seats(); len(got) != 1 || got[0] != "4" {
		t.Fatalf("seat sold meanwhile should be dropped, selection=%v", got)
	}
}

func TestConfirmRequiresPassengersThenStoresBooking(t *testing.T) {
	ctx := context.Background()
	svc, mock := newBookingService(t)
	sess := startSession(t, svc, mock)

	expectSold(mock, "30")
	_, _ = svc.ToggleSeat(ctx, 7, sess.ID, "4")
	expectSold(mock, "30")
	_, _ = svc.ToggleSeat(ctx, 7, sess.ID, "3")

	expectSold(mock, "30")
	_, err := svc.Confirm(ctx, 7, sess.ID)
	if !domain.IsValidation(err) {
		t.Fatalf("expected missing passenger validation, got %v", err)
	}
	details, _ := domain.ValidationDetails(err).(map[string]any)
	if seats, _ := details["seats"].([]string); len(seats) != 2 {
		t.Fatalf("details should list both seats, got %v", details)
	}

	if _, err := svc.SetPassengers(ctx, 7, sess.ID, []PassengerInput{
		{SeatNumber: "3", Name: "Ada", IDNumber: "CM1"},
		{SeatNumber: "4", Name: "Bo", IDNumber: "CM2"},
	}); err != nil {
		t.Fatalf("SetPassengers: %v", err)
	}

	expectSold(mock, "30")
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO bookings").WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectExec("INSERT INTO booking_seats").WithArgs(int64(42), "agency1", "30", "Douala", "Yaounde", travelDate, "3").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO booking_seats").WithArgs(int64(42), "agency1", "30", "Douala", "Yaounde", travelDate, "4").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectExec("INSERT INTO booking_passengers").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO booking_passengers").WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	b, err := svc.Confirm(ctx, 7, sess.ID)
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if b.ID != 42 || b.Total != 2*6500+500 || len(b.Reference) != 11 {
		t.Fatalf("booking: %+v", b)
	}

	stored, _ := svc.GetSession(ctx, 7, sess.ID)
	if stored.State != booking.StateConfirmed || stored.BookingID != 42 {
		t.Fatalf("session not confirmed: %+v", stored)
	}
	if _, err := svc.ChangeBusType(ctx, 7, sess.ID, "56"); !domain.IsConflict(err) {
		t.Fatalf("bus type change after confirm should conflict, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestConfirmSeatTakenMeanwhile(t *testing.T) {
	ctx := context.Background()
	svc, mock := newBookingService(t)
	sess := startSession(t, svc, mock)

	expectSold(mock, "30")
	_, _ = svc.ToggleSeat(ctx, 7, sess.ID, "3")
	_, _ = svc.SetPassengers(ctx, 7, sess.ID, []PassengerInput{{SeatNumber: "3", Name: "Ada", IDNumber: "CM1"}})

	expectSold(mock, "30", "3")
	if _, err := svc.Confirm(ctx, 7, sess.ID); !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	stored, _ := svc.GetSession(ctx, 7, sess.ID)
	if stored.Selection.Len() != 0 {
		t.Fatalf("lost seat should leave the selection")
	}
}

func TestChangeBusTypeClearsSelection(t *testing.T) {
	ctx := context.Background()
	svc, mock := newBookingService(t)
	sess := startSession(t, svc, mock)

	expectSold(mock, "30")
	_, _ = svc.ToggleSeat(ctx, 7, sess.ID, "3")

	expectSold(mock, "56", "10")
	changed, err := svc.ChangeBusType(ctx, 7, sess.ID, "56")
	if err != nil {
		t.Fatalf("ChangeBusType: %v", err)
	}
	if changed.Selection.Len() != 0 || changed.SeatMap.TotalSeats != 56 || changed.SeatMap.AvailableCount() != 55 {
		t.Fatalf("after change: total=%d available=%d selected=%d",
			changed.SeatMap.TotalSeats, changed.SeatMap.AvailableCount(), changed.Selection.Len())
	}
}

func TestCancelUnpaidBookingReleasesSeats(t *testing.T) {
	svc, mock := newBookingService(t)

	expectBookingLoad(mock, 9, 7, "pending", "unpaid")
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE bookings SET status=").WithArgs("cancelled", int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE booking_seats SET active=NULL").WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	b, err := svc.Cancel(context.Background(), 7, 9)
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if b.Status != "cancelled" || len(b.Seats) != 2 {
		t.Fatalf("cancelled booking should keep its seats: %+v", b)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCancelRollsBackWhenSeatReleaseFails(t *testing.T) {
	ctx := context.Background()
	svc, mock := newBookingService(t)

	expectBookingLoad(mock, 9, 7, "pending", "unpaid")
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE bookings SET status=").WithArgs("cancelled", int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE booking_seats SET active=NULL").WithArgs(int64(9)).
		WillReturnError(errors.New("lock wait timeout"))
	mock.ExpectRollback()

	if _, err := svc.Cancel(ctx, 7, 9); err == nil {
		t.Fatalf("expected error when seats cannot be released")
	}

	// the booking is still pending, so a retry runs the whole release again
	expectBookingLoad(mock, 9, 7, "pending", "unpaid")
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE bookings SET status=").WithArgs("cancelled", int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE booking_seats SET active=NULL").WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	if b, err := svc.Cancel(ctx, 7, 9); err != nil || b.Status != "cancelled" {
		t.Fatalf("retry: %+v err=%v", b, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCancelRefusesPaidAndForeignBookings(t *testing.T) {
	svc, mock := newBookingService(t)

	expectBookingLoad(mock, 9, 7, "confirmed", "paid")
	if _, err := svc.Cancel(context.Background(), 7, 9); !domain.IsConflict(err) {
		t.Fatalf("paid booking: expected conflict, got %v", err)
	}

	expectBookingLoad(mock, 10, 8, "pending", "unpaid")
	if _, err := svc.Cancel(context.Background(), 7, 10); !domain.IsNotFound(err) {
		t.Fatalf("foreign booking: expected not found, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestHistoryFillsTotal(t *testing.T) {
	svc, mock := newBookingService(t)

	mock.ExpectQuery("SELECT COUNT").WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))
	mock.ExpectQuery("FROM bookings WHERE user_id=").WithArgs(int64(7), 20, 0).
		WillReturnRows(bookingRows(9, 7, "pending", "unpaid"))
	mock.ExpectQuery("SELECT seat_number FROM booking_seats").WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"seat_number"}).AddRow("3"))

	list, page, err := svc.History(context.Background(), 7, domain.Pagination{})
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(list) != 1 || page.Total != 1 || page.Page != 1 {
		t.Fatalf("list=%d page=%+v", len(list), page)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
