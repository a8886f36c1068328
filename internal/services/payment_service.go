package services

import (
	"context"

	"busticket/internal/domain"
	"busticket/internal/domain/models"
	"busticket/internal/pricing"
	"busticket/internal/repositories"
	"busticket/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MoMoGateway asks the mobile-money operator to debit a number.
type MoMoGateway interface {
	RequestPayment(ctx context.Context, msisdn string, amount int64, reference string) (providerRef string, err error)
}

// LogGateway records the request and returns a local reference; the operator's
// callback arrives through PaymentService.Confirm.
type LogGateway struct{}

func (LogGateway) RequestPayment(_ context.Context, msisdn string, amount int64, reference string) (string, error) {
	zap.L().Info("momo payment requested",
		zap.String("msisdn", utils.MaskMSISDN(msisdn)),
		zap.String("amount", pricing.FormatFCFA(amount)),
		zap.String("reference", reference))
	return "MOMO-" + uuid.NewString()[:8], nil
}

// PaymentService handles mobile-money payments of bookings.
type PaymentService struct {
	Payments  repositories.PaymentRepository
	Bookings  repositories.BookingRepo
	Gateway   MoMoGateway
	RequestID string
}

func (s PaymentService) gateway() MoMoGateway {
	if s.Gateway != nil {
		return s.Gateway
	}
	return LogGateway{}
}

func (s PaymentService) Initiate(ctx context.Context, userID, bookingID int64, msisdn string) (models.Payment, error) {
	number, ok := utils.NormalizeMSISDN(msisdn)
	if !ok {
		return models.Payment{}, domain.ValidationError{Field: "msisdn", Msg: "a valid mobile money number is required"}
	}
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return models.Payment{}, err
	}
	if b.UserID != userID {
		return models.Payment{}, domain.NotFoundError{Resource: "booking"}
	}
	switch {
	case b.Status == models.BookingCancelled:
		return models.Payment{}, domain.ConflictError{Resource: "booking", Msg: "booking is cancelled"}
	case b.PaymentStatus == models.PaymentPaid:
		return models.Payment{}, domain.ConflictError{Resource: "booking", Msg: "booking is already paid"}
	case b.PaymentStatus == models.PaymentPending:
		return models.Payment{}, domain.ConflictError{Resource: "booking", Msg: "a payment is already in progress"}
	}

	ref, err := s.gateway().RequestPayment(ctx, number, b.Total, b.Reference)
	if err != nil {
		return models.Payment{}, domain.InternalError{Msg: "mobile money request failed", Err: err}
	}
	p := models.Payment{
		BookingID:   b.ID,
		Method:      models.MethodMoMo,
		MSISDN:      number,
		Amount:      b.Total,
		Status:      models.PaymentPending,
		ProviderRef: ref,
	}
	id, err := s.Payments.Create(ctx, p)
	if err != nil {
		return models.Payment{}, domain.InternalError{Msg: "failed to store payment", Err: err}
	}
	p.ID = id
	if err := s.Bookings.UpdatePaymentStatus(ctx, b.ID, models.PaymentPending); err != nil {
		return models.Payment{}, domain.InternalError{Msg: "failed to update booking", Err: err}
	}
	utils.LogEvent(s.RequestID, "payment", "initiate", "payment requested",
		zap.Int64("payment_id", id), zap.Int64("booking_id", b.ID), zap.Int64("amount", b.Total))
	return p, nil
}

// Confirm settles a pending payment. Success confirms the booking.
func (s PaymentService) Confirm(ctx context.Context, paymentID int64, success bool, providerRef string) (models.Payment, error) {
	p, err := s.Payments.GetByID(ctx, paymentID)
	if err != nil {
		return models.Payment{}, err
	}
	if p.Status != models.PaymentPending {
		return models.Payment{}, domain.ConflictError{Resource: "payment", Msg: "payment already " + p.Status}
	}

	status, err := s.Payments.Settle(ctx, p, success, providerRef)
	if err != nil {
		if domain.IsConflict(err) {
			return models.Payment{}, err
		}
		return models.Payment{}, domain.InternalError{Msg: "failed to settle payment", Err: err}
	}

	p.Status = status
	if providerRef != "" {
		p.ProviderRef = providerRef
	}
	utils.LogEvent(s.RequestID, "payment", "confirm", "payment settled",
		zap.Int64("payment_id", p.ID), zap.String("status", status))
	return p, nil
}

// Get returns a payment to its booking owner; operators see every payment.
func (s PaymentService) Get(ctx context.Context, rc domain.RequestContext, paymentID int64) (models.Payment, error) {
	p, err := s.Payments.GetByID(ctx, paymentID)
	if err != nil {
		return models.Payment{}, err
	}
	if rc.Role == domain.RoleAdmin || rc.Role == domain.RoleAgency {
		return p, nil
	}
	b, err := s.Bookings.GetByID(ctx, p.BookingID)
	if err != nil {
		return models.Payment{}, err
	}
	if b.UserID != int64(rc.UserID) {
		return models.Payment{}, domain.NotFoundError{Resource: "payment"}
	}
	return p, nil
}
