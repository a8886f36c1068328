// Package otp issues and verifies the short WhatsApp codes used for account
// verification and password resets.
package otp

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"time"

	"busticket/internal/cache"

	"go.uber.org/zap"
)

const (
	CodeLength = 4

	PurposeRegister      = "register"
	PurposePasswordReset = "password_reset"
)

var (
	ErrInvalidCode    = errors.New("OTP does not match")
	ErrExpired        = errors.New("OTP not found or expired")
	ErrResendTooEarly = errors.New("a code was sent recently, wait before asking again")
)

// Sender delivers a code to a phone number.
type Sender interface {
	Send(ctx context.Context, msisdn, message string) error
}

// LogSender stands in for the WhatsApp gateway; it only logs the outgoing message.
type LogSender struct {
	Logger *zap.Logger
}

func (s LogSender) Send(_ context.Context, msisdn, message string) error {
	l := s.Logger
	if l == nil {
		l = zap.L()
	}
	l.Info("sending whatsapp message", zap.String("to", msisdn), zap.String("message", message))
	return nil
}

type Service struct {
	Cache  cache.Store
	Sender Sender
	TTL    time.Duration
	// Cooldown between two codes for the same number and purpose.
	Cooldown time.Duration
}

func codeKey(purpose, msisdn string) string     { return fmt.Sprintf("otp:%s:%s", purpose, msisdn) }
func cooldownKey(purpose, msisdn string) string { return fmt.Sprintf("otp-cooldown:%s:%s", purpose, msisdn) }

func (s Service) ttl() time.Duration {
	if s.TTL <= 0 {
		return 5 * time.Minute
	}
	return s.TTL
}

// Issue stores a fresh code for msisdn and sends it.
func (s Service) Issue(ctx context.Context, purpose, msisdn string) error {
	if s.Cooldown > 0 {
		if _, err := s.Cache.Get(ctx, cooldownKey(purpose, msisdn)); err == nil {
			return ErrResendTooEarly
		}
	}

	code, err := generateCode(CodeLength)
	if err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}
	ttl := s.ttl()
	if err := s.Cache.Set(ctx, codeKey(purpose, msisdn), code, ttl); err != nil {
		return fmt.Errorf("store otp: %w", err)
	}
	if s.Cooldown > 0 {
		_ = s.Cache.Set(ctx, cooldownKey(purpose, msisdn), "1", s.Cooldown)
	}

	msg := fmt.Sprintf("Your verification code is %s. It expires in %d minutes.", code, int(ttl.Minutes()))
	if s.Sender != nil {
		if err := s.Sender.Send(ctx, msisdn, msg); err != nil {
			return fmt.Errorf("send otp: %w", err)
		}
	}
	return nil
}

// Verify checks the code and consumes it on success.
func (s Service) Verify(ctx context.Context, purpose, msisdn, code string) error {
	stored, err := s.Cache.Get(ctx, codeKey(purpose, msisdn))
	if errors.Is(err, cache.ErrMiss) {
		return ErrExpired
	}
	if err != nil {
		return fmt.Errorf("read otp: %w", err)
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(code)) != 1 {
		return ErrInvalidCode
	}
	if err := s.Cache.Del(ctx, codeKey(purpose, msisdn)); err != nil {
		zap.L().Warn("delete otp after verification", zap.Error(err))
	}
	return nil
}

func generateCode(length int) (string, error) {
	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		buf[i] = byte('0' + n.Int64())
	}
	return string(buf), nil
}
