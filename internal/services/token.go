package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"busticket/internal/cache"
	"busticket/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

// Claims carried by access tokens.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func (c Claims) UserID() int64 {
	id, _ := strconv.ParseInt(c.Subject, 10, 64)
	return id
}

// TokenManager signs and checks HS256 access tokens; logged-out tokens are
// remembered in the cache until they expire.
type TokenManager struct {
	Secret []byte
	TTL    time.Duration
	Cache  cache.Store
	now    func() time.Time
}

func (m TokenManager) clock() time.Time {
	if m.now != nil {
		return m.now()
	}
	return time.Now()
}

func (m TokenManager) Issue(userID int64, role string) (string, time.Time, error) {
	ttl := m.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	now := m.clock()
	exp := now.Add(ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	signed, err := token.SignedString(m.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Parse validates signature, expiry and revocation.
func (m TokenManager) Parse(ctx context.Context, tokenString string) (Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		return m.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(m.clock))
	if err != nil {
		return Claims{}, domain.UnauthorizedError{Msg: "invalid or expired token", Err: err}
	}
	if claims.UserID() <= 0 {
		return Claims{}, domain.UnauthorizedError{Msg: "invalid token subject"}
	}
	if m.Cache != nil {
		_, err := m.Cache.Get(ctx, revokedKey(tokenString))
		if err == nil {
			return Claims{}, domain.UnauthorizedError{Msg: "token has been revoked"}
		}
		if !errors.Is(err, cache.ErrMiss) {
			return Claims{}, domain.InternalError{Msg: "token check failed", Err: err}
		}
	}
	return claims, nil
}

// Revoke blocks tokenString until it would have expired anyway.
func (m TokenManager) Revoke(ctx context.Context, tokenString string, expiresAt time.Time) error {
	if m.Cache == nil {
		return nil
	}
	ttl := expiresAt.Sub(m.clock())
	if ttl <= 0 {
		return nil
	}
	return m.Cache.Set(ctx, revokedKey(tokenString), "1", ttl)
}

// HashToken computes a SHA-256 hash of the token string.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func revokedKey(token string) string { return "revoked-token:" + HashToken(token) }
