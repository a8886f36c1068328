package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"busticket/internal/booking"
	"busticket/internal/cache"
)

var ErrNotFound = errors.New("booking session not found or expired")

// Store keeps booking sessions as JSON in the cache, refreshing the TTL on every save.
type Store struct {
	Cache cache.Store
	TTL   time.Duration
}

func key(id string) string { return "booking-session:" + id }

func (s Store) Save(ctx context.Context, sess *booking.Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	ttl := s.TTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return s.Cache.Set(ctx, key(sess.ID), string(raw), ttl)
}

func (s Store) Get(ctx context.Context, id string) (*booking.Session, error) {
	raw, err := s.Cache.Get(ctx, key(id))
	if errors.Is(err, cache.ErrMiss) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var sess booking.Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if sess.Passengers == nil {
		sess.Passengers = map[string]booking.PassengerInfo{}
	}
	return &sess, nil
}

func (s Store) Delete(ctx context.Context, id string) error {
	return s.Cache.Del(ctx, key(id))
}
