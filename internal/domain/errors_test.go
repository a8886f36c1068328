package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorPredicatesSeeThroughWrapping(t *testing.T) {
	base := ValidationError{Field: "seats", Msg: "missing passenger", Details: []string{"9"}}
	err := fmt.Errorf("confirm: %w", base)

	if !IsValidation(err) || IsNotFound(err) {
		t.Fatalf("predicates wrong for %v", err)
	}
	details, ok := ValidationDetails(err).([]string)
	if !ok || len(details) != 1 || details[0] != "9" {
		t.Fatalf("details=%v", ValidationDetails(err))
	}
	if base.Error() != "seats: missing passenger" {
		t.Fatalf("message=%q", base.Error())
	}
}

func TestErrorMessages(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{NotFoundError{Resource: "booking"}, "booking not found"},
		{ConflictError{Resource: "seat", Msg: "already sold"}, "seat conflict: already sold"},
		{UnauthorizedError{}, "unauthorized"},
		{ForbiddenError{Msg: "not your booking"}, "not your booking"},
		{InternalError{Err: errors.New("db down")}, "internal error"},
	}
	for _, tc := range cases {
		if tc.err.Error() != tc.want {
			t.Fatalf("got %q want %q", tc.err.Error(), tc.want)
		}
	}
	if !IsUnauthorized(fmt.Errorf("x: %w", UnauthorizedError{})) || !IsForbidden(ForbiddenError{}) {
		t.Fatalf("auth predicates failed")
	}
}
