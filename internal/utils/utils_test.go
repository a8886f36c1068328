package utils

import (
	"reflect"
	"testing"
	"time"
)

func TestSplitSeatList(t *testing.T) {
	got := SplitSeatList(" 3, 4;driver\n\n12 ,")
	if !reflect.DeepEqual(got, []string{"3", "4", "DRIVER", "12"}) {
		t.Fatalf("got %v", got)
	}
}

func TestNormalizeMSISDN(t *testing.T) {
	if got, ok := NormalizeMSISDN("+237 677-12-34-56"); !ok || got != "237677123456" {
		t.Fatalf("got %q ok=%v", got, ok)
	}
	if _, ok := NormalizeMSISDN("1234"); ok {
		t.Fatalf("short number should be rejected")
	}
	if got := MaskMSISDN("677123456"); got != "******456" {
		t.Fatalf("mask=%q", got)
	}
}

func TestIsPastDate(t *testing.T) {
	now := time.Date(2026, 10, 19, 15, 0, 0, 0, time.Local)
	yesterday, _ := ParseDate("2026-10-18")
	today, _ := ParseDate("2026-10-19")
	if !IsPastDate(yesterday, now) {
		t.Fatalf("yesterday should be past")
	}
	if IsPastDate(today, now) {
		t.Fatalf("today is not past")
	}
}
