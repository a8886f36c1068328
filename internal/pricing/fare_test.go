package pricing

import "testing"

func TestCalculateTotal(t *testing.T) {
	cases := []struct {
		name  string
		base  int64
		seats int
		fee   int64
		want  int64
	}{
		{"three seats", 6500, 3, 500, 20000},
		{"empty selection is fee only", 6500, 0, 500, 500},
		{"five seats", 8000, 5, 500, 40500},
		{"negative size clamps", 6500, -2, 500, 500},
		{"negative fee clamps", 6500, 1, -10, 6500},
	}
	for _, tc := range cases {
		if got := CalculateTotal(tc.base, tc.seats, tc.fee); got != tc.want {
			t.Fatalf("%s: got %d want %d", tc.name, got, tc.want)
		}
	}
}

func TestNewQuoteParts(t *testing.T) {
	q := NewQuote(6500, 2, DefaultServiceFee)
	if q.Subtotal != 13000 || q.Total != 13500 || q.Seats != 2 {
		t.Fatalf("quote=%+v", q)
	}
}

func TestFormatAndParseFCFA(t *testing.T) {
	if got := FormatFCFA(20000); got != "FCFA 20,000" {
		t.Fatalf("FormatFCFA=%q", got)
	}
	if got := FormatFCFA(0); got != "FCFA 0" {
		t.Fatalf("FormatFCFA(0)=%q", got)
	}
	if got := FormatFCFA(-1500); got != "-FCFA 1,500" {
		t.Fatalf("FormatFCFA(-1500)=%q", got)
	}
	for _, in := range []string{"FCFA 20,000", "20 000", "20000 FCFA"} {
		v, err := ParseFCFA(in)
		if err != nil || v != 20000 {
			t.Fatalf("ParseFCFA(%q)=%d,%v", in, v, err)
		}
	}
	if _, err := ParseFCFA("fcfa"); err == nil {
		t.Fatalf("expected error for empty amount")
	}
}
