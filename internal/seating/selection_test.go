package seating

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestToggleIsIdempotent(t *testing.T) {
	var sel Selection
	sel.Toggle("3", true)
	before := sel.Seats()

	if got := sel.Toggle("7", true); got != Added {
		t.Fatalf("first toggle: %s", got)
	}
	if got := sel.Toggle("7", true); got != Removed {
		t.Fatalf("second toggle: %s", got)
	}
	if !reflect.DeepEqual(sel.Seats(), before) {
		t.Fatalf("selection changed: %v -> %v", before, sel.Seats())
	}
}

func TestToggleIgnoresUnavailable(t *testing.T) {
	var sel Selection
	if got := sel.Toggle(DriverSeatNumber, false); got != Ignored {
		t.Fatalf("got %s", got)
	}
	if sel.Len() != 0 {
		t.Fatalf("selection should be empty")
	}
}

func TestToggleLimit(t *testing.T) {
	var sel Selection
	for _, n := range []string{"1", "2", "3", "4", "5"} {
		if got := sel.Toggle(n, true); got != Added {
			t.Fatalf("seat %s: %s", n, got)
		}
	}
	if got := sel.Toggle("6", true); got != LimitReached {
		t.Fatalf("sixth seat: %s", got)
	}
	if sel.Len() != MaxSelectedSeats || sel.Contains("6") {
		t.Fatalf("selection changed at limit: %v", sel.Seats())
	}

	// deselecting still works at the cap
	if got := sel.Toggle("2", true); got != Removed {
		t.Fatalf("deselect at cap: %s", got)
	}
	if got := sel.Toggle("6", true); got != Added {
		t.Fatalf("select after deselect: %s", got)
	}
	if want := []string{"1", "3", "4", "5", "6"}; !reflect.DeepEqual(sel.Seats(), want) {
		t.Fatalf("order: %v", sel.Seats())
	}
}

func TestSelectionJSONKeepsOrder(t *testing.T) {
	var sel Selection
	sel.Toggle("9", true)
	sel.Toggle("2", true)
	sel.Toggle("14", true)

	raw, err := json.Marshal(sel)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(raw) != `["9","2","14"]` {
		t.Fatalf("raw=%s", raw)
	}

	var back Selection
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(back.Seats(), sel.Seats()) {
		t.Fatalf("round trip: %v", back.Seats())
	}
}

func TestSelectionUnmarshalDropsDuplicatesAndOverflow(t *testing.T) {
	var sel Selection
	if err := json.Unmarshal([]byte(`["1","1","2","","3","4","5","6"]`), &sel); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if want := []string{"1", "2", "3", "4", "5"}; !reflect.DeepEqual(sel.Seats(), want) {
		t.Fatalf("seats=%v", sel.Seats())
	}
}
