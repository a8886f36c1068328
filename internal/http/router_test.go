package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"busticket/internal/cache"
	intconfig "busticket/internal/config"
	h "busticket/internal/http/handlers"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
)

const travelDate = "2030-01-15"

func newTestRouter(t *testing.T) (*gin.Engine, *h.Handlers, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	env := intconfig.Defaults()
	env.GinMode = gin.TestMode
	env.RateLimitPerMin = 1000
	env.JWTSecret = "test-secret"
	hs := &h.Handlers{Env: env, DB: db, Cache: cache.NewMemoryStore()}
	return NewRouter(hs), hs, mock
}

func bearer(t *testing.T, hs *h.Handlers, userID int64, role string) string {
	t.Helper()
	tok, _, err := hs.Tokens().Issue(userID, role)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return "Bearer " + tok
}

func do(r http.Handler, method, path, auth string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return out
}

func expectSold(mock sqlmock.Sqlmock, seats ...string) {
	rows := sqlmock.NewRows([]string{"seat_number"})
	for _, s := range seats {
		rows.AddRow(s)
	}
	mock.ExpectQuery("FROM booking_seats s").
		WithArgs("agency1", "30", "Douala", "Yaounde", travelDate).
		WillReturnRows(rows)
}

func TestHealthAndNoRoute(t *testing.T) {
	r, _, _ := newTestRouter(t)

	if w := do(r, http.MethodGet, "/health", "", nil); w.Code != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", w.Code)
	}
	w := do(r, http.MethodGet, "/api/v1/nope", "", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if decode(t, w)["error"] != "route not found" {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected X-Request-ID header")
	}

	w = do(r, http.MethodGet, "/api/routes", "", nil)
	if w.Code != http.StatusOK || !bytes.Contains(w.Body.Bytes(), []byte("/api/v1/booking-sessions/:id/seats/:seat/toggle")) {
		t.Fatalf("routes listing missing toggle endpoint: %d %s", w.Code, w.Body.String())
	}
}

func TestCatalogEndpoints(t *testing.T) {
	r, _, _ := newTestRouter(t)

	w := do(r, http.MethodGet, "/api/v1/bus-types/56/layout", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("layout: expected 200, got %d", w.Code)
	}
	body := decode(t, w)
	seatMap := body["seatMap"].(map[string]any)
	if seatMap["totalSeats"].(float64) != 56 {
		t.Fatalf("expected 56 seats, got %v", seatMap["totalSeats"])
	}

	if w := do(r, http.MethodGet, "/api/v1/bus-types/99/layout", "", nil); w.Code != http.StatusNotFound {
		t.Fatalf("unknown bus type: expected 404, got %d", w.Code)
	}

	w = do(r, http.MethodGet, "/api/v1/agencies?from=Douala&to=Yaounde", "", nil)
	var agencies []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &agencies); err != nil {
		t.Fatalf("decode agencies: %v", err)
	}
	found := false
	for _, a := range agencies {
		if a["id"] == "agency1" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected agency1 to serve Douala-Yaounde, got %s", w.Body.String())
	}
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	r, hs, _ := newTestRouter(t)

	if w := do(r, http.MethodGet, "/api/v1/bookings", "", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	user := bearer(t, hs, 7, "user")
	w := do(r, http.MethodPost, "/api/v1/payments/1/confirm", user, map[string]any{"success": true})
	if w.Code != http.StatusForbidden {
		t.Fatalf("user confirming payment: expected 403, got %d", w.Code)
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	r, hs, _ := newTestRouter(t)
	user := bearer(t, hs, 7, "user")

	if w := do(r, http.MethodGet, "/api/v1/auth/logout", user, nil); w.Code != http.StatusOK {
		t.Fatalf("logout: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if w := do(r, http.MethodGet, "/api/v1/auth/me", user, nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("revoked token: expected 401, got %d", w.Code)
	}
}

func TestSeatSelectionFlow(t *testing.T) {
	r, hs, mock := newTestRouter(t)
	user := bearer(t, hs, 7, "user")

	expectSold(mock, "3")
	w := do(r, http.MethodPost, "/api/v1/booking-sessions", user, map[string]any{
		"agencyId": "agency1", "from": "Douala", "to": "Yaounde", "travelDate": travelDate,
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("start session: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	id, _ := decode(t, w)["id"].(string)
	if id == "" {
		t.Fatalf("expected session id in %s", w.Body.String())
	}
	base := "/api/v1/booking-sessions/" + id

	expectSold(mock, "3")
	w = do(r, http.MethodPost, base+"/seats/3/toggle", user, nil)
	if got := decode(t, w)["outcome"]; got != "ignored" {
		t.Fatalf("sold seat: expected ignored, got %v", got)
	}

	for _, seat := range []int{1, 2, 4, 5, 6} {
		expectSold(mock, "3")
		w = do(r, http.MethodPost, base+"/seats/"+strconv.Itoa(seat)+"/toggle", user, nil)
		if got := decode(t, w)["outcome"]; got != "added" {
			t.Fatalf("seat %d: expected added, got %v (%s)", seat, got, w.Body.String())
		}
	}

	expectSold(mock, "3")
	w = do(r, http.MethodPost, base+"/seats/7/toggle", user, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("limit reached must not fail the request, got %d", w.Code)
	}
	res := decode(t, w)
	if res["outcome"] != "limit_reached" || res["warning"] != "maximum seats reached" {
		t.Fatalf("expected limit warning, got %s", w.Body.String())
	}

	w = do(r, http.MethodGet, base+"/quote", user, nil)
	quote := decode(t, w)
	if quote["total"].(float64) != 5*6500+500 {
		t.Fatalf("unexpected quote %s", w.Body.String())
	}

	other := bearer(t, hs, 8, "user")
	if w := do(r, http.MethodGet, base, other, nil); w.Code != http.StatusNotFound {
		t.Fatalf("foreign session: expected 404, got %d", w.Code)
	}

	expectSold(mock, "3")
	w = do(r, http.MethodPost, base+"/confirm", user, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("confirm without passengers: expected 400, got %d: %s", w.Code, w.Body.String())
	}
	if decode(t, w)["details"] == nil {
		t.Fatalf("expected missing seats in details, got %s", w.Body.String())
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestManifestForOperators(t *testing.T) {
	r, hs, mock := newTestRouter(t)
	path := "/api/v1/reports/manifest?agencyId=agency1&busTypeId=30&from=Douala&to=Yaounde&date=" + travelDate

	if w := do(r, http.MethodGet, path, bearer(t, hs, 7, "user"), nil); w.Code != http.StatusForbidden {
		t.Fatalf("user: expected 403, got %d", w.Code)
	}

	manifestRows := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"seat_number", "passenger_name", "id_number", "reference", "payment_status"}).
			AddRow("3", "Ada", "CM1", "BK-TEST0001", "paid")
	}
	operator := bearer(t, hs, 1, "agency")

	mock.ExpectQuery("LEFT JOIN booking_passengers").WillReturnRows(manifestRows())
	w := do(r, http.MethodGet, path, operator, nil)
	if w.Code != http.StatusOK || !bytes.Contains(w.Body.Bytes(), []byte(`"passengerName":"Ada"`)) {
		t.Fatalf("manifest json: %d %s", w.Code, w.Body.String())
	}

	mock.ExpectQuery("LEFT JOIN booking_passengers").WillReturnRows(manifestRows())
	w = do(r, http.MethodGet, path+"&format=pdf", operator, nil)
	if w.Code != http.StatusOK || w.Header().Get("Content-Type") != "application/pdf" {
		t.Fatalf("manifest pdf: %d %q", w.Code, w.Header().Get("Content-Type"))
	}
}
