package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"rental-backend/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func postJSON(t *testing.T, handler gin.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := gin.New()
	r.POST(path, handler)
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateBookingRejectsMalformedBody(t *testing.T) {
	bc := NewBookingController(nil)

	cases := []struct {
		name string
		body string
	}{
		{"empty body", ``},
		{"not json", `start_date=2025-06-01`},
		{"missing idempotency key", `{"start_date":"2025-06-01","end_date":"2025-06-05","adults":2}`},
		{"missing dates", `{"idempotency_key":"abc","adults":2}`},
		{"bad start date", `{"start_date":"June 1","end_date":"2025-06-05","adults":2,"idempotency_key":"abc"}`},
		{"bad end date", `{"start_date":"2025-06-01","end_date":"05/06/2025","adults":2,"idempotency_key":"abc"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := postJSON(t, bc.CreateBooking, "/api/bookings", tc.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestConfirmPaymentRequiresBothFields(t *testing.T) {
	bc := NewBookingController(nil)

	for _, body := range []string{
		`{}`,
		`{"idempotency_key":"abc"}`,
		`{"payment_reference":"pay_123"}`,
	} {
		w := postJSON(t, bc.ConfirmPayment, "/api/payments/confirm", body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("body %q: expected 400, got %d", body, w.Code)
		}
	}
}

func TestCreateHoldRejectsMalformedBody(t *testing.T) {
	hc := NewHoldController(nil)

	cases := []struct {
		name string
		body string
	}{
		{"missing reference", `{"start_date":"2025-06-01","end_date":"2025-06-05"}`},
		{"bad dates", `{"start_date":"soon","end_date":"later","reference_id":"abc"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := postJSON(t, hc.CreateHold, "/api/holds", tc.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestUintParamRejectsGarbage(t *testing.T) {
	r := gin.New()
	r.GET("/things/:id", func(c *gin.Context) {
		if id, ok := uintParam(c, "id"); ok {
			c.JSON(http.StatusOK, gin.H{"id": id})
		}
	})

	for _, raw := range []string{"abc", "0", "-4", "1.5"} {
		req := httptest.NewRequest(http.MethodGet, "/things/"+raw, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("param %q: expected 400, got %d", raw, w.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/things/42", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("param 42: expected 200, got %d", w.Code)
	}
}

func TestRespondServiceErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"conflict", &services.ConflictError{Source: services.SourceLocalBooking}, http.StatusConflict},
		{"validation", &services.ValidationError{Message: "end_date must be after start_date"}, http.StatusBadRequest},
		{"not found", &services.NotFoundError{Resource: "booking", ID: 99}, http.StatusNotFound},
		{"sync", &services.SyncError{CalendarID: 1, Err: errors.New("feed timeout")}, http.StatusBadGateway},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			r.GET("/fail", func(c *gin.Context) {
				respondServiceError(c, tc.err)
			})
			req := httptest.NewRequest(http.MethodGet, "/fail", nil)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tc.code {
				t.Fatalf("expected %d, got %d: %s", tc.code, w.Code, w.Body.String())
			}
		})
	}
}

func TestConflictResponseCarriesSource(t *testing.T) {
	r := gin.New()
	r.GET("/fail", func(c *gin.Context) {
		respondServiceError(c, &services.ConflictError{Source: services.SourceExternalReservation})
	})
	req := httptest.NewRequest(http.MethodGet, "/fail", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var body struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
		Source  string `json:"source"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if body.Success {
		t.Error("expected success=false")
	}
	if body.Source != services.SourceExternalReservation {
		t.Errorf("expected source %q, got %q", services.SourceExternalReservation, body.Source)
	}
}
