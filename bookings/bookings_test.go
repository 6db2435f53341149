package bookings

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"glowdesk/models"

	"go.mongodb.org/mongo-driver/bson"
)

func TestValidateBookingInput(t *testing.T) {
	valid := bookingInput{CustomerName: "A", Service: "Haircut", Date: "2025-01-01", Time: "10:00"}
	if msg := validateBookingInput(valid); msg != "" {
		t.Fatalf("expected valid input, got %q", msg)
	}

	missing := []bookingInput{
		{Service: "Haircut", Date: "2025-01-01", Time: "10:00"},
		{CustomerName: "A", Date: "2025-01-01", Time: "10:00"},
		{CustomerName: "A", Service: "Haircut", Time: "10:00"},
		{CustomerName: "A", Service: "Haircut", Date: "2025-01-01"},
		{CustomerName: "   ", Service: "Haircut", Date: "2025-01-01", Time: "10:00"},
	}
	for i, in := range missing {
		if msg := validateBookingInput(in); msg == "" {
			t.Fatalf("case %d: expected validation failure", i)
		}
	}
}

func TestResolveAmount(t *testing.T) {
	if got := resolveAmount(0, 500); got != 500 {
		t.Fatalf("blank amount should fall back to service price, got %v", got)
	}
	if got := resolveAmount(-20, 500); got != 500 {
		t.Fatalf("negative amount should fall back to service price, got %v", got)
	}
	if got := resolveAmount(750, 500); got != 750 {
		t.Fatalf("explicit amount should win, got %v", got)
	}
}

func TestIsAllowedStatus(t *testing.T) {
	for _, s := range []string{"pending", "confirmed", "completed", "cancelled"} {
		if !isAllowedStatus(s) {
			t.Fatalf("%q should be allowed", s)
		}
	}
	for _, s := range []string{"", "done", "PENDING", "archived"} {
		if isAllowedStatus(s) {
			t.Fatalf("%q should not be allowed", s)
		}
	}
}

func TestUpdateBookingStatusRejectsUnknownStatus(t *testing.T) {
	body := strings.NewReader(`{"id":"bk1","status":"archived"}`)
	r := httptest.NewRequest(http.MethodPatch, "/api/bookings", body)
	w := httptest.NewRecorder()

	UpdateBookingStatus(w, r, nil)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestUpdateBookingStatusRequiresIDAndStatus(t *testing.T) {
	body := strings.NewReader(`{"id":"bk1"}`)
	r := httptest.NewRequest(http.MethodPatch, "/api/bookings", body)
	w := httptest.NewRecorder()

	UpdateBookingStatus(w, r, nil)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestCreateBookingValidation(t *testing.T) {
	body := strings.NewReader(`{"customerName":"A","date":"2025-01-01","time":"10:00"}`)
	r := httptest.NewRequest(http.MethodPost, "/api/bookings", body)
	w := httptest.NewRecorder()

	CreateBooking(w, r, nil)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 when service is missing, got %d", w.Code)
	}
}

func TestSlipPayloadRoundTrip(t *testing.T) {
	payload := slipPayload("bk123", "2025-01-01", "10:00")

	if !verifySlipPayload(payload) {
		t.Fatal("payload should verify against its own signature")
	}
	if verifySlipPayload(strings.Replace(payload, "bk123", "bk124", 1)) {
		t.Fatal("tampered payload should not verify")
	}
	if verifySlipPayload("no-signature-here") {
		t.Fatal("malformed payload should not verify")
	}
}

func TestComputeRequestHashDistinguishesBodies(t *testing.T) {
	r1 := httptest.NewRequest(http.MethodPost, "/api/bookings", nil)
	r2 := httptest.NewRequest(http.MethodPost, "/api/bookings", nil)

	h1 := computeRequestHash(r1, []byte(`{"customerName":"A"}`))
	h2 := computeRequestHash(r2, []byte(`{"customerName":"B"}`))
	if h1 == h2 {
		t.Fatal("different bodies must hash differently")
	}

	h3 := computeRequestHash(r1, []byte(`{"customerName":"A"}`))
	if h1 != h3 {
		t.Fatal("same request must hash identically")
	}
}

func TestRollupSameEmailHitsOneRecord(t *testing.T) {
	first := models.Booking{CustomerName: "Asha", CustomerEmail: "asha@example.com", Amount: 500, Date: "2025-01-01"}
	second := models.Booking{CustomerName: "Asha", CustomerEmail: "asha@example.com", Amount: 700, Date: "2025-02-01"}

	f1 := rollupFilter(first)
	f2 := rollupFilter(second)
	if f1["email"] != f2["email"] || len(f1) != 1 {
		t.Fatalf("both bookings must target the same customer record, got %v and %v", f1, f2)
	}

	// Each booking increments the visit count by exactly one, so two bookings
	// on the same record total two visits and the summed spend.
	for i, b := range []models.Booking{first, second} {
		inc := rollupUpdate(b)["$inc"].(bson.M)
		if inc["totalVisits"] != 1 {
			t.Fatalf("booking %d: expected one visit per booking, got %v", i, inc["totalVisits"])
		}
		if inc["totalSpent"] != b.Amount {
			t.Fatalf("booking %d: expected spend %v, got %v", i, b.Amount, inc["totalSpent"])
		}
	}
}

func TestRollupIdentityOnlyOnInsert(t *testing.T) {
	booking := models.Booking{CustomerName: "Asha", CustomerEmail: "asha@example.com", CustomerPhone: "9999", Amount: 500, Date: "2025-01-01"}
	update := rollupUpdate(booking)

	ins := update["$setOnInsert"].(bson.M)
	if ins["name"] != "Asha" || ins["email"] != "asha@example.com" || ins["phone"] != "9999" {
		t.Fatalf("identity fields missing from insert document: %v", ins)
	}
	set := update["$set"].(bson.M)
	if _, ok := set["name"]; ok {
		t.Fatal("name must not be overwritten on repeat bookings")
	}
}

func TestRespondFromRecordReplaysStoredResponse(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/api/bookings", nil)
	hash := computeRequestHash(r, []byte(`{"customerName":"A"}`))
	rec := models.IdempotencyRecord{
		RequestHash: hash,
		Response: map[string]any{
			"status": float64(http.StatusCreated),
			"body":   map[string]any{"bookingId": "bk42"},
		},
	}

	w := httptest.NewRecorder()
	if !respondFromRecord(w, rec, hash) {
		t.Fatal("stored response should be replayed")
	}
	if w.Code != http.StatusCreated {
		t.Fatalf("expected replayed 201, got %d", w.Code)
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid replay body: %v", err)
	}
	if body["bookingId"] != "bk42" {
		t.Fatalf("expected original booking id in replay, got %v", body)
	}
}

func TestRespondFromRecordConflictsOnChangedBody(t *testing.T) {
	rec := models.IdempotencyRecord{RequestHash: "aaa"}

	w := httptest.NewRecorder()
	if !respondFromRecord(w, rec, "bbb") {
		t.Fatal("mismatched request must be handled as a conflict")
	}
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", w.Code)
	}
}

func TestRespondFromRecordPassesInFlight(t *testing.T) {
	rec := models.IdempotencyRecord{RequestHash: "aaa"}

	w := httptest.NewRecorder()
	if respondFromRecord(w, rec, "aaa") {
		t.Fatal("in-flight record without a response should fall through")
	}
}

func TestShouldStoreResponse(t *testing.T) {
	for _, status := range []int{http.StatusCreated, http.StatusBadRequest, http.StatusConflict} {
		if !shouldStoreResponse(status) {
			t.Fatalf("status %d should be stored for replay", status)
		}
	}
	for _, status := range []int{http.StatusInternalServerError, http.StatusBadGateway} {
		if shouldStoreResponse(status) {
			t.Fatalf("status %d must stay retryable", status)
		}
	}
}
