package attendance

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestIsAllowedStatus(t *testing.T) {
	for _, s := range []string{"present", "absent", "half-day", "leave"} {
		if !isAllowedStatus(s) {
			t.Fatalf("%q should be allowed", s)
		}
	}
	for _, s := range []string{"", "sick", "Present", "holiday"} {
		if isAllowedStatus(s) {
			t.Fatalf("%q should not be allowed", s)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	if !isValidDate("2025-01-31") {
		t.Fatal("2025-01-31 should be valid")
	}
	for _, d := range []string{"", "31-01-2025", "2025/01/31", "2025-13-01", "yesterday"} {
		if isValidDate(d) {
			t.Fatalf("%q should be invalid", d)
		}
	}
}

func TestMarkAttendanceValidation(t *testing.T) {
	cases := []struct {
		body string
	}{
		{`{"date":"2025-01-01","status":"present"}`},
		{`{"staffName":"Priya","status":"present"}`},
		{`{"staffName":"Priya","date":"2025-01-01"}`},
		{`{"staffName":"Priya","date":"01/01/2025","status":"present"}`},
		{`{"staffName":"Priya","date":"2025-01-01","status":"vacation"}`},
	}
	for i, c := range cases {
		r := httptest.NewRequest(http.MethodPost, "/api/attendance", strings.NewReader(c.body))
		w := httptest.NewRecorder()

		MarkAttendance(w, r, nil)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("case %d: expected 400, got %d", i, w.Code)
		}
	}
}

func TestGetAttendanceRejectsBadDateFilter(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/attendance?date=not-a-date", nil)
	w := httptest.NewRecorder()

	GetAttendance(w, r, nil)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
