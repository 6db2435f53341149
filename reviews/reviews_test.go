package reviews

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"glowdesk/globals"

	"github.com/julienschmidt/httprouter"
)

func paramsWithID(id string) httprouter.Params {
	return httprouter.Params{{Key: "id", Value: id}}
}

func TestRoundRating(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{4.666666, 4.7},
		{4.04, 4.0},
		{3.25, 3.3},
		{5, 5},
		{0, 0},
	}
	for _, c := range cases {
		if got := roundRating(c.in); got != c.want {
			t.Fatalf("roundRating(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func submit(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := httptest.NewRequest(http.MethodPost, "/api/reviews", strings.NewReader(body))
	w := httptest.NewRecorder()
	SubmitReview(w, r, nil)
	return w
}

func TestSubmitReviewRejectsOutOfRangeRating(t *testing.T) {
	for _, rating := range []int{-1, 0, 6, 100} {
		w := submit(t, fmt.Sprintf(`{"serviceId":"svc1","name":"A","rating":%d}`, rating))
		if w.Code != http.StatusBadRequest {
			t.Fatalf("rating %d: expected 400, got %d", rating, w.Code)
		}
	}
}

func TestSubmitReviewRequiresFields(t *testing.T) {
	cases := []string{
		`{"name":"A","rating":5}`,
		`{"serviceId":"svc1","rating":5}`,
		`{"serviceId":"svc1","name":"A"}`,
		`{"serviceId":"svc1","name":"   ","rating":5}`,
		`not json`,
	}
	for i, body := range cases {
		w := submit(t, body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("case %d: expected 400, got %d", i, w.Code)
		}
	}
}

func TestListFilterScopesByRole(t *testing.T) {
	anon := listFilter(context.Background(), "")
	if anon["isApproved"] != true {
		t.Fatalf("anonymous listing must be approved-only, got %v", anon)
	}

	adminCtx := context.WithValue(context.Background(), globals.RoleKey, "admin")
	admin := listFilter(adminCtx, "svc1")
	if _, ok := admin["isApproved"]; ok {
		t.Fatal("admin listing should include unapproved reviews")
	}
	if admin["serviceid"] != "svc1" {
		t.Fatalf("service scope missing from filter: %v", admin)
	}
}

func TestSetApprovalRequiresFlag(t *testing.T) {
	r := httptest.NewRequest(http.MethodPatch, "/api/reviews/rev1", strings.NewReader(`{}`))
	w := httptest.NewRecorder()

	SetApproval(w, r, paramsWithID("rev1"))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without isApproved, got %d", w.Code)
	}
}

func TestSetApprovalRequiresID(t *testing.T) {
	r := httptest.NewRequest(http.MethodPatch, "/api/reviews/", strings.NewReader(`{"isApproved":true}`))
	w := httptest.NewRecorder()

	SetApproval(w, r, paramsWithID(""))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without an id, got %d", w.Code)
	}
}
