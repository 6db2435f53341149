package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"glowdesk/globals"
)

func TestLoginRequiresCredentials(t *testing.T) {
	cases := []string{
		`{"email":"a@b.c"}`,
		`{"password":"secret"}`,
		`{}`,
		`not json`,
	}
	for i, body := range cases {
		r := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
		w := httptest.NewRecorder()

		Login(w, r, nil)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("case %d: expected 400, got %d", i, w.Code)
		}
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	w := httptest.NewRecorder()

	Logout(w, r, nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one cookie, got %d", len(cookies))
	}
	c := cookies[0]
	if c.Name != globals.SessionCookie || c.Value != "" || c.MaxAge >= 0 {
		t.Fatalf("cookie not cleared: %+v", c)
	}
	if !c.HttpOnly {
		t.Fatal("session cookie must stay HttpOnly")
	}
}

func TestMeWithoutIdentity(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	w := httptest.NewRecorder()

	Me(w, r, nil)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}
