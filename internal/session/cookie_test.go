package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// The attributes ship as one set: dropping any of them silently weakens the
// session, so the test pins all of them together.
func TestAttach_SetsAllAttributes(t *testing.T) {
	t.Parallel()

	transport := NewTransport(7*24*time.Hour, true)
	res := httptest.NewRecorder()
	transport.Attach(res, "signed-token")

	cookie := findCookie(t, res, CookieName)
	if cookie.Value != "signed-token" {
		t.Fatalf("cookie value: got %q", cookie.Value)
	}
	if !cookie.HttpOnly {
		t.Fatalf("cookie must be HttpOnly")
	}
	if !cookie.Secure {
		t.Fatalf("cookie must be Secure")
	}
	if cookie.SameSite != http.SameSiteStrictMode {
		t.Fatalf("cookie must be SameSite=Strict, got %v", cookie.SameSite)
	}
	if cookie.Path != "/" {
		t.Fatalf("cookie path: got %q", cookie.Path)
	}
	if want := int((7 * 24 * time.Hour).Seconds()); cookie.MaxAge != want {
		t.Fatalf("cookie max-age: got %d want %d", cookie.MaxAge, want)
	}
}

func TestAttach_SecureRelaxedOutsideProduction(t *testing.T) {
	t.Parallel()

	transport := NewTransport(time.Hour, false)
	res := httptest.NewRecorder()
	transport.Attach(res, "tok")

	cookie := findCookie(t, res, CookieName)
	if cookie.Secure {
		t.Fatalf("secure flag should be relaxed when configured off")
	}
	if !cookie.HttpOnly || cookie.SameSite != http.SameSiteStrictMode {
		t.Fatalf("relaxing secure must not touch the other attributes")
	}
}

func TestRead(t *testing.T) {
	t.Parallel()

	transport := NewTransport(time.Hour, false)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := transport.Read(req); ok {
		t.Fatalf("expected absence for request without cookie")
	}

	req.AddCookie(&http.Cookie{Name: CookieName, Value: "tok"})
	got, ok := transport.Read(req)
	if !ok || got != "tok" {
		t.Fatalf("Read: got %q ok=%v", got, ok)
	}
}

func TestClear_MatchesAttributes(t *testing.T) {
	t.Parallel()

	transport := NewTransport(time.Hour, true)
	res := httptest.NewRecorder()
	transport.Clear(res)

	cookie := findCookie(t, res, CookieName)
	if cookie.Value != "" {
		t.Fatalf("cleared cookie must carry no value")
	}
	if cookie.MaxAge >= 0 {
		t.Fatalf("cleared cookie must expire immediately, max-age %d", cookie.MaxAge)
	}
	if !cookie.HttpOnly || !cookie.Secure || cookie.SameSite != http.SameSiteStrictMode || cookie.Path != "/" {
		t.Fatalf("clear must reuse the attach attributes so the browser drops the cookie")
	}
}

func findCookie(t *testing.T, res *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, cookie := range res.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	t.Fatalf("cookie %q not set", name)
	return nil
}
