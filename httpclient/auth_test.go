package httpclient

import (
	"net/http"
	"testing"
)

func TestBearerAuth(t *testing.T) {
	req, _ := http.NewRequest("GET", "http://example.com", nil)
	BearerAuth("my-token").apply(req)
	if got := req.Header.Get("Authorization"); got != "Bearer my-token" {
		t.Errorf("got %q, want %q", got, "Bearer my-token")
	}
}

func TestNoneAuth(t *testing.T) {
	req, _ := http.NewRequest("GET", "http://example.com", nil)
	(&AuthConfig{Type: AuthNone, Token: "ignored"}).apply(req)
	if req.Header.Get("Authorization") != "" {
		t.Error("AuthNone should not set headers")
	}
}

func TestNilAuth(t *testing.T) {
	req, _ := http.NewRequest("GET", "http://example.com", nil)
	var a *AuthConfig
	a.apply(req)
	if req.Header.Get("Authorization") != "" {
		t.Error("nil auth should not set headers")
	}
}
