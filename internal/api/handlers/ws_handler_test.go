package handlers

import (
	"net/http"
	"testing"
)

func wsRequest(t *testing.T, origin string) *http.Request {
	t.Helper()
	r, err := http.NewRequest(http.MethodGet, "/ws/match/progress", nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if origin != "" {
		r.Header.Set("Origin", origin)
	}
	return r
}

func TestCheckOrigin(t *testing.T) {
	open := checkOrigin("")
	if !open(wsRequest(t, "https://evil.example")) {
		t.Error("unconfigured origin check must allow any origin")
	}

	restricted := checkOrigin("https://app.example.com")
	cases := []struct {
		origin string
		want   bool
	}{
		{"https://app.example.com", true},
		{"", true}, // non-browser clients send no Origin header
		{"https://evil.example", false},
		{"https://app.example.com.evil.example", false},
	}
	for _, tc := range cases {
		if got := restricted(wsRequest(t, tc.origin)); got != tc.want {
			t.Errorf("origin %q: allowed = %v, want %v", tc.origin, got, tc.want)
		}
	}
}
