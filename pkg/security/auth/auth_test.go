package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"mercator-hq/trigon/pkg/config"
	"mercator-hq/trigon/pkg/telemetry/logging"
)

var testKeys = []config.APIKeyConfig{
	{Key: "k-ci", Name: "ci"},
	{Key: "k-old", Name: "old", Disabled: true},
}

func TestKeyValidator_Validate(t *testing.T) {
	v := NewKeyValidator(testKeys)

	tests := []struct {
		key      string
		wantName string
		wantErr  error
	}{
		{"k-ci", "ci", nil},
		{"k-old", "", ErrKeyDisabled},
		{"k-unknown", "", ErrInvalidKey},
		{"", "", ErrInvalidKey},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			name, err := v.Validate(tt.key)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate(%q) error = %v, want %v", tt.key, err, tt.wantErr)
			}
			if name != tt.wantName {
				t.Errorf("Validate(%q) = %q, want %q", tt.key, name, tt.wantName)
			}
		})
	}
}

func TestKeyValidator_ReplaceCopies(t *testing.T) {
	keys := []config.APIKeyConfig{{Key: "a", Name: "a"}}
	v := NewKeyValidator(keys)
	keys[0].Key = "changed"

	if _, err := v.Validate("a"); err != nil {
		t.Errorf("validator shares caller's slice: %v", err)
	}

	v.Replace([]config.APIKeyConfig{{Key: "b", Name: "b"}})
	if _, err := v.Validate("a"); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("old key still accepted after Replace: %v", err)
	}
	if v.Len() != 1 {
		t.Errorf("Len() = %d, want 1", v.Len())
	}
}

func TestSource_Extract(t *testing.T) {
	tests := []struct {
		name    string
		source  Source
		header  string
		want    string
		wantErr bool
	}{
		{"bearer", Source{Header: "Authorization", Scheme: "Bearer"}, "Bearer k-ci", "k-ci", false},
		{"scheme is case-insensitive", Source{Header: "Authorization", Scheme: "Bearer"}, "bearer k-ci", "k-ci", false},
		{"wrong scheme", Source{Header: "Authorization", Scheme: "Bearer"}, "Basic k-ci", "", true},
		{"scheme only", Source{Header: "Authorization", Scheme: "Bearer"}, "Bearer ", "", true},
		{"bare header", Source{Header: "X-API-Key"}, "k-ci", "k-ci", false},
		{"missing", Source{Header: "X-API-Key"}, "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set(tt.source.Header, tt.header)
			}

			got, err := tt.source.Extract(r)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Extract() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Extract() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMiddleware(t *testing.T) {
	var gotName string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotName, _ = KeyName(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	h := Middleware(NewKeyValidator(testKeys), Source{Header: "Authorization", Scheme: "Bearer"}, logging.Discard())(next)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantName   string
	}{
		{"valid", "Bearer k-ci", http.StatusOK, "ci"},
		{"disabled", "Bearer k-old", http.StatusUnauthorized, ""},
		{"unknown", "Bearer nope", http.StatusUnauthorized, ""},
		{"missing", "", http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotName = ""
			r := httptest.NewRequest(http.MethodGet, "/v1/classify", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, r)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			if gotName != tt.wantName {
				t.Errorf("KeyName = %q, want %q", gotName, tt.wantName)
			}
			if tt.wantStatus != http.StatusUnauthorized {
				return
			}
			if got := w.Header().Get("WWW-Authenticate"); got != "Bearer" {
				t.Errorf("WWW-Authenticate = %q, want Bearer", got)
			}
			var body map[string]string
			if err := json.NewDecoder(w.Body).Decode(&body); err != nil || body["error"] == "" {
				t.Errorf("body = %v (err %v), want error message", body, err)
			}
		})
	}
}

func TestMiddleware_NilValidator(t *testing.T) {
	h := Middleware(nil, Source{Header: "Authorization"}, logging.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusTeapot {
		t.Errorf("status = %d, want passthrough", w.Code)
	}
}
