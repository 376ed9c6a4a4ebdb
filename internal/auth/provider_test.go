package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHTTPProvider_FetchSessionData_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Session-ID"); got != "valid-token" {
			t.Errorf("X-Session-ID = %q, want %q", got, "valid-token")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"email":"owner@example.com","name":"Owner"}`))
	}))
	defer server.Close()

	provider := NewHTTPProvider(HTTPProviderConfig{
		ServiceURL:   server.URL,
		LoginPageURL: "https://auth.example.com/login",
	})

	data, err := provider.FetchSessionData(context.Background(), "valid-token")
	if err != nil {
		t.Fatalf("FetchSessionData() error = %v", err)
	}
	if data.Email != "owner@example.com" {
		t.Errorf("email = %q, want %q", data.Email, "owner@example.com")
	}
	if data.Name != "Owner" {
		t.Errorf("name = %q, want %q", data.Name, "Owner")
	}
}

func TestHTTPProvider_FetchSessionData_Unauthorized_ReturnsTokenRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid session", http.StatusUnauthorized)
	}))
	defer server.Close()

	provider := NewHTTPProvider(HTTPProviderConfig{ServiceURL: server.URL})

	_, err := provider.FetchSessionData(context.Background(), "stale-token")
	if !errors.Is(err, ErrTokenRejected) {
		t.Errorf("expected ErrTokenRejected, got %v", err)
	}
}

func TestHTTPProvider_FetchSessionData_ServerError_ReturnsPlainError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer server.Close()

	provider := NewHTTPProvider(HTTPProviderConfig{ServiceURL: server.URL})

	_, err := provider.FetchSessionData(context.Background(), "token")
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	if errors.Is(err, ErrTokenRejected) {
		t.Error("server error should not be classified as token rejection")
	}
}

func TestHTTPProvider_FetchSessionData_EmptyEmail_ReturnsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"email":"","name":"NoEmail"}`))
	}))
	defer server.Close()

	provider := NewHTTPProvider(HTTPProviderConfig{ServiceURL: server.URL})

	if _, err := provider.FetchSessionData(context.Background(), "token"); err == nil {
		t.Error("expected error for empty email")
	}
}

func TestHTTPProvider_LoginURL_ReturnsConfiguredURL(t *testing.T) {
	provider := NewHTTPProvider(HTTPProviderConfig{
		LoginPageURL: "https://auth.example.com/login",
	})

	if got := provider.LoginURL(); got != "https://auth.example.com/login" {
		t.Errorf("LoginURL() = %q, want %q", got, "https://auth.example.com/login")
	}
}
