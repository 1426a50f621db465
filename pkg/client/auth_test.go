package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/naveenspark/shelfdesk/pkg/domain"
)

// countingServer returns a test server that counts hits and replies with handler.
func countingServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestLogin(t *testing.T) {
	srv, _ := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if req.Username != "admin" || req.Password != "secret123" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "Credenciales inválidas"}) //nolint:errcheck
			return
		}
		json.NewEncoder(w).Encode(domain.AuthResponse{ //nolint:errcheck
			Token:     "jwt-token",
			TokenType: "Bearer",
			Person: &domain.Person{
				ID:        1,
				FirstName: "Ada",
				User: &domain.Account{
					Username:    "admin",
					Role:        domain.RoleAdministrator,
					Permissions: []string{"GET_PRODUCTS", "GET_USERS"},
				},
			},
		})
	})

	resp, err := New(srv.URL).Login(context.Background(), "admin", "secret123")
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if resp.Token != "jwt-token" {
		t.Errorf("Token = %q, want %q", resp.Token, "jwt-token")
	}
	if resp.Person.User.Role != domain.RoleAdministrator {
		t.Errorf("Role = %q, want %q", resp.Person.User.Role, domain.RoleAdministrator)
	}
}

func TestLogin_EmptyInputSendsNothing(t *testing.T) {
	srv, hits := countingServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	c := New(srv.URL)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"both empty", "", ""},
		{"empty username", "", "secret123"},
		{"empty password", "admin", ""},
		{"whitespace username", "   ", "secret123"},
		{"whitespace password", "admin", "\t\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Login(context.Background(), tt.username, tt.password)
			if !errors.Is(err, ErrValidation) {
				t.Errorf("Login(%q, %q) error = %v, want ErrValidation", tt.username, tt.password, err)
			}
		})
	}
	if n := hits.Load(); n != 0 {
		t.Errorf("server received %d requests, want 0", n)
	}
}

func TestLogin_BackendMessageSurfaced(t *testing.T) {
	srv, _ := countingServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "Credenciales inválidas"}) //nolint:errcheck
	})

	_, err := New(srv.URL).Login(context.Background(), "admin", "wrong")
	if !errors.Is(err, ErrAuthentication) {
		t.Fatalf("error = %v, want ErrAuthentication", err)
	}
	if got := err.Error(); got != "Credenciales inválidas" {
		t.Errorf("error message = %q, want backend message verbatim", got)
	}
	if !IsStatus(err, http.StatusUnauthorized) {
		t.Error("IsStatus(err, 401) = false, want true")
	}
}

func TestLogin_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url).Login(context.Background(), "admin", "secret123")
	if !errors.Is(err, ErrAuthentication) {
		t.Fatalf("error = %v, want ErrAuthentication", err)
	}
	if Message(err) == "" {
		t.Error("expected a non-empty transport message")
	}
}

func TestLogin_IncompleteResponse(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing token", `{"tokenType":"Bearer","person":{"id":1,"user":{"username":"a","role":"ADMINISTRADOR"}}}`},
		{"missing person", `{"token":"t","tokenType":"Bearer"}`},
		{"person without user", `{"token":"t","tokenType":"Bearer","person":{"id":1}}`},
		{"empty object", `{}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := countingServer(t, func(w http.ResponseWriter, _ *http.Request) {
				w.Write([]byte(tt.body)) //nolint:errcheck
			})
			_, err := New(srv.URL).Login(context.Background(), "admin", "secret123")
			if !errors.Is(err, ErrProtocol) {
				t.Fatalf("error = %v, want ErrProtocol", err)
			}
			if err.Error() != "invalid server response" {
				t.Errorf("message = %q, want %q", err.Error(), "invalid server response")
			}
		})
	}
}

func TestLogin_DefaultsScheme(t *testing.T) {
	srv, _ := countingServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"token":"t","person":{"id":1,"user":{"username":"a","role":"DOCENTE"}}}`)) //nolint:errcheck
	})
	resp, err := New(srv.URL).Login(context.Background(), "a", "secret123")
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if resp.TokenType != DefaultScheme {
		t.Errorf("TokenType = %q, want %q", resp.TokenType, DefaultScheme)
	}
}

func TestForgotPassword(t *testing.T) {
	srv, hits := countingServer(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body) //nolint:errcheck
		if body["email"] != "ada@example.com" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"message": "correo no registrado"}) //nolint:errcheck
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	c := New(srv.URL)

	if err := c.ForgotPassword(context.Background(), ""); !errors.Is(err, ErrValidation) {
		t.Errorf("ForgotPassword(\"\") error = %v, want ErrValidation", err)
	}
	if hits.Load() != 0 {
		t.Fatalf("validation failure reached the server")
	}
	if err := c.ForgotPassword(context.Background(), "ada@example.com"); err != nil {
		t.Errorf("ForgotPassword() error: %v", err)
	}
	err := c.ForgotPassword(context.Background(), "nobody@example.com")
	if !errors.Is(err, ErrRequest) {
		t.Fatalf("error = %v, want ErrRequest", err)
	}
	if err.Error() != "correo no registrado" {
		t.Errorf("message = %q, want backend message", err.Error())
	}
}

func TestResetPassword_Validation(t *testing.T) {
	srv, hits := countingServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	c := New(srv.URL)

	tests := []struct {
		name     string
		token    string
		password string
		wantErr  error
	}{
		{"missing token", "", "longenough", ErrValidation},
		{"missing password", "tok", "", ErrValidation},
		{"seven chars", "tok", "1234567", ErrValidation},
		{"eight chars", "tok", "12345678", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.ResetPassword(context.Background(), tt.token, tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ResetPassword() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
	if n := hits.Load(); n != 1 {
		t.Errorf("server received %d requests, want 1", n)
	}
}
