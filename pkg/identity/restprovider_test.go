package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRESTProviderCreateIdentity(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "POST", r.Method)
		require.Equal(t, "/admin/users", r.URL.Path)
		require.Equal(t, "Bearer service-key", r.Header.Get("Authorization"))

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "a@x.com", payload["email"])
		assert.Equal(t, true, payload["email_confirm"])

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":                 "11111111-1111-1111-1111-111111111111",
			"email":              "a@x.com",
			"email_confirmed_at": time.Now().Format(time.RFC3339),
			"user_metadata":      map[string]string{"full_name": "A", "role": "admin_fitness"},
		})
	}))
	defer server.Close()

	provider := NewRESTProvider(RESTConfig{BaseURL: server.URL, ServiceKey: "service-key"})

	created, err := provider.CreateIdentity(context.Background(), CreateIdentityParams{
		Email:    "a@x.com",
		Password: "P@ssw0rd1",
		Metadata: Metadata{FullName: "A", Role: "admin_fitness"},
	})
	require.NoError(t, err)
	assert.Equal(t, "11111111-1111-1111-1111-111111111111", created.ID)
	assert.True(t, created.Confirmed)
	assert.Equal(t, "admin_fitness", created.Metadata.Role)
}

func TestRESTProviderCreateIdentityAlreadyRegistered(t *testing.T) {
	statuses := []struct {
		name   string
		status int
		body   map[string]string
	}{
		{"conflict", http.StatusConflict, map[string]string{"message": "duplicate"}},
		{"unprocessable", http.StatusUnprocessableEntity, map[string]string{"msg": "A user with this email address has already been registered"}},
		{"bad request", http.StatusBadRequest, map[string]string{"message": "email already exists"}},
	}

	for _, tc := range statuses {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tc.status)
				json.NewEncoder(w).Encode(tc.body)
			}))
			defer server.Close()

			provider := NewRESTProvider(RESTConfig{BaseURL: server.URL, ServiceKey: "service-key"})
			_, err := provider.CreateIdentity(context.Background(), CreateIdentityParams{
				Email:    "a@x.com",
				Password: "P@ssw0rd1",
			})
			assert.ErrorIs(t, err, ErrIdentityExists)
		})
	}
}

func TestRESTProviderSignIn(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/token", r.URL.Path)
		require.Equal(t, "password", r.URL.Query().Get("grant_type"))

		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		if payload["password"] != "P@ssw0rd1" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error_description": "Invalid login credentials"})
			return
		}

		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "token",
			"user": map[string]any{
				"id":    "22222222-2222-2222-2222-222222222222",
				"email": "a@x.com",
			},
		})
	}))
	defer server.Close()

	provider := NewRESTProvider(RESTConfig{BaseURL: server.URL, ServiceKey: "service-key"})

	signedIn, err := provider.SignIn(context.Background(), "a@x.com", "P@ssw0rd1")
	require.NoError(t, err)
	assert.Equal(t, "22222222-2222-2222-2222-222222222222", signedIn.ID)

	_, err = provider.SignIn(context.Background(), "a@x.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRESTProviderDeleteIdentity(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "DELETE", r.Method)
		switch r.URL.Path {
		case "/admin/users/known":
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	provider := NewRESTProvider(RESTConfig{BaseURL: server.URL, ServiceKey: "service-key"})

	assert.NoError(t, provider.DeleteIdentity(context.Background(), "known"))
	assert.ErrorIs(t, provider.DeleteIdentity(context.Background(), "unknown"), ErrIdentityNotFound)
}

func TestRESTProviderTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // force connection refused

	provider := NewRESTProvider(RESTConfig{BaseURL: server.URL, ServiceKey: "service-key"})

	_, err := provider.SignIn(context.Background(), "a@x.com", "pw123456")
	assert.True(t, IsTransport(err))

	_, err = provider.CreateIdentity(context.Background(), CreateIdentityParams{Email: "a@x.com", Password: "pw123456"})
	assert.True(t, IsTransport(err))
}

func TestRESTProviderServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	provider := NewRESTProvider(RESTConfig{BaseURL: server.URL, ServiceKey: "service-key"})

	_, err := provider.SignIn(context.Background(), "a@x.com", "pw123456")
	assert.True(t, IsTransport(err))
}
