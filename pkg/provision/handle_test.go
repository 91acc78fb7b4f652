package provision

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter() (*chi.Mux, *Service) {
	svc, _, _ := newTestService()
	handler := NewHandler(svc)
	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, svc
}

func postJSON(t *testing.T, router http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	encoded, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest("POST", path, bytes.NewReader(encoded))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateUserHandler(t *testing.T) {
	router, _ := newTestRouter()

	rec := postJSON(t, router, "/users", CreateUserRequest{
		Email:    "a@x.com",
		Password: "P@ssw0rd1",
		FullName: "A",
		Role:     "user",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var response userResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "User created successfully", response.Message)
	assert.Equal(t, "a@x.com", response.User.Email)
	assert.Equal(t, "user", response.User.Role)
}

func TestCreateUserHandlerIdempotent(t *testing.T) {
	router, _ := newTestRouter()

	request := CreateUserRequest{Email: "a@x.com", Password: "P@ssw0rd1", FullName: "A", Role: "user"}

	rec := postJSON(t, router, "/users", request)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = postJSON(t, router, "/users", request)
	require.Equal(t, http.StatusOK, rec.Code)

	var response userResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "User already provisioned", response.Message)
}

func TestCreateUserHandlerErrors(t *testing.T) {
	router, _ := newTestRouter()

	rec := postJSON(t, router, "/users", CreateUserRequest{Email: "", Password: ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var response errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.NotEmpty(t, response.Error)

	// wrong password against an existing account
	rec = postJSON(t, router, "/users", CreateUserRequest{Email: "a@x.com", Password: "P@ssw0rd1"})
	require.Equal(t, http.StatusOK, rec.Code)
	rec = postJSON(t, router, "/users", CreateUserRequest{Email: "a@x.com", Password: "other"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUpdateUserHandler(t *testing.T) {
	router, svc := newTestRouter()

	result, err := svc.ProvisionAccount(context.Background(), ProvisionParams{
		Email: "a@x.com", Password: "P@ssw0rd1", FullName: "A", Role: "user",
	})
	require.NoError(t, err)

	body, _ := json.Marshal(UpdateUserRequest{FullName: "A Renamed", Role: "admin_nutrition"})
	req := httptest.NewRequest("PUT", "/users/"+result.Profile.ID.String(), bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var response userResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "A Renamed", response.User.FullName)
	assert.Equal(t, "admin_nutrition", response.User.Role)

	// unknown id
	req = httptest.NewRequest("PUT", "/users/00000000-0000-0000-0000-000000000001", bytes.NewReader(body))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// malformed id
	req = httptest.NewRequest("PUT", "/users/not-a-uuid", bytes.NewReader(body))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteUserHandler(t *testing.T) {
	router, svc := newTestRouter()

	result, err := svc.ProvisionAccount(context.Background(), ProvisionParams{
		Email: "a@x.com", Password: "P@ssw0rd1", Role: "user",
	})
	require.NoError(t, err)

	req := httptest.NewRequest("DELETE", "/users/"+result.Profile.ID.String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("DELETE", "/users/"+result.Profile.ID.String(), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPreflightOptionsRequest(t *testing.T) {
	router, _ := newTestRouter()

	for _, path := range []string{"/users", "/users/00000000-0000-0000-0000-000000000001"} {
		req := httptest.NewRequest("OPTIONS", path, nil)
		req.Header.Set("Origin", "https://app.example.com")
		req.Header.Set("Access-Control-Request-Method", "POST")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"), path)
		assert.Empty(t, rec.Body.String(), path)
	}
}

func TestListUsersHandler(t *testing.T) {
	router, svc := newTestRouter()

	_, err := svc.ProvisionAccount(context.Background(), ProvisionParams{
		Email: "a@x.com", Password: "P@ssw0rd1", Role: "user",
	})
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/users", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var response struct {
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, 1, response.Total)
}
