package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// RESTConfig holds configuration for the REST identity provider client
type RESTConfig struct {
	// BaseURL is the root of the provider's auth API, without trailing slash
	BaseURL string
	// ServiceKey authorizes admin operations (create/delete)
	ServiceKey string
	// Timeout applies to every request. Zero means DefaultTimeout.
	Timeout time.Duration
}

// DefaultTimeout is applied when RESTConfig.Timeout is zero.
const DefaultTimeout = 15 * time.Second

// RESTProvider talks to a hosted identity provider's REST admin API.
type RESTProvider struct {
	config     RESTConfig
	httpClient *http.Client
}

// RESTOption is a function that configures a RESTProvider
type RESTOption func(*RESTProvider)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) RESTOption {
	return func(p *RESTProvider) {
		p.httpClient = client
	}
}

// NewRESTProvider creates a new REST identity provider client
func NewRESTProvider(config RESTConfig, opts ...RESTOption) *RESTProvider {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	p := &RESTProvider{
		config:     config,
		httpClient: &http.Client{Timeout: timeout},
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

type restIdentity struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	ConfirmedAt  string         `json:"email_confirmed_at"`
	UserMetadata map[string]any `json:"user_metadata"`
	CreatedAt    time.Time      `json:"created_at"`
}

func (r restIdentity) toIdentity() Identity {
	meta := Metadata{}
	if v, ok := r.UserMetadata["full_name"].(string); ok {
		meta.FullName = v
	}
	if v, ok := r.UserMetadata["role"].(string); ok {
		meta.Role = v
	}
	return Identity{
		ID:        r.ID,
		Email:     r.Email,
		Confirmed: r.ConfirmedAt != "",
		Metadata:  meta,
		CreatedAt: r.CreatedAt,
	}
}

type restErrorBody struct {
	Message   string `json:"message"`
	Msg       string `json:"msg"`
	ErrorCode string `json:"error_code"`
	ErrorDesc string `json:"error_description"`
}

func (b restErrorBody) text() string {
	for _, s := range []string{b.Message, b.Msg, b.ErrorDesc, b.ErrorCode} {
		if s != "" {
			return s
		}
	}
	return ""
}

// CreateIdentity creates a confirmed identity through the admin API.
func (p *RESTProvider) CreateIdentity(ctx context.Context, params CreateIdentityParams) (Identity, error) {
	if params.Email == "" || params.Password == "" {
		return Identity{}, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}

	payload := map[string]any{
		"email":         params.Email,
		"password":      params.Password,
		"email_confirm": true,
		"user_metadata": map[string]string{
			"full_name": params.Metadata.FullName,
			"role":      params.Metadata.Role,
		},
	}

	body, status, err := p.do(ctx, "POST", "/admin/users", payload, true)
	if err != nil {
		return Identity{}, &TransportError{Op: "create identity", Err: err}
	}

	switch {
	case status == http.StatusOK || status == http.StatusCreated:
		var created restIdentity
		if err := json.Unmarshal(body, &created); err != nil {
			return Identity{}, fmt.Errorf("failed to parse create identity response: %w", err)
		}
		slog.Info("Identity created", "id", created.ID, "email", created.Email)
		return created.toIdentity(), nil
	case isAlreadyRegistered(status, body):
		return Identity{}, fmt.Errorf("%w: %s", ErrIdentityExists, params.Email)
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return Identity{}, fmt.Errorf("%w: %s", ErrInvalidInput, errorText(body))
	default:
		return Identity{}, &TransportError{
			Op:  "create identity",
			Err: fmt.Errorf("unexpected status %d: %s", status, errorText(body)),
		}
	}
}

// SignIn performs a password grant against the provider's token endpoint.
func (p *RESTProvider) SignIn(ctx context.Context, email, password string) (Identity, error) {
	if email == "" || password == "" {
		return Identity{}, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}

	payload := map[string]string{
		"email":    email,
		"password": password,
	}

	body, status, err := p.do(ctx, "POST", "/token?grant_type=password", payload, false)
	if err != nil {
		return Identity{}, &TransportError{Op: "sign in", Err: err}
	}

	switch {
	case status == http.StatusOK:
		var result struct {
			User restIdentity `json:"user"`
		}
		if err := json.Unmarshal(body, &result); err != nil {
			return Identity{}, fmt.Errorf("failed to parse sign in response: %w", err)
		}
		return result.User.toIdentity(), nil
	case status == http.StatusBadRequest || status == http.StatusUnauthorized:
		return Identity{}, fmt.Errorf("%w: %s", ErrInvalidCredentials, email)
	default:
		return Identity{}, &TransportError{
			Op:  "sign in",
			Err: fmt.Errorf("unexpected status %d: %s", status, errorText(body)),
		}
	}
}

// DeleteIdentity removes an identity through the admin API.
func (p *RESTProvider) DeleteIdentity(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: identity id is required", ErrInvalidInput)
	}

	body, status, err := p.do(ctx, "DELETE", "/admin/users/"+id, nil, true)
	if err != nil {
		return &TransportError{Op: "delete identity", Err: err}
	}

	switch status {
	case http.StatusOK, http.StatusNoContent:
		slog.Info("Identity deleted", "id", id)
		return nil
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrIdentityNotFound, id)
	default:
		return &TransportError{
			Op:  "delete identity",
			Err: fmt.Errorf("unexpected status %d: %s", status, errorText(body)),
		}
	}
}

// do performs a single request and returns the raw body and status code.
// Transport failures (dial, timeout, body read) are returned as errors;
// non-2xx statuses are returned to the caller for classification.
func (p *RESTProvider) do(ctx context.Context, method, path string, payload any, admin bool) ([]byte, int, error) {
	var reqBody io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.config.BaseURL+path, reqBody)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if admin {
		req.Header.Set("Authorization", "Bearer "+p.config.ServiceKey)
	}
	req.Header.Set("apikey", p.config.ServiceKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read response body: %w", err)
	}

	return body, resp.StatusCode, nil
}

func errorText(body []byte) string {
	var parsed restErrorBody
	if err := json.Unmarshal(body, &parsed); err == nil {
		if s := parsed.text(); s != "" {
			return s
		}
	}
	return string(body)
}

// isAlreadyRegistered classifies a duplicate-email failure. Providers differ
// in status code (409, 422, or 400) so the message is checked as well.
func isAlreadyRegistered(status int, body []byte) bool {
	if status == http.StatusConflict {
		return true
	}
	if status != http.StatusBadRequest && status != http.StatusUnprocessableEntity {
		return false
	}
	msg := strings.ToLower(errorText(body))
	return strings.Contains(msg, "already been registered") ||
		strings.Contains(msg, "already registered") ||
		strings.Contains(msg, "already exists")
}
