package provision

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/jinzhu/copier"

	"github.com/natiman34/meri-ethiopian-fitness-sub004/pkg/identity"
	"github.com/natiman34/meri-ethiopian-fitness-sub004/pkg/profile"
)

// Handler handles HTTP requests for account provisioning
type Handler struct {
	service *Service
}

// NewHandler creates a new provisioning handler
func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

// RegisterRoutes registers the provisioning routes. Pre-flight OPTIONS
// requests are answered with permissive cross-origin headers.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/users", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: false,
		}))
		r.Get("/", h.ListUsers)
		r.Post("/", h.CreateUser)
		r.Put("/{id}", h.UpdateUser)
		r.Delete("/{id}", h.DeleteUser)
	})
}

// CreateUserRequest is the body of POST /users
type CreateUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// UpdateUserRequest is the body of PUT /users/{id}
type UpdateUserRequest struct {
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

type userResponse struct {
	Message string          `json:"message"`
	User    profile.Profile `json:"user"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// CreateUser handles the request to provision an account
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var request CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		slog.Error("Failed to decode request body", "err", err)
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, errorResponse{Error: "invalid request body"})
		return
	}

	params := ProvisionParams{}
	copier.Copy(&params, &request)

	result, err := h.service.ProvisionAccount(r.Context(), params)
	if err != nil {
		renderError(w, r, err)
		return
	}

	message := "User created successfully"
	if result.AlreadyProvisioned {
		message = "User already provisioned"
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, userResponse{Message: message, User: result.Profile})
}

// UpdateUser handles the request to edit a profile by identity ID
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, errorResponse{Error: "invalid user id"})
		return
	}

	var request UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		slog.Error("Failed to decode request body", "err", err)
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, errorResponse{Error: "invalid request body"})
		return
	}

	updated, err := h.service.UpdateAccount(r.Context(), id, request.FullName, request.Role)
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, userResponse{Message: "User updated successfully", User: updated})
}

// DeleteUser handles the request to remove an identity and its profile
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, errorResponse{Error: "invalid user id"})
		return
	}

	if err := h.service.DeleteAccount(r.Context(), id); err != nil {
		renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, map[string]string{"message": "User deleted successfully"})
}

// ListUsers handles the request to list all profiles
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.service.profiles.ListProfiles(r.Context())
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, map[string]any{"users": profiles, "total": len(profiles)})
}

func renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError

	if kind, ok := KindOf(err); ok {
		switch kind {
		case KindInvalidInput:
			status = http.StatusBadRequest
		case KindInvalidCredentials:
			status = http.StatusUnauthorized
		case KindAlreadyExists:
			status = http.StatusConflict
		case KindTransport, KindInconsistentState:
			status = http.StatusInternalServerError
		}
	} else if errors.Is(err, profile.ErrProfileNotFound) || errors.Is(err, identity.ErrIdentityNotFound) {
		status = http.StatusNotFound
	}

	render.Status(r, status)
	render.JSON(w, r, errorResponse{Error: err.Error()})
}
