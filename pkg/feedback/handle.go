package feedback

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
)

// Handler handles HTTP requests for feedback
type Handler struct {
	service *FeedbackService
}

// NewHandler creates a new feedback handler
func NewHandler(service *FeedbackService) *Handler {
	return &Handler{
		service: service,
	}
}

// RegisterPublicRoutes registers the unauthenticated submission route.
func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Route("/feedback", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: false,
		}))
		r.Post("/", h.SubmitFeedback)
	})
}

// RegisterAdminRoutes registers the admin listing, reply and resolve routes.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Route("/feedback", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: false,
		}))
		r.Get("/", h.ListFeedback)
		r.Post("/{id}/reply", h.ReplyFeedback)
		r.Post("/{id}/resolve", h.ResolveFeedback)
	})
}

// SubmitFeedbackRequest is the body of POST /feedback
type SubmitFeedbackRequest struct {
	UserID   *uuid.UUID `json:"user_id,omitempty"`
	FullName string     `json:"full_name"`
	Email    string     `json:"email"`
	Content  string     `json:"content"`
	Rating   int16      `json:"rating"`
}

// ReplyFeedbackRequest is the body of POST /feedback/{id}/reply
type ReplyFeedbackRequest struct {
	Reply string `json:"reply"`
}

type feedbackResponse struct {
	Message  string   `json:"message"`
	Feedback Feedback `json:"feedback"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// SubmitFeedback handles the public submission request
func (h *Handler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var request SubmitFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		slog.Error("Failed to decode request body", "err", err)
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, errorResponse{Error: "invalid request body"})
		return
	}

	params := SubmitFeedbackParams{}
	copier.Copy(&params, &request)

	f, err := h.service.Submit(r.Context(), params)
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, feedbackResponse{Message: "Feedback submitted successfully", Feedback: f})
}

// ListFeedback handles the admin request to list all feedback
func (h *Handler) ListFeedback(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.List(r.Context())
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, map[string]any{"feedback": records, "total": len(records)})
}

// ReplyFeedback handles the admin request to reply to a feedback record
func (h *Handler) ReplyFeedback(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, errorResponse{Error: "invalid feedback id"})
		return
	}

	var request ReplyFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		slog.Error("Failed to decode request body", "err", err)
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, errorResponse{Error: "invalid request body"})
		return
	}

	f, err := h.service.Reply(r.Context(), id, request.Reply)
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, feedbackResponse{Message: "Reply sent successfully", Feedback: f})
}

// ResolveFeedback handles the admin request to mark feedback resolved
func (h *Handler) ResolveFeedback(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, errorResponse{Error: "invalid feedback id"})
		return
	}

	f, err := h.service.Resolve(r.Context(), id)
	if err != nil {
		renderError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, feedbackResponse{Message: "Feedback resolved", Feedback: f})
}

func renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, ErrInvalidFeedback) {
		status = http.StatusBadRequest
	} else if errors.Is(err, ErrFeedbackNotFound) {
		status = http.StatusNotFound
	}

	render.Status(r, status)
	render.JSON(w, r, errorResponse{Error: err.Error()})
}
