package joinrequest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hfarran/studiohub/internal/studio"
	"github.com/hfarran/studiohub/pkg/middleware"
	"github.com/hfarran/studiohub/pkg/response"
)

// Handler handles HTTP requests for join-request operations
type Handler struct {
	service *Service
}

// NewHandler creates a new join-request handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router mounted under /studios/{studioID}/requests
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Join)
	r.Get("/", h.ListPending)
	r.Post("/{requestID}/approve", h.Approve)
	r.Post("/{requestID}/reject", h.Reject)

	return r
}

// Join handles POST /studios/{studioID}/requests
// @Summary      Request to join a studio
// @Description  Open studios admit immediately; waitlist studios record a pending request
// @Tags         requests
// @Accept       json
// @Produce      json
// @Param        studioID path int true "Studio ID"
// @Param        request body JoinStudioRequest false "Optional message"
// @Success      201 {object} response.APIResponse{data=JoinResult}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /studios/{studioID}/requests [post]
func (h *Handler) Join(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	studioID, err := strconv.ParseInt(chi.URLParam(r, "studioID"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid studio ID")
		return
	}

	var req JoinStudioRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "Invalid request body")
			return
		}
	}

	result, err := h.service.Join(r.Context(), studioID, userID, req.Message)
	if err != nil {
		h.respondError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, result)
}

// ListPending handles GET /studios/{studioID}/requests
// @Summary      List pending join requests
// @Description  Review queue, oldest first (owner or moderator)
// @Tags         requests
// @Produce      json
// @Param        studioID path int true "Studio ID"
// @Success      200 {object} response.APIResponse{data=[]JoinRequestResponse}
// @Failure      403 {object} response.APIResponse
// @Router       /studios/{studioID}/requests [get]
func (h *Handler) ListPending(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	studioID, err := strconv.ParseInt(chi.URLParam(r, "studioID"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid studio ID")
		return
	}

	requests, err := h.service.ListPending(r.Context(), studioID, callerID)
	if err != nil {
		h.respondError(w, err)
		return
	}

	requestResponses := make([]*JoinRequestResponse, len(requests))
	for i, req := range requests {
		requestResponses[i] = req.ToResponse()
	}

	response.JSON(w, http.StatusOK, requestResponses)
}

// Approve handles POST /studios/{studioID}/requests/{requestID}/approve
// @Summary      Approve a join request
// @Description  Marks the request APPROVED and creates the membership atomically
// @Tags         requests
// @Produce      json
// @Param        studioID path int true "Studio ID"
// @Param        requestID path int true "Request ID"
// @Success      200 {object} response.APIResponse{data=JoinRequestResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /studios/{studioID}/requests/{requestID}/approve [post]
func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.service.Approve)
}

// Reject handles POST /studios/{studioID}/requests/{requestID}/reject
// @Summary      Reject a join request
// @Tags         requests
// @Produce      json
// @Param        studioID path int true "Studio ID"
// @Param        requestID path int true "Request ID"
// @Success      200 {object} response.APIResponse{data=JoinRequestResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /studios/{studioID}/requests/{requestID}/reject [post]
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	h.review(w, r, h.service.Reject)
}

func (h *Handler) review(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, studioID, requestID, reviewerID int64) (*JoinRequest, error)) {
	reviewerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	studioID, err := strconv.ParseInt(chi.URLParam(r, "studioID"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid studio ID")
		return
	}
	requestID, err := strconv.ParseInt(chi.URLParam(r, "requestID"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid request ID")
		return
	}

	req, err := fn(r.Context(), studioID, requestID, reviewerID)
	if err != nil {
		h.respondError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, req.ToResponse())
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrRequestNotFound), errors.Is(err, studio.ErrStudioNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrJoinNotAllowed), errors.Is(err, studio.ErrNotAuthorized):
		response.Forbidden(w, err.Error())
	case errors.Is(err, ErrAlreadyPending), errors.Is(err, ErrAlreadyApproved),
		errors.Is(err, ErrAlreadyReviewed), errors.Is(err, studio.ErrAlreadyMember):
		response.Conflict(w, err.Error())
	case errors.Is(err, ErrStudioMismatch):
		response.BadRequest(w, err.Error())
	default:
		response.InternalError(w, "Internal server error")
	}
}
