package invite

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hfarran/studiohub/internal/studio"
	"github.com/hfarran/studiohub/pkg/middleware"
	"github.com/hfarran/studiohub/pkg/response"
)

// Handler handles HTTP requests for invite operations
type Handler struct {
	service *Service
}

// NewHandler creates a new invite handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// StudioRoutes returns the studio-scoped invite router, mounted under
// /studios/{studioID}/invites
func (h *Handler) StudioRoutes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.ListByStudio)

	return r
}

// UserRoutes returns the invitee-facing router, mounted at /invites
func (h *Handler) UserRoutes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListMine)
	r.Post("/{inviteID}/respond", h.Respond)

	return r
}

// Create handles POST /studios/{studioID}/invites
// @Summary      Invite a user to a studio
// @Description  Create or re-send an invite (owner or moderator; only owners may invite as MODERATOR)
// @Tags         invites
// @Accept       json
// @Produce      json
// @Param        studioID path int true "Studio ID"
// @Param        request body CreateInviteRequest true "Invite request"
// @Success      201 {object} response.APIResponse{data=InviteResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /studios/{studioID}/invites [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	inviterID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	studioID, err := strconv.ParseInt(chi.URLParam(r, "studioID"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid studio ID")
		return
	}

	var req CreateInviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.UserID == 0 {
		response.BadRequest(w, "user_id is required")
		return
	}

	inv, err := h.service.Invite(r.Context(), studioID, inviterID, &req)
	if err != nil {
		h.respondError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, inv.ToResponse())
}

// ListByStudio handles GET /studios/{studioID}/invites
// @Summary      List a studio's invites
// @Description  All invites issued by the studio, newest first (owner or moderator)
// @Tags         invites
// @Produce      json
// @Param        studioID path int true "Studio ID"
// @Success      200 {object} response.APIResponse{data=[]InviteResponse}
// @Failure      403 {object} response.APIResponse
// @Router       /studios/{studioID}/invites [get]
func (h *Handler) ListByStudio(w http.ResponseWriter, r *http.Request) {
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

	invites, err := h.service.ListByStudio(r.Context(), studioID, callerID)
	if err != nil {
		h.respondError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, toResponses(invites))
}

// ListMine handles GET /invites
// @Summary      List my pending invites
// @Tags         invites
// @Produce      json
// @Success      200 {object} response.APIResponse{data=[]InviteResponse}
// @Router       /invites [get]
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	invites, err := h.service.ListForUser(r.Context(), userID)
	if err != nil {
		response.InternalError(w, "Failed to list invites")
		return
	}

	response.JSON(w, http.StatusOK, toResponses(invites))
}

// Respond handles POST /invites/{inviteID}/respond
// @Summary      Accept or decline an invite
// @Description  Accepting closes the invite and creates the membership atomically
// @Tags         invites
// @Accept       json
// @Produce      json
// @Param        inviteID path int true "Invite ID"
// @Param        request body RespondRequest true "Response"
// @Success      200 {object} response.APIResponse{data=InviteResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /invites/{inviteID}/respond [post]
func (h *Handler) Respond(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	inviteID, err := strconv.ParseInt(chi.URLParam(r, "inviteID"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid invite ID")
		return
	}

	var req RespondRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	inv, err := h.service.Respond(r.Context(), inviteID, userID, req.Accept)
	if err != nil {
		h.respondError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, inv.ToResponse())
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInviteNotFound), errors.Is(err, studio.ErrStudioNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, studio.ErrNotAuthorized), errors.Is(err, ErrModeratorInvite),
		errors.Is(err, ErrNotInvitee):
		response.Forbidden(w, err.Error())
	case errors.Is(err, ErrAlreadyInvited), errors.Is(err, ErrAlreadyAccepted),
		errors.Is(err, ErrAlreadyResponded), errors.Is(err, studio.ErrAlreadyMember):
		response.Conflict(w, err.Error())
	case errors.Is(err, ErrOwnerInvite), errors.Is(err, studio.ErrInvalidRole):
		response.BadRequest(w, err.Error())
	default:
		response.InternalError(w, "Internal server error")
	}
}

func toResponses(invites []*Invite) []*InviteResponse {
	responses := make([]*InviteResponse, len(invites))
	for i, inv := range invites {
		responses[i] = inv.ToResponse()
	}
	return responses
}
