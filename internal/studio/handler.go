package studio

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hfarran/studiohub/pkg/middleware"
	"github.com/hfarran/studiohub/pkg/response"
)

// Handler handles HTTP requests for studio operations
type Handler struct {
	service *Service
}

// NewHandler creates a new studio handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for studio endpoints. The admission
// pathway routers are mounted under /{studioID} so their handlers can
// read the studio from the URL.
func (h *Handler) Routes(invites, requests, waitlist, faqs chi.Router) chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.List)

	r.Route("/{studioID}", func(r chi.Router) {
		r.Get("/", h.GetByID)
		r.Put("/", h.Update)
		r.Delete("/", h.Delete)

		r.Get("/members", h.Members)
		r.Put("/members/{userID}", h.ChangeRole)
		r.Delete("/members/{userID}", h.RemoveMember)
		r.Post("/leave", h.Leave)

		r.Mount("/invites", invites)
		r.Mount("/requests", requests)
		r.Mount("/waitlist", waitlist)
		r.Mount("/faqs", faqs)
	})

	return r
}

// Create handles POST /studios
// @Summary      Create a new studio
// @Description  Create a studio; the creator becomes its OWNER
// @Tags         studios
// @Accept       json
// @Produce      json
// @Param        request body CreateStudioRequest true "Studio creation request"
// @Success      201 {object} response.APIResponse{data=StudioResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /studios [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	creatorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req CreateStudioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.Name == "" || req.Slug == "" {
		response.BadRequest(w, "Name and slug are required")
		return
	}

	studio, err := h.service.Create(r.Context(), creatorID, &req)
	if err != nil {
		h.respondError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, studio.ToResponse())
}

// List handles GET /studios
// @Summary      List my studios
// @Tags         studios
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        per_page query int false "Items per page" default(20)
// @Success      200 {object} response.APIResponse{data=[]StudioResponse}
// @Router       /studios [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}

	studios, total, err := h.service.ListByUserID(r.Context(), userID, page, perPage)
	if err != nil {
		response.InternalError(w, "Failed to list studios")
		return
	}

	studioResponses := make([]*StudioResponse, len(studios))
	for i, s := range studios {
		studioResponses[i] = s.ToResponse()
	}

	totalPages := (total + perPage - 1) / perPage
	response.JSONWithMeta(w, http.StatusOK, studioResponses, &response.Meta{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	})
}

// GetByID handles GET /studios/{studioID}
// @Summary      Get studio by ID
// @Description  Get a studio with all its members
// @Tags         studios
// @Produce      json
// @Param        studioID path int true "Studio ID"
// @Success      200 {object} response.APIResponse{data=StudioResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /studios/{studioID} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	studioID, err := studioIDParam(r)
	if err != nil {
		response.BadRequest(w, "Invalid studio ID")
		return
	}

	studio, members, err := h.service.GetByIDWithMembers(r.Context(), studioID)
	if err != nil {
		h.respondError(w, err)
		return
	}

	studioResp := studio.ToResponse()
	studioResp.Members = make([]*MemberResponse, len(members))
	for i, m := range members {
		studioResp.Members[i] = m.ToResponse()
	}

	response.JSON(w, http.StatusOK, studioResp)
}

// Update handles PUT /studios/{studioID}
// @Summary      Update a studio
// @Description  Update name, description, or join type (owner or moderator)
// @Tags         studios
// @Accept       json
// @Produce      json
// @Param        studioID path int true "Studio ID"
// @Param        request body UpdateStudioRequest true "Studio update request"
// @Success      200 {object} response.APIResponse{data=StudioResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /studios/{studioID} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	studioID, err := studioIDParam(r)
	if err != nil {
		response.BadRequest(w, "Invalid studio ID")
		return
	}

	var req UpdateStudioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	studio, err := h.service.Update(r.Context(), studioID, userID, &req)
	if err != nil {
		h.respondError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, studio.ToResponse())
}

// Delete handles DELETE /studios/{studioID}
// @Summary      Delete a studio
// @Description  Delete a studio (owner only)
// @Tags         studios
// @Produce      json
// @Param        studioID path int true "Studio ID"
// @Success      200 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /studios/{studioID} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	studioID, err := studioIDParam(r)
	if err != nil {
		response.BadRequest(w, "Invalid studio ID")
		return
	}

	if err := h.service.Delete(r.Context(), studioID, userID); err != nil {
		h.respondError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Studio deleted"})
}

// Members handles GET /studios/{studioID}/members
// @Summary      List studio members
// @Tags         studios
// @Produce      json
// @Param        studioID path int true "Studio ID"
// @Success      200 {object} response.APIResponse{data=[]MemberResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /studios/{studioID}/members [get]
func (h *Handler) Members(w http.ResponseWriter, r *http.Request) {
	studioID, err := studioIDParam(r)
	if err != nil {
		response.BadRequest(w, "Invalid studio ID")
		return
	}

	members, err := h.service.Members(r.Context(), studioID)
	if err != nil {
		h.respondError(w, err)
		return
	}

	memberResponses := make([]*MemberResponse, len(members))
	for i, m := range members {
		memberResponses[i] = m.ToResponse()
	}

	response.JSON(w, http.StatusOK, memberResponses)
}

// ChangeRole handles PUT /studios/{studioID}/members/{userID}
// @Summary      Change a member's role
// @Description  Promote or demote between MEMBER and MODERATOR (owner only)
// @Tags         studios
// @Accept       json
// @Produce      json
// @Param        studioID path int true "Studio ID"
// @Param        userID path int true "Target user ID"
// @Param        request body ChangeRoleRequest true "Role change request"
// @Success      200 {object} response.APIResponse{data=MemberResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /studios/{studioID}/members/{userID} [put]
func (h *Handler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	studioID, err := studioIDParam(r)
	if err != nil {
		response.BadRequest(w, "Invalid studio ID")
		return
	}
	targetID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	var req ChangeRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	member, err := h.service.ChangeRole(r.Context(), studioID, actorID, targetID, req.Role)
	if err != nil {
		h.respondError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, member.ToResponse())
}

// RemoveMember handles DELETE /studios/{studioID}/members/{userID}
// @Summary      Remove a member
// @Description  Remove a member (owner or moderator; moderators may only remove plain members)
// @Tags         studios
// @Produce      json
// @Param        studioID path int true "Studio ID"
// @Param        userID path int true "Target user ID"
// @Success      200 {object} response.APIResponse
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /studios/{studioID}/members/{userID} [delete]
func (h *Handler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	studioID, err := studioIDParam(r)
	if err != nil {
		response.BadRequest(w, "Invalid studio ID")
		return
	}
	targetID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	if err := h.service.RemoveMember(r.Context(), studioID, actorID, targetID); err != nil {
		h.respondError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Member removed"})
}

// Leave handles POST /studios/{studioID}/leave
// @Summary      Leave a studio
// @Description  Remove your own membership (owners cannot leave)
// @Tags         studios
// @Produce      json
// @Param        studioID path int true "Studio ID"
// @Success      200 {object} response.APIResponse
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /studios/{studioID}/leave [post]
func (h *Handler) Leave(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	studioID, err := studioIDParam(r)
	if err != nil {
		response.BadRequest(w, "Invalid studio ID")
		return
	}

	if err := h.service.Leave(r.Context(), studioID, userID); err != nil {
		h.respondError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Left studio"})
}

// respondError maps service errors to the HTTP error taxonomy
func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrStudioNotFound), errors.Is(err, ErrMemberNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrNotAuthorized):
		response.Forbidden(w, err.Error())
	case errors.Is(err, ErrAlreadyMember), errors.Is(err, ErrSlugTaken):
		response.Conflict(w, err.Error())
	case errors.Is(err, ErrInvalidRole), errors.Is(err, ErrInvalidJoinType),
		errors.Is(err, ErrOwnerRoleChange), errors.Is(err, ErrCannotChangeOwnRole),
		errors.Is(err, ErrOwnerCannotLeave):
		response.BadRequest(w, err.Error())
	default:
		response.InternalError(w, "Internal server error")
	}
}

// studioIDParam parses the studioID path parameter
func studioIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "studioID"), 10, 64)
}
