package faq

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

// Handler handles HTTP requests for FAQ operations
type Handler struct {
	service *Service
}

// NewHandler creates a new FAQ handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router mounted under /studios/{studioID}/faqs
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Put("/{faqID}", h.Update)
	r.Delete("/{faqID}", h.Delete)

	return r
}

// List handles GET /studios/{studioID}/faqs
// @Summary      List studio FAQs
// @Tags         faqs
// @Produce      json
// @Param        studioID path int true "Studio ID"
// @Success      200 {object} response.APIResponse{data=[]FAQResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /studios/{studioID}/faqs [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	studioID, err := strconv.ParseInt(chi.URLParam(r, "studioID"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid studio ID")
		return
	}

	faqs, err := h.service.List(r.Context(), studioID)
	if err != nil {
		h.respondError(w, err)
		return
	}

	faqResponses := make([]*FAQResponse, len(faqs))
	for i, f := range faqs {
		faqResponses[i] = f.ToResponse()
	}

	response.JSON(w, http.StatusOK, faqResponses)
}

// Create handles POST /studios/{studioID}/faqs
// @Summary      Create a FAQ entry
// @Description  Add a FAQ entry (owner or moderator)
// @Tags         faqs
// @Accept       json
// @Produce      json
// @Param        studioID path int true "Studio ID"
// @Param        request body CreateFAQRequest true "FAQ entry"
// @Success      201 {object} response.APIResponse{data=FAQResponse}
// @Failure      403 {object} response.APIResponse
// @Router       /studios/{studioID}/faqs [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
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

	var req CreateFAQRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.Question == "" || req.Answer == "" {
		response.BadRequest(w, "Question and answer are required")
		return
	}

	f, err := h.service.Create(r.Context(), studioID, userID, &req)
	if err != nil {
		h.respondError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, f.ToResponse())
}

// Update handles PUT /studios/{studioID}/faqs/{faqID}
// @Summary      Update a FAQ entry
// @Tags         faqs
// @Accept       json
// @Produce      json
// @Param        studioID path int true "Studio ID"
// @Param        faqID path int true "FAQ ID"
// @Param        request body UpdateFAQRequest true "FAQ update"
// @Success      200 {object} response.APIResponse{data=FAQResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /studios/{studioID}/faqs/{faqID} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
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
	faqID, err := strconv.ParseInt(chi.URLParam(r, "faqID"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid FAQ ID")
		return
	}

	var req UpdateFAQRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	f, err := h.service.Update(r.Context(), studioID, faqID, userID, &req)
	if err != nil {
		h.respondError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, f.ToResponse())
}

// Delete handles DELETE /studios/{studioID}/faqs/{faqID}
// @Summary      Delete a FAQ entry
// @Tags         faqs
// @Produce      json
// @Param        studioID path int true "Studio ID"
// @Param        faqID path int true "FAQ ID"
// @Success      200 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /studios/{studioID}/faqs/{faqID} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
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
	faqID, err := strconv.ParseInt(chi.URLParam(r, "faqID"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid FAQ ID")
		return
	}

	if err := h.service.Delete(r.Context(), studioID, faqID, userID); err != nil {
		h.respondError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "FAQ deleted"})
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrFAQNotFound), errors.Is(err, studio.ErrStudioNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, studio.ErrNotAuthorized):
		response.Forbidden(w, err.Error())
	default:
		response.InternalError(w, "Internal server error")
	}
}
