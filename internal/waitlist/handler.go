package waitlist

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

// Handler handles HTTP requests for waitlist operations
type Handler struct {
	service *Service
}

// NewHandler creates a new waitlist handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// StudioRoutes returns the studio-scoped waitlist router, mounted
// under /studios/{studioID}/waitlist
func (h *Handler) StudioRoutes() chi.Router {
	r := chi.NewRouter()

	r.Put("/questions", h.SetQuestions)
	r.Get("/questions", h.Questions)
	r.Post("/responses", h.Submit)
	r.Get("/responses", h.List)

	return r
}

// ReviewRoutes returns the reviewer-facing router, mounted at /waitlist
func (h *Handler) ReviewRoutes() chi.Router {
	r := chi.NewRouter()

	r.Post("/responses/{responseID}/review", h.Review)

	return r
}

// SetQuestions handles PUT /studios/{studioID}/waitlist/questions
// @Summary      Replace waitlist questions
// @Description  Delete all existing questions and recreate from the supplied list (owner or moderator)
// @Tags         waitlist
// @Accept       json
// @Produce      json
// @Param        studioID path int true "Studio ID"
// @Param        request body SetQuestionsRequest true "Questions"
// @Success      200 {object} response.APIResponse{data=[]QuestionResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /studios/{studioID}/waitlist/questions [put]
func (h *Handler) SetQuestions(w http.ResponseWriter, r *http.Request) {
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

	var req SetQuestionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	for _, q := range req.Questions {
		if q.Question == "" {
			response.BadRequest(w, "Question text is required")
			return
		}
	}

	questions, err := h.service.SetQuestions(r.Context(), studioID, userID, req.Questions)
	if err != nil {
		h.respondError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, questionResponses(questions))
}

// Questions handles GET /studios/{studioID}/waitlist/questions
// @Summary      List waitlist questions
// @Tags         waitlist
// @Produce      json
// @Param        studioID path int true "Studio ID"
// @Success      200 {object} response.APIResponse{data=[]QuestionResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /studios/{studioID}/waitlist/questions [get]
func (h *Handler) Questions(w http.ResponseWriter, r *http.Request) {
	studioID, err := strconv.ParseInt(chi.URLParam(r, "studioID"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid studio ID")
		return
	}

	questions, err := h.service.Questions(r.Context(), studioID)
	if err != nil {
		h.respondError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, questionResponses(questions))
}

// Submit handles POST /studios/{studioID}/waitlist/responses
// @Summary      Submit a waitlist application
// @Description  Re-submitting after rejection overwrites the previous answers
// @Tags         waitlist
// @Accept       json
// @Produce      json
// @Param        studioID path int true "Studio ID"
// @Param        request body SubmitRequest true "Answers"
// @Success      201 {object} response.APIResponse{data=ApplicationResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /studios/{studioID}/waitlist/responses [post]
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
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

	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	app, err := h.service.Submit(r.Context(), studioID, userID, req.Answers)
	if err != nil {
		h.respondError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, app.ToResponse())
}

// List handles GET /studios/{studioID}/waitlist/responses
// @Summary      List waitlist applications
// @Description  Review queue, oldest first, optional status filter (owner or moderator)
// @Tags         waitlist
// @Produce      json
// @Param        studioID path int true "Studio ID"
// @Param        status query string false "Filter by status" Enums(PENDING, APPROVED, REJECTED)
// @Param        page query int false "Page number" default(1)
// @Param        per_page query int false "Items per page" default(20)
// @Success      200 {object} response.APIResponse{data=[]ApplicationResponse}
// @Failure      403 {object} response.APIResponse
// @Router       /studios/{studioID}/waitlist/responses [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
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

	var status *Status
	if s := r.URL.Query().Get("status"); s != "" {
		st := Status(s)
		if st != StatusPending && st != StatusApproved && st != StatusRejected {
			response.BadRequest(w, "Invalid status filter")
			return
		}
		status = &st
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}

	apps, total, err := h.service.List(r.Context(), studioID, callerID, status, page, perPage)
	if err != nil {
		h.respondError(w, err)
		return
	}

	appResponses := make([]*ApplicationResponse, len(apps))
	for i, app := range apps {
		appResponses[i] = app.ToResponse()
	}

	totalPages := (total + perPage - 1) / perPage
	response.JSONWithMeta(w, http.StatusOK, appResponses, &response.Meta{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	})
}

// Review handles POST /waitlist/responses/{responseID}/review
// @Summary      Review a waitlist application
// @Description  Approving marks the application APPROVED and creates the membership atomically
// @Tags         waitlist
// @Accept       json
// @Produce      json
// @Param        responseID path int true "Application ID"
// @Param        request body ReviewRequest true "Decision"
// @Success      200 {object} response.APIResponse{data=ApplicationResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /waitlist/responses/{responseID}/review [post]
func (h *Handler) Review(w http.ResponseWriter, r *http.Request) {
	reviewerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	applicationID, err := strconv.ParseInt(chi.URLParam(r, "responseID"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid application ID")
		return
	}

	var req ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	app, err := h.service.Review(r.Context(), applicationID, reviewerID, req.Status)
	if err != nil {
		h.respondError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, app.ToResponse())
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrApplicationNotFound), errors.Is(err, studio.ErrStudioNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, studio.ErrNotAuthorized):
		response.Forbidden(w, err.Error())
	case errors.Is(err, ErrAlreadyApplied), errors.Is(err, ErrAlreadyApproved),
		errors.Is(err, ErrAlreadyReviewed), errors.Is(err, studio.ErrAlreadyMember):
		response.Conflict(w, err.Error())
	case errors.Is(err, ErrNotWaitlist), errors.Is(err, ErrInvalidReview):
		response.BadRequest(w, err.Error())
	default:
		response.InternalError(w, "Internal server error")
	}
}

func questionResponses(questions []*Question) []*QuestionResponse {
	responses := make([]*QuestionResponse, len(questions))
	for i, q := range questions {
		responses[i] = q.ToResponse()
	}
	return responses
}
