package waitlist

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/hfarran/studiohub/internal/database"
	"github.com/hfarran/studiohub/internal/event"
	"github.com/hfarran/studiohub/internal/studio"
)

// Common errors
var (
	ErrApplicationNotFound = errors.New("application not found")
	ErrAlreadyApplied      = errors.New("an application is already pending")
	ErrAlreadyApproved     = errors.New("application has already been approved")
	ErrAlreadyReviewed     = errors.New("application has already been reviewed")
	ErrNotWaitlist         = errors.New("studio does not use a waitlist")
	ErrInvalidReview       = errors.New("review status must be APPROVED or REJECTED")
)

// Store is the persistence boundary for waitlist questions and applications
type Store interface {
	ReplaceQuestions(ctx context.Context, studioID int64, inputs []QuestionInput) ([]*Question, error)
	ListQuestions(ctx context.Context, studioID int64) ([]*Question, error)
	GetApplicationByID(ctx context.Context, id int64) (*Application, error)
	GetApplicationByStudioUser(ctx context.Context, studioID, userID int64) (*Application, error)
	CreateApplication(ctx context.Context, studioID, userID int64, answers []Answer) (*Application, error)
	Resubmit(ctx context.Context, id int64, answers []Answer) (*Application, error)
	UpdateApplicationStatus(ctx context.Context, id int64, status Status) (*Application, error)
	Approve(ctx context.Context, app *Application) (*Application, error)
	ListApplications(ctx context.Context, studioID int64, status *Status, limit, offset int) ([]*Application, int, error)
}

// Studios is the slice of the studio service this pathway consumes
type Studios interface {
	GetByID(ctx context.Context, id int64) (*studio.Studio, error)
	RoleOf(ctx context.Context, studioID, userID int64) (studio.Role, bool, error)
}

// Service handles the waitlist admission pathway
type Service struct {
	store   Store
	studios Studios
	events  event.Publisher
	logger  *zap.Logger
}

// NewService creates a new waitlist service
func NewService(store Store, studios Studios, events event.Publisher, logger *zap.Logger) *Service {
	return &Service{store: store, studios: studios, events: events, logger: logger}
}

// SetQuestions replaces a studio's waitlist questions wholesale.
// Requires management authority.
func (s *Service) SetQuestions(ctx context.Context, studioID, userID int64, inputs []QuestionInput) ([]*Question, error) {
	if _, err := s.studios.GetByID(ctx, studioID); err != nil {
		return nil, err
	}

	role, ok, err := s.studios.RoleOf(ctx, studioID, userID)
	if err != nil {
		return nil, err
	}
	if !ok || !role.CanManage() {
		return nil, studio.ErrNotAuthorized
	}

	return s.store.ReplaceQuestions(ctx, studioID, inputs)
}

// Questions retrieves a studio's waitlist questions. Public, so
// prospective applicants can read them.
func (s *Service) Questions(ctx context.Context, studioID int64) ([]*Question, error) {
	if _, err := s.studios.GetByID(ctx, studioID); err != nil {
		return nil, err
	}

	return s.store.ListQuestions(ctx, studioID)
}

// Submit records a waitlist application. Re-submitting after a
// rejection overwrites the previous answers and resets the status.
func (s *Service) Submit(ctx context.Context, studioID, userID int64, answers []Answer) (*Application, error) {
	st, err := s.studios.GetByID(ctx, studioID)
	if err != nil {
		return nil, err
	}
	if st.JoinType != studio.JoinTypeWaitlist {
		return nil, ErrNotWaitlist
	}

	if _, isMember, err := s.studios.RoleOf(ctx, studioID, userID); err != nil {
		return nil, err
	} else if isMember {
		return nil, studio.ErrAlreadyMember
	}

	existing, err := s.store.GetApplicationByStudioUser(ctx, studioID, userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		switch existing.Status {
		case StatusPending:
			return nil, ErrAlreadyApplied
		case StatusApproved:
			return nil, ErrAlreadyApproved
		case StatusRejected:
			// Re-application: overwrite answers, reset to PENDING
			return s.store.Resubmit(ctx, existing.ID, answers)
		}
	}

	app, err := s.store.CreateApplication(ctx, studioID, userID, answers)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrAlreadyApplied
		}
		return nil, err
	}

	return app, nil
}

// Review records a staff decision on a pending application. Approving
// marks it APPROVED and creates the membership atomically.
func (s *Service) Review(ctx context.Context, applicationID, reviewerID int64, status Status) (*Application, error) {
	if status != StatusApproved && status != StatusRejected {
		return nil, ErrInvalidReview
	}

	app, err := s.store.GetApplicationByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app == nil {
		return nil, ErrApplicationNotFound
	}

	role, ok, err := s.studios.RoleOf(ctx, app.StudioID, reviewerID)
	if err != nil {
		return nil, err
	}
	if !ok || !role.CanManage() {
		return nil, studio.ErrNotAuthorized
	}

	if !app.Status.CanTransitionTo(status) {
		return nil, ErrAlreadyReviewed
	}

	if status == StatusRejected {
		return s.store.UpdateApplicationStatus(ctx, app.ID, StatusRejected)
	}

	approved, err := s.store.Approve(ctx, app)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, studio.ErrAlreadyMember
		}
		return nil, err
	}

	s.publish(ctx, event.Event{
		Type:     event.TypeApplicationApproved,
		StudioID: app.StudioID,
		UserID:   app.UserID,
		Role:     string(studio.RoleMember),
	})

	return approved, nil
}

// List retrieves a studio's applications in review order, optionally
// filtered by status. Requires management authority.
func (s *Service) List(ctx context.Context, studioID, callerID int64, status *Status, page, perPage int) ([]*Application, int, error) {
	if _, err := s.studios.GetByID(ctx, studioID); err != nil {
		return nil, 0, err
	}

	role, ok, err := s.studios.RoleOf(ctx, studioID, callerID)
	if err != nil {
		return nil, 0, err
	}
	if !ok || !role.CanManage() {
		return nil, 0, studio.ErrNotAuthorized
	}

	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.store.ListApplications(ctx, studioID, status, perPage, offset)
}

func (s *Service) publish(ctx context.Context, e event.Event) {
	if err := s.events.Publish(ctx, e); err != nil {
		s.logger.Warn("failed to publish event", zap.String("type", e.Type), zap.Error(err))
	}
}
