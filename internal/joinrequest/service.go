package joinrequest

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
	ErrRequestNotFound = errors.New("join request not found")
	ErrAlreadyPending  = errors.New("a join request is already pending")
	ErrAlreadyApproved = errors.New("join request has already been approved")
	ErrAlreadyReviewed = errors.New("join request has already been reviewed")
	ErrJoinNotAllowed  = errors.New("this studio is invite-only")
	ErrStudioMismatch  = errors.New("join request belongs to a different studio")
)

// Store is the persistence boundary for join requests
type Store interface {
	GetByID(ctx context.Context, id int64) (*JoinRequest, error)
	GetByStudioUser(ctx context.Context, studioID, userID int64) (*JoinRequest, error)
	Create(ctx context.Context, studioID, userID int64, message *string) (*JoinRequest, error)
	Reinstate(ctx context.Context, id int64, message *string) (*JoinRequest, error)
	UpdateStatus(ctx context.Context, id int64, status Status) (*JoinRequest, error)
	Approve(ctx context.Context, req *JoinRequest) (*JoinRequest, error)
	ListPendingByStudio(ctx context.Context, studioID int64) ([]*JoinRequest, error)
}

// Studios is the slice of the studio service this pathway consumes
type Studios interface {
	GetByID(ctx context.Context, id int64) (*studio.Studio, error)
	RoleOf(ctx context.Context, studioID, userID int64) (studio.Role, bool, error)
	AddMember(ctx context.Context, studioID, userID int64, role studio.Role) (*studio.Member, error)
}

// Service handles the join-request admission pathway
type Service struct {
	store   Store
	studios Studios
	events  event.Publisher
	logger  *zap.Logger
}

// NewService creates a new join-request service
func NewService(store Store, studios Studios, events event.Publisher, logger *zap.Logger) *Service {
	return &Service{store: store, studios: studios, events: events, logger: logger}
}

// Join handles a user's request to join a studio. Open studios admit
// immediately; waitlist studios record a pending request; invite-only
// studios refuse self-service joins.
func (s *Service) Join(ctx context.Context, studioID, userID int64, message *string) (*JoinResult, error) {
	st, err := s.studios.GetByID(ctx, studioID)
	if err != nil {
		return nil, err
	}

	if _, isMember, err := s.studios.RoleOf(ctx, studioID, userID); err != nil {
		return nil, err
	} else if isMember {
		return nil, studio.ErrAlreadyMember
	}

	switch st.JoinType {
	case studio.JoinTypeOpen:
		member, err := s.studios.AddMember(ctx, studioID, userID, studio.RoleMember)
		if err != nil {
			return nil, err
		}

		s.publish(ctx, event.Event{
			Type:     event.TypeMemberJoined,
			StudioID: studioID,
			UserID:   userID,
			Role:     string(studio.RoleMember),
		})

		return &JoinResult{Joined: true, Membership: member.ToResponse()}, nil

	case studio.JoinTypeInviteOnly:
		return nil, ErrJoinNotAllowed

	default: // WAITLIST
		existing, err := s.store.GetByStudioUser(ctx, studioID, userID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			switch existing.Status {
			case StatusPending:
				return nil, ErrAlreadyPending
			case StatusApproved:
				return nil, ErrAlreadyApproved
			case StatusRejected:
				// Re-application: reuse the row
				req, err := s.store.Reinstate(ctx, existing.ID, message)
				if err != nil {
					return nil, err
				}
				return &JoinResult{Joined: false, Request: req.ToResponse()}, nil
			}
		}

		req, err := s.store.Create(ctx, studioID, userID, message)
		if err != nil {
			if database.IsUniqueViolation(err) {
				return nil, ErrAlreadyPending
			}
			return nil, err
		}
		return &JoinResult{Joined: false, Request: req.ToResponse()}, nil
	}
}

// Approve marks the request APPROVED and creates the membership
// atomically. Requires management authority on the request's studio.
func (s *Service) Approve(ctx context.Context, studioID, requestID, approverID int64) (*JoinRequest, error) {
	req, err := s.reviewable(ctx, studioID, requestID, approverID)
	if err != nil {
		return nil, err
	}

	approved, err := s.store.Approve(ctx, req)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, studio.ErrAlreadyMember
		}
		return nil, err
	}

	s.publish(ctx, event.Event{
		Type:     event.TypeRequestApproved,
		StudioID: req.StudioID,
		UserID:   req.UserID,
		Role:     string(studio.RoleMember),
	})

	return approved, nil
}

// Reject marks the request REJECTED. Requires management authority.
func (s *Service) Reject(ctx context.Context, studioID, requestID, rejecterID int64) (*JoinRequest, error) {
	req, err := s.reviewable(ctx, studioID, requestID, rejecterID)
	if err != nil {
		return nil, err
	}

	return s.store.UpdateStatus(ctx, req.ID, StatusRejected)
}

// ListPending retrieves a studio's pending requests, oldest first.
// Requires management authority.
func (s *Service) ListPending(ctx context.Context, studioID, callerID int64) ([]*JoinRequest, error) {
	if _, err := s.studios.GetByID(ctx, studioID); err != nil {
		return nil, err
	}

	role, ok, err := s.studios.RoleOf(ctx, studioID, callerID)
	if err != nil {
		return nil, err
	}
	if !ok || !role.CanManage() {
		return nil, studio.ErrNotAuthorized
	}

	return s.store.ListPendingByStudio(ctx, studioID)
}

// reviewable runs the shared approve/reject preconditions and returns
// the pending request
func (s *Service) reviewable(ctx context.Context, studioID, requestID, reviewerID int64) (*JoinRequest, error) {
	role, ok, err := s.studios.RoleOf(ctx, studioID, reviewerID)
	if err != nil {
		return nil, err
	}
	if !ok || !role.CanManage() {
		return nil, studio.ErrNotAuthorized
	}

	req, err := s.store.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, ErrRequestNotFound
	}
	if req.StudioID != studioID {
		return nil, ErrStudioMismatch
	}
	if req.Status != StatusPending {
		return nil, ErrAlreadyReviewed
	}

	return req, nil
}

func (s *Service) publish(ctx context.Context, e event.Event) {
	if err := s.events.Publish(ctx, e); err != nil {
		s.logger.Warn("failed to publish event", zap.String("type", e.Type), zap.Error(err))
	}
}
