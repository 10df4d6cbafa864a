package invite

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
	ErrInviteNotFound   = errors.New("invite not found")
	ErrAlreadyInvited   = errors.New("an invite is already pending for this user")
	ErrAlreadyAccepted  = errors.New("invite has already been accepted")
	ErrAlreadyResponded = errors.New("invite has already been responded to")
	ErrOwnerInvite      = errors.New("cannot invite a user as OWNER")
	ErrModeratorInvite  = errors.New("moderators cannot invite as MODERATOR")
	ErrNotInvitee       = errors.New("invite belongs to another user")
)

// Store is the persistence boundary for invites
type Store interface {
	GetByID(ctx context.Context, id int64) (*Invite, error)
	GetByStudioUser(ctx context.Context, studioID, userID int64) (*Invite, error)
	Create(ctx context.Context, studioID, userID, invitedBy int64, role studio.Role) (*Invite, error)
	Reinstate(ctx context.Context, id, invitedBy int64, role studio.Role) (*Invite, error)
	UpdateStatus(ctx context.Context, id int64, status Status) (*Invite, error)
	Accept(ctx context.Context, inv *Invite) (*Invite, error)
	ListPendingForUser(ctx context.Context, userID int64) ([]*Invite, error)
	ListByStudio(ctx context.Context, studioID int64) ([]*Invite, error)
}

// Studios is the slice of the studio service this pathway consumes:
// existence checks and the role authority lookup.
type Studios interface {
	GetByID(ctx context.Context, id int64) (*studio.Studio, error)
	RoleOf(ctx context.Context, studioID, userID int64) (studio.Role, bool, error)
}

// Service handles the invite admission pathway
type Service struct {
	store   Store
	studios Studios
	events  event.Publisher
	logger  *zap.Logger
}

// NewService creates a new invite service
func NewService(store Store, studios Studios, events event.Publisher, logger *zap.Logger) *Service {
	return &Service{store: store, studios: studios, events: events, logger: logger}
}

// Invite creates (or re-sends) an invite for a user. The inviter must
// hold management authority; only owners may invite as MODERATOR; the
// OWNER role is never invitable.
func (s *Service) Invite(ctx context.Context, studioID, inviterID int64, req *CreateInviteRequest) (*Invite, error) {
	if _, err := s.studios.GetByID(ctx, studioID); err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = studio.RoleMember
	}
	if role == studio.RoleOwner {
		return nil, ErrOwnerInvite
	}
	if !studio.ValidRole(role) {
		return nil, studio.ErrInvalidRole
	}

	inviterRole, ok, err := s.studios.RoleOf(ctx, studioID, inviterID)
	if err != nil {
		return nil, err
	}
	if !ok || !inviterRole.CanManage() {
		return nil, studio.ErrNotAuthorized
	}
	if role == studio.RoleModerator && inviterRole != studio.RoleOwner {
		return nil, ErrModeratorInvite
	}

	if _, isMember, err := s.studios.RoleOf(ctx, studioID, req.UserID); err != nil {
		return nil, err
	} else if isMember {
		return nil, studio.ErrAlreadyMember
	}

	existing, err := s.store.GetByStudioUser(ctx, studioID, req.UserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		switch existing.Status {
		case StatusPending:
			return nil, ErrAlreadyInvited
		case StatusAccepted:
			return nil, ErrAlreadyAccepted
		case StatusRejected:
			// Re-invite: reuse the row
			return s.store.Reinstate(ctx, existing.ID, inviterID, role)
		}
	}

	inv, err := s.store.Create(ctx, studioID, req.UserID, inviterID, role)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrAlreadyInvited
		}
		return nil, err
	}

	s.logger.Info("invite created",
		zap.Int64("studio_id", studioID),
		zap.Int64("user_id", req.UserID),
		zap.String("role", string(role)),
	)

	return inv, nil
}

// Respond records the invitee's decision. Accepting marks the invite
// ACCEPTED and creates the membership atomically. If the user became a
// member through another pathway in the meantime, the invite is still
// marked ACCEPTED but the call reports a conflict; no duplicate
// membership is ever created.
func (s *Service) Respond(ctx context.Context, inviteID, userID int64, accept bool) (*Invite, error) {
	inv, err := s.store.GetByID(ctx, inviteID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, ErrInviteNotFound
	}
	if inv.UserID != userID {
		return nil, ErrNotInvitee
	}

	if !accept {
		if !inv.Status.CanTransitionTo(StatusRejected) {
			return nil, ErrAlreadyResponded
		}
		return s.store.UpdateStatus(ctx, inv.ID, StatusRejected)
	}

	if !inv.Status.CanTransitionTo(StatusAccepted) {
		return nil, ErrAlreadyResponded
	}

	if _, isMember, err := s.studios.RoleOf(ctx, inv.StudioID, userID); err != nil {
		return nil, err
	} else if isMember {
		// The invitee is already a member via another pathway. Close
		// the invite so it cannot be accepted again, but report the
		// inconsistency to the caller.
		if _, err := s.store.UpdateStatus(ctx, inv.ID, StatusAccepted); err != nil {
			return nil, err
		}
		return nil, studio.ErrAlreadyMember
	}

	accepted, err := s.store.Accept(ctx, inv)
	if err != nil {
		if database.IsUniqueViolation(err) {
			// Lost the race against a concurrent admission; the
			// transaction rolled back and the invite stays PENDING.
			return nil, studio.ErrAlreadyMember
		}
		return nil, err
	}

	s.publish(ctx, event.Event{
		Type:     event.TypeInviteAccepted,
		StudioID: inv.StudioID,
		UserID:   inv.UserID,
		Role:     string(inv.Role),
	})

	return accepted, nil
}

// ListForUser retrieves the caller's pending invites, newest first
func (s *Service) ListForUser(ctx context.Context, userID int64) ([]*Invite, error) {
	return s.store.ListPendingForUser(ctx, userID)
}

// ListByStudio retrieves a studio's issued invites, any status,
// newest first. Requires management authority.
func (s *Service) ListByStudio(ctx context.Context, studioID, callerID int64) ([]*Invite, error) {
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

	return s.store.ListByStudio(ctx, studioID)
}

func (s *Service) publish(ctx context.Context, e event.Event) {
	if err := s.events.Publish(ctx, e); err != nil {
		s.logger.Warn("failed to publish event", zap.String("type", e.Type), zap.Error(err))
	}
}
