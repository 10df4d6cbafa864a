package studio

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/hfarran/studiohub/internal/database"
	"github.com/hfarran/studiohub/internal/event"
)

// Common errors
var (
	ErrStudioNotFound      = errors.New("studio not found")
	ErrMemberNotFound      = errors.New("member not found")
	ErrAlreadyMember       = errors.New("user is already a member of this studio")
	ErrNotAuthorized       = errors.New("not authorized to perform this action")
	ErrSlugTaken           = errors.New("slug is already in use")
	ErrInvalidRole         = errors.New("invalid role")
	ErrInvalidJoinType     = errors.New("invalid join type")
	ErrOwnerRoleChange     = errors.New("the OWNER role cannot be assigned or revoked")
	ErrCannotChangeOwnRole = errors.New("cannot change your own role")
	ErrOwnerCannotLeave    = errors.New("owner cannot leave the studio")
)

// Store is the persistence boundary for studios and memberships.
// It enforces only the (studio_id, user_id) uniqueness invariant;
// authority checks happen in the service before any mutation.
type Store interface {
	Create(ctx context.Context, req *CreateStudioRequest, creatorID int64) (*Studio, error)
	GetByID(ctx context.Context, id int64) (*Studio, error)
	ListByUserID(ctx context.Context, userID int64, limit, offset int) ([]*Studio, int, error)
	Update(ctx context.Context, id int64, req *UpdateStudioRequest) (*Studio, error)
	Delete(ctx context.Context, id int64) error
	AddMember(ctx context.Context, studioID, userID int64, role Role) (*Member, error)
	GetMember(ctx context.Context, studioID, userID int64) (*Member, error)
	GetMembers(ctx context.Context, studioID int64) ([]*Member, error)
	UpdateMemberRole(ctx context.Context, studioID, userID int64, role Role) (*Member, error)
	RemoveMember(ctx context.Context, studioID, userID int64) error
}

// Service handles studio business logic and is the single authority
// for role lookups consumed by the admission pathways.
type Service struct {
	store  Store
	events event.Publisher
	logger *zap.Logger
}

// NewService creates a new studio service
func NewService(store Store, events event.Publisher, logger *zap.Logger) *Service {
	return &Service{store: store, events: events, logger: logger}
}

// RoleOf resolves the role a user holds in a studio. The second return
// value is false when the user is not a member. Every authorization
// check in this system goes through here.
func (s *Service) RoleOf(ctx context.Context, studioID, userID int64) (Role, bool, error) {
	member, err := s.store.GetMember(ctx, studioID, userID)
	if err != nil {
		return "", false, err
	}
	if member == nil {
		return "", false, nil
	}
	return member.Role, true, nil
}

// Create creates a new studio with the creator as OWNER
func (s *Service) Create(ctx context.Context, creatorID int64, req *CreateStudioRequest) (*Studio, error) {
	if req.JoinType == "" {
		req.JoinType = JoinTypeOpen
	}
	if !ValidJoinType(req.JoinType) {
		return nil, ErrInvalidJoinType
	}

	studio, err := s.store.Create(ctx, req, creatorID)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}

	s.logger.Info("studio created",
		zap.Int64("studio_id", studio.ID),
		zap.Int64("owner_id", creatorID),
		zap.String("join_type", string(studio.JoinType)),
	)

	return studio, nil
}

// GetByID retrieves a studio by its ID
func (s *Service) GetByID(ctx context.Context, id int64) (*Studio, error) {
	studio, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if studio == nil {
		return nil, ErrStudioNotFound
	}
	return studio, nil
}

// GetByIDWithMembers retrieves a studio with all its members
func (s *Service) GetByIDWithMembers(ctx context.Context, id int64) (*Studio, []*Member, error) {
	studio, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	members, err := s.store.GetMembers(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	return studio, members, nil
}

// ListByUserID retrieves all studios a user belongs to
func (s *Service) ListByUserID(ctx context.Context, userID int64, page, perPage int) ([]*Studio, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.store.ListByUserID(ctx, userID, perPage, offset)
}

// Update modifies a studio's name, description, or join type.
// Requires management authority.
func (s *Service) Update(ctx context.Context, studioID, userID int64, req *UpdateStudioRequest) (*Studio, error) {
	if req.JoinType != nil && !ValidJoinType(*req.JoinType) {
		return nil, ErrInvalidJoinType
	}

	role, ok, err := s.RoleOf(ctx, studioID, userID)
	if err != nil {
		return nil, err
	}
	if !ok || !role.CanManage() {
		return nil, ErrNotAuthorized
	}

	studio, err := s.store.Update(ctx, studioID, req)
	if err != nil {
		return nil, err
	}
	if studio == nil {
		return nil, ErrStudioNotFound
	}
	return studio, nil
}

// Delete removes a studio. Owner only.
func (s *Service) Delete(ctx context.Context, studioID, userID int64) error {
	role, ok, err := s.RoleOf(ctx, studioID, userID)
	if err != nil {
		return err
	}
	if !ok || role != RoleOwner {
		return ErrNotAuthorized
	}

	return s.store.Delete(ctx, studioID)
}

// Members retrieves all members of a studio
func (s *Service) Members(ctx context.Context, studioID int64) ([]*Member, error) {
	studio, err := s.store.GetByID(ctx, studioID)
	if err != nil {
		return nil, err
	}
	if studio == nil {
		return nil, ErrStudioNotFound
	}

	return s.store.GetMembers(ctx, studioID)
}

// AddMember creates a membership row, translating the uniqueness
// violation into ErrAlreadyMember. The admission pathways call this
// for the single-insert case (open join); multi-step admissions run
// their own transactions.
func (s *Service) AddMember(ctx context.Context, studioID, userID int64, role Role) (*Member, error) {
	member, err := s.store.AddMember(ctx, studioID, userID, role)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrAlreadyMember
		}
		return nil, err
	}
	return member, nil
}

// ChangeRole changes a member's role between MEMBER and MODERATOR.
// Owner only; never on yourself; the OWNER role is immutable.
func (s *Service) ChangeRole(ctx context.Context, studioID, actorID, targetUserID int64, role Role) (*Member, error) {
	if !ValidRole(role) {
		return nil, ErrInvalidRole
	}
	if role == RoleOwner {
		return nil, ErrOwnerRoleChange
	}
	if actorID == targetUserID {
		return nil, ErrCannotChangeOwnRole
	}

	actorRole, ok, err := s.RoleOf(ctx, studioID, actorID)
	if err != nil {
		return nil, err
	}
	if !ok || actorRole != RoleOwner {
		return nil, ErrNotAuthorized
	}

	target, err := s.store.GetMember(ctx, studioID, targetUserID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrMemberNotFound
	}
	if target.Role == RoleOwner {
		return nil, ErrOwnerRoleChange
	}

	return s.store.UpdateMemberRole(ctx, studioID, targetUserID, role)
}

// RemoveMember removes a member from a studio. Requires management
// authority; moderators can only remove plain members; the owner
// cannot remove themselves.
func (s *Service) RemoveMember(ctx context.Context, studioID, actorID, targetUserID int64) error {
	if actorID == targetUserID {
		return s.Leave(ctx, studioID, actorID)
	}

	actorRole, ok, err := s.RoleOf(ctx, studioID, actorID)
	if err != nil {
		return err
	}
	if !ok || !actorRole.CanManage() {
		return ErrNotAuthorized
	}

	target, err := s.store.GetMember(ctx, studioID, targetUserID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrMemberNotFound
	}
	if target.Role != RoleMember && actorRole != RoleOwner {
		return ErrNotAuthorized
	}
	if target.Role == RoleOwner {
		return ErrNotAuthorized
	}

	if err := s.store.RemoveMember(ctx, studioID, targetUserID); err != nil {
		return err
	}

	s.publish(ctx, event.Event{
		Type:     event.TypeMemberRemoved,
		StudioID: studioID,
		UserID:   targetUserID,
		Role:     string(target.Role),
	})

	return nil
}

// Leave removes the caller's own membership. Owners cannot leave.
func (s *Service) Leave(ctx context.Context, studioID, userID int64) error {
	role, ok, err := s.RoleOf(ctx, studioID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrMemberNotFound
	}
	if role == RoleOwner {
		return ErrOwnerCannotLeave
	}

	if err := s.store.RemoveMember(ctx, studioID, userID); err != nil {
		return err
	}

	s.publish(ctx, event.Event{
		Type:     event.TypeMemberLeft,
		StudioID: studioID,
		UserID:   userID,
		Role:     string(role),
	})

	return nil
}

// publish sends a domain event; failures are logged, never propagated
func (s *Service) publish(ctx context.Context, e event.Event) {
	if err := s.events.Publish(ctx, e); err != nil {
		s.logger.Warn("failed to publish event", zap.String("type", e.Type), zap.Error(err))
	}
}
