package faq

import (
	"context"
	"errors"

	"github.com/hfarran/studiohub/internal/studio"
)

// Common errors
var ErrFAQNotFound = errors.New("faq not found")

// Store is the persistence boundary for FAQ entries
type Store interface {
	Create(ctx context.Context, studioID int64, req *CreateFAQRequest) (*FAQ, error)
	GetByID(ctx context.Context, id int64) (*FAQ, error)
	ListByStudio(ctx context.Context, studioID int64) ([]*FAQ, error)
	Update(ctx context.Context, id int64, req *UpdateFAQRequest) (*FAQ, error)
	Delete(ctx context.Context, id int64) error
}

// Studios is the slice of the studio service this feature consumes
type Studios interface {
	GetByID(ctx context.Context, id int64) (*studio.Studio, error)
	RoleOf(ctx context.Context, studioID, userID int64) (studio.Role, bool, error)
}

// Service handles FAQ business logic. Reads are public; writes
// require management authority.
type Service struct {
	store   Store
	studios Studios
}

// NewService creates a new FAQ service
func NewService(store Store, studios Studios) *Service {
	return &Service{store: store, studios: studios}
}

// Create adds a FAQ entry to a studio
func (s *Service) Create(ctx context.Context, studioID, userID int64, req *CreateFAQRequest) (*FAQ, error) {
	if err := s.requireManage(ctx, studioID, userID); err != nil {
		return nil, err
	}

	return s.store.Create(ctx, studioID, req)
}

// List retrieves a studio's FAQ entries
func (s *Service) List(ctx context.Context, studioID int64) ([]*FAQ, error) {
	if _, err := s.studios.GetByID(ctx, studioID); err != nil {
		return nil, err
	}

	return s.store.ListByStudio(ctx, studioID)
}

// Update modifies a FAQ entry
func (s *Service) Update(ctx context.Context, studioID, faqID, userID int64, req *UpdateFAQRequest) (*FAQ, error) {
	if err := s.requireManage(ctx, studioID, userID); err != nil {
		return nil, err
	}

	existing, err := s.store.GetByID(ctx, faqID)
	if err != nil {
		return nil, err
	}
	if existing == nil || existing.StudioID != studioID {
		return nil, ErrFAQNotFound
	}

	return s.store.Update(ctx, faqID, req)
}

// Delete removes a FAQ entry
func (s *Service) Delete(ctx context.Context, studioID, faqID, userID int64) error {
	if err := s.requireManage(ctx, studioID, userID); err != nil {
		return err
	}

	existing, err := s.store.GetByID(ctx, faqID)
	if err != nil {
		return err
	}
	if existing == nil || existing.StudioID != studioID {
		return ErrFAQNotFound
	}

	return s.store.Delete(ctx, faqID)
}

func (s *Service) requireManage(ctx context.Context, studioID, userID int64) error {
	if _, err := s.studios.GetByID(ctx, studioID); err != nil {
		return err
	}

	role, ok, err := s.studios.RoleOf(ctx, studioID, userID)
	if err != nil {
		return err
	}
	if !ok || !role.CanManage() {
		return studio.ErrNotAuthorized
	}

	return nil
}
