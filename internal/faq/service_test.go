package faq

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hfarran/studiohub/internal/studio"
)

type fakeStudios struct {
	roles map[int64]studio.Role
}

func (f *fakeStudios) GetByID(_ context.Context, id int64) (*studio.Studio, error) {
	if id != 1 {
		return nil, studio.ErrStudioNotFound
	}
	return &studio.Studio{ID: 1, Name: "Darkroom", Slug: "darkroom"}, nil
}

func (f *fakeStudios) RoleOf(_ context.Context, _, userID int64) (studio.Role, bool, error) {
	role, ok := f.roles[userID]
	return role, ok, nil
}

type fakeStore struct {
	faqs   map[int64]*FAQ
	nextID int64
}

func (f *fakeStore) Create(_ context.Context, studioID int64, req *CreateFAQRequest) (*FAQ, error) {
	f.nextID++
	entry := &FAQ{ID: f.nextID, StudioID: studioID, Question: req.Question, Answer: req.Answer}
	if req.Order != nil {
		entry.Order = *req.Order
	}
	f.faqs[entry.ID] = entry
	return entry, nil
}

func (f *fakeStore) GetByID(_ context.Context, id int64) (*FAQ, error) {
	return f.faqs[id], nil
}

func (f *fakeStore) ListByStudio(_ context.Context, studioID int64) ([]*FAQ, error) {
	var out []*FAQ
	for _, entry := range f.faqs {
		if entry.StudioID == studioID {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (f *fakeStore) Update(_ context.Context, id int64, req *UpdateFAQRequest) (*FAQ, error) {
	entry := f.faqs[id]
	if req.Question != nil {
		entry.Question = *req.Question
	}
	if req.Answer != nil {
		entry.Answer = *req.Answer
	}
	if req.Order != nil {
		entry.Order = *req.Order
	}
	return entry, nil
}

func (f *fakeStore) Delete(_ context.Context, id int64) error {
	if _, ok := f.faqs[id]; !ok {
		return ErrFAQNotFound
	}
	delete(f.faqs, id)
	return nil
}

// newTestService wires studio 1 with user 1 as OWNER, user 2 as
// MODERATOR, and user 3 as MEMBER
func newTestService() (*Service, *fakeStore) {
	studios := &fakeStudios{roles: map[int64]studio.Role{
		1: studio.RoleOwner,
		2: studio.RoleModerator,
		3: studio.RoleMember,
	}}
	store := &fakeStore{faqs: make(map[int64]*FAQ)}
	return NewService(store, studios), store
}

func TestCreateRequiresManageAuthority(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	req := &CreateFAQRequest{Question: "Is there parking?", Answer: "Yes"}

	_, err := svc.Create(ctx, 1, 3, req)
	assert.ErrorIs(t, err, studio.ErrNotAuthorized)

	f, err := svc.Create(ctx, 1, 2, req)
	require.NoError(t, err)
	assert.Equal(t, "Is there parking?", f.Question)
}

func TestListIsPublic(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, 1, &CreateFAQRequest{Question: "q", Answer: "a"})
	require.NoError(t, err)

	faqs, err := svc.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, faqs, 1)

	_, err = svc.List(ctx, 99)
	assert.ErrorIs(t, err, studio.ErrStudioNotFound)
}

func TestUpdateChecksOwnership(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	f, err := svc.Create(ctx, 1, 1, &CreateFAQRequest{Question: "q", Answer: "a"})
	require.NoError(t, err)

	// entry belonging to another studio is invisible through studio 1
	store.faqs[f.ID].StudioID = 2
	answer := "b"
	_, err = svc.Update(ctx, 1, f.ID, 1, &UpdateFAQRequest{Answer: &answer})
	assert.ErrorIs(t, err, ErrFAQNotFound)

	store.faqs[f.ID].StudioID = 1
	updated, err := svc.Update(ctx, 1, f.ID, 1, &UpdateFAQRequest{Answer: &answer})
	require.NoError(t, err)
	assert.Equal(t, "b", updated.Answer)
}

func TestDelete(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	f, err := svc.Create(ctx, 1, 1, &CreateFAQRequest{Question: "q", Answer: "a"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, 1, f.ID, 3), studio.ErrNotAuthorized)
	assert.ErrorIs(t, svc.Delete(ctx, 1, 99, 1), ErrFAQNotFound)

	require.NoError(t, svc.Delete(ctx, 1, f.ID, 1))
	assert.Empty(t, store.faqs)
}
