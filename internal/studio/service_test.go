package studio

import (
	"context"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hfarran/studiohub/internal/event"
)

type fakeStore struct {
	studios      map[int64]*Studio
	members      map[int64]map[int64]*Member
	nextStudioID int64
	nextMemberID int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		studios: make(map[int64]*Studio),
		members: make(map[int64]map[int64]*Member),
	}
}

func (f *fakeStore) Create(_ context.Context, req *CreateStudioRequest, creatorID int64) (*Studio, error) {
	f.nextStudioID++
	s := &Studio{ID: f.nextStudioID, Name: req.Name, Slug: req.Slug, Description: req.Description, JoinType: req.JoinType}
	f.studios[s.ID] = s
	if _, err := f.AddMember(context.Background(), s.ID, creatorID, RoleOwner); err != nil {
		return nil, err
	}
	return s, nil
}

func (f *fakeStore) GetByID(_ context.Context, id int64) (*Studio, error) {
	return f.studios[id], nil
}

func (f *fakeStore) ListByUserID(_ context.Context, userID int64, limit, offset int) ([]*Studio, int, error) {
	var studios []*Studio
	for id, members := range f.members {
		if _, ok := members[userID]; ok {
			studios = append(studios, f.studios[id])
		}
	}
	return studios, len(studios), nil
}

func (f *fakeStore) Update(_ context.Context, id int64, req *UpdateStudioRequest) (*Studio, error) {
	s, ok := f.studios[id]
	if !ok {
		return nil, nil
	}
	if req.Name != nil {
		s.Name = *req.Name
	}
	if req.Description != nil {
		s.Description = req.Description
	}
	if req.JoinType != nil {
		s.JoinType = *req.JoinType
	}
	return s, nil
}

func (f *fakeStore) Delete(_ context.Context, id int64) error {
	if _, ok := f.studios[id]; !ok {
		return ErrStudioNotFound
	}
	delete(f.studios, id)
	delete(f.members, id)
	return nil
}

func (f *fakeStore) AddMember(_ context.Context, studioID, userID int64, role Role) (*Member, error) {
	if f.members[studioID] == nil {
		f.members[studioID] = make(map[int64]*Member)
	}
	if _, exists := f.members[studioID][userID]; exists {
		return nil, fmt.Errorf("failed to add member: %w", &pq.Error{Code: "23505"})
	}
	f.nextMemberID++
	m := &Member{ID: f.nextMemberID, StudioID: studioID, UserID: userID, Role: role}
	f.members[studioID][userID] = m
	return m, nil
}

func (f *fakeStore) GetMember(_ context.Context, studioID, userID int64) (*Member, error) {
	return f.members[studioID][userID], nil
}

func (f *fakeStore) GetMembers(_ context.Context, studioID int64) ([]*Member, error) {
	var members []*Member
	for _, m := range f.members[studioID] {
		members = append(members, m)
	}
	return members, nil
}

func (f *fakeStore) UpdateMemberRole(_ context.Context, studioID, userID int64, role Role) (*Member, error) {
	m := f.members[studioID][userID]
	if m == nil {
		return nil, nil
	}
	m.Role = role
	return m, nil
}

func (f *fakeStore) RemoveMember(_ context.Context, studioID, userID int64) error {
	if f.members[studioID][userID] == nil {
		return ErrMemberNotFound
	}
	delete(f.members[studioID], userID)
	return nil
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, event.Event) error { return nil }

func newTestService() (*Service, *fakeStore) {
	store := newFakeStore()
	return NewService(store, nopPublisher{}, zap.NewNop()), store
}

// seedStudio creates a studio with user 1 as OWNER, user 2 as
// MODERATOR, and user 3 as MEMBER
func seedStudio(t *testing.T, svc *Service, store *fakeStore, joinType JoinType) *Studio {
	t.Helper()
	s, err := svc.Create(context.Background(), 1, &CreateStudioRequest{Name: "Darkroom", Slug: "darkroom", JoinType: joinType})
	require.NoError(t, err)
	_, err = store.AddMember(context.Background(), s.ID, 2, RoleModerator)
	require.NoError(t, err)
	_, err = store.AddMember(context.Background(), s.ID, 3, RoleMember)
	require.NoError(t, err)
	return s
}

func TestCreateMakesCreatorOwner(t *testing.T) {
	svc, store := newTestService()

	s, err := svc.Create(context.Background(), 7, &CreateStudioRequest{Name: "Print Lab", Slug: "print-lab"})
	require.NoError(t, err)
	assert.Equal(t, JoinTypeOpen, s.JoinType, "join type defaults to OPEN")

	m, err := store.GetMember(context.Background(), s.ID, 7)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, RoleOwner, m.Role)
}

func TestCreateRejectsUnknownJoinType(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Create(context.Background(), 1, &CreateStudioRequest{Name: "x", Slug: "x", JoinType: "SECRET"})
	assert.ErrorIs(t, err, ErrInvalidJoinType)
}

func TestRoleOf(t *testing.T) {
	svc, store := newTestService()
	s := seedStudio(t, svc, store, JoinTypeOpen)

	role, ok, err := svc.RoleOf(context.Background(), s.ID, 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, RoleOwner, role)

	_, ok, err = svc.RoleOf(context.Background(), s.ID, 99)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAddMemberDuplicateConflicts(t *testing.T) {
	svc, store := newTestService()
	s := seedStudio(t, svc, store, JoinTypeOpen)

	_, err := svc.AddMember(context.Background(), s.ID, 3, RoleMember)
	assert.ErrorIs(t, err, ErrAlreadyMember)
}

func TestChangeRole(t *testing.T) {
	tests := []struct {
		name     string
		actorID  int64
		targetID int64
		role     Role
		wantErr  error
	}{
		{"owner promotes member", 1, 3, RoleModerator, nil},
		{"owner demotes moderator", 1, 2, RoleMember, nil},
		{"moderator cannot change roles", 2, 3, RoleModerator, ErrNotAuthorized},
		{"member cannot change roles", 3, 2, RoleMember, ErrNotAuthorized},
		{"cannot change own role", 1, 1, RoleModerator, ErrCannotChangeOwnRole},
		{"cannot assign owner", 1, 3, RoleOwner, ErrOwnerRoleChange},
		{"unknown role", 1, 3, "SUPERVISOR", ErrInvalidRole},
		{"target not a member", 1, 42, RoleModerator, ErrMemberNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newTestService()
			s := seedStudio(t, svc, store, JoinTypeOpen)

			member, err := svc.ChangeRole(context.Background(), s.ID, tt.actorID, tt.targetID, tt.role)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.role, member.Role)
		})
	}
}

func TestChangeRoleCannotDemoteOwner(t *testing.T) {
	svc, store := newTestService()
	s := seedStudio(t, svc, store, JoinTypeOpen)
	// second user with OWNER role, planted directly in the store
	_, err := store.AddMember(context.Background(), s.ID, 8, RoleOwner)
	require.NoError(t, err)

	_, err = svc.ChangeRole(context.Background(), s.ID, 1, 8, RoleMember)
	assert.ErrorIs(t, err, ErrOwnerRoleChange)
}

func TestRemoveMember(t *testing.T) {
	tests := []struct {
		name     string
		actorID  int64
		targetID int64
		wantErr  error
	}{
		{"owner removes member", 1, 3, nil},
		{"owner removes moderator", 1, 2, nil},
		{"moderator removes member", 2, 3, nil},
		{"moderator cannot remove moderator", 2, 4, ErrNotAuthorized},
		{"moderator cannot remove owner", 2, 1, ErrNotAuthorized},
		{"member cannot remove anyone", 3, 2, ErrNotAuthorized},
		{"owner cannot remove self", 1, 1, ErrOwnerCannotLeave},
		{"target not a member", 1, 42, ErrMemberNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newTestService()
			s := seedStudio(t, svc, store, JoinTypeOpen)
			_, err := store.AddMember(context.Background(), s.ID, 4, RoleModerator)
			require.NoError(t, err)

			err = svc.RemoveMember(context.Background(), s.ID, tt.actorID, tt.targetID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			m, err := store.GetMember(context.Background(), s.ID, tt.targetID)
			require.NoError(t, err)
			assert.Nil(t, m, "membership should be gone")
		})
	}
}

func TestLeave(t *testing.T) {
	svc, store := newTestService()
	s := seedStudio(t, svc, store, JoinTypeOpen)

	require.NoError(t, svc.Leave(context.Background(), s.ID, 3))

	err := svc.Leave(context.Background(), s.ID, 1)
	assert.ErrorIs(t, err, ErrOwnerCannotLeave)

	err = svc.Leave(context.Background(), s.ID, 42)
	assert.ErrorIs(t, err, ErrMemberNotFound)
}

func TestUpdateRequiresManageAuthority(t *testing.T) {
	svc, store := newTestService()
	s := seedStudio(t, svc, store, JoinTypeOpen)
	waitlist := JoinTypeWaitlist

	_, err := svc.Update(context.Background(), s.ID, 3, &UpdateStudioRequest{JoinType: &waitlist})
	assert.ErrorIs(t, err, ErrNotAuthorized)

	updated, err := svc.Update(context.Background(), s.ID, 2, &UpdateStudioRequest{JoinType: &waitlist})
	require.NoError(t, err)
	assert.Equal(t, JoinTypeWaitlist, updated.JoinType)
}

func TestDeleteIsOwnerOnly(t *testing.T) {
	svc, store := newTestService()
	s := seedStudio(t, svc, store, JoinTypeOpen)

	assert.ErrorIs(t, svc.Delete(context.Background(), s.ID, 2), ErrNotAuthorized)
	assert.ErrorIs(t, svc.Delete(context.Background(), s.ID, 3), ErrNotAuthorized)
	require.NoError(t, svc.Delete(context.Background(), s.ID, 1))

	_, err := svc.GetByID(context.Background(), s.ID)
	assert.ErrorIs(t, err, ErrStudioNotFound)
}
