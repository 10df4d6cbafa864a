package joinrequest

import (
	"context"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hfarran/studiohub/internal/event"
	"github.com/hfarran/studiohub/internal/studio"
)

type fakeStudios struct {
	studios map[int64]*studio.Studio
	roles   map[int64]map[int64]studio.Role
}

func newFakeStudios() *fakeStudios {
	return &fakeStudios{
		studios: make(map[int64]*studio.Studio),
		roles:   make(map[int64]map[int64]studio.Role),
	}
}

func (f *fakeStudios) addStudio(id int64, joinType studio.JoinType) {
	f.studios[id] = &studio.Studio{ID: id, Name: "Darkroom", Slug: "darkroom", JoinType: joinType}
	f.roles[id] = make(map[int64]studio.Role)
}

func (f *fakeStudios) GetByID(_ context.Context, id int64) (*studio.Studio, error) {
	s, ok := f.studios[id]
	if !ok {
		return nil, studio.ErrStudioNotFound
	}
	return s, nil
}

func (f *fakeStudios) RoleOf(_ context.Context, studioID, userID int64) (studio.Role, bool, error) {
	role, ok := f.roles[studioID][userID]
	return role, ok, nil
}

func (f *fakeStudios) AddMember(_ context.Context, studioID, userID int64, role studio.Role) (*studio.Member, error) {
	if _, exists := f.roles[studioID][userID]; exists {
		return nil, studio.ErrAlreadyMember
	}
	f.roles[studioID][userID] = role
	return &studio.Member{StudioID: studioID, UserID: userID, Role: role}, nil
}

type fakeStore struct {
	studios  *fakeStudios
	requests map[int64]*JoinRequest
	nextID   int64
}

func newFakeStore(studios *fakeStudios) *fakeStore {
	return &fakeStore{studios: studios, requests: make(map[int64]*JoinRequest)}
}

func (f *fakeStore) GetByID(_ context.Context, id int64) (*JoinRequest, error) {
	return f.requests[id], nil
}

func (f *fakeStore) GetByStudioUser(_ context.Context, studioID, userID int64) (*JoinRequest, error) {
	for _, req := range f.requests {
		if req.StudioID == studioID && req.UserID == userID {
			return req, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) Create(_ context.Context, studioID, userID int64, message *string) (*JoinRequest, error) {
	f.nextID++
	req := &JoinRequest{ID: f.nextID, StudioID: studioID, UserID: userID, Message: message, Status: StatusPending}
	f.requests[req.ID] = req
	return req, nil
}

func (f *fakeStore) Reinstate(_ context.Context, id int64, message *string) (*JoinRequest, error) {
	req := f.requests[id]
	req.Message = message
	req.Status = StatusPending
	return req, nil
}

func (f *fakeStore) UpdateStatus(_ context.Context, id int64, status Status) (*JoinRequest, error) {
	req := f.requests[id]
	req.Status = status
	return req, nil
}

func (f *fakeStore) Approve(_ context.Context, req *JoinRequest) (*JoinRequest, error) {
	if _, exists := f.studios.roles[req.StudioID][req.UserID]; exists {
		return nil, fmt.Errorf("failed to create membership: %w", &pq.Error{Code: "23505"})
	}
	req.Status = StatusApproved
	f.studios.roles[req.StudioID][req.UserID] = studio.RoleMember
	return req, nil
}

func (f *fakeStore) ListPendingByStudio(_ context.Context, studioID int64) ([]*JoinRequest, error) {
	var out []*JoinRequest
	for _, req := range f.requests {
		if req.StudioID == studioID && req.Status == StatusPending {
			out = append(out, req)
		}
	}
	return out, nil
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, event.Event) error { return nil }

// newTestService wires studio 1 (OPEN), studio 2 (INVITE_ONLY), and
// studio 3 (WAITLIST), each with user 1 as OWNER, user 2 as MODERATOR,
// and user 3 as MEMBER.
func newTestService() (*Service, *fakeStore, *fakeStudios) {
	studios := newFakeStudios()
	studios.addStudio(1, studio.JoinTypeOpen)
	studios.addStudio(2, studio.JoinTypeInviteOnly)
	studios.addStudio(3, studio.JoinTypeWaitlist)
	for id := int64(1); id <= 3; id++ {
		studios.roles[id][1] = studio.RoleOwner
		studios.roles[id][2] = studio.RoleModerator
		studios.roles[id][3] = studio.RoleMember
	}
	store := newFakeStore(studios)
	return NewService(store, studios, nopPublisher{}, zap.NewNop()), store, studios
}

func strptr(s string) *string { return &s }

func TestJoinOpenStudio(t *testing.T) {
	svc, store, studios := newTestService()

	result, err := svc.Join(context.Background(), 1, 10, nil)
	require.NoError(t, err)
	assert.True(t, result.Joined)
	require.NotNil(t, result.Membership)
	assert.Equal(t, studio.RoleMember, result.Membership.Role)
	assert.Nil(t, result.Request)

	role, ok := studios.roles[1][10]
	assert.True(t, ok)
	assert.Equal(t, studio.RoleMember, role)
	assert.Empty(t, store.requests, "open joins never leave a request behind")
}

func TestJoinInviteOnlyStudio(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Join(context.Background(), 2, 10, nil)
	assert.ErrorIs(t, err, ErrJoinNotAllowed)
}

func TestJoinUnknownStudio(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Join(context.Background(), 99, 10, nil)
	assert.ErrorIs(t, err, studio.ErrStudioNotFound)
}

func TestJoinAsExistingMember(t *testing.T) {
	svc, _, _ := newTestService()

	for _, studioID := range []int64{1, 2, 3} {
		_, err := svc.Join(context.Background(), studioID, 3, nil)
		assert.ErrorIs(t, err, studio.ErrAlreadyMember)
	}
}

func TestJoinWaitlistStudio(t *testing.T) {
	svc, _, studios := newTestService()

	result, err := svc.Join(context.Background(), 3, 10, strptr("let me in"))
	require.NoError(t, err)
	assert.False(t, result.Joined)
	assert.Nil(t, result.Membership)
	require.NotNil(t, result.Request)
	assert.Equal(t, StatusPending, result.Request.Status)

	_, isMember := studios.roles[3][10]
	assert.False(t, isMember, "waitlist join does not admit immediately")
}

func TestJoinWaitlistDuplicatePending(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Join(ctx, 3, 10, nil)
	require.NoError(t, err)

	_, err = svc.Join(ctx, 3, 10, nil)
	assert.ErrorIs(t, err, ErrAlreadyPending)
}

func TestRejectedRequestCanBeResubmitted(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	first, err := svc.Join(ctx, 3, 10, strptr("first try"))
	require.NoError(t, err)

	_, err = svc.Reject(ctx, 3, first.Request.ID, 1)
	require.NoError(t, err)

	second, err := svc.Join(ctx, 3, 10, strptr("second try"))
	require.NoError(t, err)
	assert.Equal(t, first.Request.ID, second.Request.ID, "re-application reuses the row")
	assert.Equal(t, StatusPending, second.Request.Status)
	require.NotNil(t, second.Request.Message)
	assert.Equal(t, "second try", *second.Request.Message)
	assert.Len(t, store.requests, 1)
}

func TestApprove(t *testing.T) {
	svc, _, studios := newTestService()
	ctx := context.Background()

	result, err := svc.Join(ctx, 3, 10, nil)
	require.NoError(t, err)

	approved, err := svc.Approve(ctx, 3, result.Request.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, approved.Status)

	role, isMember := studios.roles[3][10]
	require.True(t, isMember, "approval creates the membership")
	assert.Equal(t, studio.RoleMember, role)
}

func TestApprovePreconditions(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	result, err := svc.Join(ctx, 3, 10, nil)
	require.NoError(t, err)

	t.Run("plain member cannot review", func(t *testing.T) {
		_, err := svc.Approve(ctx, 3, result.Request.ID, 3)
		assert.ErrorIs(t, err, studio.ErrNotAuthorized)
	})

	t.Run("unknown request", func(t *testing.T) {
		_, err := svc.Approve(ctx, 3, 99, 1)
		assert.ErrorIs(t, err, ErrRequestNotFound)
	})

	t.Run("request addressed through the wrong studio", func(t *testing.T) {
		_, err := svc.Approve(ctx, 1, result.Request.ID, 1)
		assert.ErrorIs(t, err, ErrStudioMismatch)
	})
}

func TestApproveTwice(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	result, err := svc.Join(ctx, 3, 10, nil)
	require.NoError(t, err)

	_, err = svc.Approve(ctx, 3, result.Request.ID, 1)
	require.NoError(t, err)

	_, err = svc.Approve(ctx, 3, result.Request.ID, 1)
	assert.ErrorIs(t, err, ErrAlreadyReviewed)
}

func TestApproveLosesRace(t *testing.T) {
	svc, store, studios := newTestService()
	ctx := context.Background()

	result, err := svc.Join(ctx, 3, 10, nil)
	require.NoError(t, err)

	// user 10 was admitted through another pathway before review
	studios.roles[3][10] = studio.RoleMember

	_, err = svc.Approve(ctx, 3, result.Request.ID, 1)
	assert.ErrorIs(t, err, studio.ErrAlreadyMember)
	assert.Equal(t, StatusPending, store.requests[result.Request.ID].Status, "transaction rolled back")
}

func TestReject(t *testing.T) {
	svc, _, studios := newTestService()
	ctx := context.Background()

	result, err := svc.Join(ctx, 3, 10, nil)
	require.NoError(t, err)

	rejected, err := svc.Reject(ctx, 3, result.Request.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, rejected.Status)

	_, isMember := studios.roles[3][10]
	assert.False(t, isMember)

	_, err = svc.Reject(ctx, 3, result.Request.ID, 2)
	assert.ErrorIs(t, err, ErrAlreadyReviewed)
}

func TestListPending(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	for _, userID := range []int64{10, 11} {
		_, err := svc.Join(ctx, 3, userID, nil)
		require.NoError(t, err)
	}

	_, err := svc.ListPending(ctx, 3, 3)
	assert.ErrorIs(t, err, studio.ErrNotAuthorized)

	pending, err := svc.ListPending(ctx, 3, 2)
	require.NoError(t, err)
	assert.Len(t, pending, 2)
}
