package waitlist

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

type fakeStore struct {
	studios   *fakeStudios
	questions map[int64][]*Question
	apps      map[int64]*Application
	nextID    int64
}

func newFakeStore(studios *fakeStudios) *fakeStore {
	return &fakeStore{
		studios:   studios,
		questions: make(map[int64][]*Question),
		apps:      make(map[int64]*Application),
	}
}

func (f *fakeStore) ReplaceQuestions(_ context.Context, studioID int64, inputs []QuestionInput) ([]*Question, error) {
	out := make([]*Question, 0, len(inputs))
	for i, in := range inputs {
		ord := i
		if in.Order != nil {
			ord = *in.Order
		}
		f.nextID++
		out = append(out, &Question{ID: f.nextID, StudioID: studioID, Question: in.Question, Order: ord})
	}
	f.questions[studioID] = out
	return out, nil
}

func (f *fakeStore) ListQuestions(_ context.Context, studioID int64) ([]*Question, error) {
	return f.questions[studioID], nil
}

func (f *fakeStore) GetApplicationByID(_ context.Context, id int64) (*Application, error) {
	return f.apps[id], nil
}

func (f *fakeStore) GetApplicationByStudioUser(_ context.Context, studioID, userID int64) (*Application, error) {
	for _, app := range f.apps {
		if app.StudioID == studioID && app.UserID == userID {
			return app, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CreateApplication(_ context.Context, studioID, userID int64, answers []Answer) (*Application, error) {
	f.nextID++
	app := &Application{ID: f.nextID, StudioID: studioID, UserID: userID, Answers: answers, Status: StatusPending}
	f.apps[app.ID] = app
	return app, nil
}

func (f *fakeStore) Resubmit(_ context.Context, id int64, answers []Answer) (*Application, error) {
	app := f.apps[id]
	app.Answers = answers
	app.Status = StatusPending
	return app, nil
}

func (f *fakeStore) UpdateApplicationStatus(_ context.Context, id int64, status Status) (*Application, error) {
	app := f.apps[id]
	app.Status = status
	return app, nil
}

func (f *fakeStore) Approve(_ context.Context, app *Application) (*Application, error) {
	if _, exists := f.studios.roles[app.StudioID][app.UserID]; exists {
		return nil, fmt.Errorf("failed to create membership: %w", &pq.Error{Code: "23505"})
	}
	app.Status = StatusApproved
	f.studios.roles[app.StudioID][app.UserID] = studio.RoleMember
	return app, nil
}

func (f *fakeStore) ListApplications(_ context.Context, studioID int64, status *Status, limit, offset int) ([]*Application, int, error) {
	var out []*Application
	for _, app := range f.apps {
		if app.StudioID != studioID {
			continue
		}
		if status != nil && app.Status != *status {
			continue
		}
		out = append(out, app)
	}
	return out, len(out), nil
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, event.Event) error { return nil }

// newTestService wires studio 1 (WAITLIST) and studio 2 (OPEN), each
// with user 1 as OWNER, user 2 as MODERATOR, and user 3 as MEMBER.
func newTestService() (*Service, *fakeStore, *fakeStudios) {
	studios := newFakeStudios()
	studios.addStudio(1, studio.JoinTypeWaitlist)
	studios.addStudio(2, studio.JoinTypeOpen)
	for id := int64(1); id <= 2; id++ {
		studios.roles[id][1] = studio.RoleOwner
		studios.roles[id][2] = studio.RoleModerator
		studios.roles[id][3] = studio.RoleMember
	}
	store := newFakeStore(studios)
	return NewService(store, studios, nopPublisher{}, zap.NewNop()), store, studios
}

func intptr(i int) *int { return &i }

func TestSetQuestionsReplacesWholesale(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	first, err := svc.SetQuestions(ctx, 1, 1, []QuestionInput{
		{Question: "Why do you want to join?"},
		{Question: "What do you shoot?", Order: intptr(5)},
	})
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, 0, first[0].Order, "order defaults to position")
	assert.Equal(t, 5, first[1].Order, "explicit order wins")

	second, err := svc.SetQuestions(ctx, 1, 2, []QuestionInput{
		{Question: "Portfolio link?"},
	})
	require.NoError(t, err)
	require.Len(t, second, 1)

	questions, err := svc.Questions(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, questions, 1, "previous questions are gone")
}

func TestSetQuestionsRequiresManageAuthority(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.SetQuestions(context.Background(), 1, 3, []QuestionInput{{Question: "q"}})
	assert.ErrorIs(t, err, studio.ErrNotAuthorized)
}

func TestQuestionsArePublic(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.SetQuestions(ctx, 1, 1, []QuestionInput{{Question: "q"}})
	require.NoError(t, err)

	// user 10 is not a member
	questions, err := svc.Questions(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, questions, 1)

	_, err = svc.Questions(ctx, 99)
	assert.ErrorIs(t, err, studio.ErrStudioNotFound)
}

func TestSubmit(t *testing.T) {
	svc, _, _ := newTestService()

	app, err := svc.Submit(context.Background(), 1, 10, []Answer{{QuestionID: 1, Answer: "film"}})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, app.Status)
	require.Len(t, app.Answers, 1)
	assert.Equal(t, "film", app.Answers[0].Answer)
}

func TestSubmitGuards(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	t.Run("studio without a waitlist", func(t *testing.T) {
		_, err := svc.Submit(ctx, 2, 10, nil)
		assert.ErrorIs(t, err, ErrNotWaitlist)
	})

	t.Run("existing member", func(t *testing.T) {
		_, err := svc.Submit(ctx, 1, 3, nil)
		assert.ErrorIs(t, err, studio.ErrAlreadyMember)
	})

	t.Run("pending application", func(t *testing.T) {
		_, err := svc.Submit(ctx, 1, 10, nil)
		require.NoError(t, err)
		_, err = svc.Submit(ctx, 1, 10, nil)
		assert.ErrorIs(t, err, ErrAlreadyApplied)
	})
}

func TestResubmitAfterRejection(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	app, err := svc.Submit(ctx, 1, 10, []Answer{{QuestionID: 1, Answer: "first"}})
	require.NoError(t, err)

	_, err = svc.Review(ctx, app.ID, 1, StatusRejected)
	require.NoError(t, err)

	again, err := svc.Submit(ctx, 1, 10, []Answer{{QuestionID: 1, Answer: "second"}})
	require.NoError(t, err)
	assert.Equal(t, app.ID, again.ID, "re-application reuses the row")
	assert.Equal(t, StatusPending, again.Status)
	require.Len(t, again.Answers, 1)
	assert.Equal(t, "second", again.Answers[0].Answer, "answers are overwritten")
	assert.Len(t, store.apps, 1)
}

func TestReviewApprove(t *testing.T) {
	svc, _, studios := newTestService()
	ctx := context.Background()

	app, err := svc.Submit(ctx, 1, 10, nil)
	require.NoError(t, err)

	approved, err := svc.Review(ctx, app.ID, 2, StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, approved.Status)

	role, isMember := studios.roles[1][10]
	require.True(t, isMember, "approval creates the membership")
	assert.Equal(t, studio.RoleMember, role)

	_, err = svc.Review(ctx, app.ID, 1, StatusApproved)
	assert.ErrorIs(t, err, ErrAlreadyReviewed)
}

func TestReviewReject(t *testing.T) {
	svc, _, studios := newTestService()
	ctx := context.Background()

	app, err := svc.Submit(ctx, 1, 10, nil)
	require.NoError(t, err)

	rejected, err := svc.Review(ctx, app.ID, 1, StatusRejected)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, rejected.Status)

	_, isMember := studios.roles[1][10]
	assert.False(t, isMember)
}

func TestReviewPreconditions(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	app, err := svc.Submit(ctx, 1, 10, nil)
	require.NoError(t, err)

	t.Run("status must be a decision", func(t *testing.T) {
		_, err := svc.Review(ctx, app.ID, 1, StatusPending)
		assert.ErrorIs(t, err, ErrInvalidReview)
	})

	t.Run("unknown application", func(t *testing.T) {
		_, err := svc.Review(ctx, 99, 1, StatusApproved)
		assert.ErrorIs(t, err, ErrApplicationNotFound)
	})

	t.Run("plain member cannot review", func(t *testing.T) {
		_, err := svc.Review(ctx, app.ID, 3, StatusApproved)
		assert.ErrorIs(t, err, studio.ErrNotAuthorized)
	})

	t.Run("applicant cannot review", func(t *testing.T) {
		_, err := svc.Review(ctx, app.ID, 10, StatusApproved)
		assert.ErrorIs(t, err, studio.ErrNotAuthorized)
	})
}

func TestReviewLosesRace(t *testing.T) {
	svc, store, studios := newTestService()
	ctx := context.Background()

	app, err := svc.Submit(ctx, 1, 10, nil)
	require.NoError(t, err)

	// user 10 was admitted through another pathway before review
	studios.roles[1][10] = studio.RoleMember

	_, err = svc.Review(ctx, app.ID, 1, StatusApproved)
	assert.ErrorIs(t, err, studio.ErrAlreadyMember)
	assert.Equal(t, StatusPending, store.apps[app.ID].Status, "transaction rolled back")
}

func TestListRequiresManageAuthority(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	for _, userID := range []int64{10, 11} {
		_, err := svc.Submit(ctx, 1, userID, nil)
		require.NoError(t, err)
	}

	_, _, err := svc.List(ctx, 1, 3, nil, 1, 20)
	assert.ErrorIs(t, err, studio.ErrNotAuthorized)

	apps, total, err := svc.List(ctx, 1, 2, nil, 1, 20)
	require.NoError(t, err)
	assert.Len(t, apps, 2)
	assert.Equal(t, 2, total)

	pending := StatusPending
	apps, _, err = svc.List(ctx, 1, 1, &pending, 1, 20)
	require.NoError(t, err)
	assert.Len(t, apps, 2)
}
