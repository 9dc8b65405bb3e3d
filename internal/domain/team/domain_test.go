package team

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mangucletus/aws-serverless-task-management-system-sub000/internal/domain/authz"
	"github.com/mangucletus/aws-serverless-task-management-system-sub000/internal/model"
	"github.com/mangucletus/aws-serverless-task-management-system-sub000/internal/notify"
	"github.com/mangucletus/aws-serverless-task-management-system-sub000/internal/port/outbound"
	"github.com/mangucletus/aws-serverless-task-management-system-sub000/internal/shared/apperr"
	"github.com/mangucletus/aws-serverless-task-management-system-sub000/internal/shared/logger"
)

// Mock implementations

type mockTeamStore struct {
	mock.Mock
}

func (m *mockTeamStore) CreateWithAdmin(ctx context.Context, team *model.Team, admin *model.Membership) error {
	args := m.Called(ctx, team, admin)
	return args.Error(0)
}

func (m *mockTeamStore) FindByID(ctx context.Context, teamID string) (*model.Team, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Team), args.Error(1)
}

type mockMembershipStore struct {
	mock.Mock
}

func (m *mockMembershipStore) Add(ctx context.Context, membership *model.Membership) error {
	args := m.Called(ctx, membership)
	return args.Error(0)
}

func (m *mockMembershipStore) Find(ctx context.Context, teamID, userID string) (*model.Membership, error) {
	args := m.Called(ctx, teamID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Membership), args.Error(1)
}

func (m *mockMembershipStore) FindByTeam(ctx context.Context, teamID string) ([]*model.Membership, error) {
	args := m.Called(ctx, teamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Membership), args.Error(1)
}

func (m *mockMembershipStore) FindByUser(ctx context.Context, userID string) ([]*model.Membership, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Membership), args.Error(1)
}

// recordingNotifier captures dispatched notifications.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
}

type sentNotification struct {
	subject   string
	body      string
	recipient string
	metadata  map[string]string
}

func (n *recordingNotifier) Send(_ context.Context, subject, body, recipientID string, metadata map[string]string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentNotification{subject, body, recipientID, metadata})
}

func newTestDomain(teams *mockTeamStore, members *mockMembershipStore) (*Domain, *recordingNotifier) {
	notifier := &recordingNotifier{}
	log := logger.NewNop()
	d := NewDomain(teams, members, authz.NewAuthorizer(members), notify.NewDispatcher(notifier, log), log)
	return d, notifier
}

func TestCreateTeam(t *testing.T) {
	ctx := context.Background()

	t.Run("creates team and admin membership atomically", func(t *testing.T) {
		teams := new(mockTeamStore)
		members := new(mockMembershipStore)
		d, notifier := newTestDomain(teams, members)

		var gotTeam *model.Team
		var gotAdmin *model.Membership
		teams.On("CreateWithAdmin", ctx, mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				gotTeam = args.Get(1).(*model.Team)
				gotAdmin = args.Get(2).(*model.Membership)
			}).
			Return(nil)

		result, err := d.CreateTeam(ctx, "u1", "  Alpha  ")
		require.NoError(t, err)

		assert.Equal(t, "Alpha", result.Name)
		assert.Equal(t, model.RoleAdmin, result.UserRole)
		assert.Equal(t, "u1", result.AdminID)
		assert.NotEmpty(t, result.TeamID)

		// Both rows share the key and the timestamp.
		require.NotNil(t, gotAdmin)
		assert.Equal(t, gotTeam.TeamID, gotAdmin.TeamID)
		assert.Equal(t, gotTeam.CreatedAt, gotAdmin.JoinedAt)
		assert.Equal(t, model.RoleAdmin, gotAdmin.Role)
		assert.Empty(t, gotAdmin.AddedBy)

		require.Len(t, notifier.sent, 1)
		assert.Equal(t, "u1", notifier.sent[0].recipient)
	})

	t.Run("rejects invalid names", func(t *testing.T) {
		teams := new(mockTeamStore)
		members := new(mockMembershipStore)
		d, _ := newTestDomain(teams, members)

		_, err := d.CreateTeam(ctx, "u1", "   ")
		assert.True(t, apperr.IsValidation(err))

		long := make([]byte, 101)
		for i := range long {
			long[i] = 'x'
		}
		_, err = d.CreateTeam(ctx, "u1", string(long))
		assert.True(t, apperr.IsValidation(err))

		teams.AssertNotCalled(t, "CreateWithAdmin", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("failed precondition means duplicate, nothing committed", func(t *testing.T) {
		teams := new(mockTeamStore)
		members := new(mockMembershipStore)
		d, notifier := newTestDomain(teams, members)

		teams.On("CreateWithAdmin", ctx, mock.Anything, mock.Anything).Return(outbound.ErrConditionFailed)

		_, err := d.CreateTeam(ctx, "u1", "Alpha")
		require.Error(t, err)
		assert.True(t, apperr.IsValidation(err))
		assert.Empty(t, notifier.sent)
	})

	t.Run("store failure is opaque internal error", func(t *testing.T) {
		teams := new(mockTeamStore)
		members := new(mockMembershipStore)
		d, _ := newTestDomain(teams, members)

		teams.On("CreateWithAdmin", ctx, mock.Anything, mock.Anything).Return(errors.New("throttled"))

		_, err := d.CreateTeam(ctx, "u1", "Alpha")
		require.Error(t, err)
		assert.True(t, apperr.IsInternal(err))
		assert.NotContains(t, err.Error(), "throttled")
	})
}

func TestAddMember(t *testing.T) {
	ctx := context.Background()
	adminRow := &model.Membership{TeamID: "t1", UserID: "u1", Role: model.RoleAdmin}

	t.Run("admin adds a member and the invitee is notified", func(t *testing.T) {
		teams := new(mockTeamStore)
		members := new(mockMembershipStore)
		d, notifier := newTestDomain(teams, members)

		members.On("Find", ctx, "t1", "u1").Return(adminRow, nil)
		teams.On("FindByID", ctx, "t1").Return(&model.Team{TeamID: "t1", Name: "Alpha"}, nil)
		members.On("Find", ctx, "t1", "u2@example.com").Return(nil, outbound.ErrItemNotFound)
		members.On("Add", ctx, mock.Anything).Return(nil)

		m, err := d.AddMember(ctx, "u1", "t1", "u2@example.com")
		require.NoError(t, err)
		assert.Equal(t, model.RoleMember, m.Role)
		assert.Equal(t, "u1", m.AddedBy)
		assert.Equal(t, "u2@example.com", m.UserID)

		require.Len(t, notifier.sent, 1)
		assert.Equal(t, "u2@example.com", notifier.sent[0].recipient)
		assert.Contains(t, notifier.sent[0].body, "Alpha")
	})

	t.Run("non-admin is rejected", func(t *testing.T) {
		teams := new(mockTeamStore)
		members := new(mockMembershipStore)
		d, _ := newTestDomain(teams, members)

		members.On("Find", ctx, "t1", "u2").Return(&model.Membership{Role: model.RoleMember}, nil)

		_, err := d.AddMember(ctx, "u2", "t1", "u3@example.com")
		assert.True(t, apperr.IsAuthorization(err))
		members.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	})

	t.Run("self-add is a validation error", func(t *testing.T) {
		teams := new(mockTeamStore)
		members := new(mockMembershipStore)
		d, _ := newTestDomain(teams, members)

		members.On("Find", ctx, "t1", "u1@example.com").
			Return(&model.Membership{Role: model.RoleAdmin}, nil)

		_, err := d.AddMember(ctx, "u1@example.com", "t1", "u1@example.com")
		require.Error(t, err)
		assert.True(t, apperr.IsValidation(err))
	})

	t.Run("missing team is not found", func(t *testing.T) {
		teams := new(mockTeamStore)
		members := new(mockMembershipStore)
		d, _ := newTestDomain(teams, members)

		members.On("Find", ctx, "t-gone", "u1").Return(adminRow, nil)
		teams.On("FindByID", ctx, "t-gone").Return(nil, outbound.ErrItemNotFound)

		_, err := d.AddMember(ctx, "u1", "t-gone", "u2@example.com")
		assert.True(t, apperr.IsNotFound(err))
	})

	t.Run("existing member is a validation error, not authorization", func(t *testing.T) {
		teams := new(mockTeamStore)
		members := new(mockMembershipStore)
		d, _ := newTestDomain(teams, members)

		members.On("Find", ctx, "t1", "u1").Return(adminRow, nil)
		teams.On("FindByID", ctx, "t1").Return(&model.Team{TeamID: "t1", Name: "Alpha"}, nil)
		members.On("Find", ctx, "t1", "u2@example.com").Return(&model.Membership{}, nil)

		_, err := d.AddMember(ctx, "u1", "t1", "u2@example.com")
		require.Error(t, err)
		assert.True(t, apperr.IsValidation(err))
		assert.Contains(t, err.Error(), "already a member")
	})

	t.Run("malformed email is rejected before any store access", func(t *testing.T) {
		teams := new(mockTeamStore)
		members := new(mockMembershipStore)
		d, _ := newTestDomain(teams, members)

		_, err := d.AddMember(ctx, "u1", "t1", "not-an-email")
		assert.True(t, apperr.IsValidation(err))
		members.AssertNotCalled(t, "Find", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestListTeams(t *testing.T) {
	ctx := context.Background()

	t.Run("returns team with role, skipping failed lookups", func(t *testing.T) {
		teams := new(mockTeamStore)
		members := new(mockMembershipStore)
		d, _ := newTestDomain(teams, members)

		members.On("FindByUser", ctx, "u1").Return([]*model.Membership{
			{TeamID: "t1", UserID: "u1", Role: model.RoleAdmin},
			{TeamID: "t2", UserID: "u1", Role: model.RoleMember},
		}, nil)
		teams.On("FindByID", ctx, "t1").Return(&model.Team{TeamID: "t1", Name: "Alpha"}, nil)
		teams.On("FindByID", ctx, "t2").Return(nil, errors.New("throttled"))

		result, err := d.ListTeams(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, result, 1)
		assert.Equal(t, "t1", result[0].TeamID)
		assert.Equal(t, model.RoleAdmin, result[0].UserRole)
	})

	t.Run("no memberships yields empty list", func(t *testing.T) {
		teams := new(mockTeamStore)
		members := new(mockMembershipStore)
		d, _ := newTestDomain(teams, members)

		members.On("FindByUser", ctx, "u9").Return([]*model.Membership{}, nil)

		result, err := d.ListTeams(ctx, "u9")
		require.NoError(t, err)
		assert.Empty(t, result)
	})
}

func TestListMembers(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("admins first, oldest join first within role", func(t *testing.T) {
		teams := new(mockTeamStore)
		members := new(mockMembershipStore)
		d, _ := newTestDomain(teams, members)

		members.On("Find", ctx, "t1", "u1").Return(&model.Membership{Role: model.RoleMember, UserID: "u1"}, nil)
		members.On("FindByTeam", ctx, "t1").Return([]*model.Membership{
			{UserID: "m-new", Role: model.RoleMember, JoinedAt: base.Add(3 * time.Hour)},
			{UserID: "a-new", Role: model.RoleAdmin, JoinedAt: base.Add(2 * time.Hour)},
			{UserID: "m-old", Role: model.RoleMember, JoinedAt: base.Add(1 * time.Hour)},
			{UserID: "a-old", Role: model.RoleAdmin, JoinedAt: base},
		}, nil)

		result, err := d.ListMembers(ctx, "u1", "t1")
		require.NoError(t, err)

		order := make([]string, len(result))
		for i, m := range result {
			order[i] = m.UserID
		}
		assert.Equal(t, []string{"a-old", "a-new", "m-old", "m-new"}, order)
	})

	t.Run("non-member is rejected", func(t *testing.T) {
		teams := new(mockTeamStore)
		members := new(mockMembershipStore)
		d, _ := newTestDomain(teams, members)

		members.On("Find", ctx, "t1", "ghost").Return(nil, outbound.ErrItemNotFound)

		_, err := d.ListMembers(ctx, "ghost", "t1")
		assert.True(t, apperr.IsAuthorization(err))
	})
}
