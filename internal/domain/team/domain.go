// Package team implements the team and membership operations.
package team

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mangucletus/aws-serverless-task-management-system-sub000/internal/domain/authz"
	"github.com/mangucletus/aws-serverless-task-management-system-sub000/internal/model"
	"github.com/mangucletus/aws-serverless-task-management-system-sub000/internal/notify"
	"github.com/mangucletus/aws-serverless-task-management-system-sub000/internal/port/outbound"
	"github.com/mangucletus/aws-serverless-task-management-system-sub000/internal/shared/apperr"
	"github.com/mangucletus/aws-serverless-task-management-system-sub000/internal/validate"
)

// Team name bounds.
const (
	nameMinLen = 1
	nameMaxLen = 100
)

// Domain implements the team domain logic.
type Domain struct {
	teams      outbound.TeamStorePort
	members    outbound.MembershipStorePort
	authorizer *authz.Authorizer
	dispatcher *notify.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// NewDomain creates a new team domain.
func NewDomain(
	teams outbound.TeamStorePort,
	members outbound.MembershipStorePort,
	authorizer *authz.Authorizer,
	dispatcher *notify.Dispatcher,
	logger *zap.Logger,
) *Domain {
	return &Domain{
		teams:      teams,
		members:    members,
		authorizer: authorizer,
		dispatcher: dispatcher,
		logger:     logger,
		now:        time.Now,
	}
}

// CreateTeam creates a team together with the creator's admin membership in
// one all-or-nothing write. Any authenticated identity may create a team.
func (d *Domain) CreateTeam(ctx context.Context, callerID, name string) (*model.TeamWithRole, error) {
	if err := validate.NonEmpty(name, "name"); err != nil {
		return nil, err
	}
	if err := validate.Length(name, "name", nameMinLen, nameMaxLen); err != nil {
		return nil, err
	}

	now := d.now().UTC()
	team := &model.Team{
		TeamID:    uuid.NewString(),
		Name:      strings.TrimSpace(name),
		AdminID:   callerID,
		CreatedAt: now,
	}
	admin := &model.Membership{
		TeamID:   team.TeamID,
		UserID:   callerID,
		Role:     model.RoleAdmin,
		JoinedAt: now,
	}

	if err := d.teams.CreateWithAdmin(ctx, team, admin); err != nil {
		if errors.Is(err, outbound.ErrConditionFailed) {
			return nil, apperr.Validation("a team with this id already exists")
		}
		return nil, apperr.Internal("failed to create team", err)
	}

	d.logger.Info("team created",
		zap.String("team_id", team.TeamID),
		zap.String("admin_id", callerID),
		zap.String("name", team.Name),
	)

	d.dispatcher.Send(ctx,
		"Team created",
		fmt.Sprintf("Team %q was created and you are its admin.", team.Name),
		callerID,
		map[string]string{"teamId": team.TeamID},
	)

	return &model.TeamWithRole{Team: *team, UserRole: model.RoleAdmin}, nil
}

// AddMember adds a user, identified by email, to a team. Admin-only.
func (d *Domain) AddMember(ctx context.Context, callerID, teamID, email string) (*model.Membership, error) {
	if err := validate.NonEmpty(teamID, "teamId"); err != nil {
		return nil, err
	}
	if err := validate.NonEmpty(email, "email"); err != nil {
		return nil, err
	}
	email = strings.TrimSpace(email)
	if err := validate.Email(email); err != nil {
		return nil, err
	}

	if _, err := d.authorizer.RequireAdmin(ctx, teamID, callerID); err != nil {
		return nil, err
	}

	// Bad input, not a rights problem: both get ValidationError.
	if email == callerID {
		return nil, apperr.Validation("you cannot add yourself to the team")
	}

	team, err := d.teams.FindByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, outbound.ErrItemNotFound) {
			return nil, apperr.NotFound("team not found")
		}
		return nil, apperr.Internal("failed to load team", err)
	}

	exists, err := d.authorizer.IsMember(ctx, teamID, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Validation("user is already a member of this team")
	}

	membership := &model.Membership{
		TeamID:   teamID,
		UserID:   email,
		Role:     model.RoleMember,
		JoinedAt: d.now().UTC(),
		AddedBy:  callerID,
	}
	if err := d.members.Add(ctx, membership); err != nil {
		if errors.Is(err, outbound.ErrConditionFailed) {
			return nil, apperr.Validation("user is already a member of this team")
		}
		return nil, apperr.Internal("failed to add member", err)
	}

	d.logger.Info("member added",
		zap.String("team_id", teamID),
		zap.String("user_id", email),
		zap.String("added_by", callerID),
	)

	d.dispatcher.Send(ctx,
		"Added to team",
		fmt.Sprintf("You have been added to team %q.", team.Name),
		email,
		map[string]string{"teamId": teamID},
	)

	return membership, nil
}

// ListTeams lists every team the caller belongs to, with the caller's role.
// A team row that fails to load is logged and skipped; partial results beat
// total failure on this read path.
func (d *Domain) ListTeams(ctx context.Context, callerID string) ([]*model.TeamWithRole, error) {
	memberships, err := d.members.FindByUser(ctx, callerID)
	if err != nil {
		return nil, apperr.Internal("failed to list teams", err)
	}

	teams := make([]*model.TeamWithRole, 0, len(memberships))
	for _, m := range memberships {
		team, err := d.teams.FindByID(ctx, m.TeamID)
		if err != nil {
			d.logger.Warn("skipping team that failed to load",
				zap.String("team_id", m.TeamID),
				zap.String("user_id", callerID),
				zap.Error(err),
			)
			continue
		}
		teams = append(teams, &model.TeamWithRole{Team: *team, UserRole: m.Role})
	}
	return teams, nil
}

// ListMembers lists a team's memberships, admins first, then by join time
// ascending within each role. Any member may call it.
func (d *Domain) ListMembers(ctx context.Context, callerID, teamID string) ([]*model.Membership, error) {
	if err := validate.NonEmpty(teamID, "teamId"); err != nil {
		return nil, err
	}
	if _, err := d.authorizer.RequireMember(ctx, teamID, callerID); err != nil {
		return nil, err
	}

	members, err := d.members.FindByTeam(ctx, teamID)
	if err != nil {
		return nil, apperr.Internal("failed to list members", err)
	}

	sort.SliceStable(members, func(i, j int) bool {
		if members[i].Role != members[j].Role {
			return members[i].Role == model.RoleAdmin
		}
		return members[i].JoinedAt.Before(members[j].JoinedAt)
	})
	return members, nil
}
