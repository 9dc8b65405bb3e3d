package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/mangucletus/aws-serverless-task-management-system-sub000/internal/model"
	"github.com/mangucletus/aws-serverless-task-management-system-sub000/internal/port/outbound"
	"github.com/mangucletus/aws-serverless-task-management-system-sub000/internal/shared/config"
)

// TeamStore implements outbound.TeamStorePort on DynamoDB.
type TeamStore struct {
	client           *dynamodb.Client
	teamsTable       string
	membershipsTable string
}

// NewTeamStore creates a new team store.
func NewTeamStore(client *dynamodb.Client, cfg *config.Config) *TeamStore {
	return &TeamStore{
		client:           client,
		teamsTable:       cfg.Tables.Teams,
		membershipsTable: cfg.Tables.Memberships,
	}
}

var _ outbound.TeamStorePort = (*TeamStore)(nil)

// CreateWithAdmin writes the team and the creator's admin membership in one
// transaction. Both items carry a must-not-exist precondition; DynamoDB
// guarantees neither is committed when either condition fails.
func (s *TeamStore) CreateWithAdmin(ctx context.Context, team *model.Team, admin *model.Membership) error {
	teamItem, err := attributevalue.MarshalMap(team)
	if err != nil {
		return fmt.Errorf("marshal team: %w", err)
	}
	memberItem, err := attributevalue.MarshalMap(admin)
	if err != nil {
		return fmt.Errorf("marshal membership: %w", err)
	}

	_, err = s.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{
				Put: &types.Put{
					TableName:           aws.String(s.teamsTable),
					Item:                teamItem,
					ConditionExpression: aws.String(condTeamNotExists),
				},
			},
			{
				Put: &types.Put{
					TableName:           aws.String(s.membershipsTable),
					Item:                memberItem,
					ConditionExpression: aws.String(condUserNotExists),
				},
			},
		},
	})
	return translate(err)
}

// FindByID retrieves a team by ID.
func (s *TeamStore) FindByID(ctx context.Context, teamID string) (*model.Team, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.teamsTable),
		Key: map[string]types.AttributeValue{
			attrTeamID: &types.AttributeValueMemberS{Value: teamID},
		},
	})
	if err != nil {
		return nil, translate(err)
	}
	if out.Item == nil {
		return nil, outbound.ErrItemNotFound
	}

	var team model.Team
	if err := attributevalue.UnmarshalMap(out.Item, &team); err != nil {
		return nil, fmt.Errorf("unmarshal team: %w", err)
	}
	return &team, nil
}
