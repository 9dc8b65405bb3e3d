package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/mangucletus/aws-serverless-task-management-system-sub000/internal/model"
	"github.com/mangucletus/aws-serverless-task-management-system-sub000/internal/port/outbound"
	"github.com/mangucletus/aws-serverless-task-management-system-sub000/internal/shared/config"
)

// MembershipStore implements outbound.MembershipStorePort on DynamoDB. The
// table is keyed (teamId, userId) with a GSI on userId for the cross-team
// listing.
type MembershipStore struct {
	client    *dynamodb.Client
	table     string
	userIndex string
}

// NewMembershipStore creates a new membership store.
func NewMembershipStore(client *dynamodb.Client, cfg *config.Config) *MembershipStore {
	return &MembershipStore{
		client:    client,
		table:     cfg.Tables.Memberships,
		userIndex: cfg.Tables.UserIndex,
	}
}

var _ outbound.MembershipStorePort = (*MembershipStore)(nil)

// Add writes a new membership row; an existing (team, user) pair fails the
// put's condition.
func (s *MembershipStore) Add(ctx context.Context, m *model.Membership) error {
	item, err := attributevalue.MarshalMap(m)
	if err != nil {
		return fmt.Errorf("marshal membership: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.table),
		Item:                item,
		ConditionExpression: aws.String(condUserNotExists),
	})
	return translate(err)
}

// Find retrieves the membership for (team, user).
func (s *MembershipStore) Find(ctx context.Context, teamID, userID string) (*model.Membership, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key: map[string]types.AttributeValue{
			attrTeamID: &types.AttributeValueMemberS{Value: teamID},
			attrUserID: &types.AttributeValueMemberS{Value: userID},
		},
	})
	if err != nil {
		return nil, translate(err)
	}
	if out.Item == nil {
		return nil, outbound.ErrItemNotFound
	}

	var m model.Membership
	if err := attributevalue.UnmarshalMap(out.Item, &m); err != nil {
		return nil, fmt.Errorf("unmarshal membership: %w", err)
	}
	return &m, nil
}

// FindByTeam lists all memberships of a team.
func (s *MembershipStore) FindByTeam(ctx context.Context, teamID string) ([]*model.Membership, error) {
	keyCond := expression.Key(attrTeamID).Equal(expression.Value(teamID))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("build query expression: %w", err)
	}
	return s.query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(s.table),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
}

// FindByUser lists all memberships of a user via the userId index.
func (s *MembershipStore) FindByUser(ctx context.Context, userID string) ([]*model.Membership, error) {
	keyCond := expression.Key(attrUserID).Equal(expression.Value(userID))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("build query expression: %w", err)
	}
	return s.query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(s.table),
		IndexName:                 aws.String(s.userIndex),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
}

func (s *MembershipStore) query(ctx context.Context, input *dynamodb.QueryInput) ([]*model.Membership, error) {
	var memberships []*model.Membership
	paginator := dynamodb.NewQueryPaginator(s.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, translate(err)
		}
		var batch []*model.Membership
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("unmarshal memberships: %w", err)
		}
		memberships = append(memberships, batch...)
	}
	return memberships, nil
}
