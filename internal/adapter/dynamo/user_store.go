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

// UserStore implements outbound.UserStorePort on DynamoDB.
type UserStore struct {
	client *dynamodb.Client
	table  string
}

// NewUserStore creates a new user store.
func NewUserStore(client *dynamodb.Client, cfg *config.Config) *UserStore {
	return &UserStore{client: client, table: cfg.Tables.Users}
}

var _ outbound.UserStorePort = (*UserStore)(nil)

// Find retrieves a user projection by id.
func (s *UserStore) Find(ctx context.Context, userID string) (*model.User, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key: map[string]types.AttributeValue{
			attrUserID: &types.AttributeValueMemberS{Value: userID},
		},
	})
	if err != nil {
		return nil, translate(err)
	}
	if out.Item == nil {
		return nil, outbound.ErrItemNotFound
	}

	var u model.User
	if err := attributevalue.UnmarshalMap(out.Item, &u); err != nil {
		return nil, fmt.Errorf("unmarshal user: %w", err)
	}
	return &u, nil
}
