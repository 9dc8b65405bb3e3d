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

// TaskStore implements outbound.TaskStorePort on DynamoDB. The table is keyed
// (teamId, taskId).
type TaskStore struct {
	client *dynamodb.Client
	table  string
}

// NewTaskStore creates a new task store.
func NewTaskStore(client *dynamodb.Client, cfg *config.Config) *TaskStore {
	return &TaskStore{client: client, table: cfg.Tables.Tasks}
}

var _ outbound.TaskStorePort = (*TaskStore)(nil)

// Create writes a new task; an existing key fails the put's condition.
func (s *TaskStore) Create(ctx context.Context, task *model.Task) error {
	item, err := attributevalue.MarshalMap(task)
	if err != nil {
		return fmt.Errorf("marshal task: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.table),
		Item:                item,
		ConditionExpression: aws.String(condTaskNotExists),
	})
	return translate(err)
}

// Find retrieves a task by (team, task) key.
func (s *TaskStore) Find(ctx context.Context, teamID, taskID string) (*model.Task, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.table),
		Key:       taskKey(teamID, taskID),
	})
	if err != nil {
		return nil, translate(err)
	}
	if out.Item == nil {
		return nil, outbound.ErrItemNotFound
	}

	var task model.Task
	if err := attributevalue.UnmarshalMap(out.Item, &task); err != nil {
		return nil, fmt.Errorf("unmarshal task: %w", err)
	}
	return &task, nil
}

// FindByTeam lists all tasks in a team's partition.
func (s *TaskStore) FindByTeam(ctx context.Context, teamID string) ([]*model.Task, error) {
	keyCond := expression.Key(attrTeamID).Equal(expression.Value(teamID))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("build query expression: %w", err)
	}

	var tasks []*model.Task
	paginator := dynamodb.NewQueryPaginator(s.client, &dynamodb.QueryInput{
		TableName:                 aws.String(s.table),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, translate(err)
		}
		var batch []*model.Task
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &batch); err != nil {
			return nil, fmt.Errorf("unmarshal tasks: %w", err)
		}
		tasks = append(tasks, batch...)
	}
	return tasks, nil
}

// Update applies the supplied fields with an attribute_exists precondition
// and returns the task as written.
func (s *TaskStore) Update(ctx context.Context, teamID, taskID string, fields outbound.TaskUpdate) (*model.Task, error) {
	update := expression.
		Set(expression.Name("updatedAt"), expression.Value(fields.UpdatedAt)).
		Set(expression.Name("updatedBy"), expression.Value(fields.UpdatedBy))

	if fields.Title != nil {
		update = update.Set(expression.Name("title"), expression.Value(*fields.Title))
	}
	if fields.Description != nil {
		update = update.Set(expression.Name("description"), expression.Value(*fields.Description))
	}
	if fields.AssignedTo != nil {
		if *fields.AssignedTo == "" {
			update = update.Remove(expression.Name("assignedTo"))
		} else {
			update = update.Set(expression.Name("assignedTo"), expression.Value(*fields.AssignedTo))
		}
	}
	if fields.Deadline != nil {
		if *fields.Deadline == "" {
			update = update.Remove(expression.Name("deadline"))
		} else {
			update = update.Set(expression.Name("deadline"), expression.Value(*fields.Deadline))
		}
	}
	if fields.Priority != nil {
		update = update.Set(expression.Name("priority"), expression.Value(string(*fields.Priority)))
	}
	if fields.Status != nil {
		update = update.Set(expression.Name("status"), expression.Value(string(*fields.Status)))
	}

	cond := expression.AttributeExists(expression.Name(attrTaskID))
	expr, err := expression.NewBuilder().WithUpdate(update).WithCondition(cond).Build()
	if err != nil {
		return nil, fmt.Errorf("build update expression: %w", err)
	}

	out, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.table),
		Key:                       taskKey(teamID, taskID),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		return nil, translate(err)
	}

	var task model.Task
	if err := attributevalue.UnmarshalMap(out.Attributes, &task); err != nil {
		return nil, fmt.Errorf("unmarshal task: %w", err)
	}
	return &task, nil
}

// Delete removes a task by key. Deleting an absent key is not an error.
func (s *TaskStore) Delete(ctx context.Context, teamID, taskID string) error {
	_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(s.table),
		Key:       taskKey(teamID, taskID),
	})
	return translate(err)
}

func taskKey(teamID, taskID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		attrTeamID: &types.AttributeValueMemberS{Value: teamID},
		attrTaskID: &types.AttributeValueMemberS{Value: taskID},
	}
}
