// Package dynamo implements the store ports on DynamoDB. Application
// invariants are enforced with condition expressions and, for the one
// multi-item write, TransactWriteItems; the tables themselves are schemaless.
package dynamo

import (
	"errors"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/mangucletus/aws-serverless-task-management-system-sub000/internal/port/outbound"
)

// Attribute and condition fragments shared by the stores.
const (
	attrTeamID = "teamId"
	attrUserID = "userId"
	attrTaskID = "taskId"

	condTeamNotExists = "attribute_not_exists(teamId)"
	condTaskNotExists = "attribute_not_exists(taskId)"
	condUserNotExists = "attribute_not_exists(userId)"
	condTaskExists    = "attribute_exists(taskId)"
)

// translate maps DynamoDB failures onto the store sentinels. Unrecognized
// errors pass through for the domain layer to wrap.
func translate(err error) error {
	if err == nil {
		return nil
	}

	var condFailed *types.ConditionalCheckFailedException
	if errors.As(err, &condFailed) {
		return outbound.ErrConditionFailed
	}

	var txCanceled *types.TransactionCanceledException
	if errors.As(err, &txCanceled) {
		for _, reason := range txCanceled.CancellationReasons {
			if reason.Code != nil && *reason.Code == "ConditionalCheckFailed" {
				return outbound.ErrConditionFailed
			}
		}
	}

	return err
}
