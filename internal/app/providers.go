package app

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/google/wire"
	"go.uber.org/zap"

	"github.com/mangucletus/aws-serverless-task-management-system-sub000/internal/adapter/awsclient"
	"github.com/mangucletus/aws-serverless-task-management-system-sub000/internal/adapter/dynamo"
	"github.com/mangucletus/aws-serverless-task-management-system-sub000/internal/adapter/snsnotify"
	"github.com/mangucletus/aws-serverless-task-management-system-sub000/internal/domain/authz"
	"github.com/mangucletus/aws-serverless-task-management-system-sub000/internal/domain/task"
	"github.com/mangucletus/aws-serverless-task-management-system-sub000/internal/domain/team"
	"github.com/mangucletus/aws-serverless-task-management-system-sub000/internal/domain/user"
	"github.com/mangucletus/aws-serverless-task-management-system-sub000/internal/handler"
	"github.com/mangucletus/aws-serverless-task-management-system-sub000/internal/notify"
	"github.com/mangucletus/aws-serverless-task-management-system-sub000/internal/port/outbound"
	"github.com/mangucletus/aws-serverless-task-management-system-sub000/internal/shared/config"
	"github.com/mangucletus/aws-serverless-task-management-system-sub000/internal/shared/logger"
	"github.com/mangucletus/aws-serverless-task-management-system-sub000/internal/utils/metrics"
)

// InfraSet provides infrastructure dependencies.
var InfraSet = wire.NewSet(
	ProvideLogger,
	ProvideMetrics,
	ProvideAWSConfig,
	awsclient.NewDynamoDB,
	awsclient.NewSNS,
)

// StoreSet provides the store adapters bound to their ports.
var StoreSet = wire.NewSet(
	dynamo.NewTeamStore,
	wire.Bind(new(outbound.TeamStorePort), new(*dynamo.TeamStore)),
	dynamo.NewMembershipStore,
	wire.Bind(new(outbound.MembershipStorePort), new(*dynamo.MembershipStore)),
	dynamo.NewTaskStore,
	wire.Bind(new(outbound.TaskStorePort), new(*dynamo.TaskStore)),
	dynamo.NewUserStore,
	wire.Bind(new(outbound.UserStorePort), new(*dynamo.UserStore)),
)

// NotifySet provides the notification stack.
var NotifySet = wire.NewSet(
	snsnotify.NewNotifier,
	wire.Bind(new(outbound.NotifierPort), new(*snsnotify.Notifier)),
	notify.NewDispatcher,
)

// DomainSet provides the domain layer.
var DomainSet = wire.NewSet(
	authz.NewAuthorizer,
	team.NewDomain,
	task.NewDomain,
	user.NewDomain,
	handler.New,
)

// ProvideLogger creates the zap logger.
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	return logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
}

// ProvideMetrics creates the metrics registry.
func ProvideMetrics() *metrics.Metrics {
	return metrics.New("taskmgmt")
}

// ProvideAWSConfig loads the AWS configuration.
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsclient.NewAWSConfig(ctx, cfg)
}
