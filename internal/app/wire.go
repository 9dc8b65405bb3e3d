//go:build wireinject
// +build wireinject

package app

import (
	"context"

	"github.com/google/wire"

	"github.com/mangucletus/aws-serverless-task-management-system-sub000/internal/shared/config"
)

// InitializeApplication builds the full application graph.
func InitializeApplication(ctx context.Context, cfg *config.Config) (*Application, error) {
	wire.Build(
		InfraSet,
		StoreSet,
		NotifySet,
		DomainSet,
		NewApplication,
	)
	return nil, nil
}
