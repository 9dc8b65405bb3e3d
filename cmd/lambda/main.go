// The lambda command runs the core as an AppSync resolver. The managed
// gateway verifies tokens and forwards the field name, arguments, and the
// caller's claims; the core derives everything else itself.
package main

import (
	"context"
	"encoding/json"
	"log"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/mangucletus/aws-serverless-task-management-system-sub000/internal/app"
	"github.com/mangucletus/aws-serverless-task-management-system-sub000/internal/handler"
	"github.com/mangucletus/aws-serverless-task-management-system-sub000/internal/identity"
	"github.com/mangucletus/aws-serverless-task-management-system-sub000/internal/shared/config"
)

// resolverEvent is the shape AppSync sends a Lambda data source.
type resolverEvent struct {
	Field     string          `json:"field"`
	Arguments json.RawMessage `json:"arguments"`
	Identity  struct {
		Claims identity.Claims `json:"claims"`
	} `json:"identity"`
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application, err := app.InitializeApplication(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	h := application.Handler()

	lambda.Start(func(ctx context.Context, event resolverEvent) (any, error) {
		return h.Handle(ctx, handler.Request{
			Operation: event.Field,
			Arguments: event.Arguments,
			Identity:  event.Identity.Claims,
		})
	})
}
