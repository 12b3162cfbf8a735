package main

import (
	"context"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/imrishuroy/go-storefront/internal/app"
	"github.com/imrishuroy/go-storefront/internal/aws"
	"github.com/imrishuroy/go-storefront/internal/config"
	"github.com/imrishuroy/go-storefront/internal/telemetry"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	shutdown, err := telemetry.Setup(ctx, "storefront-worker", cfg.OTelEndpoint)
	if err != nil {
		log.Fatalf("failed to init telemetry: %v", err)
	}
	defer func() { _ = shutdown(context.Background()) }()

	clients, err := aws.NewAWSClients(ctx, cfg.AWSRegion, cfg.AWSEndpointOverride)
	if err != nil {
		log.Fatalf("failed to init aws clients: %v", err)
	}
	a, err := app.New(cfg, clients)
	if err != nil {
		log.Fatalf("failed to wire app: %v", err)
	}
	p := NewProcessor(a.Orphans)

	// If RUN_LOCAL=true, simulate a single SQS event for local testing.
	if cfg.RunLocal {
		body := os.Getenv("LOCAL_SQS_BODY")
		if body == "" {
			body = `{"user_id":"local-user-1","product_ids":["local-product-1"]}`
		}
		event := events.SQSEvent{
			Records: []events.SQSMessage{{MessageId: "local-1", Body: body}},
		}
		if err := p.Handle(ctx, event); err != nil {
			log.Fatalf("local handler error: %v", err)
		}
		return
	}

	lambda.Start(p.Handle)
}
