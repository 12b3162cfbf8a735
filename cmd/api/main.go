package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/imrishuroy/go-storefront/internal/app"
	"github.com/imrishuroy/go-storefront/internal/aws"
	"github.com/imrishuroy/go-storefront/internal/config"
	"github.com/imrishuroy/go-storefront/internal/envelope"
	"github.com/imrishuroy/go-storefront/internal/handlers"
	"github.com/imrishuroy/go-storefront/internal/telemetry"
)

func setupRouter(cfg config.Config, hc handlers.HandlerConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.RunLocal {
		r.Use(gin.Logger())
	}

	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.AllowedOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
			AllowHeaders:     []string{"Content-Type", "Authorization", "X-Access-Token", "Cache-Control", "Expires", "Pragma"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	// health
	r.GET("/health", func(c *gin.Context) {
		envelope.OK(c, http.StatusOK, "ok", nil)
	})

	handlers.RegisterRoutes(r, hc)

	return r
}

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := cfg.ValidateAuth(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	shutdown, err := telemetry.Setup(ctx, cfg.ServiceName, cfg.OTelEndpoint)
	if err != nil {
		log.Fatalf("failed to init telemetry: %v", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			log.Printf("telemetry shutdown: %v", err)
		}
	}()

	clients, err := aws.NewAWSClients(ctx, cfg.AWSRegion, cfg.AWSEndpointOverride)
	if err != nil {
		log.Fatalf("failed to init aws clients: %v", err)
	}

	a, err := app.New(cfg, clients)
	if err != nil {
		log.Fatalf("failed to wire app: %v", err)
	}

	r := setupRouter(cfg, a.HandlerConfig())

	// RUN_LOCAL=true serves plain HTTP for development.
	if cfg.RunLocal {
		addr := ":" + cfg.Port
		log.Printf("running local server on %s", addr)
		if err := r.Run(addr); err != nil {
			log.Fatalf("failed to run local server: %v", err)
		}
		return
	}

	adapter := ginadapter.New(r)

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (interface{}, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}
