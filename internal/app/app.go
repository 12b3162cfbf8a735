// Package app builds the stores and services shared by the api, worker
// and shopctl binaries from a Config and a set of AWS clients.
package app

import (
	"fmt"

	"github.com/imrishuroy/go-storefront/internal/accounts"
	"github.com/imrishuroy/go-storefront/internal/aws"
	"github.com/imrishuroy/go-storefront/internal/cart"
	"github.com/imrishuroy/go-storefront/internal/catalog"
	"github.com/imrishuroy/go-storefront/internal/config"
	"github.com/imrishuroy/go-storefront/internal/handlers"
	"github.com/imrishuroy/go-storefront/internal/identity"
	"github.com/imrishuroy/go-storefront/internal/telemetry"
)

type App struct {
	Config  config.Config
	Clients *aws.AWSClients
	Metrics telemetry.Counter

	Products *catalog.Store
	Carts    *cart.Store
	Accounts *accounts.Store

	Catalog        *catalog.Service
	Cart           *cart.Service
	AccountService *accounts.Service
	Orphans        *cart.OrphanRemover

	Issuer   *identity.Issuer
	Resolver *identity.Resolver
}

// New wires every component. Queue reconciliation publishes to
// cfg.ReconcileQueueURL; inline reconciliation deletes orphans during the
// read that found them.
func New(cfg config.Config, clients *aws.AWSClients) (*App, error) {
	if clients == nil {
		return nil, fmt.Errorf("app: aws clients are required")
	}

	a := &App{
		Config:   cfg,
		Clients:  clients,
		Metrics:  aws.NewMetricsEmitter(clients.CloudWatch, cfg.MetricsNamespace),
		Products: catalog.NewStore(clients.DynamoDB, cfg.ProductsTable),
		Carts:    cart.NewStore(clients.DynamoDB, cfg.CartsTable),
		Accounts: accounts.NewStore(clients.DynamoDB, cfg.AccountsTable),
		Issuer:   identity.NewIssuer(cfg.JWTSecret, cfg.TokenTTL),
		Resolver: identity.NewResolver(cfg.JWTSecret),
	}

	var reconciler cart.Reconciler
	switch cfg.ReconcileMode {
	case config.ReconcileQueue:
		reconciler = cart.NewQueueReconciler(aws.NewPublisher(clients.SQS, cfg.ReconcileQueueURL))
	case config.ReconcileInline, "":
		reconciler = cart.NewInlineReconciler(a.Carts, a.Metrics)
	default:
		return nil, fmt.Errorf("app: unknown reconcile mode %q", cfg.ReconcileMode)
	}

	a.Catalog = catalog.NewService(a.Products, a.Metrics)
	a.Cart = cart.NewService(a.Carts, a.Products, reconciler, a.Metrics)
	a.AccountService = accounts.NewService(a.Accounts, a.Issuer)
	a.Orphans = cart.NewOrphanRemover(a.Carts, a.Products, a.Metrics)
	return a, nil
}

// HandlerConfig returns the dependencies for handlers.RegisterRoutes.
func (a *App) HandlerConfig() handlers.HandlerConfig {
	return handlers.HandlerConfig{
		Catalog:      a.Catalog,
		Cart:         a.Cart,
		Accounts:     a.AccountService,
		Resolver:     a.Resolver,
		CookieSecure: a.Config.CookieSecure,
	}
}
