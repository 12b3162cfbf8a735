package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/imrishuroy/go-storefront/internal/accounts"
	"github.com/imrishuroy/go-storefront/internal/cart"
	"github.com/imrishuroy/go-storefront/internal/catalog"
	"github.com/imrishuroy/go-storefront/internal/identity"
)

// HandlerConfig groups dependencies for the API handlers.
type HandlerConfig struct {
	Catalog      *catalog.Service
	Cart         *cart.Service
	Accounts     *accounts.Service
	Resolver     *identity.Resolver
	CookieSecure bool
}

// RegisterRoutes registers every /api route.
func RegisterRoutes(r *gin.Engine, cfg HandlerConfig) {
	RegisterAuthRoutes(r, cfg)
	RegisterProductRoutes(r, cfg)
	RegisterCartRoutes(r, cfg)
}
