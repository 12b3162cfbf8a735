package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/imrishuroy/go-storefront/internal/envelope"
	"github.com/imrishuroy/go-storefront/internal/identity"
	"github.com/imrishuroy/go-storefront/internal/validation"
)

// RegisterCartRoutes registers the caller's cart endpoints. The user id
// always comes from the credential, never from the request.
func RegisterCartRoutes(r *gin.Engine, cfg HandlerConfig) {
	v := validation.New()
	g := r.Group("/api/cart", identity.RequireSubject(cfg.Resolver))

	g.GET("", func(c *gin.Context) {
		sub, _ := identity.SubjectFrom(c)
		view, err := cfg.Cart.Fetch(c.Request.Context(), sub)
		if err != nil {
			envelope.Fail(c, err)
			return
		}
		envelope.OK(c, http.StatusOK, "Cart fetched successfully", view)
	})

	g.POST("", func(c *gin.Context) {
		var req validation.CartItemRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		sub, _ := identity.SubjectFrom(c)
		item, err := cfg.Cart.Add(c.Request.Context(), sub, req.ProductID, req.Quantity)
		if err != nil {
			envelope.Fail(c, err)
			return
		}
		envelope.OK(c, http.StatusOK, "Product added to cart successfully", item)
	})

	g.PUT("", func(c *gin.Context) {
		var req validation.CartItemRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		sub, _ := identity.SubjectFrom(c)
		view, err := cfg.Cart.UpdateQuantity(c.Request.Context(), sub, req.ProductID, req.Quantity)
		if err != nil {
			envelope.Fail(c, err)
			return
		}
		envelope.OK(c, http.StatusOK, "Cart updated successfully", view)
	})

	g.DELETE("/:productId", func(c *gin.Context) {
		sub, _ := identity.SubjectFrom(c)
		view, err := cfg.Cart.RemoveItem(c.Request.Context(), sub, c.Param("productId"))
		if err != nil {
			envelope.Fail(c, err)
			return
		}
		msg := "Product removed from cart"
		if len(view.Items) == 0 {
			msg = "Product removed. Cart is now empty"
		}
		envelope.OK(c, http.StatusOK, msg, view)
	})

	g.DELETE("", func(c *gin.Context) {
		sub, _ := identity.SubjectFrom(c)
		if err := cfg.Cart.Clear(c.Request.Context(), sub); err != nil {
			envelope.Fail(c, err)
			return
		}
		envelope.OK(c, http.StatusOK, "Cart cleared", nil)
	})
}
