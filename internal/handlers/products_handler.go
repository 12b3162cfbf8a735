package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/imrishuroy/go-storefront/internal/apperr"
	"github.com/imrishuroy/go-storefront/internal/catalog"
	"github.com/imrishuroy/go-storefront/internal/envelope"
	"github.com/imrishuroy/go-storefront/internal/identity"
	"github.com/imrishuroy/go-storefront/internal/money"
	"github.com/imrishuroy/go-storefront/internal/validation"
)

// RegisterProductRoutes registers the public catalog reads and the
// seller/admin product mutations.
func RegisterProductRoutes(r *gin.Engine, cfg HandlerConfig) {
	v := validation.New()
	auth := identity.RequireSubject(cfg.Resolver)

	r.GET("/api/products", func(c *gin.Context) {
		filter, sort, err := parseListQuery(c)
		if err != nil {
			envelope.Fail(c, err)
			return
		}
		products, err := cfg.Catalog.List(c.Request.Context(), filter, sort)
		if err != nil {
			envelope.Fail(c, err)
			return
		}
		envelope.OK(c, http.StatusOK, "Products fetched successfully", products)
	})

	r.GET("/api/products/:id", func(c *gin.Context) {
		p, err := cfg.Catalog.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			envelope.Fail(c, err)
			return
		}
		envelope.OK(c, http.StatusOK, "Product fetched successfully", p)
	})

	r.GET("/api/seller/products", auth, identity.RequireRole(identity.RoleSeller, identity.RoleAdmin), func(c *gin.Context) {
		sub, _ := identity.SubjectFrom(c)
		products, err := cfg.Catalog.ListByOwner(c.Request.Context(), sub)
		if err != nil {
			envelope.Fail(c, err)
			return
		}
		envelope.OK(c, http.StatusOK, "Products fetched successfully", products)
	})

	r.POST("/api/products", auth, func(c *gin.Context) {
		var req validation.CreateProductRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			// BindAndValidate already wrote a 400
			return
		}
		sub, _ := identity.SubjectFrom(c)
		p, err := cfg.Catalog.Create(c.Request.Context(), sub, catalog.CreateInput{
			Title:       req.Title,
			Description: req.Description,
			Price:       req.Price,
			SalePrice:   req.SalePrice,
			Category:    req.Category,
			Brand:       req.Brand,
			TotalStock:  req.TotalStock,
			Image:       req.Image,
		})
		if err != nil {
			envelope.Fail(c, err)
			return
		}
		c.Header("Location", "/api/products/"+p.ID)
		envelope.OK(c, http.StatusCreated, "Product added successfully", p)
	})

	r.PUT("/api/products/:id", auth, func(c *gin.Context) {
		var req validation.UpdateProductRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		sub, _ := identity.SubjectFrom(c)
		p, err := cfg.Catalog.Update(c.Request.Context(), sub, c.Param("id"), catalog.UpdateInput{
			Title:          req.Title,
			Description:    req.Description,
			Price:          req.Price,
			SalePrice:      req.SalePrice.Value,
			ClearSalePrice: req.SalePrice.Null(),
			Category:       req.Category,
			Brand:          req.Brand,
			TotalStock:     req.TotalStock,
			Image:          req.Image,
		})
		if err != nil {
			envelope.Fail(c, err)
			return
		}
		envelope.OK(c, http.StatusOK, "Product updated successfully", p)
	})

	r.DELETE("/api/products/:id", auth, func(c *gin.Context) {
		sub, _ := identity.SubjectFrom(c)
		if err := cfg.Catalog.Delete(c.Request.Context(), sub, c.Param("id")); err != nil {
			envelope.Fail(c, err)
			return
		}
		envelope.OK(c, http.StatusOK, "Product deleted successfully", nil)
	})
}

// parseListQuery reads category, brand, q, minPrice, maxPrice and sort.
// category and brand accept comma-separated lists.
func parseListQuery(c *gin.Context) (catalog.Filter, catalog.Sort, error) {
	f := catalog.Filter{
		Categories: splitList(c.Query("category")),
		Brands:     splitList(c.Query("brand")),
		Query:      c.Query("q"),
	}
	for name, dst := range map[string]**money.Amount{"minPrice": &f.MinPrice, "maxPrice": &f.MaxPrice} {
		raw := strings.TrimSpace(c.Query(name))
		if raw == "" {
			continue
		}
		a, err := money.Parse(raw)
		if err != nil || a.IsNegative() {
			return catalog.Filter{}, "", apperr.InvalidInput("Invalid " + name)
		}
		*dst = &a
	}
	sort, ok := catalog.ParseSort(c.Query("sort"))
	if !ok {
		return catalog.Filter{}, "", apperr.InvalidInput("Invalid sort option")
	}
	return f, sort, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
