package catalog

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/imrishuroy/go-storefront/internal/apperr"
	"github.com/imrishuroy/go-storefront/internal/identity"
	"github.com/imrishuroy/go-storefront/internal/money"
	"github.com/imrishuroy/go-storefront/internal/telemetry"
)

// ProductStore is the persistence the catalog service needs.
type ProductStore interface {
	Create(ctx context.Context, p Product) (Product, error)
	Save(ctx context.Context, p Product) (Product, error)
	DeleteByID(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*Product, error)
	FindMany(ctx context.Context, f Filter, sort Sort) ([]Product, error)
}

type CreateInput struct {
	Title       string
	Description string
	Price       *money.Amount
	SalePrice   *money.Amount
	Category    string
	Brand       string
	TotalStock  *int
	Image       string
}

// UpdateInput is a partial update: nil fields keep their stored value.
// ClearSalePrice removes the sale price and wins over SalePrice.
type UpdateInput struct {
	Title          *string
	Description    *string
	Price          *money.Amount
	SalePrice      *money.Amount
	ClearSalePrice bool
	Category       *string
	Brand          *string
	TotalStock     *int
	Image          *string
}

// Service implements product authorization and mutation.
type Service struct {
	store   ProductStore
	metrics telemetry.Counter
	newID   func() string
}

func NewService(store ProductStore, metrics telemetry.Counter) *Service {
	return &Service{
		store:   store,
		metrics: telemetry.OrNop(metrics),
		newID:   uuid.NewString,
	}
}

// Create adds a product owned by sub.
func (s *Service) Create(ctx context.Context, sub identity.Subject, in CreateInput) (p Product, err error) {
	ctx, span := telemetry.Tracer("catalog").Start(ctx, "catalog.Create")
	defer func() { telemetry.EndSpan(span, err) }()

	if !sub.Authenticated() {
		return Product{}, apperr.Unauthenticated("Unauthorised user!")
	}
	if !CanCreate(sub) {
		return Product{}, apperr.Unauthorized("Only sellers can add products")
	}

	p = Product{
		ID:          s.newID(),
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Category:    strings.TrimSpace(in.Category),
		Brand:       strings.TrimSpace(in.Brand),
		Image:       strings.TrimSpace(in.Image),
		Owner:       Owner{ID: sub.ID, Role: sub.Role},
	}
	if p.Title == "" || p.Description == "" || p.Category == "" || p.Brand == "" || p.Image == "" ||
		in.Price == nil || in.TotalStock == nil {
		return Product{}, apperr.InvalidInput("All fields are required except sale price")
	}
	p.Price = *in.Price
	p.SalePrice = in.SalePrice
	p.TotalStock = *in.TotalStock

	if err := validatePricing(p); err != nil {
		return Product{}, err
	}

	created, err := s.store.Create(ctx, p)
	if err != nil {
		return Product{}, apperr.StoreFailure("create product", err)
	}
	s.metrics.Count(ctx, telemetry.MetricProductCreated, 1, map[string]string{"role": string(sub.Role)})
	return created, nil
}

// Update applies a partial update to a product sub may mutate.
func (s *Service) Update(ctx context.Context, sub identity.Subject, id string, in UpdateInput) (p Product, err error) {
	ctx, span := telemetry.Tracer("catalog").Start(ctx, "catalog.Update")
	defer func() { telemetry.EndSpan(span, err) }()

	current, err := s.loadMutable(ctx, sub, id)
	if err != nil {
		return Product{}, err
	}

	p = *current
	for _, f := range []struct {
		dst  *string
		src  *string
		name string
	}{
		{&p.Title, in.Title, "title"},
		{&p.Description, in.Description, "description"},
		{&p.Category, in.Category, "category"},
		{&p.Brand, in.Brand, "brand"},
		{&p.Image, in.Image, "image"},
	} {
		if f.src == nil {
			continue
		}
		v := strings.TrimSpace(*f.src)
		if v == "" {
			return Product{}, apperr.InvalidInput(f.name + " cannot be empty")
		}
		*f.dst = v
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.TotalStock != nil {
		p.TotalStock = *in.TotalStock
	}
	switch {
	case in.ClearSalePrice:
		p.SalePrice = nil
	case in.SalePrice != nil:
		sale := *in.SalePrice
		p.SalePrice = &sale
	}

	if err := validatePricing(p); err != nil {
		return Product{}, err
	}

	saved, err := s.store.Save(ctx, p)
	if err != nil {
		if errors.Is(err, ErrVersionConflict) {
			return Product{}, apperr.Conflict("Product was modified concurrently, please retry").WithStatus(http.StatusConflict)
		}
		return Product{}, apperr.StoreFailure("save product", err)
	}
	return saved, nil
}

// Delete removes a product sub may mutate.
func (s *Service) Delete(ctx context.Context, sub identity.Subject, id string) (err error) {
	ctx, span := telemetry.Tracer("catalog").Start(ctx, "catalog.Delete")
	defer func() { telemetry.EndSpan(span, err) }()

	if _, err := s.loadMutable(ctx, sub, id); err != nil {
		return err
	}
	if err := s.store.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, ErrProductNotFound) {
			return apperr.NotFound("Product not found")
		}
		return apperr.StoreFailure("delete product", err)
	}
	s.metrics.Count(ctx, telemetry.MetricProductDeleted, 1, map[string]string{"role": string(sub.Role)})
	return nil
}

// Get returns one product by id.
func (s *Service) Get(ctx context.Context, id string) (*Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperr.InvalidInput("Invalid product id")
	}
	p, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.StoreFailure("find product", err)
	}
	if p == nil {
		return nil, apperr.NotFound("Product not found")
	}
	return p, nil
}

// List returns the products matching f in the requested order.
func (s *Service) List(ctx context.Context, f Filter, sort Sort) ([]Product, error) {
	if f.MinPrice != nil && f.MaxPrice != nil && f.MaxPrice.LessThan(*f.MinPrice) {
		return nil, apperr.InvalidInput("minPrice cannot exceed maxPrice")
	}
	products, err := s.store.FindMany(ctx, f, sort)
	if err != nil {
		return nil, apperr.StoreFailure("list products", err)
	}
	return products, nil
}

// ListByOwner returns the caller's own products, newest first.
func (s *Service) ListByOwner(ctx context.Context, sub identity.Subject) ([]Product, error) {
	if !sub.Authenticated() {
		return nil, apperr.Unauthenticated("Unauthorised user!")
	}
	if !CanCreate(sub) {
		return nil, apperr.Unauthorized("Only sellers can view their products")
	}
	return s.List(ctx, Filter{OwnerID: sub.ID}, SortNewest)
}

// loadMutable resolves id and checks that sub may change it. Role is
// checked before existence, ownership after.
func (s *Service) loadMutable(ctx context.Context, sub identity.Subject, id string) (*Product, error) {
	if !sub.Authenticated() {
		return nil, apperr.Unauthenticated("Unauthorised user!")
	}
	if !CanCreate(sub) {
		return nil, apperr.Unauthorized("Only sellers can modify products")
	}
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanMutate(sub, *p) {
		return nil, apperr.Unauthorized("You can only modify your own products")
	}
	return p, nil
}

// validatePricing enforces non-negative amounts and a sale price that differs
// from the list price.
func validatePricing(p Product) error {
	if p.Price.IsNegative() {
		return apperr.InvalidInput("Price cannot be negative")
	}
	if p.TotalStock < 0 {
		return apperr.InvalidInput("Total stock cannot be negative")
	}
	if p.SalePrice == nil {
		return nil
	}
	if p.SalePrice.IsNegative() {
		return apperr.InvalidInput("Sale price cannot be negative")
	}
	if p.SalePrice.Equal(p.Price) {
		return apperr.Conflict("Sale price must differ from the regular price")
	}
	return nil
}
