package cart

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"

	"github.com/google/uuid"

	"github.com/imrishuroy/go-storefront/internal/apperr"
	"github.com/imrishuroy/go-storefront/internal/catalog"
	"github.com/imrishuroy/go-storefront/internal/identity"
	"github.com/imrishuroy/go-storefront/internal/money"
	"github.com/imrishuroy/go-storefront/internal/telemetry"
)

// CartStore is the persistence the cart service needs.
type CartStore interface {
	FindByUser(ctx context.Context, userID string) (*Cart, error)
	AddItem(ctx context.Context, userID, productID string, quantity, ceiling int) (LineItem, error)
	SetQuantity(ctx context.Context, userID, productID string, quantity int) (LineItem, error)
	RemoveItem(ctx context.Context, userID, productID string) error
	RemoveItems(ctx context.Context, userID string, productIDs []string) (int, error)
	DeleteByUser(ctx context.Context, userID string) (int, error)
}

// ProductLookup resolves catalog products. FindByID returns (nil, nil) for
// unknown ids and FindByIDs omits them.
type ProductLookup interface {
	FindByID(ctx context.Context, id string) (*catalog.Product, error)
	FindByIDs(ctx context.Context, ids []string) (map[string]catalog.Product, error)
}

// Reconciler removes line items whose product no longer exists.
type Reconciler interface {
	Reconcile(ctx context.Context, userID string, productIDs []string) error
}

// Service implements cart consolidation.
type Service struct {
	carts      CartStore
	products   ProductLookup
	reconciler Reconciler
	metrics    telemetry.Counter
}

func NewService(carts CartStore, products ProductLookup, reconciler Reconciler, metrics telemetry.Counter) *Service {
	return &Service{
		carts:      carts,
		products:   products,
		reconciler: reconciler,
		metrics:    telemetry.OrNop(metrics),
	}
}

// Add puts quantity units of a product in the caller's cart, merging with
// an existing line item. The merged quantity may not exceed MaxQuantity or
// the product's stock.
func (s *Service) Add(ctx context.Context, sub identity.Subject, productID string, quantity int) (item LineItem, err error) {
	ctx, span := telemetry.Tracer("cart").Start(ctx, "cart.Add")
	defer func() { telemetry.EndSpan(span, err) }()

	if err := validateLine(sub, productID, quantity); err != nil {
		return LineItem{}, err
	}

	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return LineItem{}, apperr.StoreFailure("find product", err)
	}
	if p == nil {
		return LineItem{}, apperr.NotFound("Product not found")
	}
	if p.TotalStock < quantity {
		return LineItem{}, apperr.Conflict(fmt.Sprintf("Only %d items left in stock", p.TotalStock))
	}

	ceiling := min(MaxQuantity, p.TotalStock)
	item, err = s.carts.AddItem(ctx, sub.ID, productID, quantity, ceiling)
	if err != nil {
		if errors.Is(err, ErrQuantityLimit) {
			return LineItem{}, apperr.Conflict(fmt.Sprintf("Cart quantity for this product cannot exceed %d", ceiling))
		}
		return LineItem{}, apperr.StoreFailure("add cart item", err)
	}
	s.metrics.Count(ctx, telemetry.MetricCartItemAdded, float64(quantity), nil)
	return item, nil
}

// Fetch returns the caller's cart joined with live product data. Line
// items whose product is gone are left out and handed to the reconciler.
func (s *Service) Fetch(ctx context.Context, sub identity.Subject) (view View, err error) {
	ctx, span := telemetry.Tracer("cart").Start(ctx, "cart.Fetch")
	defer func() { telemetry.EndSpan(span, err) }()

	if !sub.Authenticated() {
		return View{}, apperr.Unauthenticated("Unauthorised user!")
	}

	c, err := s.carts.FindByUser(ctx, sub.ID)
	if err != nil {
		return View{}, apperr.StoreFailure("find cart", err)
	}
	view = View{Items: []ItemView{}, Subtotal: money.FromInt(0)}
	if c == nil {
		return view, nil
	}

	products, err := s.products.FindByIDs(ctx, c.ProductIDs())
	if err != nil {
		return View{}, apperr.StoreFailure("find cart products", err)
	}

	items := make([]LineItem, len(c.Items))
	copy(items, c.Items)
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].AddedAt.Equal(items[j].AddedAt) {
			return items[i].AddedAt.Before(items[j].AddedAt)
		}
		return items[i].ProductID < items[j].ProductID
	})

	var orphans []string
	for _, it := range items {
		p, ok := products[it.ProductID]
		if !ok {
			orphans = append(orphans, it.ProductID)
			continue
		}
		view.Items = append(view.Items, ItemView{
			ProductID: p.ID,
			Image:     p.Image,
			Title:     p.Title,
			Price:     p.Price,
			SalePrice: p.SalePrice,
			Brand:     p.Brand,
			Category:  p.Category,
			Quantity:  it.Quantity,
		})
		view.Subtotal = view.Subtotal.Add(p.EffectivePrice().Mul(it.Quantity))
	}

	if len(orphans) > 0 {
		s.metrics.Count(ctx, telemetry.MetricCartOrphansDetected, float64(len(orphans)), nil)
		if s.reconciler != nil {
			if rerr := s.reconciler.Reconcile(ctx, sub.ID, orphans); rerr != nil {
				log.Printf("[cart] reconcile failed user=%s orphans=%d err=%v", sub.ID, len(orphans), rerr)
			}
		}
	}
	return view, nil
}

// UpdateQuantity overwrites the quantity of an existing line item. Stock is
// not re-checked; a product deleted since it was added is NotFound.
func (s *Service) UpdateQuantity(ctx context.Context, sub identity.Subject, productID string, quantity int) (view View, err error) {
	ctx, span := telemetry.Tracer("cart").Start(ctx, "cart.UpdateQuantity")
	defer func() { telemetry.EndSpan(span, err) }()

	if err := validateLine(sub, productID, quantity); err != nil {
		return View{}, err
	}

	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return View{}, apperr.StoreFailure("find product", err)
	}
	if p == nil {
		return View{}, apperr.NotFound("Product not found")
	}

	if _, err := s.carts.SetQuantity(ctx, sub.ID, productID, quantity); err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return View{}, apperr.NotFound("Product not found in cart")
		}
		return View{}, apperr.StoreFailure("update cart item", err)
	}
	return s.Fetch(ctx, sub)
}

// RemoveItem deletes one line item; removing the last one removes the cart.
func (s *Service) RemoveItem(ctx context.Context, sub identity.Subject, productID string) (view View, err error) {
	ctx, span := telemetry.Tracer("cart").Start(ctx, "cart.RemoveItem")
	defer func() { telemetry.EndSpan(span, err) }()

	if err := validateLine(sub, productID, 1); err != nil {
		return View{}, err
	}
	if err := s.carts.RemoveItem(ctx, sub.ID, productID); err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return View{}, apperr.NotFound("Product not found in cart")
		}
		return View{}, apperr.StoreFailure("remove cart item", err)
	}
	return s.Fetch(ctx, sub)
}

// Clear empties the caller's cart.
func (s *Service) Clear(ctx context.Context, sub identity.Subject) error {
	if !sub.Authenticated() {
		return apperr.Unauthenticated("Unauthorised user!")
	}
	if _, err := s.carts.DeleteByUser(ctx, sub.ID); err != nil {
		return apperr.StoreFailure("clear cart", err)
	}
	return nil
}

func validateLine(sub identity.Subject, productID string, quantity int) error {
	if !sub.Authenticated() {
		return apperr.Unauthenticated("Unauthorised user!")
	}
	if _, err := uuid.Parse(productID); err != nil {
		return apperr.InvalidInput("Invalid product id")
	}
	if quantity < 1 || quantity > MaxQuantity {
		return apperr.InvalidInput(fmt.Sprintf("Quantity must be between 1 and %d", MaxQuantity))
	}
	return nil
}
