package cart

import (
	"time"

	"github.com/imrishuroy/go-storefront/internal/money"
)

// MaxQuantity caps a single line item regardless of stock.
const MaxQuantity = 100

// LineItem is one product in a user's cart. Items are stored one per row
// under the user's partition, so a cart with no rows is absent.
type LineItem struct {
	UserID    string    `dynamodbav:"user_id" json:"-"`
	ProductID string    `dynamodbav:"product_id" json:"productId"`
	Quantity  int       `dynamodbav:"quantity" json:"quantity"`
	AddedAt   time.Time `dynamodbav:"added_at" json:"addedAt"`
	UpdatedAt time.Time `dynamodbav:"updated_at" json:"updatedAt"`
}

// Cart is every line item of one user. Product ids are unique within it.
type Cart struct {
	UserID string
	Items  []LineItem
}

// ProductIDs lists the product ids of the cart's line items.
func (c *Cart) ProductIDs() []string {
	ids := make([]string, 0, len(c.Items))
	for _, it := range c.Items {
		ids = append(ids, it.ProductID)
	}
	return ids
}

// ItemView is a line item joined with live product fields.
type ItemView struct {
	ProductID string        `json:"productId"`
	Image     string        `json:"image"`
	Title     string        `json:"title"`
	Price     money.Amount  `json:"price"`
	SalePrice *money.Amount `json:"salePrice,omitempty"`
	Brand     string        `json:"brand"`
	Category  string        `json:"category"`
	Quantity  int           `json:"quantity"`
}

// View is what Fetch returns. Items is never nil.
type View struct {
	Items    []ItemView   `json:"items"`
	Subtotal money.Amount `json:"subtotal"`
}

// ReconcileMessage is the queue payload asking the worker to drop orphaned
// line items.
type ReconcileMessage struct {
	UserID     string   `json:"user_id"`
	ProductIDs []string `json:"product_ids"`
}
