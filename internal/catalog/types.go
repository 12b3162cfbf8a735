package catalog

import (
	"sort"
	"strings"
	"time"

	"github.com/imrishuroy/go-storefront/internal/identity"
	"github.com/imrishuroy/go-storefront/internal/money"
)

// Owner is the seller (or admin) a product belongs to.
type Owner struct {
	ID   string        `dynamodbav:"id" json:"id"`
	Role identity.Role `dynamodbav:"role" json:"role"`
}

// Product is a catalog entry.
type Product struct {
	ID          string        `dynamodbav:"id" json:"id"`
	Title       string        `dynamodbav:"title" json:"title"`
	Description string        `dynamodbav:"description" json:"description"`
	Price       money.Amount  `dynamodbav:"price" json:"price"`
	SalePrice   *money.Amount `dynamodbav:"sale_price,omitempty" json:"salePrice,omitempty"`
	Category    string        `dynamodbav:"category" json:"category"`
	Brand       string        `dynamodbav:"brand" json:"brand"`
	TotalStock  int           `dynamodbav:"total_stock" json:"totalStock"`
	Image       string        `dynamodbav:"image" json:"image"`
	Owner       Owner         `dynamodbav:"owner" json:"owner"`
	Version     int64         `dynamodbav:"version" json:"-"`
	CreatedAt   time.Time     `dynamodbav:"created_at" json:"createdAt"`
	UpdatedAt   time.Time     `dynamodbav:"updated_at" json:"updatedAt"`
}

// EffectivePrice is the sale price when set, else the list price.
func (p Product) EffectivePrice() money.Amount {
	if p.SalePrice != nil {
		return *p.SalePrice
	}
	return p.Price
}

// Filter narrows List results. Zero values match everything.
type Filter struct {
	OwnerID    string
	Categories []string
	Brands     []string
	Query      string
	MinPrice   *money.Amount
	MaxPrice   *money.Amount
}

// Match reports whether p passes every set criterion. Category and brand
// match case-insensitively; Query is a substring match on the title.
func (f Filter) Match(p Product) bool {
	if f.OwnerID != "" && p.Owner.ID != f.OwnerID {
		return false
	}
	if len(f.Categories) > 0 && !containsFold(f.Categories, p.Category) {
		return false
	}
	if len(f.Brands) > 0 && !containsFold(f.Brands, p.Brand) {
		return false
	}
	if q := strings.TrimSpace(f.Query); q != "" && !strings.Contains(strings.ToLower(p.Title), strings.ToLower(q)) {
		return false
	}
	price := p.EffectivePrice()
	if f.MinPrice != nil && price.LessThan(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && f.MaxPrice.LessThan(price) {
		return false
	}
	return true
}

func containsFold(values []string, v string) bool {
	for _, s := range values {
		if strings.EqualFold(strings.TrimSpace(s), v) {
			return true
		}
	}
	return false
}

// Sort is a product list order accepted by the list endpoint.
type Sort string

const (
	SortNewest    Sort = "newest"
	SortPriceAsc  Sort = "price-lowtohigh"
	SortPriceDesc Sort = "price-hightolow"
	SortTitleAsc  Sort = "title-atoz"
	SortTitleDesc Sort = "title-ztoa"
)

// ParseSort maps a query value to a Sort. Empty means SortNewest.
func ParseSort(s string) (Sort, bool) {
	switch v := Sort(strings.TrimSpace(s)); v {
	case "":
		return SortNewest, true
	case SortNewest, SortPriceAsc, SortPriceDesc, SortTitleAsc, SortTitleDesc:
		return v, true
	default:
		return "", false
	}
}

// Apply sorts products in place. Ties fall back to id so pages are stable.
func (s Sort) Apply(products []Product) {
	less := func(a, b Product) int {
		switch s {
		case SortPriceAsc:
			return a.EffectivePrice().Decimal().Cmp(b.EffectivePrice().Decimal())
		case SortPriceDesc:
			return b.EffectivePrice().Decimal().Cmp(a.EffectivePrice().Decimal())
		case SortTitleAsc:
			return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		case SortTitleDesc:
			return strings.Compare(strings.ToLower(b.Title), strings.ToLower(a.Title))
		default:
			return b.CreatedAt.Compare(a.CreatedAt)
		}
	}
	sort.SliceStable(products, func(i, j int) bool {
		if c := less(products[i], products[j]); c != 0 {
			return c < 0
		}
		return products[i].ID < products[j].ID
	})
}
