// Package storefakes holds in-memory store fakes shared by service and
// handler tests.
package storefakes

import (
	"context"
	"sync"
	"time"

	"github.com/imrishuroy/go-storefront/internal/accounts"
	"github.com/imrishuroy/go-storefront/internal/cart"
	"github.com/imrishuroy/go-storefront/internal/catalog"
)

// ProductStore is an in-memory catalog.ProductStore that also satisfies
// cart.ProductLookup.
type ProductStore struct {
	mu       sync.Mutex
	Products map[string]catalog.Product
	Now      func() time.Time
	// Err, when set, is returned by every call.
	Err error
}

func NewProductStore() *ProductStore {
	return &ProductStore{Products: make(map[string]catalog.Product), Now: time.Now}
}

// Put seeds a product as-is.
func (s *ProductStore) Put(p catalog.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.Version == 0 {
		p.Version = 1
	}
	s.Products[p.ID] = p
}

func (s *ProductStore) Create(_ context.Context, p catalog.Product) (catalog.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return catalog.Product{}, s.Err
	}
	if _, ok := s.Products[p.ID]; ok {
		return catalog.Product{}, catalog.ErrDuplicateID
	}
	now := s.Now()
	p.Version, p.CreatedAt, p.UpdatedAt = 1, now, now
	s.Products[p.ID] = p
	return p, nil
}

func (s *ProductStore) Save(_ context.Context, p catalog.Product) (catalog.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return catalog.Product{}, s.Err
	}
	cur, ok := s.Products[p.ID]
	if !ok || cur.Version != p.Version {
		return catalog.Product{}, catalog.ErrVersionConflict
	}
	p.Version++
	p.UpdatedAt = s.Now()
	s.Products[p.ID] = p
	return p, nil
}

func (s *ProductStore) DeleteByID(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.Products[id]; !ok {
		return catalog.ErrProductNotFound
	}
	delete(s.Products, id)
	return nil
}

func (s *ProductStore) FindByID(_ context.Context, id string) (*catalog.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	p, ok := s.Products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (s *ProductStore) FindByIDs(_ context.Context, ids []string) (map[string]catalog.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := make(map[string]catalog.Product, len(ids))
	for _, id := range ids {
		if p, ok := s.Products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (s *ProductStore) FindMany(_ context.Context, f catalog.Filter, sort catalog.Sort) ([]catalog.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	out := []catalog.Product{}
	for _, p := range s.Products {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	sort.Apply(out)
	return out, nil
}

// CartStore is an in-memory cart.CartStore with the same ceiling semantics
// as the DynamoDB store.
type CartStore struct {
	mu    sync.Mutex
	Items map[string]map[string]cart.LineItem
	Now   func() time.Time
	Err   error
}

func NewCartStore() *CartStore {
	return &CartStore{Items: make(map[string]map[string]cart.LineItem), Now: time.Now}
}

func (s *CartStore) FindByUser(_ context.Context, userID string) (*cart.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	rows := s.Items[userID]
	if len(rows) == 0 {
		return nil, nil
	}
	c := &cart.Cart{UserID: userID}
	for _, it := range rows {
		c.Items = append(c.Items, it)
	}
	return c, nil
}

func (s *CartStore) AddItem(_ context.Context, userID, productID string, quantity, ceiling int) (cart.LineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return cart.LineItem{}, s.Err
	}
	rows := s.Items[userID]
	if rows == nil {
		rows = make(map[string]cart.LineItem)
		s.Items[userID] = rows
	}
	now := s.Now()
	it, ok := rows[productID]
	if quantity < 1 || it.Quantity+quantity > ceiling {
		return cart.LineItem{}, cart.ErrQuantityLimit
	}
	if !ok {
		it = cart.LineItem{UserID: userID, ProductID: productID, AddedAt: now}
	}
	it.Quantity += quantity
	it.UpdatedAt = now
	rows[productID] = it
	return it, nil
}

func (s *CartStore) SetQuantity(_ context.Context, userID, productID string, quantity int) (cart.LineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return cart.LineItem{}, s.Err
	}
	it, ok := s.Items[userID][productID]
	if !ok {
		return cart.LineItem{}, cart.ErrItemNotFound
	}
	it.Quantity = quantity
	it.UpdatedAt = s.Now()
	s.Items[userID][productID] = it
	return it, nil
}

func (s *CartStore) RemoveItem(_ context.Context, userID, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if _, ok := s.Items[userID][productID]; !ok {
		return cart.ErrItemNotFound
	}
	delete(s.Items[userID], productID)
	return nil
}

func (s *CartStore) RemoveItems(_ context.Context, userID string, productIDs []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	n := 0
	for _, pid := range productIDs {
		if _, ok := s.Items[userID][pid]; ok {
			delete(s.Items[userID], pid)
			n++
		}
	}
	return n, nil
}

func (s *CartStore) DeleteByUser(_ context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return 0, s.Err
	}
	n := len(s.Items[userID])
	delete(s.Items, userID)
	return n, nil
}

// Quantity returns the stored quantity, 0 when absent.
func (s *CartStore) Quantity(userID, productID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Items[userID][productID].Quantity
}

// AccountStore is an in-memory accounts.AccountStore.
type AccountStore struct {
	mu       sync.Mutex
	Accounts map[string]accounts.Account
	Err      error
}

func NewAccountStore() *AccountStore {
	return &AccountStore{Accounts: make(map[string]accounts.Account)}
}

func (s *AccountStore) CreateIfNotExists(_ context.Context, acct accounts.Account) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}
	if _, ok := s.Accounts[acct.Email]; ok {
		return false, nil
	}
	s.Accounts[acct.Email] = acct
	return true, nil
}

func (s *AccountStore) Get(_ context.Context, email string) (*accounts.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	a, ok := s.Accounts[email]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (s *AccountStore) TouchLogin(_ context.Context, email string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.Accounts[email]
	if !ok {
		return accounts.ErrAccountNotFound
	}
	a.LastLoginAt = &at
	s.Accounts[email] = a
	return nil
}

// Counter records every Count call.
type Counter struct {
	mu     sync.Mutex
	Totals map[string]float64
}

func NewCounter() *Counter { return &Counter{Totals: make(map[string]float64)} }

func (c *Counter) Count(_ context.Context, name string, value float64, _ map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Totals[name] += value
}

func (c *Counter) Total(name string) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Totals[name]
}
