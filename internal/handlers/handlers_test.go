package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/imrishuroy/go-storefront/internal/accounts"
	"github.com/imrishuroy/go-storefront/internal/cart"
	"github.com/imrishuroy/go-storefront/internal/catalog"
	"github.com/imrishuroy/go-storefront/internal/handlers"
	"github.com/imrishuroy/go-storefront/internal/identity"
	"github.com/imrishuroy/go-storefront/internal/money"
	"github.com/imrishuroy/go-storefront/internal/testkit/storefakes"
)

const testSecret = "handler-test-secret"

type testServer struct {
	router   *gin.Engine
	products *storefakes.ProductStore
	carts    *storefakes.CartStore
	issuer   *identity.Issuer
}

type envelopeBody struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	products := storefakes.NewProductStore()
	carts := storefakes.NewCartStore()
	issuer := identity.NewIssuer(testSecret, time.Hour)
	counter := storefakes.NewCounter()

	r := gin.New()
	handlers.RegisterRoutes(r, handlers.HandlerConfig{
		Catalog:  catalog.NewService(products, counter),
		Cart:     cart.NewService(carts, products, cart.NewInlineReconciler(carts, counter), counter),
		Accounts: accounts.NewService(storefakes.NewAccountStore(), issuer).WithHashCost(bcrypt.MinCost),
		Resolver: identity.NewResolver(testSecret),
	})
	return &testServer{router: r, products: products, carts: carts, issuer: issuer}
}

func (s *testServer) token(t *testing.T, sub identity.Subject) string {
	t.Helper()
	tok, _, err := s.issuer.Issue(sub, time.Now())
	require.NoError(t, err)
	return tok
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, envelopeBody) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelopeBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func seedProduct(s *testServer, title, price, category string, stock int, owner identity.Subject) catalog.Product {
	p := catalog.Product{
		ID:          uuid.NewString(),
		Title:       title,
		Description: title + " description",
		Price:       money.MustParse(price),
		Category:    category,
		Brand:       "acme",
		TotalStock:  stock,
		Image:       "https://img.example.com/" + title + ".png",
		Owner:       catalog.Owner{ID: owner.ID, Role: owner.Role},
		CreatedAt:   time.Now(),
	}
	s.products.Put(p)
	return p
}

var (
	seller   = identity.Subject{ID: "seller-1", Role: identity.RoleSeller}
	other    = identity.Subject{ID: "seller-2", Role: identity.RoleSeller}
	customer = identity.Subject{ID: "cust-1", Role: identity.RoleCustomer}
)

func TestListProducts_FilterAndSort(t *testing.T) {
	s := newTestServer(t)
	seedProduct(s, "boots", "80", "shoes", 3, seller)
	seedProduct(s, "sandals", "20", "shoes", 3, seller)
	seedProduct(s, "cap", "15", "hats", 3, seller)
	seedProduct(s, "jacket", "120", "outerwear", 3, seller)

	w, env := s.do(t, http.MethodGet, "/api/products?category=shoes,hats&sort=price-lowtohigh&maxPrice=100", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)

	var got []catalog.Product
	require.NoError(t, json.Unmarshal(env.Data, &got))
	titles := make([]string, 0, len(got))
	for _, p := range got {
		titles = append(titles, p.Title)
	}
	assert.Equal(t, []string{"cap", "sandals", "boots"}, titles)
}

func TestListProducts_RejectsBadQuery(t *testing.T) {
	s := newTestServer(t)
	for _, q := range []string{"sort=cheapest", "minPrice=abc", "minPrice=50&maxPrice=10", "maxPrice=-1"} {
		w, env := s.do(t, http.MethodGet, "/api/products?"+q, "", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
		assert.False(t, env.Success, q)
	}
}

func TestGetProduct(t *testing.T) {
	s := newTestServer(t)
	p := seedProduct(s, "boots", "80", "shoes", 3, seller)

	w, _ := s.do(t, http.MethodGet, "/api/products/"+p.ID, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env := s.do(t, http.MethodGet, "/api/products/"+uuid.NewString(), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Product not found", env.Message)

	w, _ = s.do(t, http.MethodGet, "/api/products/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateProduct(t *testing.T) {
	s := newTestServer(t)
	body := map[string]any{
		"title":       "Trail Shoe",
		"description": "Grippy outsole",
		"price":       "89.99",
		"salePrice":   "79.99",
		"category":    "shoes",
		"brand":       "acme",
		"totalStock":  10,
		"image":       "https://img.example.com/trail.png",
	}

	w, env := s.do(t, http.MethodPost, "/api/products", "", body)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Unauthorised user!", env.Message)

	w, _ = s.do(t, http.MethodPost, "/api/products", s.token(t, customer), body)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env = s.do(t, http.MethodPost, "/api/products", s.token(t, seller), body)
	require.Equal(t, http.StatusCreated, w.Code, env.Message)
	var p catalog.Product
	require.NoError(t, json.Unmarshal(env.Data, &p))
	assert.Equal(t, seller.ID, p.Owner.ID)
	assert.Equal(t, "/api/products/"+p.ID, w.Header().Get("Location"))
	require.NotNil(t, p.SalePrice)
	assert.True(t, p.SalePrice.Equal(money.MustParse("79.99")))
}

func TestCreateProduct_ValidationFailure(t *testing.T) {
	s := newTestServer(t)
	w, env := s.do(t, http.MethodPost, "/api/products", s.token(t, seller), map[string]any{
		"title": "  ",
		"price": "10",
		"image": "not a url",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Validation failed", env.Message)

	var fields map[string]string
	require.NoError(t, json.Unmarshal(env.Data, &fields))
	assert.Equal(t, "notblank", fields["title"])
	assert.Equal(t, "imageurl", fields["image"])
	assert.Equal(t, "required", fields["totalStock"])
}

func TestUpdateProduct_OwnershipAndClearSalePrice(t *testing.T) {
	s := newTestServer(t)
	p := seedProduct(s, "boots", "80", "shoes", 3, seller)
	sale := money.MustParse("60")
	p.SalePrice = &sale
	s.products.Put(p)

	w, _ := s.do(t, http.MethodPut, "/api/products/"+p.ID, s.token(t, other), map[string]any{"title": "stolen"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env := s.do(t, http.MethodPut, "/api/products/"+p.ID, s.token(t, seller), map[string]any{
		"title":     "boots v2",
		"salePrice": nil,
	})
	require.Equal(t, http.StatusOK, w.Code, env.Message)
	var got catalog.Product
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "boots v2", got.Title)
	assert.Nil(t, got.SalePrice)
	assert.Equal(t, 3, got.TotalStock)
}

func TestDeleteProduct(t *testing.T) {
	s := newTestServer(t)
	p := seedProduct(s, "boots", "80", "shoes", 3, seller)

	w, _ := s.do(t, http.MethodDelete, "/api/products/"+p.ID, s.token(t, other), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = s.do(t, http.MethodDelete, "/api/products/"+p.ID, s.token(t, seller), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(t, http.MethodDelete, "/api/products/"+p.ID, s.token(t, seller), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSellerProducts_RequiresSellerRole(t *testing.T) {
	s := newTestServer(t)
	seedProduct(s, "boots", "80", "shoes", 3, seller)
	seedProduct(s, "cap", "15", "hats", 3, other)

	w, _ := s.do(t, http.MethodGet, "/api/seller/products", s.token(t, customer), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env := s.do(t, http.MethodGet, "/api/seller/products", s.token(t, seller), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got []catalog.Product
	require.NoError(t, json.Unmarshal(env.Data, &got))
	require.Len(t, got, 1)
	assert.Equal(t, "boots", got[0].Title)
}

func TestCartFlow(t *testing.T) {
	s := newTestServer(t)
	boots := seedProduct(s, "boots", "80", "shoes", 5, seller)
	hat := seedProduct(s, "cap", "15", "hats", 50, seller)
	tok := s.token(t, customer)

	w, _ := s.do(t, http.MethodGet, "/api/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, env := s.do(t, http.MethodPost, "/api/cart", tok, map[string]any{"productId": boots.ID, "quantity": 2})
	require.Equal(t, http.StatusOK, w.Code, env.Message)
	w, _ = s.do(t, http.MethodPost, "/api/cart", tok, map[string]any{"productId": boots.ID, "quantity": 2})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 4, s.carts.Quantity(customer.ID, boots.ID))

	// merged quantity would exceed stock
	w, _ = s.do(t, http.MethodPost, "/api/cart", tok, map[string]any{"productId": boots.ID, "quantity": 2})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 4, s.carts.Quantity(customer.ID, boots.ID))

	w, _ = s.do(t, http.MethodPost, "/api/cart", tok, map[string]any{"productId": hat.ID, "quantity": 1})
	require.Equal(t, http.StatusOK, w.Code)

	w, env = s.do(t, http.MethodGet, "/api/cart", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var view cart.View
	require.NoError(t, json.Unmarshal(env.Data, &view))
	require.Len(t, view.Items, 2)
	assert.True(t, view.Subtotal.Equal(money.MustParse("335")), view.Subtotal.String())

	w, env = s.do(t, http.MethodPut, "/api/cart", tok, map[string]any{"productId": boots.ID, "quantity": 1})
	require.Equal(t, http.StatusOK, w.Code, env.Message)
	assert.Equal(t, 1, s.carts.Quantity(customer.ID, boots.ID))

	w, env = s.do(t, http.MethodDelete, "/api/cart/"+boots.ID, tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Product removed from cart", env.Message)

	w, env = s.do(t, http.MethodDelete, "/api/cart/"+hat.ID, tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasSuffix(env.Message, "Cart is now empty"))
}

func TestCart_ValidatesBody(t *testing.T) {
	s := newTestServer(t)
	tok := s.token(t, customer)

	w, env := s.do(t, http.MethodPost, "/api/cart", tok, map[string]any{"productId": "nope", "quantity": 0})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Validation failed", env.Message)

	w, _ = s.do(t, http.MethodPost, "/api/cart", tok, map[string]any{"productId": uuid.NewString(), "quantity": 101})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(t, http.MethodPost, "/api/cart", tok, map[string]any{"productId": uuid.NewString(), "quantity": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCart_DroppedProductIsReconciled(t *testing.T) {
	s := newTestServer(t)
	p := seedProduct(s, "boots", "80", "shoes", 5, seller)
	tok := s.token(t, customer)

	w, _ := s.do(t, http.MethodPost, "/api/cart", tok, map[string]any{"productId": p.ID, "quantity": 1})
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = s.do(t, http.MethodDelete, "/api/products/"+p.ID, s.token(t, seller), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, env := s.do(t, http.MethodGet, "/api/cart", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var view cart.View
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Empty(t, view.Items)
	assert.Equal(t, 0, s.carts.Quantity(customer.ID, p.ID))
}

func TestAuth_RegisterLoginCheckLogout(t *testing.T) {
	s := newTestServer(t)
	creds := map[string]any{"fullName": "Ada Seller", "email": "Ada@Example.com", "password": "secret1"}

	w, env := s.do(t, http.MethodPost, "/api/seller/auth/register", "", creds)
	require.Equal(t, http.StatusCreated, w.Code, env.Message)

	w, _ = s.do(t, http.MethodPost, "/api/seller/auth/register", "", creds)
	assert.Equal(t, http.StatusConflict, w.Code)

	// seller credentials at the customer login
	w, _ = s.do(t, http.MethodPost, "/api/user/auth/login", "", map[string]any{"email": "ada@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = s.do(t, http.MethodPost, "/api/seller/auth/login", "", map[string]any{"email": "ada@example.com", "password": "wrong!!"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, env = s.do(t, http.MethodPost, "/api/seller/auth/login", "", map[string]any{"email": "ada@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, w.Code, env.Message)

	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == identity.CookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/check-auth", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var check envelopeBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &check))
	var sub identity.Subject
	require.NoError(t, json.Unmarshal(check.Data, &sub))
	assert.Equal(t, identity.RoleSeller, sub.Role)

	w, _ = s.do(t, http.MethodPost, "/api/auth/logout", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	for _, c := range w.Result().Cookies() {
		if c.Name == identity.CookieName {
			assert.Empty(t, c.Value)
			assert.Less(t, c.MaxAge, 0)
		}
	}
}

func TestCheckAuth_RejectsTamperedToken(t *testing.T) {
	s := newTestServer(t)
	tok := s.token(t, customer)

	w, _ := s.do(t, http.MethodGet, "/api/auth/check-auth", tok+"x", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = s.do(t, http.MethodGet, "/api/auth/check-auth", tok, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
