package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"shoppyglobe/internal/domain"
	productrepo "shoppyglobe/internal/repository/product"
	authsvc "shoppyglobe/internal/service/auth"
	cartsvc "shoppyglobe/internal/service/cart"
)

type stubAuthService struct {
	registerUser  *domain.User
	registerToken string
	registerErr   error
	loginUser     *domain.User
	loginToken    string
	loginErr      error
	tokenUser     *domain.User
	tokenErr      error
	lastToken     string
}

func (s *stubAuthService) Register(_ context.Context, _ authsvc.RegisterInput) (*domain.User, string, error) {
	return s.registerUser, s.registerToken, s.registerErr
}

func (s *stubAuthService) Login(_ context.Context, _, _ string) (*domain.User, string, error) {
	return s.loginUser, s.loginToken, s.loginErr
}

func (s *stubAuthService) UserFromToken(_ context.Context, token string) (*domain.User, error) {
	s.lastToken = token
	if s.tokenErr != nil {
		return nil, s.tokenErr
	}
	return s.tokenUser, nil
}

type stubCartService struct {
	cart        *domain.Cart
	err         error
	lastUserID  string
	lastProduct string
	lastQty     int
}

func (s *stubCartService) Get(_ context.Context, userID string) (*domain.Cart, error) {
	s.lastUserID = userID
	return s.cart, s.err
}

func (s *stubCartService) Add(_ context.Context, userID, productID string, quantity int) (*domain.Cart, error) {
	s.lastUserID, s.lastProduct, s.lastQty = userID, productID, quantity
	return s.cart, s.err
}

func (s *stubCartService) UpdateItem(_ context.Context, userID, productID string, quantity int) (*domain.Cart, error) {
	s.lastUserID, s.lastProduct, s.lastQty = userID, productID, quantity
	return s.cart, s.err
}

func (s *stubCartService) RemoveItem(_ context.Context, userID, productID string) (*domain.Cart, error) {
	s.lastUserID, s.lastProduct = userID, productID
	return s.cart, s.err
}

type stubProductService struct {
	products []domain.Product
	product  *domain.Product
	err      error
	lastID   string
	deleted  string
}

func (s *stubProductService) List(_ context.Context) ([]domain.Product, error) {
	return s.products, s.err
}

func (s *stubProductService) GetByID(_ context.Context, id string) (*domain.Product, error) {
	s.lastID = id
	return s.product, s.err
}

func (s *stubProductService) Create(_ context.Context, _ domain.Product) (*domain.Product, error) {
	return s.product, s.err
}

func (s *stubProductService) Update(_ context.Context, id string, _ productrepo.UpdateInput) (*domain.Product, error) {
	s.lastID = id
	return s.product, s.err
}

func (s *stubProductService) Delete(_ context.Context, id string) error {
	s.deleted = id
	return s.err
}

func newTestRouter(t *testing.T, deps Deps) http.Handler {
	t.Helper()
	logger := log.New(io.Discard, "", 0)
	router, err := buildRouter(logger, nil, deps, false)
	if err != nil {
		t.Fatalf("buildRouter: %v", err)
	}
	return router
}

func defaultDeps() Deps {
	return Deps{
		AuthSvc:    &stubAuthService{},
		CartSvc:    &stubCartService{},
		ProductSvc: &stubProductService{},
	}
}

func doJSON(t *testing.T, router http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestBuildRouterMissingDeps(t *testing.T) {
	logger := log.New(io.Discard, "", 0)
	if _, err := buildRouter(logger, nil, Deps{}, false); err == nil {
		t.Fatal("expected error for missing deps")
	}
}

func TestRegisterCreated(t *testing.T) {
	deps := defaultDeps()
	deps.AuthSvc = &stubAuthService{
		registerUser:  &domain.User{ID: "u1", Name: "Ada", Email: "ada@example.com"},
		registerToken: "tok123",
	}
	router := newTestRouter(t, deps)

	rec := doJSON(t, router, http.MethodPost, "/register", "",
		`{"name":"Ada","email":"ada@example.com","password":"secret1"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["token"] != "tok123" || body["email"] != "ada@example.com" {
		t.Fatalf("unexpected body: %v", body)
	}
	if _, ok := body["passwordHash"]; ok {
		t.Fatal("password hash leaked in response")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	deps := defaultDeps()
	deps.AuthSvc = &stubAuthService{registerErr: authsvc.ErrEmailTaken}
	router := newTestRouter(t, deps)

	rec := doJSON(t, router, http.MethodPost, "/register", "",
		`{"name":"Ada","email":"ada@example.com","password":"secret1"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if body := decodeBody(t, rec); body["message"] != "User already exists" {
		t.Fatalf("unexpected message: %v", body["message"])
	}
}

func TestRegisterInvalidBody(t *testing.T) {
	router := newTestRouter(t, defaultDeps())
	rec := doJSON(t, router, http.MethodPost, "/register", "", `{"email":"not-an-email"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	deps := defaultDeps()
	deps.AuthSvc = &stubAuthService{loginErr: authsvc.ErrInvalidCredentials}
	router := newTestRouter(t, deps)

	rec := doJSON(t, router, http.MethodPost, "/login", "",
		`{"email":"ada@example.com","password":"wrong"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if body := decodeBody(t, rec); body["message"] != "Invalid credentials" {
		t.Fatalf("unexpected message: %v", body["message"])
	}
}

func TestLoginSuccess(t *testing.T) {
	deps := defaultDeps()
	deps.AuthSvc = &stubAuthService{
		loginUser:  &domain.User{ID: "u1", Name: "Ada", Email: "ada@example.com"},
		loginToken: "tok123",
	}
	router := newTestRouter(t, deps)

	rec := doJSON(t, router, http.MethodPost, "/login", "",
		`{"email":"ada@example.com","password":"secret1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
	if body := decodeBody(t, rec); body["token"] != "tok123" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestCartRequiresToken(t *testing.T) {
	router := newTestRouter(t, defaultDeps())

	for _, tc := range []struct {
		name    string
		header  string
		message string
	}{
		{"no header", "", "Not authorized, no token"},
		{"wrong scheme", "Basic abc", "Not authorized, no token"},
		{"bearer without token", "Bearer", "Not authorized, token failed"},
		{"bearer with blank token", "Bearer   ", "Not authorized, token failed"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/cart", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", rec.Code)
			}
			if body := decodeBody(t, rec); body["message"] != tc.message {
				t.Fatalf("message = %v, want %q", body["message"], tc.message)
			}
		})
	}
}

func TestCartRejectsBadToken(t *testing.T) {
	deps := defaultDeps()
	deps.AuthSvc = &stubAuthService{tokenErr: authsvc.ErrInvalidToken}
	router := newTestRouter(t, deps)

	rec := doJSON(t, router, http.MethodGet, "/cart", "garbage", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if body := decodeBody(t, rec); body["message"] != "Not authorized, token failed" {
		t.Fatalf("unexpected message: %v", body["message"])
	}
}

func TestCartScopedToAuthenticatedUser(t *testing.T) {
	carts := &stubCartService{cart: &domain.Cart{ID: "c1", UserID: "u42", Items: []domain.CartItem{}}}
	deps := defaultDeps()
	deps.AuthSvc = &stubAuthService{tokenUser: &domain.User{ID: "u42"}}
	deps.CartSvc = carts
	router := newTestRouter(t, deps)

	rec := doJSON(t, router, http.MethodGet, "/cart", "tok", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
	if carts.lastUserID != "u42" {
		t.Fatalf("cart fetched for %q, want the token's user u42", carts.lastUserID)
	}
}

func TestAddToCartDefaultsQuantity(t *testing.T) {
	carts := &stubCartService{cart: &domain.Cart{ID: "c1", Items: []domain.CartItem{}}}
	deps := defaultDeps()
	deps.AuthSvc = &stubAuthService{tokenUser: &domain.User{ID: "u1"}}
	deps.CartSvc = carts
	router := newTestRouter(t, deps)

	rec := doJSON(t, router, http.MethodPost, "/cart", "tok", `{"productId":"p1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
	if carts.lastProduct != "p1" || carts.lastQty != 1 {
		t.Fatalf("Add called with (%q, %d), want (p1, 1)", carts.lastProduct, carts.lastQty)
	}
}

func TestAddToCartMissingProductID(t *testing.T) {
	deps := defaultDeps()
	deps.AuthSvc = &stubAuthService{tokenUser: &domain.User{ID: "u1"}}
	router := newTestRouter(t, deps)

	rec := doJSON(t, router, http.MethodPost, "/cart", "tok", `{"quantity":2}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if body := decodeBody(t, rec); body["message"] != "ProductId not provided" {
		t.Fatalf("unexpected message: %v", body["message"])
	}
}

func TestAddToCartInvalidQuantity(t *testing.T) {
	deps := defaultDeps()
	deps.AuthSvc = &stubAuthService{tokenUser: &domain.User{ID: "u1"}}
	deps.CartSvc = &stubCartService{err: cartsvc.ErrInvalidQuantity}
	router := newTestRouter(t, deps)

	rec := doJSON(t, router, http.MethodPost, "/cart", "tok", `{"productId":"p1","quantity":0}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if body := decodeBody(t, rec); body["message"] != "quantity must be at least 1" {
		t.Fatalf("unexpected message: %v", body["message"])
	}
}

func TestAddToCartUnknownProduct(t *testing.T) {
	deps := defaultDeps()
	deps.AuthSvc = &stubAuthService{tokenUser: &domain.User{ID: "u1"}}
	deps.CartSvc = &stubCartService{err: cartsvc.ErrProductNotFound}
	router := newTestRouter(t, deps)

	rec := doJSON(t, router, http.MethodPost, "/cart", "tok", `{"productId":"nope","quantity":1}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestUpdateCartItem(t *testing.T) {
	carts := &stubCartService{cart: &domain.Cart{ID: "c1", Items: []domain.CartItem{{ProductID: "p1", Quantity: 4}}}}
	deps := defaultDeps()
	deps.AuthSvc = &stubAuthService{tokenUser: &domain.User{ID: "u1"}}
	deps.CartSvc = carts
	router := newTestRouter(t, deps)

	rec := doJSON(t, router, http.MethodPut, "/cart/p1", "tok", `{"quantity":4}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
	if carts.lastProduct != "p1" || carts.lastQty != 4 {
		t.Fatalf("UpdateItem called with (%q, %d), want (p1, 4)", carts.lastProduct, carts.lastQty)
	}
}

func TestUpdateCartItemMissingItem(t *testing.T) {
	deps := defaultDeps()
	deps.AuthSvc = &stubAuthService{tokenUser: &domain.User{ID: "u1"}}
	deps.CartSvc = &stubCartService{err: cartsvc.ErrItemNotFound}
	router := newTestRouter(t, deps)

	rec := doJSON(t, router, http.MethodPut, "/cart/p1", "tok", `{"quantity":2}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if body := decodeBody(t, rec); body["message"] != "Item not found in cart" {
		t.Fatalf("unexpected message: %v", body["message"])
	}
}

func TestRemoveCartItem(t *testing.T) {
	carts := &stubCartService{cart: &domain.Cart{ID: "c1", Items: []domain.CartItem{}}}
	deps := defaultDeps()
	deps.AuthSvc = &stubAuthService{tokenUser: &domain.User{ID: "u1"}}
	deps.CartSvc = carts
	router := newTestRouter(t, deps)

	rec := doJSON(t, router, http.MethodDelete, "/cart/p1", "tok", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["message"] != "Item removed from cart successfully" {
		t.Fatalf("unexpected message: %v", body["message"])
	}
	if _, ok := body["cart"]; !ok {
		t.Fatal("response missing cart")
	}
}

func TestEmptyCartSerializesItemsArray(t *testing.T) {
	deps := defaultDeps()
	deps.AuthSvc = &stubAuthService{tokenUser: &domain.User{ID: "u1"}}
	deps.CartSvc = &stubCartService{cart: &domain.Cart{Items: []domain.CartItem{}}}
	router := newTestRouter(t, deps)

	rec := doJSON(t, router, http.MethodGet, "/cart", "tok", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	items, ok := body["items"].([]any)
	if !ok || len(items) != 0 {
		t.Fatalf("expected items to be an empty array, got %q", rec.Body.String())
	}
}

func TestListProducts(t *testing.T) {
	deps := defaultDeps()
	deps.ProductSvc = &stubProductService{products: []domain.Product{{ID: "p1", Name: "Red Lipstick"}}}
	router := newTestRouter(t, deps)

	rec := doJSON(t, router, http.MethodGet, "/products", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var products []domain.Product
	if err := json.Unmarshal(rec.Body.Bytes(), &products); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(products) != 1 || products[0].Name != "Red Lipstick" {
		t.Fatalf("unexpected products: %+v", products)
	}
}

func TestGetProductNotFound(t *testing.T) {
	deps := defaultDeps()
	deps.ProductSvc = &stubProductService{err: domain.ErrNotFound}
	router := newTestRouter(t, deps)

	rec := doJSON(t, router, http.MethodGet, "/products/nope", "", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if body := decodeBody(t, rec); body["message"] != "Product not found" {
		t.Fatalf("unexpected message: %v", body["message"])
	}
}

func TestCreateProduct(t *testing.T) {
	deps := defaultDeps()
	deps.ProductSvc = &stubProductService{product: &domain.Product{ID: "p1", Name: "Red Lipstick", PriceCents: 1299}}
	router := newTestRouter(t, deps)

	rec := doJSON(t, router, http.MethodPost, "/products", "",
		`{"name":"Red Lipstick","priceCents":1299,"stock":10}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body %s", rec.Code, rec.Body.String())
	}
}

func TestCreateProductMissingPrice(t *testing.T) {
	router := newTestRouter(t, defaultDeps())
	rec := doJSON(t, router, http.MethodPost, "/products", "", `{"name":"Red Lipstick"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestDeleteProduct(t *testing.T) {
	products := &stubProductService{}
	deps := defaultDeps()
	deps.ProductSvc = products
	router := newTestRouter(t, deps)

	rec := doJSON(t, router, http.MethodDelete, "/products/p1", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body := decodeBody(t, rec); body["message"] != "Product deleted successfully" {
		t.Fatalf("unexpected message: %v", body["message"])
	}
	if products.deleted != "p1" {
		t.Fatalf("deleted id = %q, want p1", products.deleted)
	}
}

func TestUnknownRoute(t *testing.T) {
	router := newTestRouter(t, defaultDeps())

	rec := doJSON(t, router, http.MethodGet, "/no/such/route", "", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if body := decodeBody(t, rec); body["message"] != "Route /no/such/route not found" {
		t.Fatalf("unexpected message: %v", body["message"])
	}
}

func TestInternalErrorsAreOpaque(t *testing.T) {
	deps := defaultDeps()
	deps.ProductSvc = &stubProductService{err: errors.New("pg connection refused")}
	router := newTestRouter(t, deps)

	rec := doJSON(t, router, http.MethodGet, "/products", "", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if body := decodeBody(t, rec); body["message"] != "Internal server error" {
		t.Fatalf("internal detail leaked: %v", body["message"])
	}
}

func TestRequestIDEchoed(t *testing.T) {
	router := newTestRouter(t, defaultDeps())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", "req-abc")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-Id"); got != "req-abc" {
		t.Fatalf("X-Request-Id = %q, want req-abc", got)
	}
}
