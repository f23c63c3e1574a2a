package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	authsvc "github.com/storelinehq/storeline-backend/internal/auth"
	cartsvc "github.com/storelinehq/storeline-backend/internal/cart"
	"github.com/storelinehq/storeline-backend/internal/catalog"
	"github.com/storelinehq/storeline-backend/internal/comments"
	"github.com/storelinehq/storeline-backend/internal/customers"
	"github.com/storelinehq/storeline-backend/internal/orders"
	pkgauth "github.com/storelinehq/storeline-backend/pkg/auth"
	"github.com/storelinehq/storeline-backend/pkg/config"
	"github.com/storelinehq/storeline-backend/pkg/enums"
	"github.com/storelinehq/storeline-backend/pkg/logger"
	"github.com/storelinehq/storeline-backend/pkg/redis"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubAuthService struct{}

func (stubAuthService) Register(ctx context.Context, input authsvc.RegisterInput) (*authsvc.AuthResult, error) {
	return &authsvc.AuthResult{}, nil
}

func (stubAuthService) Login(ctx context.Context, input authsvc.LoginInput) (*authsvc.AuthResult, error) {
	return &authsvc.AuthResult{}, nil
}

type stubCatalogService struct{}

func (stubCatalogService) CreateCategory(ctx context.Context, input catalog.CreateCategoryInput) (*catalog.CategoryDTO, error) {
	return &catalog.CategoryDTO{}, nil
}

func (stubCatalogService) GetCategory(ctx context.Context, id uuid.UUID) (*catalog.CategoryDTO, error) {
	return &catalog.CategoryDTO{ID: id}, nil
}

func (stubCatalogService) ListCategories(ctx context.Context) ([]catalog.CategoryDTO, error) {
	return nil, nil
}

func (stubCatalogService) UpdateCategory(ctx context.Context, id uuid.UUID, input catalog.UpdateCategoryInput) (*catalog.CategoryDTO, error) {
	return &catalog.CategoryDTO{ID: id}, nil
}

func (stubCatalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error { return nil }

func (stubCatalogService) CreateProduct(ctx context.Context, input catalog.CreateProductInput) (*catalog.ProductDTO, error) {
	return &catalog.ProductDTO{}, nil
}

func (stubCatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*catalog.ProductDTO, error) {
	return &catalog.ProductDTO{ID: id}, nil
}

func (stubCatalogService) GetProductBySlug(ctx context.Context, slug string) (*catalog.ProductDTO, error) {
	return &catalog.ProductDTO{Slug: slug}, nil
}

func (stubCatalogService) ListProducts(ctx context.Context, input catalog.ListProductsInput) (*catalog.ProductList, error) {
	return &catalog.ProductList{Products: []catalog.ProductDTO{}}, nil
}

func (stubCatalogService) UpdateProduct(ctx context.Context, id uuid.UUID, input catalog.UpdateProductInput) (*catalog.ProductDTO, error) {
	return &catalog.ProductDTO{ID: id}, nil
}

func (stubCatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error { return nil }

type stubCommentsService struct{}

func (stubCommentsService) CreateComment(ctx context.Context, input comments.CreateCommentInput) (*comments.CommentDTO, error) {
	return &comments.CommentDTO{}, nil
}

func (stubCommentsService) GetComment(ctx context.Context, id uuid.UUID) (*comments.CommentDTO, error) {
	return &comments.CommentDTO{ID: id}, nil
}

func (stubCommentsService) ListComments(ctx context.Context, input comments.ListCommentsInput) (*comments.CommentList, error) {
	return &comments.CommentList{}, nil
}

func (stubCommentsService) UpdateComment(ctx context.Context, id uuid.UUID, input comments.UpdateCommentInput) (*comments.CommentDTO, error) {
	return &comments.CommentDTO{ID: id}, nil
}

func (stubCommentsService) DeleteComment(ctx context.Context, id uuid.UUID) error { return nil }

type stubCartService struct{}

func (stubCartService) CreateCart(ctx context.Context) (*cartsvc.CartDTO, error) {
	return &cartsvc.CartDTO{ID: uuid.New()}, nil
}

func (stubCartService) GetCart(ctx context.Context, id uuid.UUID) (*cartsvc.CartDTO, error) {
	return &cartsvc.CartDTO{ID: id}, nil
}

func (stubCartService) DeleteCart(ctx context.Context, id uuid.UUID) error { return nil }

func (stubCartService) AddItem(ctx context.Context, cartID uuid.UUID, input cartsvc.AddItemInput) (*cartsvc.CartDTO, error) {
	return &cartsvc.CartDTO{ID: cartID}, nil
}

func (stubCartService) UpdateItem(ctx context.Context, cartID, itemID uuid.UUID, input cartsvc.UpdateItemInput) (*cartsvc.CartDTO, error) {
	return &cartsvc.CartDTO{ID: cartID}, nil
}

func (stubCartService) RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) (*cartsvc.CartDTO, error) {
	return &cartsvc.CartDTO{ID: cartID}, nil
}

type stubCustomersService struct{}

func (stubCustomersService) GetProfile(ctx context.Context, userID uuid.UUID) (*customers.CustomerDTO, error) {
	return &customers.CustomerDTO{UserID: userID}, nil
}

func (stubCustomersService) UpdateProfile(ctx context.Context, userID uuid.UUID, input customers.UpdateProfileInput) (*customers.CustomerDTO, error) {
	return &customers.CustomerDTO{UserID: userID}, nil
}

func (stubCustomersService) GetCustomer(ctx context.Context, id uuid.UUID) (*customers.CustomerDTO, error) {
	return &customers.CustomerDTO{ID: id}, nil
}

func (stubCustomersService) ListCustomers(ctx context.Context, input customers.ListCustomersInput) (*customers.CustomerList, error) {
	return &customers.CustomerList{}, nil
}

func (stubCustomersService) UpdateCustomer(ctx context.Context, id uuid.UUID, input customers.UpdateCustomerInput) (*customers.CustomerDTO, error) {
	return &customers.CustomerDTO{ID: id}, nil
}

type stubOrdersService struct{}

func (stubOrdersService) Checkout(ctx context.Context, actor orders.Actor, input orders.CheckoutInput) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{}, nil
}

func (stubOrdersService) GetOrder(ctx context.Context, actor orders.Actor, id uuid.UUID) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{ID: id}, nil
}

func (stubOrdersService) ListOrders(ctx context.Context, actor orders.Actor, input orders.ListOrdersInput) (*orders.OrderList, error) {
	return &orders.OrderList{}, nil
}

func (stubOrdersService) UpdateOrderStatus(ctx context.Context, actor orders.Actor, id uuid.UUID, input orders.UpdateOrderInput) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{ID: id}, nil
}

func (stubOrdersService) DeleteOrder(ctx context.Context, actor orders.Actor, id uuid.UUID) error {
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "issuer",
			ExpirationMinutes: 60,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(
		cfg,
		logg,
		stubPinger{},
		(*redis.Client)(nil),
		stubAuthService{},
		stubCatalogService{},
		stubCommentsService{},
		stubCartService{},
		stubCustomersService{},
		stubOrdersService{},
	)
}

func buildToken(t *testing.T, cfg *config.Config, role enums.UserRole) string {
	t.Helper()
	customerID := uuid.New()
	payload := pkgauth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
	}
	if role == enums.UserRoleCustomer {
		payload.CustomerID = &customerID
	}
	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now(), payload)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestPublicCatalogNeedsNoToken(t *testing.T) {
	router := newTestRouter(testConfig())

	for _, path := range []string{"/api/v1/products", "/api/v1/categories"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 for %s got %d", path, resp.Code)
		}
	}
}

func TestOrdersRequireToken(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestCatalogWritesRequireAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	target := "/api/v1/categories/" + uuid.NewString()

	nonAdmin := httptest.NewRequest(http.MethodDelete, target, nil)
	nonAdmin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, nonAdmin)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodDelete, target, nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for admin got %d", resp.Code)
	}
}

func TestCustomerProfileRoute(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/customers/me", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestAdminCustomerDirectoryRequiresAdmin(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/customers/", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin got %d", resp.Code)
	}
}

func TestAnonymousCartRoutes(t *testing.T) {
	router := newTestRouter(testConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/carts/"+uuid.NewString(), nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}
