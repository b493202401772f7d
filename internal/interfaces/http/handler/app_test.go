package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	blogapp "github.com/shopfront/backend/internal/application/blog"
	cartapp "github.com/shopfront/backend/internal/application/cart"
	catalogapp "github.com/shopfront/backend/internal/application/catalog"
	identityapp "github.com/shopfront/backend/internal/application/identity"
	inventoryapp "github.com/shopfront/backend/internal/application/inventory"
	orderapp "github.com/shopfront/backend/internal/application/order"
	promotionapp "github.com/shopfront/backend/internal/application/promotion"
	"github.com/shopfront/backend/internal/infrastructure/auth"
	"github.com/shopfront/backend/internal/infrastructure/cache"
	"github.com/shopfront/backend/internal/infrastructure/config"
	"github.com/shopfront/backend/internal/infrastructure/event"
	"github.com/shopfront/backend/internal/infrastructure/i18n"
	"github.com/shopfront/backend/internal/infrastructure/persistence"
	"github.com/shopfront/backend/internal/interfaces/http/handler"
	"github.com/shopfront/backend/internal/interfaces/http/middleware"
	"github.com/shopfront/backend/internal/interfaces/http/router"
	"github.com/shopfront/backend/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/text/language"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// testApp is the shop API over a throwaway sqlite database
type testApp struct {
	t        *testing.T
	engine   *gin.Engine
	users    *persistence.GormUserRepository
	authSvc  *identityapp.AuthService
	counter  int
	staffTok string
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db, err := persistence.NewDatabase(&config.DatabaseConfig{
		Driver:       "sqlite",
		Path:         filepath.Join(t.TempDir(), "shop.db"),
		MaxOpenConns: 4,
		MaxIdleConns: 2,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.AutoMigrate())

	log := zap.NewNop()
	userRepo := persistence.NewGormUserRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	ledger := inventoryapp.NewLedgerService(persistence.NewGormInventoryRepository(db.DB), txScope)
	bus := event.NewInMemoryEventBus(log)
	bus.Subscribe(inventoryapp.NewProductCreatedHandler(ledger, log))

	productSvc := catalogapp.NewProductService(productRepo, categoryRepo, persistence.NewGormProductMediaRepository(db.DB), ledger)
	productSvc.SetEventPublisher(bus)

	idempotency := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = idempotency.Close() })
	orderSvc := orderapp.NewOrderService(txScope, persistence.NewGormOrderRepository(db.DB), productRepo, userRepo)
	orderSvc.SetStockNotifier(ledger)
	orderSvc.SetIdempotencyStore(idempotency, time.Hour)

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "handler-test-secret-at-least-32-chars",
		RefreshSecret:          "handler-test-refresh-secret-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "shop-test",
		MaxRefreshCount:        5,
	})
	blacklist := auth.NewInMemoryTokenBlacklist()
	authSvc := identityapp.NewAuthService(userRepo, jwtService, blacklist, log)

	engine := gin.New()
	engine.Use(middleware.RequestID(), middleware.Locale(i18n.NewTranslator(), language.French))

	jwtCfg := middleware.JWTMiddlewareConfig{JWTService: jwtService, TokenBlacklist: blacklist, Logger: log}
	handlers := router.Handlers{
		Auth:      handler.NewAuthHandler(authSvc),
		Category:  handler.NewCategoryHandler(catalogapp.NewCategoryService(categoryRepo)),
		Product:   handler.NewProductHandler(productSvc),
		Cart:      handler.NewCartHandler(cartapp.NewCartService(persistence.NewGormCartRepository(db.DB), productRepo, ledger)),
		Order:     handler.NewOrderHandler(orderSvc),
		Inventory: handler.NewInventoryHandler(ledger),
		Promotion: handler.NewPromotionHandler(promotionapp.NewPromotionService(persistence.NewGormPromotionRepository(db.DB))),
		Blog:      handler.NewBlogHandler(blogapp.NewBlogService(persistence.NewGormPostRepository(db.DB))),
		System:    handler.NewSystemHandler("shop", "test", db),
	}
	guards := router.Guards{
		Optional: middleware.OptionalJWTAuthMiddleware(jwtCfg),
		Required: middleware.JWTAuthMiddlewareWithConfig(jwtCfg),
		Staff:    middleware.RequireStaff(),
	}
	router.NewRouter(engine).Register(router.ShopRoutes(handlers, guards)...).Setup()

	return &testApp{t: t, engine: engine, users: userRepo, authSvc: authSvc}
}

// do sends a request to /api/v1 + path. body is JSON encoded unless nil.
func (a *testApp) do(method, path, token string, body any, opts ...testutil.RequestOption) *httptest.ResponseRecorder {
	a.t.Helper()
	opts = append([]testutil.RequestOption{testutil.WithBearer(token)}, opts...)
	return testutil.Serve(a.t, a.engine, method, "/api/v1"+path, body, opts...)
}

// customer registers a new customer and returns its access token and id
func (a *testApp) customer() (string, uuid.UUID) {
	a.t.Helper()

	a.counter++
	name := "customer" + string(rune('a'+a.counter))
	resp, err := a.authSvc.Register(context.Background(), identityapp.RegisterRequest{
		Username:        name,
		Email:           name + "@example.com",
		Password:        "s3cretpass",
		PasswordConfirm: "s3cretpass",
		Phone:           "0600000000",
	})
	require.NoError(a.t, err)
	return resp.Token.AccessToken, resp.User.ID
}

// staff returns the token of a staff account, created on first use
func (a *testApp) staff() string {
	a.t.Helper()
	if a.staffTok != "" {
		return a.staffTok
	}

	ctx := context.Background()
	resp, err := a.authSvc.Register(ctx, identityapp.RegisterRequest{
		Username:        "admin",
		Email:           "admin@example.com",
		Password:        "adminpass1",
		PasswordConfirm: "adminpass1",
	})
	require.NoError(a.t, err)

	user, err := a.users.FindByID(ctx, resp.User.ID)
	require.NoError(a.t, err)
	user.PromoteToStaff()
	require.NoError(a.t, a.users.Update(ctx, user))

	login, err := a.authSvc.Login(ctx, identityapp.LoginRequest{Username: "admin", Password: "adminpass1"})
	require.NoError(a.t, err)
	a.staffTok = login.Token.AccessToken
	return a.staffTok
}

// createProduct creates a category and a product priced at price with stock units on hand
func (a *testApp) createProduct(name, price string, stock int) catalogapp.ProductResponse {
	a.t.Helper()

	w := a.do(http.MethodPost, "/catalog/categories", a.staff(), map[string]any{"name": name + " category"})
	testutil.RequireStatus(a.t, w, http.StatusCreated)
	category := testutil.Data[catalogapp.CategoryResponse](a.t, w)

	w = a.do(http.MethodPost, "/catalog/products", a.staff(), map[string]any{
		"name":        name,
		"price":       price,
		"category_id": category.ID,
	})
	testutil.RequireStatus(a.t, w, http.StatusCreated)
	product := testutil.Data[catalogapp.ProductResponse](a.t, w)

	if stock > 0 {
		w = a.do(http.MethodPost, "/inventory/"+product.ID.String()+"/adjust", a.staff(), map[string]any{
			"delta":  stock,
			"reason": "restock",
		})
		testutil.RequireStatus(a.t, w, http.StatusOK)
	}
	return product
}

func (a *testApp) stock(productID uuid.UUID) int {
	a.t.Helper()
	w := a.do(http.MethodGet, "/inventory/"+productID.String(), a.staff(), nil)
	testutil.RequireStatus(a.t, w, http.StatusOK)
	return testutil.Data[inventoryapp.InventoryResponse](a.t, w).Quantity
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
