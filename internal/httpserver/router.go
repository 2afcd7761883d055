package httpserver

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"runtime/debug"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"shoppyglobe/internal/domain"
	productrepo "shoppyglobe/internal/repository/product"
	authsvc "shoppyglobe/internal/service/auth"
)

// AuthService covers registration, login, and bearer-token resolution.
type AuthService interface {
	Register(ctx context.Context, in authsvc.RegisterInput) (*domain.User, string, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	UserFromToken(ctx context.Context, token string) (*domain.User, error)
}

// CartService applies cart mutations scoped to the authenticated user.
type CartService interface {
	Get(ctx context.Context, userID string) (*domain.Cart, error)
	Add(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error)
	UpdateItem(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, userID, productID string) (*domain.Cart, error)
}

// ProductService exposes catalog CRUD.
type ProductService interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, p domain.Product) (*domain.Product, error)
	Update(ctx context.Context, id string, in productrepo.UpdateInput) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
}

// Deps carries the services the router dispatches to.
type Deps struct {
	AuthSvc    AuthService
	CartSvc    CartService
	ProductSvc ProductService
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps, production bool) (*gin.Engine, error) {
	if deps.AuthSvc == nil || deps.CartSvc == nil || deps.ProductSvc == nil {
		return nil, errors.New("httpserver: missing service dependency")
	}

	if production {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(
		requestID(),
		gin.LoggerWithWriter(logger.Writer()),
		recovery(logger, production),
		cors.Default(),
	)

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Welcome to the ShoppyGlobe API 🚀"})
	})
	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	h := &handlers{logger: logger, auth: deps.AuthSvc, carts: deps.CartSvc, products: deps.ProductSvc}

	router.POST("/register", h.register)
	router.POST("/login", h.login)

	products := router.Group("/products")
	{
		products.GET("", h.listProducts)
		products.POST("", h.createProduct)
		products.GET("/:id", h.getProduct)
		products.PUT("/:id", h.updateProduct)
		products.DELETE("/:id", h.deleteProduct)
	}

	cart := router.Group("/cart")
	cart.Use(requireAuth(deps.AuthSvc))
	{
		cart.GET("", h.getCart)
		cart.POST("", h.addToCart)
		cart.PUT("/:productId", h.updateCartItem)
		cart.DELETE("/:productId", h.removeCartItem)
	}

	// Unmatched routes go through the centralized error shape.
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": fmt.Sprintf("Route %s not found", c.Request.URL.Path)})
	})

	return router, nil
}

// recovery turns panics into 500 responses, attaching the stack trace only
// outside production mode.
func recovery(logger *log.Logger, production bool) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(logger.Writer(), func(c *gin.Context, recovered interface{}) {
		body := gin.H{"message": fmt.Sprint(recovered)}
		if !production {
			body["stack"] = string(debug.Stack())
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, body)
	})
}
