package httpserver

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"productdesk/internal/domain"
	"productdesk/internal/inertia"
)

// ProductService is the product surface the handlers depend on.
type ProductService interface {
	List(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	Create(ctx context.Context, in domain.ProductInput) (*domain.Product, error)
	Update(ctx context.Context, id int64, in domain.ProductInput) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
}

// AuthService covers login and session state.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*domain.User, error)
	Start(ctx context.Context) (*domain.Session, error)
	Load(ctx context.Context, id string) (*domain.Session, error)
	Save(ctx context.Context, sess *domain.Session) error
	Regenerate(ctx context.Context, old *domain.Session, userID *int64, remember bool) (*domain.Session, error)
	Destroy(ctx context.Context, id string) error
	CurrentUser(ctx context.Context, sess *domain.Session) (*domain.User, error)
}

// Deps carries the collaborators the router wires into handlers.
type Deps struct {
	ProductSvc   ProductService
	AuthSvc      AuthService
	Renderer     *inertia.Renderer
	CORSOrigins  []string
	SecureCookie bool
}

func (d Deps) validate() error {
	if d.ProductSvc == nil {
		return errors.New("product service required")
	}
	if d.AuthSvc == nil {
		return errors.New("auth service required")
	}
	if d.Renderer == nil {
		return errors.New("renderer required")
	}
	return nil
}

// buildRouter wires routes for the application. The returned handler applies
// method overrides before gin picks a route.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) (http.Handler, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(requestID(), gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	if len(deps.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     deps.CORSOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Requested-With", inertia.HeaderInertia, inertia.HeaderVersion, inertia.HeaderPartialComponent, inertia.HeaderPartialData},
			ExposeHeaders:    []string{inertia.HeaderInertia, inertia.HeaderLocation, requestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	h := &handlers{
		products: deps.ProductSvc,
		auth:     deps.AuthSvc,
		render:   deps.Renderer,
		logger:   logger,
		secure:   deps.SecureCookie,
	}

	web := router.Group("/", h.session(), deps.Renderer.Middleware())
	web.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, "/products") })
	web.GET("/login", h.guestOnly(), h.loginForm)
	web.POST("/login", h.guestOnly(), h.login)

	authed := web.Group("/", h.requireUser())
	authed.POST("/logout", h.logout)

	products := authed.Group("/products")
	products.GET("", h.listProducts)
	products.GET("/new", h.newProductForm)
	products.POST("", h.storeProduct)
	products.GET("/:id", h.showProduct)
	products.GET("/:id/edit", h.editProductForm)
	products.PUT("/:id", h.updateProduct)
	products.PATCH("/:id", h.updateProduct)
	products.DELETE("/:id", h.deleteProduct)

	return methodOverride(router), nil
}
