package httpserver

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"storefront/internal/domain"
	"storefront/internal/logging"
	"storefront/internal/service/session"
)

type sessionService interface {
	Issue(ctx context.Context) (token, sessionID string, err error)
	LookupByToken(ctx context.Context, token string) (string, error)
	TTLSeconds() int
}

type workspaceProvider interface {
	Get(ctx context.Context, sessionID string) *session.Workspace
}

type productService interface {
	Get(ctx context.Context, id int) (*domain.Product, error)
}

type categoryService interface {
	List(ctx context.Context) ([]domain.Category, error)
	Resolve(ctx context.Context, slug string) (*domain.Category, error)
}

// Deps are the services the router dispatches to.
type Deps struct {
	Sessions    sessionService
	Workspaces  workspaceProvider
	ProductSvc  productService
	CategorySvc categoryService
	// Ready checks durable storage; nil means in-memory storage.
	Ready       func(ctx context.Context) error
	CORSOrigins []string
}

const sessionCtxKey = "session"

// buildRouter wires routes for the API.
func buildRouter(logger *zap.Logger, deps Deps) (*gin.Engine, error) {
	if deps.Sessions == nil || deps.Workspaces == nil || deps.ProductSvc == nil || deps.CategorySvc == nil {
		return nil, errors.New("httpserver: missing dependencies")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.LoggerWithWriter(logging.StdLog(logger).Writer()), gin.Recovery())
	router.Use(cors.New(corsConfig(deps.CORSOrigins)))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(deps.Ready))

	h := &handlers{deps: deps, logger: logger}
	router.POST("/sessions", h.issueSession)
	router.GET("/categories", h.listCategories)

	scoped := router.Group("/", sessionMiddleware(deps.Sessions))
	scoped.GET("/products", h.listProducts)
	scoped.POST("/products/reset", h.resetProducts)
	scoped.POST("/products/more", h.loadMoreProducts)
	scoped.POST("/products/refetch", h.refetchProducts)
	scoped.GET("/products/:id", h.getProduct)

	scoped.GET("/cart", h.getCart)
	scoped.DELETE("/cart", h.clearCart)
	scoped.POST("/cart/lines", h.addLine)
	scoped.GET("/cart/lines/:id", h.getLine)
	scoped.PUT("/cart/lines/:id", h.updateLine)
	scoped.DELETE("/cart/lines/:id", h.removeLine)

	return router, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Authorization", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if strings.TrimSpace(o) == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	cfg.AllowOrigins = origins
	if len(cfg.AllowOrigins) == 0 {
		cfg.AllowAllOrigins = true
	}
	return cfg
}

// sessionMiddleware resolves the bearer token to a session id. Requests
// without a token use the default session.
func sessionMiddleware(svc sessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := session.DefaultID
		if header := strings.TrimSpace(c.GetHeader("Authorization")); header != "" {
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "malformed authorization header"})
				return
			}
			id, err := svc.LookupByToken(c.Request.Context(), strings.TrimSpace(token))
			if err != nil {
				if errors.Is(err, session.ErrInvalidToken) {
					c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
					return
				}
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "session lookup failed"})
				return
			}
			sessionID = id
		}
		c.Set(sessionCtxKey, sessionID)
		c.Next()
	}
}

func sessionFrom(c *gin.Context) string {
	return c.GetString(sessionCtxKey)
}
