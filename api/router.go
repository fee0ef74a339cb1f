// Package api assembles the gin engine and the HTTP server.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
	"github.com/kutbudev/foodgram/api/handlers"
	"github.com/kutbudev/foodgram/api/middleware"
	"github.com/kutbudev/foodgram/internal/auth"
	"github.com/kutbudev/foodgram/internal/media"
	"github.com/kutbudev/foodgram/pkg/config"
	"github.com/kutbudev/foodgram/pkg/repository"
	"go.uber.org/zap"
)

// Dependencies are the collaborators the router needs.
type Dependencies struct {
	Database *repository.Database
	Issuer   *auth.TokenIssuer
	Media    media.Store
	Logger   *zap.Logger
}

// NewRouter registers every route under /api.
func NewRouter(cfg *config.Config, deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(deps.Logger))

	h := handlers.New(deps.Database.DB, deps.Issuer, deps.Media, deps.Logger, handlers.Options{
		PageSize:    cfg.Pagination.PageSize,
		MaxPageSize: cfg.Pagination.MaxPageSize,
	})

	// Ping endpoint for health check
	r.GET("/ping", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := deps.Database.Health(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"message": "database unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	if cfg.Media.Driver == "" || cfg.Media.Driver == "local" {
		r.Static("/media", cfg.Media.Root)
	}

	requireAuth := middleware.RequireAuth()
	api := r.Group("/api", middleware.Authenticate(deps.Issuer, h.Tokens(), h.Users()))
	{
		api.POST("/auth/token/login", h.Login)
		api.POST("/auth/token/logout", requireAuth, h.Logout)

		// User routes
		api.GET("/users", h.ListUsers)
		api.POST("/users", h.CreateUser)
		api.GET("/users/me", requireAuth, h.Me)
		api.PUT("/users/me", requireAuth, h.UpdateMe)
		api.PATCH("/users/me", requireAuth, h.UpdateMe)
		api.DELETE("/users/me", requireAuth, h.DeleteMe)
		api.POST("/users/set_password", requireAuth, h.SetPassword)
		api.GET("/users/subscriptions", requireAuth, h.Subscriptions)
		api.GET("/users/:id", h.GetUser)
		api.POST("/users/:id/subscribe", requireAuth, h.Subscribe)
		api.DELETE("/users/:id/subscribe", requireAuth, h.Unsubscribe)

		// Catalog routes
		api.GET("/tags", h.ListTags)
		api.GET("/tags/:id", h.GetTag)
		api.GET("/ingredients", h.ListIngredients)
		api.GET("/ingredients/:id", h.GetIngredient)

		// Recipe routes
		api.GET("/recipes", h.ListRecipes)
		api.POST("/recipes", requireAuth, h.CreateRecipe)
		api.GET("/recipes/download_shopping_cart", requireAuth, h.DownloadShoppingCart)
		api.GET("/recipes/:id", h.GetRecipe)
		api.PUT("/recipes/:id", requireAuth, h.UpdateRecipe)
		api.PATCH("/recipes/:id", requireAuth, h.UpdateRecipe)
		api.DELETE("/recipes/:id", requireAuth, h.DeleteRecipe)
		api.POST("/recipes/:id/favorite", requireAuth, h.AddFavorite)
		api.DELETE("/recipes/:id/favorite", requireAuth, h.RemoveFavorite)
		api.POST("/recipes/:id/shopping_cart", requireAuth, h.AddToCart)
		api.DELETE("/recipes/:id/shopping_cart", requireAuth, h.RemoveFromCart)
	}

	return r
}

// NewServer wraps the router with CORS and returns an http.Server bound to
// the configured address.
func NewServer(cfg *config.Config, deps Dependencies) *http.Server {
	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{"Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	})

	return &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           corsHandler(NewRouter(cfg, deps)),
		ReadHeaderTimeout: 10 * time.Second,
	}
}
