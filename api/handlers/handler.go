// Package handlers implements the REST endpoints of the API server.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kutbudev/foodgram/internal/auth"
	"github.com/kutbudev/foodgram/internal/media"
	"github.com/kutbudev/foodgram/pkg/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Options carry the tunables of the handlers.
type Options struct {
	PageSize    int
	MaxPageSize int
}

// Handler serves every API resource.
type Handler struct {
	users      *repository.UserRepository
	tokens     *repository.TokenRepository
	catalog    *repository.CatalogRepository
	recipes    *repository.RecipeRepository
	engagement *repository.EngagementRepository

	issuer *auth.TokenIssuer
	media  media.Store
	log    *zap.Logger

	pageSize    int
	maxPageSize int
}

// New wires the repositories over db into a Handler.
func New(db *gorm.DB, issuer *auth.TokenIssuer, store media.Store, log *zap.Logger, opts Options) *Handler {
	RegisterValidators()

	if opts.PageSize <= 0 {
		opts.PageSize = 6
	}
	if opts.MaxPageSize < opts.PageSize {
		opts.MaxPageSize = opts.PageSize
	}
	return &Handler{
		users:       repository.NewUserRepository(db),
		tokens:      repository.NewTokenRepository(db),
		catalog:     repository.NewCatalogRepository(db),
		recipes:     repository.NewRecipeRepository(db),
		engagement:  repository.NewEngagementRepository(db),
		issuer:      issuer,
		media:       store,
		log:         log,
		pageSize:    opts.PageSize,
		maxPageSize: opts.MaxPageSize,
	}
}

// Users exposes the user repository to the authentication middleware.
func (h *Handler) Users() *repository.UserRepository { return h.users }

// Tokens exposes the token repository to the authentication middleware.
func (h *Handler) Tokens() *repository.TokenRepository { return h.tokens }

// parseID reads a numeric path parameter. Anything else is answered with 404.
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return 0, false
	}
	return uint(id), true
}
