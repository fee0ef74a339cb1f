package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kutbudev/foodgram/api/middleware"
	"github.com/kutbudev/foodgram/internal/auth"
	"github.com/kutbudev/foodgram/pkg/models"
	"github.com/kutbudev/foodgram/pkg/repository"
)

// LoginInput DTO for obtaining a token
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login exchanges credentials for an auth token.
func (h *Handler) Login(c *gin.Context) {
	var input LoginInput
	if !h.bindJSON(c, &input) {
		return
	}
	ctx := c.Request.Context()

	user, err := h.users.GetByEmail(ctx, input.Email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		h.fail(c, err)
		return
	}
	if user == nil || !auth.CheckPassword(input.Password, user.Password) {
		c.JSON(http.StatusBadRequest, fieldErrors{"non_field_errors": {"Unable to log in with provided credentials."}})
		return
	}

	signed, claims, err := h.issuer.Issue(user.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	err = h.tokens.Create(ctx, &models.AuthToken{
		ID:        claims.TokenID,
		UserID:    user.ID,
		ExpiresAt: claims.Expires,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"auth_token": signed})
}

// Logout revokes the token used for the request.
func (h *Handler) Logout(c *gin.Context) {
	if err := h.tokens.Delete(c.Request.Context(), middleware.TokenID(c)); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
