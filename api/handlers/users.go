package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/kutbudev/foodgram/api/middleware"
	"github.com/kutbudev/foodgram/internal/auth"
	"github.com/kutbudev/foodgram/pkg/models"
	"github.com/kutbudev/foodgram/pkg/repository"
)

// RegisterInput DTO for creating an account
type RegisterInput struct {
	Email     string `json:"email" binding:"required,email,max=254"`
	Username  string `json:"username" binding:"required,max=150,username"`
	FirstName string `json:"first_name" binding:"required,max=150"`
	LastName  string `json:"last_name" binding:"required,max=150"`
	Password  string `json:"password" binding:"required,max=128"`
}

// UpdateProfileInput DTO for PUT/PATCH /users/me
type UpdateProfileInput struct {
	Email     *string `json:"email" binding:"omitempty,email,max=254"`
	Username  *string `json:"username" binding:"omitempty,max=150,username"`
	FirstName *string `json:"first_name" binding:"omitempty,max=150"`
	LastName  *string `json:"last_name" binding:"omitempty,max=150"`
}

// SetPasswordInput DTO for changing the password
type SetPasswordInput struct {
	NewPassword     string `json:"new_password" binding:"required,max=128"`
	CurrentPassword string `json:"current_password" binding:"required"`
}

// DeleteAccountInput DTO for deleting the caller's account
type DeleteAccountInput struct {
	CurrentPassword string `json:"current_password" binding:"required"`
}

// ListUsers returns a page of users.
func (h *Handler) ListUsers(c *gin.Context) {
	ctx := c.Request.Context()
	page := h.pageParams(c)

	users, total, err := h.users.List(ctx, page)
	if err != nil {
		h.fail(c, err)
		return
	}
	results, err := h.userResponses(ctx, middleware.ViewerID(c), users)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newPage(c, page, total, results))
}

// CreateUser registers a new account.
func (h *Handler) CreateUser(c *gin.Context) {
	var input RegisterInput
	if !h.bindJSON(c, &input) {
		return
	}
	ctx := c.Request.Context()

	problems := fieldErrors{}
	for _, err := range auth.ValidatePassword(input.Password, input.Email, input.Username, input.FirstName, input.LastName) {
		problems.add("password", err.Error())
	}
	if err := h.checkTaken(c, problems, input.Email, input.Username, 0); err != nil {
		h.fail(c, err)
		return
	}
	if len(problems) > 0 {
		c.JSON(http.StatusBadRequest, problems)
		return
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		h.fail(c, err)
		return
	}

	user := models.User{
		Email:     input.Email,
		Username:  input.Username,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Password:  hash,
	}
	if err := h.users.Create(ctx, &user); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			c.JSON(http.StatusBadRequest, fieldErrors{"non_field_errors": {"A user with that email or username already exists."}})
			return
		}
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, UserCreatedResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	})
}

// GetUser retrieves a single user by id.
func (h *Handler) GetUser(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	user, err := h.users.GetByID(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	subscribed, err := h.users.IsSubscribed(ctx, middleware.ViewerID(c), user.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(user, subscribed))
}

// Me returns the caller's own profile.
func (h *Handler) Me(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	c.JSON(http.StatusOK, newUserResponse(user, false))
}

// UpdateMe edits the caller's profile. PUT needs every field, PATCH any subset.
func (h *Handler) UpdateMe(c *gin.Context) {
	var input UpdateProfileInput
	if !h.bindJSON(c, &input) {
		return
	}
	if c.Request.Method == http.MethodPut {
		missing := fieldErrors{}
		for field, v := range map[string]*string{
			"email": input.Email, "username": input.Username,
			"first_name": input.FirstName, "last_name": input.LastName,
		} {
			if v == nil || *v == "" {
				missing.add(field, "This field is required.")
			}
		}
		if len(missing) > 0 {
			c.JSON(http.StatusBadRequest, missing)
			return
		}
	}

	current, _ := middleware.CurrentUser(c)
	user := *current
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.Username != nil {
		user.Username = *input.Username
	}
	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}

	problems := fieldErrors{}
	if err := h.checkTaken(c, problems, user.Email, user.Username, user.ID); err != nil {
		h.fail(c, err)
		return
	}
	if len(problems) > 0 {
		c.JSON(http.StatusBadRequest, problems)
		return
	}

	if err := h.users.UpdateProfile(c.Request.Context(), &user); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newUserResponse(&user, false))
}

// DeleteMe removes the caller's account and everything it owns.
func (h *Handler) DeleteMe(c *gin.Context) {
	var input DeleteAccountInput
	if !h.bindJSON(c, &input) {
		return
	}
	user, _ := middleware.CurrentUser(c)
	if !auth.CheckPassword(input.CurrentPassword, user.Password) {
		c.JSON(http.StatusBadRequest, fieldErrors{"current_password": {"Invalid password."}})
		return
	}

	if err := h.users.Delete(c.Request.Context(), user.ID); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SetPassword changes the caller's password after checking the current one.
func (h *Handler) SetPassword(c *gin.Context) {
	var input SetPasswordInput
	if !h.bindJSON(c, &input) {
		return
	}
	user, _ := middleware.CurrentUser(c)

	problems := fieldErrors{}
	if !auth.CheckPassword(input.CurrentPassword, user.Password) {
		problems.add("current_password", "Invalid password.")
	}
	for _, err := range auth.ValidatePassword(input.NewPassword, user.Email, user.Username, user.FirstName, user.LastName) {
		problems.add("new_password", err.Error())
	}
	if len(problems) > 0 {
		c.JSON(http.StatusBadRequest, problems)
		return
	}

	hash, err := auth.HashPassword(input.NewPassword)
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.users.SetPassword(c.Request.Context(), user.ID, hash); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Subscriptions lists the authors the caller follows.
func (h *Handler) Subscriptions(c *gin.Context) {
	limit, ok := recipesLimit(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	user, _ := middleware.CurrentUser(c)
	page := h.pageParams(c)

	authors, total, err := h.users.Subscriptions(ctx, user.ID, page)
	if err != nil {
		h.fail(c, err)
		return
	}
	results, err := h.subscriptionResponses(ctx, authors, limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, newPage(c, page, total, results))
}

// Subscribe makes the caller follow the user in the path.
func (h *Handler) Subscribe(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	limit, ok := recipesLimit(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	subscriber, _ := middleware.CurrentUser(c)

	target, err := h.users.GetByID(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}

	if _, err := h.users.Subscribe(ctx, target.ID, subscriber.ID); err != nil {
		switch {
		case errors.Is(err, repository.ErrSelfSubscription):
			badRequest(c, "cannot subscribe to yourself")
		case errors.Is(err, repository.ErrAlreadyExists):
			badRequest(c, "you are already subscribed to this user")
		default:
			h.fail(c, err)
		}
		return
	}

	out, err := h.subscriptionResponses(ctx, []models.User{*target}, limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, out[0])
}

// Unsubscribe stops the caller following the user in the path.
func (h *Handler) Unsubscribe(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()
	subscriber, _ := middleware.CurrentUser(c)

	target, err := h.users.GetByID(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.users.Unsubscribe(ctx, target.ID, subscriber.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			badRequest(c, "you are not subscribed to this user")
			return
		}
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) checkTaken(c *gin.Context, problems fieldErrors, email, username string, exceptID uint) error {
	emailTaken, usernameTaken, err := h.users.Taken(c.Request.Context(), email, username, exceptID)
	if err != nil {
		return err
	}
	if emailTaken {
		problems.add("email", "A user with that email already exists.")
	}
	if usernameTaken {
		problems.add("username", "A user with that username already exists.")
	}
	return nil
}

// recipesLimit parses ?recipes_limit=; 0 means no limit.
func recipesLimit(c *gin.Context) (int, bool) {
	raw := c.Query("recipes_limit")
	if raw == "" {
		return 0, true
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		c.JSON(http.StatusBadRequest, fieldErrors{"recipes_limit": {"A valid non-negative integer is required."}})
		return 0, false
	}
	return limit, true
}
