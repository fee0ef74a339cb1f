package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/kutbudev/foodgram/internal/config"
	"github.com/kutbudev/foodgram/internal/credentials"
	"github.com/kutbudev/foodgram/internal/models"
)

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Token      string
}

// NewClient builds a client from the CLI config and the stored token.
func NewClient() *Client {
	cfg, err := config.LoadConfig()
	if err != nil {
		cfg = &config.Config{}
	}
	token, _ := credentials.Token()
	return NewClientWithURL(cfg.ResolveAPIURL(), token)
}

// NewClientWithURL creates a client for baseURL, e.g. http://localhost:8080/api.
func NewClientWithURL(baseURL, token string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// APIError is a non-2xx response.
type APIError struct {
	StatusCode int
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API request failed with status %d: %s", e.StatusCode, e.Message())
}

// Message extracts a readable message from the error body shapes the API uses:
// {"detail": "..."}, {"errors": "..."} and {"field": ["..."]}.
func (e *APIError) Message() string {
	var body map[string]json.RawMessage
	if err := json.Unmarshal(e.Body, &body); err != nil || len(body) == 0 {
		return strings.TrimSpace(string(e.Body))
	}
	for _, key := range []string{"detail", "errors"} {
		var s string
		if raw, ok := body[key]; ok && json.Unmarshal(raw, &s) == nil {
			return s
		}
	}

	keys := make([]string, 0, len(body))
	for k := range body {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var parts []string
	for _, k := range keys {
		var msgs []string
		if err := json.Unmarshal(body[k], &msgs); err == nil {
			parts = append(parts, k+": "+strings.Join(msgs, " "))
		}
	}
	if len(parts) == 0 {
		return strings.TrimSpace(string(e.Body))
	}
	return strings.Join(parts, "; ")
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

// makeRequest makes an HTTP request and returns the response body
func (c *Client) makeRequest(ctx context.Context, method, endpoint string, body interface{}) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Token "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: respBody}
	}

	return respBody, nil
}

func getJSON[T any](ctx context.Context, c *Client, endpoint string) (T, error) {
	var out T
	respBody, err := c.makeRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(respBody, &out); err != nil {
		return out, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return out, nil
}

// Auth API methods

// Login exchanges credentials for a token and keeps it on the client.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	respBody, err := c.makeRequest(ctx, http.MethodPost, "/auth/token/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return "", err
	}

	var resp struct {
		AuthToken string `json:"auth_token"`
	}
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return "", fmt.Errorf("failed to unmarshal login response: %w", err)
	}
	if resp.AuthToken == "" {
		return "", errors.New("login response did not contain a token")
	}
	c.Token = resp.AuthToken
	return resp.AuthToken, nil
}

func (c *Client) Logout(ctx context.Context) error {
	_, err := c.makeRequest(ctx, http.MethodPost, "/auth/token/logout", nil)
	return err
}

// User API methods

func (c *Client) Me(ctx context.Context) (*models.User, error) {
	u, err := getJSON[models.User](ctx, c, "/users/me")
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// SubscriptionOptions narrows the subscriptions listing.
type SubscriptionOptions struct {
	Page         int
	Limit        int
	RecipesLimit int
}

func (c *Client) Subscriptions(ctx context.Context, opts SubscriptionOptions) (*models.Page[models.Subscription], error) {
	q := url.Values{}
	setInt(q, "page", opts.Page)
	setInt(q, "limit", opts.Limit)
	setInt(q, "recipes_limit", opts.RecipesLimit)

	page, err := getJSON[models.Page[models.Subscription]](ctx, c, "/users/subscriptions"+encode(q))
	if err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) Subscribe(ctx context.Context, userID uint) (*models.Subscription, error) {
	respBody, err := c.makeRequest(ctx, http.MethodPost, fmt.Sprintf("/users/%d/subscribe", userID), nil)
	if err != nil {
		return nil, err
	}
	var sub models.Subscription
	if err := json.Unmarshal(respBody, &sub); err != nil {
		return nil, fmt.Errorf("failed to unmarshal subscription: %w", err)
	}
	return &sub, nil
}

func (c *Client) Unsubscribe(ctx context.Context, userID uint) error {
	_, err := c.makeRequest(ctx, http.MethodDelete, fmt.Sprintf("/users/%d/subscribe", userID), nil)
	return err
}

// Catalog API methods

func (c *Client) ListTags(ctx context.Context) ([]models.Tag, error) {
	return getJSON[[]models.Tag](ctx, c, "/tags")
}

// ListIngredients returns ingredients whose name starts with prefix.
func (c *Client) ListIngredients(ctx context.Context, prefix string) ([]models.Ingredient, error) {
	q := url.Values{}
	if prefix != "" {
		q.Set("name", prefix)
	}
	return getJSON[[]models.Ingredient](ctx, c, "/ingredients"+encode(q))
}

// Recipe API methods

// RecipeFilter mirrors the query parameters of GET /recipes.
type RecipeFilter struct {
	Tags           []string
	Author         uint
	Favorited      bool
	InShoppingCart bool
	Page           int
	Limit          int
}

func (f RecipeFilter) values() url.Values {
	q := url.Values{}
	for _, tag := range f.Tags {
		q.Add("tags", tag)
	}
	if f.Author != 0 {
		q.Set("author", strconv.FormatUint(uint64(f.Author), 10))
	}
	if f.Favorited {
		q.Set("is_favorited", "1")
	}
	if f.InShoppingCart {
		q.Set("is_in_shopping_cart", "1")
	}
	setInt(q, "page", f.Page)
	setInt(q, "limit", f.Limit)
	return q
}

func (c *Client) ListRecipes(ctx context.Context, filter RecipeFilter) (*models.Page[models.Recipe], error) {
	page, err := getJSON[models.Page[models.Recipe]](ctx, c, "/recipes"+encode(filter.values()))
	if err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) GetRecipe(ctx context.Context, id uint) (*models.Recipe, error) {
	recipe, err := getJSON[models.Recipe](ctx, c, fmt.Sprintf("/recipes/%d", id))
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (c *Client) DeleteRecipe(ctx context.Context, id uint) error {
	_, err := c.makeRequest(ctx, http.MethodDelete, fmt.Sprintf("/recipes/%d", id), nil)
	return err
}

// Engagement API methods

func (c *Client) AddFavorite(ctx context.Context, recipeID uint) (*models.RecipeShort, error) {
	return c.addMembership(ctx, recipeID, "favorite")
}

func (c *Client) RemoveFavorite(ctx context.Context, recipeID uint) error {
	_, err := c.makeRequest(ctx, http.MethodDelete, fmt.Sprintf("/recipes/%d/favorite", recipeID), nil)
	return err
}

func (c *Client) AddToCart(ctx context.Context, recipeID uint) (*models.RecipeShort, error) {
	return c.addMembership(ctx, recipeID, "shopping_cart")
}

func (c *Client) RemoveFromCart(ctx context.Context, recipeID uint) error {
	_, err := c.makeRequest(ctx, http.MethodDelete, fmt.Sprintf("/recipes/%d/shopping_cart", recipeID), nil)
	return err
}

func (c *Client) addMembership(ctx context.Context, recipeID uint, kind string) (*models.RecipeShort, error) {
	respBody, err := c.makeRequest(ctx, http.MethodPost, fmt.Sprintf("/recipes/%d/%s", recipeID, kind), nil)
	if err != nil {
		return nil, err
	}
	var recipe models.RecipeShort
	if err := json.Unmarshal(respBody, &recipe); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recipe: %w", err)
	}
	return &recipe, nil
}

// DownloadShoppingCart returns the plain-text shopping list.
func (c *Client) DownloadShoppingCart(ctx context.Context) (string, error) {
	respBody, err := c.makeRequest(ctx, http.MethodGet, "/recipes/download_shopping_cart", nil)
	if err != nil {
		return "", err
	}
	return string(respBody), nil
}

func setInt(q url.Values, key string, v int) {
	if v > 0 {
		q.Set(key, strconv.Itoa(v))
	}
}

func encode(q url.Values) string {
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}
