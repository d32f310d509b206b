// Package client is the Go SDK of the recipe API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pageza/recipebox/backend/internal/model"
)

// DefaultTimeout bounds each request made with the default HTTP client
const DefaultTimeout = 15 * time.Second

// APIError is returned for every non-2xx response
type APIError struct {
	Message string
	Status  int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

// ErrMissingID is returned before any request when a recipe id is empty
var ErrMissingID = &APIError{Message: "recipe id is required", Status: 0}

// IsNotFound reports whether err is a 404 from the API
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// Client talks to the recipe API. It never retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a client for the API rooted at baseURL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
			// a redirect would land on a different resource than the one asked for
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Recipe is the canonical recipe record
type Recipe = model.Recipe

// Create stores a new recipe and returns it with its generated id
func (c *Client) Create(ctx context.Context, title string, ingredients []string) (*Recipe, error) {
	var data model.RecipeData
	in := model.RecipeInput{Title: title, Ingredients: ingredients}
	if err := c.do(ctx, http.MethodPost, "/recipe", in, &data); err != nil {
		return nil, err
	}
	if data.Recipe == nil {
		return nil, errMissingRecipe
	}
	return data.Recipe, nil
}

// List returns every recipe
func (c *Client) List(ctx context.Context) ([]Recipe, error) {
	var data model.RecipesData
	if err := c.do(ctx, http.MethodGet, "/recipe", nil, &data); err != nil {
		return nil, err
	}
	if data.Recipes == nil {
		data.Recipes = []Recipe{}
	}
	return data.Recipes, nil
}

// Get returns one recipe
func (c *Client) Get(ctx context.Context, id string) (*Recipe, error) {
	if id == "" {
		return nil, ErrMissingID
	}
	var data model.RecipeData
	if err := c.do(ctx, http.MethodGet, recipePath(id), nil, &data); err != nil {
		return nil, err
	}
	if data.Recipe == nil {
		return nil, errMissingRecipe
	}
	return data.Recipe, nil
}

// Update replaces title and ingredients of a recipe
func (c *Client) Update(ctx context.Context, id, title string, ingredients []string) (*Recipe, error) {
	if id == "" {
		return nil, ErrMissingID
	}
	var recipe Recipe
	in := model.RecipeInput{Title: title, Ingredients: ingredients}
	if err := c.do(ctx, http.MethodPut, recipePath(id), in, &recipe); err != nil {
		return nil, err
	}
	if recipe.ID == "" {
		return nil, errMissingRecipe
	}
	return &recipe, nil
}

// Delete removes a recipe. Deleting a missing id succeeds.
func (c *Client) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrMissingID
	}
	return c.do(ctx, http.MethodDelete, recipePath(id), nil, nil)
}

func recipePath(id string) string {
	return "/recipe/" + url.PathEscape(id)
}

var errMissingRecipe = errors.New("failed to decode response data: no recipe in response")

// envelope mirrors model.Envelope with the data left raw
type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) do(ctx context.Context, method, path string, in interface{}, out interface{}) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := env.Message
		if decodeErr != nil || message == "" {
			message = fmt.Sprintf("HTTP Error: %d", resp.StatusCode)
		}
		return &APIError{Message: message, Status: resp.StatusCode}
	}

	if decodeErr != nil {
		return fmt.Errorf("failed to decode response: %w", decodeErr)
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}
	return nil
}
