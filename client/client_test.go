package client

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipebox/backend/internal/api"
	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/store"
	"github.com/pageza/recipebox/backend/internal/testhelpers"
)

func newTestAPI(t *testing.T) *Client {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := store.NewGormStore(testhelpers.SetupSQLiteDatabase(t), "recipes")
	require.NoError(t, s.AutoMigrate())

	router := gin.New()
	api.RegisterRoutes(router, service.NewRecipeService(s), nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/", WithHTTPClient(srv.Client()))
}

func TestClientRoundTrip(t *testing.T) {
	c := newTestAPI(t)
	ctx := context.Background()

	recipes, err := c.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, recipes)
	assert.NotNil(t, recipes)

	created, err := c.Create(ctx, "Pasta", []string{"tomato", "pasta"})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "Pasta", created.Title)

	got, err := c.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, []string{"tomato", "pasta"}, []string(got.Ingredients))

	updated, err := c.Update(ctx, created.ID, "Pasta al pomodoro", []string{"tomato", "pasta", "basil"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Pasta al pomodoro", updated.Title)

	recipes, err = c.List(ctx)
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, "Pasta al pomodoro", recipes[0].Title)

	require.NoError(t, c.Delete(ctx, created.ID))
	require.NoError(t, c.Delete(ctx, created.ID))

	_, err = c.Get(ctx, created.ID)
	assert.True(t, IsNotFound(err))
}

func TestClientAPIErrors(t *testing.T) {
	c := newTestAPI(t)
	ctx := context.Background()

	_, err := c.Get(ctx, "missing")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "Recipe not found", apiErr.Message)

	_, err = c.Create(ctx, " ", []string{"x"})
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Contains(t, apiErr.Message, "title")

	_, err = c.Update(ctx, "missing", "Soup", []string{"water"})
	assert.True(t, IsNotFound(err))
}

func TestClientNonEnvelopeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := New(srv.URL).List(context.Background())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "HTTP Error: 502", apiErr.Message)
	assert.Equal(t, "HTTP Error: 502 (status 502)", apiErr.Error())
}

func TestClientEscapesIDs(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "success", "message": "Recipe deleted successfully."})
	}))
	defer srv.Close()

	require.NoError(t, New(srv.URL).Delete(context.Background(), "a/b c"))
	assert.Equal(t, "/recipe/a%2Fb%20c", gotPath)
}

func TestClientRejectsEmptyID(t *testing.T) {
	c := newTestAPI(t)
	ctx := context.Background()

	recipe, err := c.Get(ctx, "")
	assert.Nil(t, recipe)
	assert.ErrorIs(t, err, ErrMissingID)

	recipe, err = c.Update(ctx, "", "Soup", []string{"water"})
	assert.Nil(t, recipe)
	assert.ErrorIs(t, err, ErrMissingID)

	assert.ErrorIs(t, c.Delete(ctx, ""), ErrMissingID)
}

func TestClientRejectsResponseWithoutRecipe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  "success",
			"message": "Recipes retrieved successfully",
			"data":    map[string]interface{}{"recipes": []interface{}{}},
		})
	}))
	defer srv.Close()

	recipe, err := New(srv.URL).Get(context.Background(), "1")
	assert.Nil(t, recipe)
	assert.ErrorContains(t, err, "no recipe in response")
}

func TestClientDoesNotFollowRedirects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/recipe" {
			http.Redirect(w, r, "/recipe", http.StatusMovedPermanently)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "success", "message": "Recipes retrieved successfully",
			"data": map[string]interface{}{"recipes": []interface{}{}},
		})
	}))
	defer srv.Close()

	recipe, err := New(srv.URL).Get(context.Background(), "x")
	assert.Nil(t, recipe)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusMovedPermanently, apiErr.Status)
}
