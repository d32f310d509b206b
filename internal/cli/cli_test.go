package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipebox/backend/client"
	"github.com/pageza/recipebox/backend/internal/api"
	"github.com/pageza/recipebox/backend/internal/service"
	"github.com/pageza/recipebox/backend/internal/store"
	"github.com/pageza/recipebox/backend/internal/testhelpers"
)

func newTestAPI(t *testing.T) string {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s := store.NewGormStore(testhelpers.SetupSQLiteDatabase(t), "recipes")
	require.NoError(t, s.AutoMigrate())

	router := gin.New()
	api.RegisterRoutes(router, service.NewRecipeService(s), nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv.URL
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := NewCommand(&out).Run(context.Background(), append([]string{name}, args...))
	return out.String(), err
}

func TestRecipectl(t *testing.T) {
	url := newTestAPI(t)

	out, err := run(t, "--api-url", url, "--format", "json", "create", "--title", "Pasta", "-i", "tomato", "-i", "pasta")
	require.NoError(t, err)

	var created client.Recipe
	require.NoError(t, json.Unmarshal([]byte(out), &created))
	require.NotEmpty(t, created.ID)
	assert.Equal(t, []string{"tomato", "pasta"}, []string(created.Ingredients))

	out, err = run(t, "--api-url", url, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, created.ID)
	assert.Contains(t, out, "tomato, pasta")

	out, err = run(t, "--api-url", url, "-o", "json", "update", "--title", "Pasta al pomodoro", "-i", "tomato", "-i", "pasta", "-i", "basil", created.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Pasta al pomodoro")

	out, err = run(t, "--api-url", url, "get", created.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "tomato, pasta, basil")

	out, err = run(t, "--api-url", url, "delete", created.ID)
	require.NoError(t, err)
	assert.Equal(t, "deleted "+created.ID+"\n", out)

	_, err = run(t, "--api-url", url, "get", created.ID)
	assert.True(t, client.IsNotFound(err))
}

func TestRecipectlErrors(t *testing.T) {
	url := newTestAPI(t)

	_, err := run(t, "--api-url", url, "get")
	assert.EqualError(t, err, "recipe id is required")

	_, err = run(t, "--api-url", url, "--format", "xml", "list")
	assert.EqualError(t, err, `unknown output format: "xml"`)

	_, err = run(t, "--api-url", url, "create", "--title", "Soup")
	assert.Error(t, err)
}

func TestAPIURLFromEnvironment(t *testing.T) {
	url := newTestAPI(t)
	t.Setenv("RECIPES_API_URL", url)

	out, err := run(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "TITLE")
}

func TestIngredientsKeepCommas(t *testing.T) {
	url := newTestAPI(t)

	out, err := run(t, "--api-url", url, "-o", "json", "create", "-t", "Soup", "-i", "salt, to taste", "-i", "water")
	require.NoError(t, err)

	var created client.Recipe
	require.NoError(t, json.Unmarshal([]byte(out), &created))
	assert.Equal(t, []string{"salt, to taste", "water"}, []string(created.Ingredients))
}
