package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/conduit-go/backend/internal/models"
	"github.com/conduit-go/backend/internal/router"
	"github.com/conduit-go/backend/internal/validators"
	"github.com/conduit-go/backend/pkg/config"
	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestServer(t *testing.T) (*echo.Echo, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()

	cfg := &config.Config{JWTSecret: "test-secret"}
	require.NoError(t, router.SetupRoutes(e, db, cfg, zap.NewNop()))

	return e, db
}

func doRequest(e *echo.Echo, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

// registerUser registers a user through the HTTP surface and returns the token
func registerUser(t *testing.T, e *echo.Echo, username, email, password string) string {
	t.Helper()
	body := fmt.Sprintf(`{"user":{"username":%q,"email":%q,"password":%q}}`, username, email, password)
	rec := doRequest(e, http.MethodPost, "/users", body, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp models.UserResponse
	decodeBody(t, rec, &resp)
	require.NotEmpty(t, resp.User.Token)
	return resp.User.Token
}

// createArticle creates an article through the HTTP surface and returns it
func createArticle(t *testing.T, e *echo.Echo, token, title, body string, tags []string) models.ArticleData {
	t.Helper()
	payload := map[string]interface{}{
		"article": map[string]interface{}{"title": title, "body": body},
	}
	if tags != nil {
		payload["article"].(map[string]interface{})["tagList"] = tags
	}
	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	rec := doRequest(e, http.MethodPost, "/articles", string(raw), token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp models.ArticleResponse
	decodeBody(t, rec, &resp)
	return resp.Article
}
