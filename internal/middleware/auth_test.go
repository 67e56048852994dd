package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthecon360/analytics-api/internal/model"
	"github.com/healthecon360/analytics-api/pkg/auth"
)

func setupAuthRouter(t *testing.T, role string) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwtSvc := auth.NewJWTService("test-secret", "test-refresh", time.Hour, 24*time.Hour, "test")
	user := &model.User{
		Base:     model.Base{ID: uuid.New()},
		Email:    "user@example.com",
		RoleName: &role,
	}
	token, err := jwtSvc.GenerateAccessToken(user)
	require.NoError(t, err)

	m := NewAuthMiddleware(jwtSvc)
	r := gin.New()
	protected := r.Group("", m.Authenticate())
	protected.GET("/whoami", func(c *gin.Context) {
		id, ok := UserID(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"id": id.String(), "role": c.GetString(ContextRole)})
	})

	guarded := protected.Group("", m.RequireRoleForWrites(model.RoleAnalyst))
	guarded.GET("/data", func(c *gin.Context) { c.Status(http.StatusOK) })
	guarded.POST("/data", func(c *gin.Context) { c.Status(http.StatusCreated) })

	return r, token
}

func doRequest(r *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthenticateRejectsMissingHeader(t *testing.T) {
	r, _ := setupAuthRouter(t, model.RoleUser)
	w := doRequest(r, http.MethodGet, "/whoami", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateRejectsGarbageToken(t *testing.T) {
	r, _ := setupAuthRouter(t, model.RoleUser)
	w := doRequest(r, http.MethodGet, "/whoami", "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateSetsIdentity(t *testing.T) {
	r, token := setupAuthRouter(t, model.RoleAnalyst)
	w := doRequest(r, http.MethodGet, "/whoami", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), model.RoleAnalyst)
}

func TestWriteGuardAllowsReadsForAnyRole(t *testing.T) {
	r, token := setupAuthRouter(t, model.RoleUser)
	w := doRequest(r, http.MethodGet, "/data", token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestWriteGuardBlocksWritesForViewers(t *testing.T) {
	r, token := setupAuthRouter(t, model.RoleUser)
	w := doRequest(r, http.MethodPost, "/data", token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestWriteGuardAllowsAnalystWrites(t *testing.T) {
	r, token := setupAuthRouter(t, model.RoleAnalyst)
	w := doRequest(r, http.MethodPost, "/data", token)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestWriteGuardAllowsAdminEverywhere(t *testing.T) {
	r, token := setupAuthRouter(t, model.RoleAdmin)
	w := doRequest(r, http.MethodPost, "/data", token)
	assert.Equal(t, http.StatusCreated, w.Code)
}
