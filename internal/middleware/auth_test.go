package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/divizend/dreaming/internal/models"
	"github.com/divizend/dreaming/internal/testutil"
	"github.com/divizend/dreaming/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newGateEngine() *gin.Engine {
	r := gin.New()

	whoami := func(ctx *gin.Context) {
		user, _ := currentUser(ctx)
		ctx.JSON(http.StatusOK, gin.H{"id": user.ID, "isAdmin": user.IsAdmin})
	}

	r.GET("/me", AuthMiddleware(), whoami)
	r.GET("/admin", AuthMiddleware(), RequireGlobalAdmin(), whoami)

	project := r.Group("/projects/:slug", ProjectContext())
	project.GET("", func(ctx *gin.Context) {
		project, _ := ctx.Get(types.ContextProjectKey)
		ctx.JSON(http.StatusOK, gin.H{"slug": project.(models.Project).Slug})
	})
	project.PUT("", AuthMiddleware(), RequireProjectAdmin(), whoami)

	return r
}

func doRequest(r http.Handler, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	database := testutil.UseDB(t)
	user := testutil.CreateUser(t, database, "user-1", false)
	valid := testutil.NewSession(t, database, user.ID, time.Now().Add(time.Hour))
	r := newGateEngine()

	w := doRequest(r, http.MethodGet, "/me", valid)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"user-1","isAdmin":false}`, w.Body.String())

	w = doRequest(r, http.MethodGet, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(r, http.MethodGet, "/me", "garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Token "+valid)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Bearer")
}

func TestAuthMiddleware_ExpiredOrRevokedSession(t *testing.T) {
	database := testutil.UseDB(t)
	user := testutil.CreateUser(t, database, "user-1", false)
	r := newGateEngine()

	token := testutil.NewSession(t, database, user.ID, time.Now().Add(time.Hour))

	// A signed token whose session row is already past its expiry.
	require.NoError(t, database.Model(&models.Session{}).Where("token = ?", token).
		Update("expires_at", time.Now().Add(-time.Minute)).Error)

	w := doRequest(r, http.MethodGet, "/me", token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	revoked := testutil.NewSession(t, database, user.ID, time.Now().Add(time.Hour))
	require.NoError(t, database.Where("token = ?", revoked).Delete(&models.Session{}).Error)

	w = doRequest(r, http.MethodGet, "/me", revoked)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_QueryTokenOnlyForWebsocket(t *testing.T) {
	database := testutil.UseDB(t)
	user := testutil.CreateUser(t, database, "user-1", false)
	token := testutil.NewSession(t, database, user.ID, time.Now().Add(time.Hour))
	r := newGateEngine()

	w := doRequest(r, http.MethodGet, "/me?token="+token, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/me?token="+token, nil)
	req.Header.Set("Connection", "upgrade")
	req.Header.Set("Upgrade", "websocket")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireGlobalAdmin(t *testing.T) {
	database := testutil.UseDB(t)
	admin := testutil.CreateUser(t, database, "admin", true)
	member := testutil.CreateUser(t, database, "member", false)
	r := newGateEngine()

	w := doRequest(r, http.MethodGet, "/admin", testutil.NewSession(t, database, admin.ID, time.Now().Add(time.Hour)))
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(r, http.MethodGet, "/admin", testutil.NewSession(t, database, member.ID, time.Now().Add(time.Hour)))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestProjectContextAndRequireProjectAdmin(t *testing.T) {
	database := testutil.UseDB(t)
	project, _ := testutil.CreateProject(t, database, "garden")
	admin := testutil.CreateUser(t, database, "admin", false)
	member := testutil.CreateUser(t, database, "member", false)
	globalAdmin := testutil.CreateUser(t, database, "root", true)
	testutil.GrantFunds(t, database, admin.ID, project.ID, "0", true)
	testutil.GrantFunds(t, database, member.ID, project.ID, "10", false)
	r := newGateEngine()

	w := doRequest(r, http.MethodGet, "/projects/garden", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"slug":"garden"}`, w.Body.String())

	w = doRequest(r, http.MethodGet, "/projects/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Project not found"}`, w.Body.String())

	expiry := time.Now().Add(time.Hour)

	w = doRequest(r, http.MethodPut, "/projects/garden", testutil.NewSession(t, database, admin.ID, expiry))
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(r, http.MethodPut, "/projects/garden", testutil.NewSession(t, database, member.ID, expiry))
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Global admins are not implicitly project admins.
	w = doRequest(r, http.MethodPut, "/projects/garden", testutil.NewSession(t, database, globalAdmin.ID, expiry))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(r, http.MethodPut, "/projects/garden", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		token  string
		ok     bool
	}{
		{"bearer", "Bearer abc", "abc", true},
		{"padded", "Bearer   abc ", "abc", true},
		{"missing", "", "", false},
		{"no scheme", "abc", "", false},
		{"basic", "Basic abc", "", false},
		{"empty bearer", "Bearer ", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _ := gin.CreateTestContext(httptest.NewRecorder())
			ctx.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				ctx.Request.Header.Set("Authorization", tt.header)
			}

			token, errMsg := extractToken(ctx)
			assert.Equal(t, tt.token, token)
			assert.Equal(t, tt.ok, errMsg == "")
		})
	}
}
