package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/daijiahui66/ADDoc/internal/config"
	"github.com/daijiahui66/ADDoc/internal/database"
	"github.com/daijiahui66/ADDoc/internal/models"
	"github.com/daijiahui66/ADDoc/internal/services"
	"github.com/daijiahui66/ADDoc/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func newResolver(t *testing.T) (*IdentityResolver, *gorm.DB) {
	t.Helper()
	db, err := database.Connect(config.DatabaseConfig{Driver: "sqlite", Path: ":memory:", LogLevel: "silent"})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() { database.Close(db) })

	activity := services.NewActivityService(db, time.UTC)
	return NewIdentityResolver(services.NewAuthService(db, activity), testSecret), db
}

func addUser(t *testing.T, db *gorm.DB, username, role string) *models.User {
	t.Helper()
	user := &models.User{Username: username, PasswordHash: "x", Role: role}
	require.NoError(t, db.Create(user).Error)
	return user
}

func tokenFor(t *testing.T, user *models.User, secret string, ttl time.Duration) string {
	t.Helper()
	token, err := utils.GenerateToken(user.ID, user.Username, user.Role, secret, ttl)
	require.NoError(t, err)
	return token
}

func TestResolveStates(t *testing.T) {
	resolver, db := newResolver(t)
	alice := addUser(t, db, "alice", models.RoleUser)

	tests := []struct {
		name  string
		token string
		want  IdentityState
	}{
		{"no token", "", Anonymous},
		{"valid", tokenFor(t, alice, testSecret, time.Minute), Authenticated},
		{"garbage", "not-a-jwt", Invalid},
		{"wrong secret", tokenFor(t, alice, "other", time.Minute), Invalid},
		{"expired", tokenFor(t, alice, testSecret, -time.Minute), Invalid},
		{"unknown user", tokenFor(t, &models.User{ID: 99, Username: "ghost", Role: models.RoleUser}, testSecret, time.Minute), Invalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identity, err := resolver.Resolve(tt.token)
			require.NoError(t, err)
			assert.Equal(t, tt.want, identity.State)
			if tt.want == Authenticated {
				require.NotNil(t, identity.User)
				assert.Equal(t, alice.ID, identity.User.ID)
			} else {
				assert.Nil(t, identity.User)
			}
		})
	}
}

func newAuthRouter(resolver *IdentityResolver) *gin.Engine {
	r := gin.New()
	whoami := func(c *gin.Context) {
		name := "anonymous"
		if user := CurrentUser(c); user != nil {
			name = user.Username
		}
		c.String(http.StatusOK, name)
	}
	r.GET("/strict", AuthMiddleware(resolver), whoami)
	r.GET("/optional", OptionalAuthMiddleware(resolver), whoami)
	r.GET("/admin", AuthMiddleware(resolver), AdminMiddleware(), whoami)
	r.GET("/admin-only", AdminMiddleware(), whoami)
	return r
}

func doRequest(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddlewares(t *testing.T) {
	resolver, db := newResolver(t)
	alice := addUser(t, db, "alice", models.RoleUser)
	admin := addUser(t, db, models.AdminUsername, models.RoleAdmin)
	r := newAuthRouter(resolver)

	aliceToken := tokenFor(t, alice, testSecret, time.Minute)
	adminToken := tokenFor(t, admin, testSecret, time.Minute)

	tests := []struct {
		name   string
		path   string
		token  string
		status int
		body   string
	}{
		{"strict without token", "/strict", "", http.StatusUnauthorized, ""},
		{"strict with bad token", "/strict", "bad", http.StatusUnauthorized, ""},
		{"strict with token", "/strict", aliceToken, http.StatusOK, "alice"},
		{"optional without token", "/optional", "", http.StatusOK, "anonymous"},
		{"optional with bad token", "/optional", "bad", http.StatusOK, "anonymous"},
		{"optional with token", "/optional", aliceToken, http.StatusOK, "alice"},
		{"admin as user", "/admin", aliceToken, http.StatusForbidden, ""},
		{"admin as admin", "/admin", adminToken, http.StatusOK, "admin"},
		{"admin without identity", "/admin-only", "", http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(r, tt.path, tt.token)
			assert.Equal(t, tt.status, w.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, w.Body.String())
			}
		})
	}
}

func TestTokenFromQuery(t *testing.T) {
	resolver, db := newResolver(t)
	alice := addUser(t, db, "alice", models.RoleUser)
	r := newAuthRouter(resolver)

	w := doRequest(r, "/strict?token="+tokenFor(t, alice, testSecret, time.Minute), "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", w.Body.String())
}
