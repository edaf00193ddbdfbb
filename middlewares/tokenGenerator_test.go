package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"tavernserver/auth"
	"tavernserver/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func requestContext(t *testing.T, authorization string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/user/profile", nil)
	if authorization != "" {
		c.Request.Header.Set("Authorization", authorization)
	}
	return c
}

func TestTokenRoundTrip(t *testing.T) {
	auth.JwtKey = []byte("test-secret")

	token, err := GenerateToken(42, models.RoleAdmin)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	valid, err := auth.IsValidToken(token)
	require.NoError(t, err)
	assert.True(t, valid)

	claims, err := ClaimsFromRequest(requestContext(t, "Bearer "+token), zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestClaimsFromRequestWithoutToken(t *testing.T) {
	_, err := ClaimsFromRequest(requestContext(t, ""), zap.NewNop())
	assert.Error(t, err)
}

func TestClaimsFromRequestRejectsTamperedToken(t *testing.T) {
	auth.JwtKey = []byte("test-secret")

	token, err := GenerateToken(42, models.RoleUser)
	require.NoError(t, err)

	auth.JwtKey = []byte("other-secret")
	_, err = ClaimsFromRequest(requestContext(t, "Bearer "+token), zap.NewNop())
	assert.Error(t, err)
}
