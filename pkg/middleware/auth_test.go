package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"voicefaq/pkg/auth"
)

func TestAdminAuth(t *testing.T) {
	jwtManager := auth.NewJWTManager("secret", time.Hour)
	app := fiber.New()
	app.Get("/admin", AdminAuth(jwtManager, zap.NewNop()), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("subject").(string))
	})

	adminToken, err := jwtManager.GenerateToken("ops", auth.RoleAdmin)
	require.NoError(t, err)
	viewerToken, err := jwtManager.GenerateToken("intern", "viewer")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"no token", "", http.StatusUnauthorized},
		{"garbage", "Bearer abc", http.StatusUnauthorized},
		{"wrong role", "Bearer " + viewerToken, http.StatusForbidden},
		{"admin", "Bearer " + adminToken, http.StatusOK},
		{"admin without prefix", adminToken, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}
