package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestAuthenticate(t *testing.T) {
	r := newEngine()
	r.GET("/me", Authenticate(), func(c *gin.Context) {
		id := identityFrom(c)
		c.JSON(http.StatusOK, gin.H{"user_id": id.UserID, "role": id.Role})
	})

	t.Run("missing headers", func(t *testing.T) {
		w := do(t, r, http.MethodGet, "/me", anon, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("identity is exposed to handlers", func(t *testing.T) {
		w := do(t, r, http.MethodGet, "/me", vendorA, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		body := decode[map[string]string](t, w)
		assert.Equal(t, "vendor-a", body["user_id"])
		assert.Equal(t, "vendor", body["role"])
	})
}

func TestRequireRole(t *testing.T) {
	r := newEngine()
	r.GET("/admin", Authenticate(), RequireRole(RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	tests := []struct {
		name string
		who  caller
		want int
	}{
		{"admin allowed", admin, http.StatusNoContent},
		{"customer forbidden", customer, http.StatusForbidden},
		{"vendor forbidden", vendorA, http.StatusForbidden},
		{"anonymous unauthorized", anon, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, r, http.MethodGet, "/admin", tt.who, nil)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}
