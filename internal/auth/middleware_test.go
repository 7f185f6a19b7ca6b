package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoVendorID() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(VendorID(r.Context())))
	})
}

func TestRequireVendor(t *testing.T) {
	issuer := &TokenIssuer{Secret: []byte("test-secret"), TTL: time.Hour}
	handler := RequireVendor(issuer)(echoVendorID())

	t.Run("tanpa token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/vendor/products", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("token rusak", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/vendor/products", nil)
		req.Header.Set("Authorization", "Bearer bukan.token.jwt")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("token valid", func(t *testing.T) {
		token, err := issuer.Issue("VEND-AB12CD", "Warung")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/vendor/products", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "VEND-AB12CD", rec.Body.String())
	})
}

func TestRequireAdmin(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	t.Run("token cocok", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/vendors", nil)
		req.Header.Set("Authorization", "Bearer rahasia-admin")
		rec := httptest.NewRecorder()
		RequireAdmin("rahasia-admin")(ok).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("token salah", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/vendors", nil)
		req.Header.Set("Authorization", "Bearer tebakan")
		rec := httptest.NewRecorder()
		RequireAdmin("rahasia-admin")(ok).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("admin token kosong berarti portal mati", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/admin/vendors", nil)
		rec := httptest.NewRecorder()
		RequireAdmin("")(ok).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
