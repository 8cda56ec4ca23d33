package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"affilia/pkg/requestcontext"
)

func TestClientMetadata(t *testing.T) {
	var ip, userAgent string
	handler := ClientMetadata(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip = requestcontext.ClientIP(r.Context())
		userAgent = requestcontext.UserAgent(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/licences", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	req.Header.Set("User-Agent", "federation-back-office/2.1")
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "203.0.113.9", ip)
	assert.Equal(t, "federation-back-office/2.1", userAgent)
}

func TestClientIPFromRequest(t *testing.T) {
	t.Run("falls back through X-Real-IP to the remote address", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.0.2.10:54321"
		assert.Equal(t, "192.0.2.10", ClientIPFromRequest(req))

		req.Header.Set("X-Real-IP", "198.51.100.7")
		assert.Equal(t, "198.51.100.7", ClientIPFromRequest(req))
	})
}
