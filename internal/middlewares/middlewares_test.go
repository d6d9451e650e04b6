package middlewares

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestCORSMiddleware(t *testing.T) {
	tests := []struct {
		name               string
		allowedOrigins     []string
		origin             string
		method             string
		expectedStatus     int
		expectedOrigin     string
		expectedCredential string
	}{
		{
			name:           "wildcard allows any origin without credentials",
			allowedOrigins: []string{"*"},
			origin:         "https://renderdragon.org",
			method:         http.MethodGet,
			expectedStatus: http.StatusOK,
			expectedOrigin: "*",
		},
		{
			name:               "listed origin is echoed with credentials",
			allowedOrigins:     []string{"https://renderdragon.org"},
			origin:             "https://RENDERDRAGON.org",
			method:             http.MethodGet,
			expectedStatus:     http.StatusOK,
			expectedOrigin:     "https://RENDERDRAGON.org",
			expectedCredential: "true",
		},
		{
			name:           "unlisted origin gets no header",
			allowedOrigins: []string{"https://renderdragon.org"},
			origin:         "https://evil.example",
			method:         http.MethodGet,
			expectedStatus: http.StatusOK,
		},
		{
			name:               "preflight short-circuits",
			allowedOrigins:     []string{"http://localhost:5173"},
			origin:             "http://localhost:5173",
			method:             http.MethodOptions,
			expectedStatus:     http.StatusNoContent,
			expectedOrigin:     "http://localhost:5173",
			expectedCredential: "true",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/v1/resources", nil)
			req.Header.Set("Origin", tt.origin)
			rec := httptest.NewRecorder()

			CORSMiddleware(tt.allowedOrigins)(okHandler).ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, tt.expectedOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tt.expectedCredential, rec.Header().Get("Access-Control-Allow-Credentials"))
			if tt.method == http.MethodOptions {
				assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "X-API-Key")
			}
		})
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	rec := httptest.NewRecorder()
	RecoveryMiddleware(logger)(panicking).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
}

func TestRequestIDMiddleware(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
		reuse    bool
	}{
		{name: "generated when missing", incoming: "", reuse: false},
		{name: "propagated when present", incoming: "abc-123", reuse: true},
		{name: "replaced when too long", incoming: strings.Repeat("x", maxRequestIDLength+1), reuse: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			handler := RequestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				seen = GetRequestID(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.incoming != "" {
				req.Header.Set("X-Request-ID", tt.incoming)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.NotEmpty(t, seen)
			assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))
			if tt.reuse {
				assert.Equal(t, tt.incoming, seen)
			} else {
				assert.NotEqual(t, tt.incoming, seen)
			}
		})
	}
}

func TestRequestSizeLimitMiddleware(t *testing.T) {
	echo := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := io.ReadAll(r.Body); err != nil {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name           string
		body           []byte
		expectedStatus int
	}{
		{name: "within limit", body: bytes.Repeat([]byte("a"), 8), expectedStatus: http.StatusOK},
		{name: "over limit", body: bytes.Repeat([]byte("a"), 32), expectedStatus: http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(tt.body))
			rec := httptest.NewRecorder()
			RequestSizeLimitMiddleware(16)(echo).ServeHTTP(rec, req)
			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}

	t.Run("declared length reports the limit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(make([]byte, 2048)))
		rec := httptest.NewRecorder()
		RequestSizeLimitMiddleware(1024)(echo).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
		assert.JSONEq(t, `{"error":"request body exceeds 1.0 KiB"}`, rec.Body.String())
	})
}

func TestAPIKeyMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		configured     string
		provided       string
		expectedStatus int
	}{
		{name: "valid key", configured: "k1", provided: "k1", expectedStatus: http.StatusOK},
		{name: "wrong key", configured: "k1", provided: "k2", expectedStatus: http.StatusUnauthorized},
		{name: "missing key", configured: "k1", provided: "", expectedStatus: http.StatusUnauthorized},
		{name: "no key configured", configured: "", provided: "", expectedStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodDelete, "/api/v1/cache", nil)
			if tt.provided != "" {
				req.Header.Set("X-API-Key", tt.provided)
			}
			rec := httptest.NewRecorder()
			APIKeyMiddleware(tt.configured)(okHandler).ServeHTTP(rec, req)
			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}
