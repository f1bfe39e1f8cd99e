package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/edugamify/classroom-api/internal/service"
)

func TestConfigCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(ConfigCORS([]string{"http://localhost:5173"}))
	r.OPTIONS("/api/v1/auth/signin", func(ctx *gin.Context) {
		ctx.Status(http.StatusNoContent)
	})

	t.Run("allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/auth/signin", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("foreign origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/auth/signin", nil)
		req.Header.Set("Origin", "http://evil.example")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestSessionToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(SessionToken())
	r.GET("/token", func(ctx *gin.Context) {
		ctx.String(http.StatusOK, service.SessionToken(ctx.Request.Context()))
	})

	tests := []struct {
		name    string
		prepare func(req *http.Request)
		want    string
	}{
		{
			name:    "bearer header",
			prepare: func(req *http.Request) { req.Header.Set("Authorization", "Bearer abc123") },
			want:    "abc123",
		},
		{
			name:    "lowercase scheme",
			prepare: func(req *http.Request) { req.Header.Set("Authorization", "bearer abc123") },
			want:    "abc123",
		},
		{
			name: "cookie",
			prepare: func(req *http.Request) {
				req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "from-cookie"})
			},
			want: "from-cookie",
		},
		{
			name: "header wins over cookie",
			prepare: func(req *http.Request) {
				req.Header.Set("Authorization", "Bearer from-header")
				req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "from-cookie"})
			},
			want: "from-header",
		},
		{
			name:    "basic auth is ignored",
			prepare: func(req *http.Request) { req.Header.Set("Authorization", "Basic dXNlcjpwYXNz") },
			want:    "",
		},
		{
			name:    "anonymous",
			prepare: func(req *http.Request) {},
			want:    "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/token", nil)
			tc.prepare(req)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tc.want, rec.Body.String())
		})
	}
}

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, logs := observer.New(zap.DebugLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	defer restore()

	r := gin.New()
	r.Use(requestid.New(), RequestLogger())
	r.GET("/ok", func(ctx *gin.Context) { ctx.Status(http.StatusOK) })
	r.GET("/missing", func(ctx *gin.Context) { ctx.Status(http.StatusNotFound) })
	r.GET("/boom", func(ctx *gin.Context) { ctx.Status(http.StatusInternalServerError) })

	for _, path := range []string{"/ok", "/missing", "/boom"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, zap.InfoLevel, entries[0].Level)
	assert.Equal(t, zap.WarnLevel, entries[1].Level)
	assert.Equal(t, zap.ErrorLevel, entries[2].Level)

	fields := entries[0].ContextMap()
	assert.Equal(t, "/ok", fields["path"])
	assert.Equal(t, int64(http.StatusOK), fields["status"])
	assert.NotEmpty(t, fields["request_id"])
}
