package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"clinic-scheduler/config"
	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/pkg/jwt"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoCaller answers with the role it found in the request context
var echoCaller = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	caller, ok := GetCallerFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusTeapot)
		return
	}
	w.Write([]byte(caller.Role))
})

func TestAuthenticate(t *testing.T) {
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { redisClient.Close() })
	log := logrus.New()
	log.SetOutput(io.Discard)

	jwtService := jwt.NewJWTService(config.JWTConfig{Secret: "s3cret", AccessExpiry: time.Minute})
	auth := NewAuthMiddleware(jwtService, redisClient, log).Authenticate(echoCaller)

	userID := uuid.New()
	token, tokenID, err := jwtService.GenerateAccessToken(userID, "doc@clinic.test", entity.RoleDoctor)
	require.NoError(t, err)

	serve := func(header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		auth.ServeHTTP(rec, req)
		return rec
	}

	t.Run("valid token", func(t *testing.T) {
		rec := serve("Bearer " + token)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "DOCTOR", rec.Body.String())
	})

	t.Run("bad headers", func(t *testing.T) {
		for _, header := range []string{"", token, "Basic " + token, "Bearer"} {
			assert.Equal(t, http.StatusUnauthorized, serve(header).Code, header)
		}
	})

	t.Run("revoked", func(t *testing.T) {
		require.NoError(t, mr.Set(RevokedTokenKeyPrefix+tokenID, "1"))
		defer mr.Del(RevokedTokenKeyPrefix + tokenID)

		assert.Equal(t, http.StatusUnauthorized, serve("Bearer "+token).Code)
	})
}

func TestRequireRole(t *testing.T) {
	withCaller := func(role entity.Role) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		ctx := context.WithValue(req.Context(), CallerKey, entity.CallerContext{ID: uuid.New(), Role: role})
		return req.WithContext(ctx)
	}

	tests := []struct {
		name     string
		guard    func(http.Handler) http.Handler
		req      *http.Request
		wantCode int
	}{
		{"admin passes admin guard", RequireRole(entity.RoleAdmin), withCaller(entity.RoleAdmin), http.StatusOK},
		{"patient blocked by admin guard", RequireRole(entity.RoleAdmin), withCaller(entity.RolePatient), http.StatusForbidden},
		{"doctor passes doctor guard", RequireRole(entity.RoleDoctor), withCaller(entity.RoleDoctor), http.StatusOK},
		{"doctor or admin", RequireRole(entity.RoleDoctor, entity.RoleAdmin), withCaller(entity.RoleAdmin), http.StatusOK},
		{"doctor blocked by patient guard", RequireRole(entity.RolePatient), withCaller(entity.RoleDoctor), http.StatusForbidden},
		{"no caller", RequireRole(entity.RoleDoctor), httptest.NewRequest(http.MethodGet, "/", nil), http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.guard(echoCaller).ServeHTTP(rec, tt.req)
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestCORS(t *testing.T) {
	serve := func(allowed []string, method, origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, "/", nil)
		if origin != "" {
			req.Header.Set("Origin", origin)
		}
		rec := httptest.NewRecorder()
		next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusAccepted) })
		NewCORSMiddleware(allowed).Handle(next).ServeHTTP(rec, req)
		return rec
	}

	t.Run("wildcard", func(t *testing.T) {
		rec := serve([]string{"*"}, http.MethodGet, "https://any.test")
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, http.StatusAccepted, rec.Code)
	})

	t.Run("listed origin is echoed", func(t *testing.T) {
		rec := serve([]string{"https://clinic.test"}, http.MethodGet, "https://clinic.test")
		assert.Equal(t, "https://clinic.test", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "Origin", rec.Header().Get("Vary"))
	})

	t.Run("unlisted origin", func(t *testing.T) {
		rec := serve([]string{"https://clinic.test"}, http.MethodGet, "https://evil.test")
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight stops here", func(t *testing.T) {
		rec := serve(nil, http.MethodOptions, "https://clinic.test")
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
