package ratelimit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/hiddenpiece/roadmap-service/pkg/util/errorutil"
)

type stubChecker struct {
	result *Result
	err    error
	keys   []string
}

func (s *stubChecker) Allow(_ context.Context, key string) (*Result, error) {
	s.keys = append(s.keys, key)
	return s.result, s.err
}

func newApp(checker Checker) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.SendStatus(apperrors.ToDomainError(err).HTTPStatus)
		},
	})
	app.Get("/top5", Middleware(checker), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func TestMiddleware_Allowed(t *testing.T) {
	checker := &stubChecker{result: &Result{Allowed: true, Remaining: 9}}

	resp, err := newApp(checker).Test(httptest.NewRequest(http.MethodGet, "/top5", nil))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "9", resp.Header.Get("X-RateLimit-Remaining"))
	assert.Len(t, checker.keys, 1)
}

func TestMiddleware_Rejected(t *testing.T) {
	checker := &stubChecker{result: &Result{Allowed: false, RetryAfter: 3 * time.Second}}

	resp, err := newApp(checker).Test(httptest.NewRequest(http.MethodGet, "/top5", nil))
	require.NoError(t, err)

	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "3", resp.Header.Get("Retry-After"))
}

func TestMiddleware_RetryAfterAtLeastOneSecond(t *testing.T) {
	checker := &stubChecker{result: &Result{Allowed: false}}

	resp, err := newApp(checker).Test(httptest.NewRequest(http.MethodGet, "/top5", nil))
	require.NoError(t, err)

	assert.Equal(t, "1", resp.Header.Get("Retry-After"))
}

func TestMiddleware_CheckerErrorFailsOpen(t *testing.T) {
	checker := &stubChecker{err: errors.New("redis down")}

	resp, err := newApp(checker).Test(httptest.NewRequest(http.MethodGet, "/top5", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMiddleware_NilCheckerDisabled(t *testing.T) {
	resp, err := newApp(nil).Test(httptest.NewRequest(http.MethodGet, "/top5", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHashKey(t *testing.T) {
	assert.Equal(t, hashKey("10.0.0.1"), hashKey("10.0.0.1"))
	assert.NotEqual(t, hashKey("10.0.0.1"), hashKey("10.0.0.2"))
	assert.Len(t, hashKey("::1"), 16)
}

func TestNewLimiter_ClampsSettings(t *testing.T) {
	l := NewLimiter(nil, 0, 0, nil)
	assert.Equal(t, 1, l.rps)
	assert.Equal(t, 1, l.burst)

	l = NewLimiter(nil, 20, 5, nil)
	assert.Equal(t, 20, l.burst)
}
