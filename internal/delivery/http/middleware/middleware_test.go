package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"jobboard/internal/domain/user"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type envelope struct {
	Status  int            `json:"status"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

func newApp(log *zap.Logger, handlers ...fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Use(NewAccessLogMiddleware(log).Middleware())
	app.Use(NewErrorMiddleware(log).Middleware())
	last := len(handlers) - 1
	for _, h := range handlers[:last] {
		app.Use(h)
	}
	app.Get("/", handlers[last])
	return app
}

func call(t *testing.T, app *fiber.App) (*http.Response, envelope) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp, env
}

func withUser(u user.User) fiber.Handler {
	return func(c fiber.Ctx) error {
		c.Locals(CtxUserKey, u)
		return c.Next()
	}
}

func okHandler(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": 200, "message": "ok"})
}

func TestErrorMiddleware_AppError(t *testing.T) {
	app := newApp(zap.NewNop(), func(fiber.Ctx) error {
		return NewAppError(fiber.StatusBadRequest, "Validation failed", map[string]string{"title": "required"}, nil)
	})

	resp, env := call(t, app)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Validation failed", env.Message)
	assert.Equal(t, "required", env.Data["title"])
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestErrorMiddleware_HidesInternalErrors(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	app := newApp(zap.New(core), func(fiber.Ctx) error {
		return errors.New("pq: connection refused")
	})

	resp, env := call(t, app)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "internal server error", env.Message)
	assert.Equal(t, 1, logs.FilterMessage("request failed").Len())
}

func TestErrorMiddleware_RecoversPanic(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	app := newApp(zap.New(core), func(fiber.Ctx) error {
		panic("boom")
	})

	resp, _ := call(t, app)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, 1, logs.FilterMessage("panic recovered").Len())
}

func TestRequireRoles(t *testing.T) {
	student := user.User{Role: user.RoleStudent, IsVerified: true}
	admin := user.User{Role: user.RoleAdmin, IsVerified: true}

	resp, env := call(t, newApp(zap.NewNop(), withUser(student), RequireRoles(user.RoleClient, user.RoleAdmin), okHandler))
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "Access denied", env.Message)

	resp, _ = call(t, newApp(zap.NewNop(), withUser(admin), RequireRoles(user.RoleClient, user.RoleAdmin), okHandler))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = call(t, newApp(zap.NewNop(), RequireRoles(user.RoleAdmin), okHandler))
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestRequireVerified(t *testing.T) {
	u := user.User{Role: user.RoleClient}

	resp, env := call(t, newApp(zap.NewNop(), withUser(u), RequireVerified(), okHandler))
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "email_not_verified", env.Data["reason"])

	u.IsVerified = true
	resp, _ = call(t, newApp(zap.NewNop(), withUser(u), RequireVerified(), okHandler))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestBearerTokenFromHeader(t *testing.T) {
	cases := []struct {
		in    string
		want  string
		found bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer   abc ", "abc", true},
		{"Basic abc", "", false},
		{"Bearer", "", false},
		{"Bearer  ", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, ok := bearerTokenFromHeader(tc.in)
		assert.Equal(t, tc.found, ok, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}
