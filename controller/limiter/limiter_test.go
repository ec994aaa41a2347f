package limiter_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/kylycht/apex/controller/limiter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(perSecond float64, burst int) *fiber.App {
	app := fiber.New()
	app.Use(limiter.New(perSecond, burst))
	app.Get("/", func(ctx *fiber.Ctx) error { return ctx.SendString("ok") })
	return app
}

func TestLimiter(t *testing.T) {
	app := newApp(0.001, 2)

	for i, want := range []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, want, resp.StatusCode, "request %d", i+1)
	}
}

func TestLimiter_Disabled(t *testing.T) {
	app := newApp(0, 0)

	for i := 0; i < 10; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}
}
