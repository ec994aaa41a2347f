package limiter

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// New returns a middleware that admits at most perSecond requests
// per second to this service, with bursts up to burst.
// A non-positive perSecond disables limiting.
func New(perSecond float64, burst int) fiber.Handler {
	if perSecond <= 0 {
		return func(ctx *fiber.Ctx) error { return ctx.Next() }
	}
	if burst <= 0 {
		burst = 1
	}

	l := rate.NewLimiter(rate.Limit(perSecond), burst)

	return func(ctx *fiber.Ctx) error {
		if !l.Allow() {
			log.Debug().Str("path", ctx.Path()).Msg("request rejected by limiter")
			return fiber.NewError(http.StatusTooManyRequests, "too many requests")
		}

		return ctx.Next()
	}
}
