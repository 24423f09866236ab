package middleware

import (
	"time"

	"jobboard/internal/logger"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const CtxRequestIDKey = "request_id"

type AccessLogMiddleware struct {
	logger *zap.Logger
}

func NewAccessLogMiddleware(log *zap.Logger) *AccessLogMiddleware {
	return &AccessLogMiddleware{logger: logger.Named(log, "access")}
}

// Middleware tags each request with an id and logs one line when it
// completes. It must sit outside the error middleware so the final status is
// known.
func (m *AccessLogMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()

		rid := c.Get("X-Request-ID")
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set("X-Request-ID", rid)
		c.Locals(CtxRequestIDKey, rid)

		err := c.Next()

		status := c.Response().StatusCode()
		fields := []zap.Field{
			zap.String(logger.FieldRequestID, rid),
			zap.String(logger.FieldMethod, c.Method()),
			zap.String(logger.FieldPath, c.OriginalURL()),
			zap.Int(logger.FieldStatus, status),
			zap.Duration(logger.FieldLatency, time.Since(start)),
			zap.String("ip", c.IP()),
			zap.Int("resp_bytes", len(c.Response().Body())),
			zap.String("user_agent", c.Get("User-Agent")),
		}
		switch {
		case status >= 500:
			m.logger.Error("http access", fields...)
		case status >= 400:
			m.logger.Info("http access", fields...)
		default:
			m.logger.Debug("http access", fields...)
		}

		return err
	}
}
