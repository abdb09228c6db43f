package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/meinhoongagan/hospital-app/metrics"
)

// RequestLogger logs one line per request and records the HTTP metrics.
// Paths are labelled by route pattern so IDs do not explode cardinality.
func RequestLogger(log *zap.Logger, collector *metrics.Collector) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		collector.InFlightGauge.Inc()
		defer collector.InFlightGauge.Dec()

		err := c.Next()
		if err != nil {
			// let the app's error handler write the response now so the
			// status we record is the one sent
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
			err = nil
		}

		status := c.Response().StatusCode()
		elapsed := time.Since(start)
		path := c.Route().Path
		method := c.Method()

		labels := []string{method, path, strconv.Itoa(status)}
		collector.RequestsTotal.WithLabelValues(labels...).Inc()
		collector.RequestDuration.WithLabelValues(labels...).Observe(elapsed.Seconds())

		fields := []zap.Field{
			zap.String("method", method),
			zap.String("path", c.Path()),
			zap.String("route", path),
			zap.Int("status", status),
			zap.Duration("latency", elapsed),
			zap.String("ip", c.IP()),
		}
		if id, ok := c.Locals(LocalUserID).(string); ok {
			fields = append(fields, zap.String("user_id", id))
		}

		switch {
		case status >= fiber.StatusInternalServerError:
			log.Error("request", fields...)
		case status >= fiber.StatusBadRequest:
			log.Warn("request", fields...)
		default:
			log.Info("request", fields...)
		}
		return err
	}
}
