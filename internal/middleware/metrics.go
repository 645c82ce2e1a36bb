package middleware

import (
	"strconv"
	"time"

	"github.com/shoriful-stack/HS-CRM-Server-MongoDb/prometheus"

	"github.com/labstack/echo/v4"
)

// MetricsMiddleware records request count and duration per route
func MetricsMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		err := next(c)

		status := c.Response().Status
		if err != nil {
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}
		}

		prometheus.RecordHTTPRequest(c.Request().Method, c.Path(), strconv.Itoa(status), time.Since(start))

		return err
	}
}
