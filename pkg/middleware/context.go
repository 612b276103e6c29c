package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/fern/pkg/context"
)

const (
	// HeaderUserID is the header key for the owning user ID
	HeaderUserID = "X-User-ID"
	// HeaderBatchID is the header key for an upstream batch ID
	HeaderBatchID = "X-Batch-ID"
)

func Context() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			req := c.Request()

			// get request id from header
			requestID := req.Header.Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = uuid.New().String()
			}

			userID := req.Header.Get(HeaderUserID)
			batchID := req.Header.Get(HeaderBatchID)

			ctx := req.Context()
			ctx = context.SetRequestID(ctx, requestID)
			ctx = context.SetMethod(ctx, req.Method)
			ctx = context.SetRoute(ctx, req.URL.Path)
			ctx = context.SetRemoteIP(ctx, c.RealIP())
			ctx = context.SetUserID(ctx, userID)
			ctx = context.SetBatchID(ctx, batchID)

			c.SetRequest(req.WithContext(ctx))

			return next(c)
		}
	}
}
