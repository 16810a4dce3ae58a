// Package server exposes the gateway over HTTP.
package server

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/diogo/projassist/internal/gateway"
	"github.com/diogo/projassist/internal/models"
)

// RequestIDHeader carries the per-request id in both directions
const RequestIDHeader = "X-Request-ID"

// Forwarder is the gateway behavior the HTTP layer needs
type Forwarder interface {
	Forward(ctx context.Context, question string) gateway.Result
	InternalError() gateway.Result
}

// NewRouter builds the gin engine with middlewares and routes
func NewRouter(logger *zap.Logger, fwd Forwarder) *gin.Engine {
	r := gin.New()

	r.Use(requestIDMiddleware(), zapLoggerMiddleware(logger), gin.Recovery())

	h := NewAskHandler(logger, fwd)
	r.POST(models.GatewayPath, h.Ask)
	r.GET("/healthz", Health)

	return r
}

// requestIDMiddleware reuses the caller's request id or assigns a new one
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(RequestIDHeader, id)
		c.Writer.Header().Set(RequestIDHeader, id)
		c.Next()
	}
}

// zapLoggerMiddleware logs one line per request
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("request_id", c.GetString(RequestIDHeader)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}
