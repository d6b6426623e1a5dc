package gin

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type HandlerFunc = gin.HandlerFunc
type Engine = gin.Engine

func New(middlewares ...HandlerFunc) *Engine {
	e := gin.New()
	e.Use(middlewares...)
	return e
}

func Logger() HandlerFunc {
	return gin.Logger()
}

func Recovery() HandlerFunc {
	return gin.Recovery()
}

// RequestID assigns a fresh UUID to each request, exposing it in the
// X-Request-ID response header and the request context, so log lines
// of one request can be correlated.
func RequestID() HandlerFunc {
	return func(c *gin.Context) {
		rid := uuid.NewString()
		c.Set("request-id", rid)
		c.Header("X-Request-ID", rid)
		c.Next()
	}
}
