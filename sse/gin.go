package sse

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kbukum/rxkit/errors"
	"github.com/kbukum/rxkit/rx"
)

// Handler returns a gin handler that streams the Observable built by
// factory for each request. A factory error is answered with its JSON
// error response instead of a stream.
func Handler[T any](factory func(c *gin.Context) (rx.Observable[T], error), opts ...Option) gin.HandlerFunc {
	return func(c *gin.Context) {
		src, err := factory(c)
		if err != nil {
			appErr := errors.FromError(err)
			c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
			return
		}
		Stream(c.Writer, c.Request, src, opts...)
	}
}

// HubHandler returns a gin handler that connects the caller to hub as
// client "<topic>:<uuid>", where topic is the path parameter param.
// Publish to "<topic>:*" to reach every client of a topic. Topics holding
// pattern characters are rejected, and a stopped hub answers 503.
func HubHandler(hub *Hub, param string, opts ...Option) gin.HandlerFunc {
	return func(c *gin.Context) {
		topic := c.Param(param)
		var appErr *errors.AppError
		switch {
		case topic == "":
			appErr = errors.MissingField(param)
		case strings.ContainsAny(topic, `*?[]\:`):
			appErr = errors.InvalidInput(param, "topic must not contain pattern characters or ':'")
		case hub.Stopped():
			appErr = errors.ServiceUnavailable("sse hub")
		}
		if appErr != nil {
			c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
			return
		}
		clientOpts := append(opts[:len(opts):len(opts)], WithClientID(topic+":"+uuid.NewString()))
		ServeSSE(hub, c.Writer, c.Request, clientOpts...)
	}
}
