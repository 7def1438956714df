package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/articles/errors"
	"github.com/kbukum/articles/logger"
)

// ErrorResponder writes the response for a request that ended in err.
type ErrorResponder func(c *gin.Context, err error)

// Recovery answers a request that panicked or recorded an error with
// c.Error, once the handlers after it have returned and only if nothing was
// written yet. Mount it first to catch failures anywhere in the chain, and
// again right before the route handlers so the error response is written
// while outer middleware such as RequestLogger is still running.
func Recovery(log *logger.Logger, respond ErrorResponder) gin.HandlerFunc {
	log = log.WithComponent("http")
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			log.WithContext(c.Request.Context()).Error("Panic recovered", logger.Fields(
				logger.FieldError, fmt.Sprintf("%v", rec),
				"stack", string(debug.Stack()),
				"method", c.Request.Method,
				"path", c.Request.URL.Path,
			))
			c.Abort()
			if !c.Writer.Written() {
				respond(c, apperrors.Internal(panicError(rec)))
			}
		}()

		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		log.WithContext(c.Request.Context()).Error("Request failed", logger.Fields(
			logger.FieldError, err.Error(),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		))
		respond(c, err)
	}
}

func panicError(rec any) error {
	if err, ok := rec.(error); ok {
		return err
	}
	return errors.New(fmt.Sprint(rec))
}
