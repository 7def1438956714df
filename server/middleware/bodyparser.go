package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	apperrors "github.com/kbukum/articles/errors"
)

// BodyKey is the gin context key holding the parsed JSON body.
const BodyKey = "body"

// BodyParser decodes JSON request bodies into BodyKey. Requests that are not
// JSON pass through untouched; an empty JSON body parses to an empty object.
// Only a single object or array is accepted. A malformed body, including one
// with content after the first value, is recorded with c.Error and the chain
// is aborted.
//
// The raw bytes are restored on c.Request.Body so handlers may bind again.
func BodyParser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !isJSON(c.ContentType()) || c.Request.Body == nil {
			c.Next()
			return
		}

		raw, err := io.ReadAll(c.Request.Body)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				abortWithError(c, apperrors.New(apperrors.ErrCodeInvalidInput, "Request body too large.", http.StatusRequestEntityTooLarge).
					WithDetail("limit", tooLarge.Limit))
				return
			}
			abortWithError(c, apperrors.InvalidInput("body", "unreadable request body").WithCause(err))
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(raw))

		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) == 0 {
			c.Set(BodyKey, map[string]any{})
			c.Next()
			return
		}
		if trimmed[0] != '{' && trimmed[0] != '[' {
			abortWithError(c, apperrors.InvalidInput("body", "JSON body must be an object or an array"))
			return
		}

		// BindBody stops after the first value; trailing content must fail.
		if !json.Valid(trimmed) {
			abortWithError(c, apperrors.InvalidInput("body", "malformed JSON"))
			return
		}
		var body any
		if err := binding.JSON.BindBody(trimmed, &body); err != nil {
			abortWithError(c, apperrors.InvalidInput("body", "malformed JSON").WithCause(err))
			return
		}
		c.Set(BodyKey, body)
		c.Next()
	}
}

// Body returns the body parsed by BodyParser.
func Body(c *gin.Context) (any, bool) {
	return c.Get(BodyKey)
}

func isJSON(contentType string) bool {
	return contentType == binding.MIMEJSON || strings.HasSuffix(contentType, "+json")
}

func abortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
