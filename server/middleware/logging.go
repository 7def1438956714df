package middleware

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/articles/logger"
)

// RequestLogger writes one line per completed request in the form
//
//	GET /articles/ 200 512 - 1.203 ms
//
// that is method, URL, status, response content length ("-" when unknown) and
// response time. The same values are attached as structured fields. Every
// line is logged at info level whatever the status; failures are logged
// separately by Recovery.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	log = log.WithComponent("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		elapsed := time.Since(start)
		status := c.Writer.Status()
		length := contentLength(c)
		url := c.Request.URL.RequestURI()

		line := FormatRequestLine(c.Request.Method, url, status, length, elapsed)
		fields := logger.Fields(
			"method", c.Request.Method,
			"url", url,
			logger.FieldStatus, status,
			logger.FieldDuration, millis(elapsed),
		)
		log.WithContext(c.Request.Context()).Info(line, fields)
	}
}

// FormatRequestLine renders a request summary line. An empty length prints "-".
func FormatRequestLine(method, url string, status int, length string, elapsed time.Duration) string {
	if length == "" {
		length = "-"
	}
	return fmt.Sprintf("%s %s %d %s - %.3f ms", method, url, status, length, millis(elapsed))
}

func millis(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / float64(time.Millisecond)
}

func contentLength(c *gin.Context) string {
	if v := c.Writer.Header().Get("Content-Length"); v != "" {
		return v
	}
	if size := c.Writer.Size(); size >= 0 {
		return strconv.Itoa(size)
	}
	return ""
}
