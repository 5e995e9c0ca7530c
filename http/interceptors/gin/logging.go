package gin

import (
	"bytes"
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rainbow-me/request-context/common/logger"
	"github.com/rainbow-me/request-context/common/metadata"
)

type loggingCfg struct {
	debug bool
	trace bool
}

type responseWriterCapture struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *responseWriterCapture) Write(data []byte) (int, error) {
	w.body.Write(data)
	return w.ResponseWriter.Write(data)
}

// RequestLogging logs every handled request when debug is enabled. With trace enabled
// request and response bodies are logged too. The age of the request context is
// only meaningful against timestamps taken by this process, so a negative age from
// a foreign inbound timestamp is not reported.
func RequestLogging(cfg loggingCfg) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !cfg.debug {
			c.Next()
			return
		}

		var reqBody []byte
		if cfg.trace && c.Request.Body != nil {
			if bodyBytes, err := io.ReadAll(c.Request.Body); err == nil {
				reqBody = bodyBytes
				c.Request.Body = io.NopCloser(bytes.NewReader(bodyBytes))
			}
		}

		var responseCapture *responseWriterCapture
		if cfg.trace {
			responseCapture = &responseWriterCapture{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
			c.Writer = responseCapture
		}

		start := time.Now()
		c.Next()

		ctx := c.Request.Context()
		fields := []logger.Field{
			logger.String("method", c.Request.Method),
			logger.String("path", c.Request.URL.Path),
			logger.Int("status", c.Writer.Status()),
			logger.Duration("duration", time.Since(start)),
			logger.String("component", componentName),
		}
		if rc, ok := metadata.RequestContextFromContext(ctx); ok {
			if age := rc.Age(); age >= 0 {
				fields = append(fields, logger.Duration("request_age", age))
			}
		}
		if cfg.trace {
			fields = append(fields,
				logger.ByteString("request_body", reqBody),
				logger.ByteString("response_body", responseCapture.body.Bytes()),
			)
		}

		logLevel := logger.DebugLevel
		if c.Writer.Status() >= 500 {
			logLevel = logger.ErrorLevel
		} else if c.Writer.Status() >= 400 {
			logLevel = logger.WarnLevel
		}
		logger.FromContext(ctx).Log(logLevel, "HTTP request handled", fields...)
	}
}
