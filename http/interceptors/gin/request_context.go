package gin

import (
	"github.com/gin-gonic/gin"

	"github.com/rainbow-me/request-context/common/audit"
	"github.com/rainbow-me/request-context/common/headers"
	"github.com/rainbow-me/request-context/common/logger"
	"github.com/rainbow-me/request-context/common/metadata"
	"github.com/rainbow-me/request-context/http/interceptors"
	"github.com/rainbow-me/request-context/observability"
)

// SessionProvider returns the session of the request, or nil when it has none.
// A gin-contrib/sessions store can be plugged in with sessions.Default.
type SessionProvider func(c *gin.Context) metadata.Session

type requestContextCfg struct {
	builder  *metadata.Builder
	sessions SessionProvider
}

// RequestContextMiddleware builds the RequestContext of the request from its headers,
// merged with session state when a SessionProvider is configured, and stores it in
// the request context. The extended request chain is echoed on the response.
func RequestContextMiddleware(cfg requestContextCfg) gin.HandlerFunc {
	return func(c *gin.Context) {
		var rc metadata.RequestContext
		if cfg.sessions != nil {
			rc = interceptors.ExtractRequestContextWithSession(c.Request.Header, cfg.sessions(c), cfg.builder)
		} else {
			rc = interceptors.ExtractRequestContext(c.Request.Header, cfg.builder)
		}

		ctx := metadata.ContextWithRequestContext(c.Request.Context(), rc)
		observability.TagActiveSpan(ctx, rc)
		c.Request = c.Request.WithContext(ctx)
		c.Header(headers.HeaderXRequestChain, rc.RequestChain())

		c.Next()
	}
}

// RequestContext returns the RequestContext stored by RequestContextMiddleware.
func RequestContext(c *gin.Context) (metadata.RequestContext, bool) {
	return metadata.RequestContextFromContext(c.Request.Context())
}

// AuditMiddleware submits an audit entry for every request carrying a RequestContext.
// The transaction name is the matched route, or the raw path when no route matched.
func AuditMiddleware(sink audit.Sink) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		rc, ok := RequestContext(c)
		if !ok {
			return
		}
		transaction := c.FullPath()
		if transaction == "" {
			transaction = c.Request.URL.Path
		}
		err := audit.Record(c.Request.Context(), sink, rc, c.Request.Method+" "+transaction, c.Request.URL.Path)
		if err != nil {
			logger.FromContext(c.Request.Context()).Warn("failed to record audit entry", logger.Error(err))
		}
	}
}
