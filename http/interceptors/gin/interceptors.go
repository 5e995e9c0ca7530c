package gin

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rainbow-me/request-context/common/audit"
	"github.com/rainbow-me/request-context/common/config"
	"github.com/rainbow-me/request-context/common/metadata"
)

const (
	httpHandlerOp = "http.handler"
	componentName = "gin"
)

type interceptorCfg struct {
	TracingEnabled        bool
	RequestContextEnabled bool
	HTTPDebug             bool
	HTTPTrace             bool
	Timeout               time.Duration
	Builder               *metadata.Builder
	Sessions              SessionProvider
	AuditSink             audit.Sink
}

type InterceptorOpt func(cfg *interceptorCfg)

// WithRequestContextEnabled enables/disables request context extraction. Default is enabled.
func WithRequestContextEnabled(enabled bool) InterceptorOpt {
	return func(cfg *interceptorCfg) {
		cfg.RequestContextEnabled = enabled
	}
}

// WithBuilder sets the builder used to create request contexts, e.g. to inject a clock.
func WithBuilder(b *metadata.Builder) InterceptorOpt {
	return func(cfg *interceptorCfg) {
		cfg.Builder = b
	}
}

// WithSessions builds request contexts from session state merged with the headers.
func WithSessions(provider SessionProvider) InterceptorOpt {
	return func(cfg *interceptorCfg) {
		cfg.Sessions = provider
	}
}

// WithAudit submits an audit entry to sink after every request.
func WithAudit(sink audit.Sink) InterceptorOpt {
	return func(cfg *interceptorCfg) {
		cfg.AuditSink = sink
	}
}

// WithTimeout sets the http handler timeout. Default is 1 minute.
func WithTimeout(timeout time.Duration) InterceptorOpt {
	return func(cfg *interceptorCfg) {
		cfg.Timeout = timeout
	}
}

// WithTracingEnabled enables/disables tracing. Default is enabled.
func WithTracingEnabled(enabled bool) InterceptorOpt {
	return func(cfg *interceptorCfg) {
		cfg.TracingEnabled = enabled
	}
}

// WithHTTPDebug enables printing log line with request info and duration for every request
func WithHTTPDebug() InterceptorOpt {
	return func(cfg *interceptorCfg) {
		cfg.HTTPDebug = true
	}
}

// WithHTTPTrace enables deeper http debugging by also printing the whole request and response body
func WithHTTPTrace() InterceptorOpt {
	return func(cfg *interceptorCfg) {
		cfg.HTTPDebug = true
		cfg.HTTPTrace = true
	}
}

// FromConfig maps the service configuration to interceptor options. Sessions and the
// audit sink are runtime dependencies and must be passed separately.
func FromConfig(conf config.Config) []InterceptorOpt {
	opts := []InterceptorOpt{
		WithTimeout(conf.HTTP.Timeout),
		WithTracingEnabled(conf.Tracing.Enabled),
	}
	if conf.HTTP.Trace {
		opts = append(opts, WithHTTPTrace())
	} else if conf.HTTP.Debug {
		opts = append(opts, WithHTTPDebug())
	}
	return opts
}

// DefaultInterceptors returns all our default interceptors for Gin servers.
// Defaults can be changed by passing any of the WithXXX options.
func DefaultInterceptors(opts ...InterceptorOpt) []gin.HandlerFunc {
	cfg := &interceptorCfg{
		TracingEnabled:        true,
		RequestContextEnabled: true,
		Timeout:               time.Minute,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	var middlewares []gin.HandlerFunc
	if cfg.TracingEnabled {
		middlewares = append(middlewares, TracingMiddleware)
	}
	if cfg.RequestContextEnabled {
		middlewares = append(middlewares, RequestContextMiddleware(requestContextCfg{
			builder:  cfg.Builder,
			sessions: cfg.Sessions,
		}))
	}
	middlewares = append(middlewares, RequestLogging(loggingCfg{
		debug: cfg.HTTPDebug,
		trace: cfg.HTTPTrace,
	}))
	// audit wraps panic recovery so requests that panicked are audited too
	if cfg.RequestContextEnabled && cfg.AuditSink != nil {
		middlewares = append(middlewares, AuditMiddleware(cfg.AuditSink))
	}
	middlewares = append(middlewares,
		PanicRecoveryMiddleware,
		ErrorHandlingMiddleware,
		TimeoutMiddleware(cfg.Timeout),
	)

	return middlewares
}
