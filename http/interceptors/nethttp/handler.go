// Package nethttp binds the request context to plain net/http servers.
package nethttp

import (
	"net/http"

	httptrace "github.com/DataDog/dd-trace-go/contrib/net/http/v2"
	"github.com/gorilla/handlers"

	"github.com/rainbow-me/request-context/common/headers"
	"github.com/rainbow-me/request-context/common/logger"
	"github.com/rainbow-me/request-context/common/metadata"
	"github.com/rainbow-me/request-context/http/interceptors"
	"github.com/rainbow-me/request-context/observability"
)

// SessionProvider returns the session of the request, or nil when it has none.
type SessionProvider func(r *http.Request) metadata.Session

type handlerCfg struct {
	builder     *metadata.Builder
	sessions    SessionProvider
	log         *logger.Logger
	serviceName string
	tracing     bool
}

type Option func(*handlerCfg)

// WithBuilder sets the builder used to create request contexts.
func WithBuilder(b *metadata.Builder) Option {
	return func(cfg *handlerCfg) {
		cfg.builder = b
	}
}

// WithSessions builds request contexts from session state merged with the headers.
func WithSessions(provider SessionProvider) Option {
	return func(cfg *handlerCfg) {
		cfg.sessions = provider
	}
}

// WithLogger sets the logger used to report recovered panics.
func WithLogger(log *logger.Logger) Option {
	return func(cfg *handlerCfg) {
		cfg.log = log
	}
}

// WithTracing wraps the handler with the Datadog net/http integration. Default disabled.
func WithTracing(serviceName string) Option {
	return func(cfg *handlerCfg) {
		cfg.tracing = true
		cfg.serviceName = serviceName
	}
}

// Handler stores the RequestContext of every request in its context before calling
// next, echoes the request chain on the response and recovers from panics.
func Handler(next http.Handler, opts ...Option) http.Handler {
	cfg := &handlerCfg{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.log == nil {
		cfg.log = logger.Instance()
	}

	var h http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var rc metadata.RequestContext
		if cfg.sessions != nil {
			rc = interceptors.ExtractRequestContextWithSession(r.Header, cfg.sessions(r), cfg.builder)
		} else {
			rc = interceptors.ExtractRequestContext(r.Header, cfg.builder)
		}
		ctx := metadata.ContextWithRequestContext(r.Context(), rc)
		observability.TagActiveSpan(ctx, rc)

		w.Header().Set(headers.HeaderXRequestChain, rc.RequestChain())
		next.ServeHTTP(w, r.WithContext(ctx))
	})

	h = handlers.RecoveryHandler(
		handlers.RecoveryLogger((*logger.Adapter)(cfg.log)),
		handlers.PrintRecoveryStack(false),
	)(h)

	if cfg.tracing {
		h = httptrace.WrapHandler(h, cfg.serviceName, "")
	}
	return h
}
