package observability

import (
	"context"

	"github.com/DataDog/dd-trace-go/v2/ddtrace/tracer"

	"github.com/rainbow-me/request-context/common/chain"
	"github.com/rainbow-me/request-context/common/logger"
	"github.com/rainbow-me/request-context/common/metadata"
)

// Span tags describing the request context
const (
	TagRequestID    = "request.id"
	TagSessionID    = "request.session_id"
	TagRequestChain = "request.chain"
	TagChainDepth   = "request.chain_depth"
)

// StartSpan is a helper function that we should always use instead of tracer.StartSpanFromContext to ensure that our
// context logger gets updated with trace and span ID. The span is tagged with the request context found in ctx.
func StartSpan(ctx context.Context, opName string, opts ...tracer.StartSpanOption) (*tracer.Span, context.Context) {
	span, ctx := tracer.StartSpanFromContext(ctx, opName, opts...)
	if rc, ok := metadata.RequestContextFromContext(ctx); ok {
		TagRequestContext(span, rc)
	}
	ctx = logger.ContextWithFields(ctx, logger.WithTrace(span.Context())...)
	return span, ctx
}

// TagRequestContext tags span with the identifiers of rc. Credentials are never tagged.
func TagRequestContext(span *tracer.Span, rc metadata.RequestContext) {
	if span == nil {
		return
	}
	if v, ok := rc.RequestID(); ok {
		span.SetTag(TagRequestID, v)
	}
	if v, ok := rc.SessionID(); ok {
		span.SetTag(TagSessionID, v)
	}
	span.SetTag(TagRequestChain, rc.RequestChain())
	span.SetTag(TagChainDepth, chain.Depth(rc.RequestChain()))
}

// TagActiveSpan tags the span found in ctx, if any, with rc.
func TagActiveSpan(ctx context.Context, rc metadata.RequestContext) {
	if span, ok := tracer.SpanFromContext(ctx); ok {
		TagRequestContext(span, rc)
	}
}
