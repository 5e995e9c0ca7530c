package metadata

import (
	"context"

	"github.com/rainbow-me/request-context/common/clock"
	"github.com/rainbow-me/request-context/common/logger"
)

// Header is a single outbound header. Order and duplicates are significant.
type Header struct {
	Name  string
	Value string
}

// RequestContext carries the tracing and authentication metadata of one request.
// It is immutable: every derivation returns a new value, so it can be shared
// between goroutines without synchronisation. Build it with FromHeaders,
// FromSessionAndHeaders or a Builder; the zero value has no request chain.
type RequestContext struct {
	authorization optional
	token         optional
	sessionID     optional
	requestID     optional
	forwardedFor  optional
	userID        optional

	requestChain string
	extraHeaders []Header

	createdAtNanos int64
	clock          clock.Clock
}

func (r RequestContext) Authorization() (string, bool) { return r.authorization.get() }

func (r RequestContext) Token() (string, bool) { return r.token.get() }

func (r RequestContext) SessionID() (string, bool) { return r.sessionID.get() }

func (r RequestContext) RequestID() (string, bool) { return r.requestID.get() }

// ForwardedFor returns the comma-joined chain of client addresses.
func (r RequestContext) ForwardedFor() (string, bool) { return r.forwardedFor.get() }

// UserID is only populated when the context was built from a session.
func (r RequestContext) UserID() (string, bool) { return r.userID.get() }

func (r RequestContext) RequestChain() string { return r.requestChain }

// CreatedAtNanos is the monotonic creation time. It is meaningless outside this process.
func (r RequestContext) CreatedAtNanos() int64 { return r.createdAtNanos }

// ExtraHeaders returns a copy of the headers appended with WithExtraHeaders.
func (r RequestContext) ExtraHeaders() []Header {
	if len(r.extraHeaders) == 0 {
		return nil
	}
	return append([]Header(nil), r.extraHeaders...)
}

// requestContextKey is the key used to store RequestContext in context
type requestContextKey struct{}

// ContextWithRequestContext stores r in ctx and adds its identifiers to the context logger.
func ContextWithRequestContext(ctx context.Context, r RequestContext) context.Context {
	ctx = context.WithValue(ctx, requestContextKey{}, r)
	return logger.ContextWithFields(ctx, r.ToZapFields()...)
}

// RequestContextFromContext extracts RequestContext from context
func RequestContextFromContext(ctx context.Context) (RequestContext, bool) {
	if ctx == nil {
		return RequestContext{}, false
	}
	r, ok := ctx.Value(requestContextKey{}).(RequestContext)
	return r, ok
}

// ToZapFields returns the identifiers worth attaching to every log line.
// Credentials are never included.
func (r RequestContext) ToZapFields() []logger.Field {
	fields := make([]logger.Field, 0, 3)
	if v, ok := r.requestID.get(); ok {
		fields = append(fields, logger.String("request_id", v))
	}
	if v, ok := r.sessionID.get(); ok {
		fields = append(fields, logger.String("session_id", v))
	}
	return append(fields, logger.String("request_chain", r.requestChain))
}
