package metadata

import (
	"net/http"
	"strconv"

	"github.com/cockroachdb/errors"

	"github.com/rainbow-me/request-context/common/chain"
	"github.com/rainbow-me/request-context/common/clock"
	"github.com/rainbow-me/request-context/common/headers"
)

// Builder creates RequestContexts from inbound headers and session state.
type Builder struct {
	clock     clock.Clock
	generator chain.Generator
}

type BuilderOpt func(*Builder)

// WithClock sets the time source used for creation timestamps and Age. Default is clock.System().
func WithClock(c clock.Clock) BuilderOpt {
	return func(b *Builder) {
		b.clock = c
	}
}

// WithGenerator sets the request chain segment generator. Default is chain.Default.
func WithGenerator(g chain.Generator) BuilderOpt {
	return func(b *Builder) {
		b.generator = g
	}
}

func NewBuilder(opts ...BuilderOpt) *Builder {
	b := &Builder{
		clock:     clock.System(),
		generator: chain.Default,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

var defaultBuilder = NewBuilder()

// FromHeaders builds a RequestContext from raw inbound headers using the default builder.
func FromHeaders(raw Metadata) RequestContext {
	return defaultBuilder.FromHeaders(raw)
}

// FromHTTPHeaders is FromHeaders over a net/http header set.
func FromHTTPHeaders(h http.Header) RequestContext {
	return defaultBuilder.FromHeaders(FromHTTPHeader(h))
}

// FromSessionAndHeaders builds a RequestContext from session state and raw inbound
// headers using the default builder.
func FromSessionAndHeaders(session Session, raw Metadata) RequestContext {
	return defaultBuilder.FromSessionAndHeaders(session, raw)
}

// FromHeaders reads every field straight from its header. The inbound request
// chain is extended with a new segment, or started when absent.
func (b *Builder) FromHeaders(raw Metadata) RequestContext {
	return RequestContext{
		authorization:  raw.lookup(headers.HeaderAuthorization),
		token:          raw.lookup(headers.HeaderToken),
		forwardedFor:   raw.lookup(headers.HeaderXForwardedFor),
		sessionID:      raw.lookup(headers.HeaderXSessionID),
		requestID:      raw.lookup(headers.HeaderXRequestID),
		requestChain:   b.extendChain(raw),
		createdAtNanos: b.createdAt(raw),
		clock:          b.clock,
	}
}

// FromSessionAndHeaders takes authorization and the user id from the session.
// The session id prefers the session value over the header. The token prefers the
// header over the session. Forwarded-for is merged with the true client IP.
func (b *Builder) FromSessionAndHeaders(session Session, raw Metadata) RequestContext {
	return RequestContext{
		authorization:  sessionValue(session, headers.SessionKeyAuthToken),
		userID:         sessionValue(session, headers.SessionKeyUserID),
		sessionID:      sessionValue(session, headers.SessionKeySessionID).or(raw.lookup(headers.HeaderXSessionID)),
		token:          raw.lookup(headers.HeaderToken).or(sessionValue(session, headers.SessionKeyToken)),
		forwardedFor:   mergeForwardedFor(raw.lookup(headers.HeaderTrueClientIP), raw.lookup(headers.HeaderXForwardedFor)),
		requestID:      raw.lookup(headers.HeaderXRequestID),
		requestChain:   b.extendChain(raw),
		createdAtNanos: b.createdAt(raw),
		clock:          b.clock,
	}
}

func (b *Builder) extendChain(raw Metadata) string {
	existing, ok := raw.Lookup(headers.HeaderXRequestChain)
	return chain.Extend(b.generator, existing, ok)
}

// createdAt honours an inbound timestamp and otherwise stamps the current time.
func (b *Builder) createdAt(raw Metadata) int64 {
	if v, ok := raw.Lookup(headers.HeaderXRequestTimestamp); ok {
		if nanos, err := parseTimestamp(v); err == nil {
			return nanos
		}
	}
	return b.clock.NowNanos()
}

func parseTimestamp(v string) (int64, error) {
	nanos, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "parse %s", headers.HeaderXRequestTimestamp)
	}
	return nanos, nil
}
