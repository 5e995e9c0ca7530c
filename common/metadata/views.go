package metadata

import (
	"time"

	"github.com/rainbow-me/request-context/common/clock"
	"github.com/rainbow-me/request-context/common/headers"
)

// Headers returns the outbound headers: request id, session id, forwarded-for,
// token, request chain, authorization, then the extra headers in insertion order.
// Absent fields are skipped; the request chain is always written.
func (r RequestContext) Headers() []Header {
	out := make([]Header, 0, 6+len(r.extraHeaders))
	appendSet := func(name string, o optional) {
		if v, ok := o.get(); ok {
			out = append(out, Header{Name: name, Value: v})
		}
	}

	appendSet(headers.HeaderXRequestID, r.requestID)
	appendSet(headers.HeaderXSessionID, r.sessionID)
	appendSet(headers.HeaderXForwardedFor, r.forwardedFor)
	appendSet(headers.HeaderToken, r.token)
	out = append(out, Header{Name: headers.HeaderXRequestChain, Value: r.requestChain})
	appendSet(headers.HeaderAuthorization, r.authorization)

	return append(out, r.extraHeaders...)
}

// AuditTags returns the searchable tags of an audit entry. Caller values win on key collisions.
func (r RequestContext) AuditTags(transactionName, path string) map[string]string {
	return map[string]string{
		headers.HeaderXRequestID:        r.requestID.orPlaceholder(headers.AuditPlaceholder),
		headers.HeaderXSessionID:        r.sessionID.orPlaceholder(headers.AuditPlaceholder),
		headers.AuditKeyTransactionName: transactionName,
		headers.AuditKeyPath:            path,
	}
}

// AuditDetails returns the payload context of an audit entry with extra merged in.
// Later pairs overwrite earlier ones, including the fixed keys.
func (r RequestContext) AuditDetails(extra ...Header) map[string]string {
	details := map[string]string{
		headers.AuditKeyIPAddress:   r.forwardedFor.orPlaceholder(headers.AuditPlaceholder),
		headers.HeaderAuthorization: r.authorization.orPlaceholder(headers.AuditPlaceholder),
		headers.HeaderToken:         r.token.orPlaceholder(headers.AuditPlaceholder),
	}
	for _, h := range extra {
		details[h.Name] = h.Value
	}
	return details
}

// WithExtraHeaders returns a copy of r with pairs appended to its extra headers.
func (r RequestContext) WithExtraHeaders(pairs ...Header) RequestContext {
	extra := make([]Header, 0, len(r.extraHeaders)+len(pairs))
	extra = append(extra, r.extraHeaders...)
	r.extraHeaders = append(extra, pairs...)
	return r
}

// Age is the time elapsed since the context was created.
func (r RequestContext) Age() time.Duration {
	c := r.clock
	if c == nil {
		c = clock.System()
	}
	return clock.Since(c, r.createdAtNanos)
}
