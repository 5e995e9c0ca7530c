package interceptors

import (
	"net/http"

	"github.com/rainbow-me/request-context/common/metadata"
)

// InjectRequestContext writes the outbound headers of rc into h. Existing values of
// the forwarded headers are replaced; repeated extra headers are all kept.
func InjectRequestContext(h http.Header, rc metadata.RequestContext) {
	pairs := rc.Headers()
	for _, p := range pairs {
		h.Del(p.Name)
	}
	for _, p := range pairs {
		h.Add(p.Name, p.Value)
	}
}

// ExtractRequestContext builds a RequestContext from inbound headers. A nil builder
// uses the package defaults.
func ExtractRequestContext(h http.Header, b *metadata.Builder) metadata.RequestContext {
	if b == nil {
		return metadata.FromHTTPHeaders(h)
	}
	return b.FromHeaders(metadata.FromHTTPHeader(h))
}

// ExtractRequestContextWithSession builds a RequestContext from session state merged
// with inbound headers.
func ExtractRequestContextWithSession(
	h http.Header,
	session metadata.Session,
	b *metadata.Builder,
) metadata.RequestContext {
	if b == nil {
		return metadata.FromSessionAndHeaders(session, metadata.FromHTTPHeader(h))
	}
	return b.FromSessionAndHeaders(session, metadata.FromHTTPHeader(h))
}
