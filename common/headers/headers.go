package headers

// Request Identification Headers
const (
	// HeaderXRequestID uniquely identifies an inbound request for logging,
	// debugging and audit purposes
	HeaderXRequestID = "x-request-id"

	// HeaderXSessionID identifies the logical user session a request belongs to
	HeaderXSessionID = "x-session-id"

	// HeaderXRequestChain carries the dash-joined chain of segment ids that records
	// the fan-out of a request across service hops. Every hop appends a segment.
	HeaderXRequestChain = "x-request-chain"

	// HeaderXRequestTimestamp carries the creation time of the request metadata
	// in nanoseconds
	HeaderXRequestTimestamp = "x-request-timestamp"
)

// Client Address Headers
const (
	// HeaderXForwardedFor is the comma-joined list of client addresses the request
	// traversed. It can be spoofed by the client.
	HeaderXForwardedFor = "x-forwarded-for"

	// HeaderTrueClientIP is set by the trusted edge proxy with the single address
	// of the client. It takes precedence over HeaderXForwardedFor.
	HeaderTrueClientIP = "true-client-ip"
)

// Authentication Headers
const (
	// HeaderAuthorization is the standard HTTP header used to carry authentication
	// credentials such as Bearer tokens, Basic auth, or API keys
	// Format examples: "Bearer <token>", "Basic <base64-encoded-credentials>"
	HeaderAuthorization = "authorization"

	// HeaderToken carries an opaque application token alongside authorization
	HeaderToken = "token"
)

// Session keys read from the hosting framework session store
const (
	SessionKeySessionID = "sessionId"
	SessionKeyAuthToken = "authToken"
	SessionKeyToken     = "token"
	SessionKeyUserID    = "userId"
)

// Audit keys
const (
	AuditKeyIPAddress       = "ipAddress"
	AuditKeyTransactionName = "transactionName"
	AuditKeyPath            = "path"

	// AuditPlaceholder replaces every absent value in audit tags and details
	AuditPlaceholder = "-"
)

// GetHeadersToForward returns the headers propagated to outbound calls, in the
// order they are written.
func GetHeadersToForward() []string {
	return []string{
		HeaderXRequestID,
		HeaderXSessionID,
		HeaderXForwardedFor,
		HeaderToken,
		HeaderXRequestChain,
		HeaderAuthorization,
	}
}

// IsSensitive reports whether the header carries credentials and must never be logged.
func IsSensitive(name string) bool {
	switch name {
	case HeaderAuthorization, HeaderToken:
		return true
	default:
		return false
	}
}
