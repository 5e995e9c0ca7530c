package gin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/rainbow-me/request-context/common/audit"
	"github.com/rainbow-me/request-context/common/chain"
	"github.com/rainbow-me/request-context/common/logger"
	"github.com/rainbow-me/request-context/common/metadata"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type recordingSink struct {
	mu      sync.Mutex
	entries []audit.Entry
}

func (s *recordingSink) Submit(_ context.Context, e audit.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
	return nil
}

func newRouter(opts ...InterceptorOpt) *gin.Engine {
	r := gin.New()
	r.Use(DefaultInterceptors(append([]InterceptorOpt{WithTracingEnabled(false)}, opts...)...)...)
	return r
}

func fixedBuilder() *metadata.Builder {
	return metadata.NewBuilder(metadata.WithGenerator(chain.GeneratorFunc(func() string { return "hop" })))
}

func TestRequestContextMiddleware(t *testing.T) {
	var got metadata.RequestContext
	r := newRouter(WithBuilder(fixedBuilder()))
	r.GET("/users/:id", func(c *gin.Context) {
		rc, ok := RequestContext(c)
		require.True(t, ok)
		got = rc
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/users/1", nil)
	req.Header.Set("X-Request-Id", "req")
	req.Header.Set("X-Request-Chain", "edge")
	req.Header.Set("X-Forwarded-For", "9.9.9.9")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "edge-hop", w.Header().Get("X-Request-Chain"))
	id, _ := got.RequestID()
	fwd, _ := got.ForwardedFor()
	assert.Equal(t, "req", id)
	assert.Equal(t, "9.9.9.9", fwd)
	assert.Equal(t, "edge-hop", got.RequestChain())
}

func TestRequestContextMiddlewareWithSessions(t *testing.T) {
	var got metadata.RequestContext
	sessions := func(*gin.Context) metadata.Session {
		return metadata.MapSession{"sessionId": "stored", "authToken": "Bearer s", "userId": "u1"}
	}
	r := newRouter(WithSessions(sessions))
	r.GET("/me", func(c *gin.Context) {
		got, _ = RequestContext(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("True-Client-Ip", "1.2.3.4")
	req.Header.Set("X-Forwarded-For", "1.2.3.4, 10.0.0.1")
	req.Header.Set("X-Session-Id", "from-header")
	r.ServeHTTP(httptest.NewRecorder(), req)

	sess, _ := got.SessionID()
	user, _ := got.UserID()
	auth, _ := got.Authorization()
	fwd, _ := got.ForwardedFor()
	assert.Equal(t, "stored", sess)
	assert.Equal(t, "u1", user)
	assert.Equal(t, "Bearer s", auth)
	assert.Equal(t, "1.2.3.4, 10.0.0.1", fwd)
}

func TestRequestContextDisabled(t *testing.T) {
	r := newRouter(WithRequestContextEnabled(false))
	r.GET("/ping", func(c *gin.Context) {
		_, ok := RequestContext(c)
		assert.False(t, ok)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Empty(t, w.Header().Get("X-Request-Chain"))
}

func TestAuditMiddleware(t *testing.T) {
	sink := &recordingSink{}
	r := newRouter(WithAudit(sink))
	r.POST("/transfers/:id", func(c *gin.Context) { c.Status(http.StatusCreated) })

	req := httptest.NewRequest(http.MethodPost, "/transfers/7", nil)
	req.Header.Set("X-Request-Id", "req")
	req.Header.Set("Token", "tok")
	r.ServeHTTP(httptest.NewRecorder(), req)

	require.Len(t, sink.entries, 1)
	e := sink.entries[0]
	assert.Equal(t, "POST /transfers/:id", e.TransactionName)
	assert.Equal(t, "/transfers/7", e.Path)
	assert.Equal(t, "req", e.Tags["x-request-id"])
	assert.Equal(t, "-", e.Tags["x-session-id"])
	assert.Equal(t, "tok", e.Details["token"])
	assert.Equal(t, "-", e.Details["ipAddress"])
}

func TestAuditMiddlewareRecordsPanickedRequests(t *testing.T) {
	sink := &recordingSink{}
	r := newRouter(WithAudit(sink))
	r.GET("/panic", func(*gin.Context) { panic("boom") })

	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	req.Header.Set("X-Request-Id", "req-panic")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	require.Len(t, sink.entries, 1)
	assert.Equal(t, "GET /panic", sink.entries[0].TransactionName)
	assert.Equal(t, "req-panic", sink.entries[0].Tags["x-request-id"])
}

func TestRequestLoggingAge(t *testing.T) {
	for name, tc := range map[string]struct {
		timestamp string
		expectAge bool
	}{
		"local clock":       {expectAge: true},
		"foreign timestamp": {timestamp: strconv.FormatInt(time.Now().UnixNano(), 10)},
	} {
		t.Run(name, func(t *testing.T) {
			core, logs := observer.New(zap.DebugLevel)
			r := newRouter(WithHTTPDebug())
			r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			req = req.WithContext(logger.ContextWithLogger(req.Context(), logger.NewLogger(zap.New(core))))
			if tc.timestamp != "" {
				req.Header.Set("X-Request-Timestamp", tc.timestamp)
			}
			r.ServeHTTP(httptest.NewRecorder(), req)

			entries := logs.FilterMessage("HTTP request handled").All()
			require.Len(t, entries, 1)
			age, ok := entries[0].ContextMap()["request_age"]
			assert.Equal(t, tc.expectAge, ok)
			if ok {
				assert.GreaterOrEqual(t, age, time.Duration(0))
			}
		})
	}
}

func TestAuditMiddlewareSinkFailureDoesNotFailRequest(t *testing.T) {
	sink := audit.SinkFunc(func(context.Context, audit.Entry) error { return errors.New("down") })
	r := newRouter(WithAudit(sink))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestErrorResponsesCarryRequestID(t *testing.T) {
	r := newRouter(WithBuilder(fixedBuilder()), WithHTTPDebug())
	r.GET("/error", func(c *gin.Context) { _ = c.Error(errors.New("some-error")) })
	r.GET("/panic", func(*gin.Context) { panic("boom") })

	for _, path := range []string{"/error", "/panic"} {
		t.Run(strings.TrimPrefix(path, "/"), func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, path, nil)
			req.Header.Set("X-Request-Id", "req-500")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusInternalServerError, w.Code)
			assert.JSONEq(t,
				`{"message":"internal server error","request_id":"req-500","request_chain":"hop"}`,
				w.Body.String())
		})
	}
}

func TestTimeoutMiddleware(t *testing.T) {
	r := newRouter(WithTimeout(time.Second))
	r.GET("/deadline", func(c *gin.Context) {
		_, ok := c.Request.Context().Deadline()
		assert.True(t, ok)
		c.Status(http.StatusOK)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/deadline", nil))
}
