package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rainbow-me/request-context/common/metadata"
	"github.com/rainbow-me/request-context/common/test"
)

func TestNewRestyWithClient(t *testing.T) {
	var chainHeader string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		chainHeader = r.Header.Get("X-Request-Chain")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewRestyWithClient(srv.Client(), test.NewLogger(t))
	rc := metadata.FromHeaders(metadata.Metadata{"x-request-chain": {"root"}})

	_, err := client.R().SetContext(metadata.ContextWithRequestContext(context.Background(), rc)).Get(srv.URL)
	require.NoError(t, err)

	assert.Equal(t, rc.RequestChain(), chainHeader)
}
