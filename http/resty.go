package http

import (
	"net/http"

	"github.com/go-resty/resty/v2"

	"github.com/rainbow-me/request-context/common/logger"
	interceptors "github.com/rainbow-me/request-context/http/interceptors/resty"
)

// NewRestyWithClient returns a resty client propagating traces and request context
// headers on every call.
func NewRestyWithClient(client *http.Client, log *logger.Logger, opt ...interceptors.InterceptorOpt) *resty.Client {
	restyClient := resty.NewWithClient(client)
	interceptors.InjectInterceptors(restyClient, opt...)

	if log != nil {
		restyClient.SetLogger(log.Sugar())
	}
	return restyClient
}
