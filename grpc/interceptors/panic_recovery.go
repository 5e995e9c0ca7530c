package interceptors

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/DataDog/dd-trace-go/v2/ddtrace/ext"
	"github.com/DataDog/dd-trace-go/v2/ddtrace/tracer"
	grpcrecovery "github.com/grpc-ecosystem/go-grpc-middleware/recovery"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/rainbow-me/request-context/common/env"
	"github.com/rainbow-me/request-context/common/logger"
	commonmeta "github.com/rainbow-me/request-context/common/metadata"
)

// UnaryPanicRecoveryServerInterceptor converts handler panics into codes.Internal errors,
// logging them with the request identifiers and tagging the active span.
func UnaryPanicRecoveryServerInterceptor(log *logger.Logger) grpc.UnaryServerInterceptor {
	return grpcrecovery.UnaryServerInterceptor(grpcrecovery.WithRecoveryHandlerContext(recoverFunc(log)))
}

// StreamPanicRecoveryServerInterceptor is the streaming counterpart of UnaryPanicRecoveryServerInterceptor.
func StreamPanicRecoveryServerInterceptor(log *logger.Logger) grpc.StreamServerInterceptor {
	return grpcrecovery.StreamServerInterceptor(grpcrecovery.WithRecoveryHandlerContext(recoverFunc(log)))
}

func recoverFunc(log *logger.Logger) grpcrecovery.RecoveryHandlerFuncContext {
	return func(ctx context.Context, panicValue any) error {
		l := log
		if l == nil {
			l = logger.FromContext(ctx)
		}
		fields := logger.WithPanic(panicValue)
		if rc, ok := commonmeta.RequestContextFromContext(ctx); ok {
			fields = append(fields, rc.ToZapFields()...)
		}
		l.Error("Recovered from panic in gRPC handler", fields...)
		if env.IsLocalApplicationEnv() {
			_, _ = fmt.Fprintf(os.Stderr, "%s\n", debug.Stack())
		}

		if span, ok := tracer.SpanFromContext(ctx); ok {
			span.SetTag(ext.Error, true)
			span.SetTag(ext.ErrorType, "panic")
			span.SetTag(ext.ErrorMsg, codes.Internal.String())
		}

		// internal details are never exposed to the client
		return status.Error(codes.Internal, "Internal server error occurred")
	}
}
