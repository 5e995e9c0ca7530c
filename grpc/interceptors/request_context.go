package interceptors

import (
	"context"

	grpcmiddleware "github.com/grpc-ecosystem/go-grpc-middleware"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/rainbow-me/request-context/common/headers"
	commonmeta "github.com/rainbow-me/request-context/common/metadata"
	"github.com/rainbow-me/request-context/common/logger"
	"github.com/rainbow-me/request-context/observability"
)

// fromIncoming builds the RequestContext of an inbound call from its metadata.
func fromIncoming(ctx context.Context, b *commonmeta.Builder) context.Context {
	md, _ := metadata.FromIncomingContext(ctx)
	if b == nil {
		b = defaultBuilder
	}
	rc := b.FromHeaders(commonmeta.Metadata(md))

	ctx = commonmeta.ContextWithRequestContext(ctx, rc)
	observability.TagActiveSpan(ctx, rc)
	if err := grpc.SetHeader(ctx, metadata.Pairs(headers.HeaderXRequestChain, rc.RequestChain())); err != nil {
		logger.FromContext(ctx).Debug("failed to set request chain response header", logger.Error(err))
	}
	return ctx
}

// toOutgoing appends the outbound headers of the RequestContext found in ctx to the
// outgoing metadata.
func toOutgoing(ctx context.Context) context.Context {
	rc, ok := commonmeta.RequestContextFromContext(ctx)
	if !ok {
		return ctx
	}
	pairs := rc.Headers()
	kv := make([]string, 0, 2*len(pairs))
	for _, p := range pairs {
		kv = append(kv, p.Name, p.Value)
	}
	return metadata.AppendToOutgoingContext(ctx, kv...)
}

var defaultBuilder = commonmeta.NewBuilder()

// UnaryRequestContextServerInterceptor stores the RequestContext built from the incoming
// metadata in the handler context. A nil builder uses the defaults.
func UnaryRequestContextServerInterceptor(b *commonmeta.Builder) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req any,
		_ *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		return handler(fromIncoming(ctx, b), req)
	}
}

// StreamRequestContextServerInterceptor is the streaming counterpart of
// UnaryRequestContextServerInterceptor.
func StreamRequestContextServerInterceptor(b *commonmeta.Builder) grpc.StreamServerInterceptor {
	return func(
		srv any,
		ss grpc.ServerStream,
		_ *grpc.StreamServerInfo,
		handler grpc.StreamHandler,
	) error {
		wrapped := grpcmiddleware.WrapServerStream(ss)
		wrapped.WrappedContext = fromIncoming(ss.Context(), b)
		return handler(srv, wrapped)
	}
}

// UnaryRequestContextClientInterceptor propagates the RequestContext of ctx to the callee.
func UnaryRequestContextClientInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	return invoker(toOutgoing(ctx), method, req, reply, cc, opts...)
}

// StreamRequestContextClientInterceptor propagates the RequestContext of ctx to the callee.
func StreamRequestContextClientInterceptor(
	ctx context.Context,
	desc *grpc.StreamDesc,
	cc *grpc.ClientConn,
	method string,
	streamer grpc.Streamer,
	opts ...grpc.CallOption,
) (grpc.ClientStream, error) {
	return streamer(toOutgoing(ctx), desc, cc, method, opts...)
}
