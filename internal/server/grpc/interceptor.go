package grpc

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// loggingInterceptor logs every unary call with its status code and turns
// handler panics into codes.Internal.
func (s *GRPCServer) loggingInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp interface{}, err error) {

	start := time.Now()

	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error(ctx, "panic in gRPC handler", "method", info.FullMethod, "panic", rec)
			resp, err = nil, status.Error(codes.Internal, "internal error")
		}

		s.logger.Debug(ctx, "gRPC call",
			"method", info.FullMethod,
			"code", status.Code(err).String(),
			"duration", time.Since(start),
		)
	}()

	return handler(ctx, req)
}
