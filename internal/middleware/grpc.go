package middleware

import (
	"context"

	"github.com/fekuna/omnipos-wms-service/internal/auth"
	"google.golang.org/grpc"
)

// ContextInterceptor resolves the acting user from incoming metadata once per call.
func ContextInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if u, ok := auth.GetUser(ctx); ok {
			ctx = auth.WithUser(ctx, u)
		}
		return handler(ctx, req)
	}
}
