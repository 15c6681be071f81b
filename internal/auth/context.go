package auth

import (
	"context"

	"google.golang.org/grpc/metadata"
)

// UserIDHeader carries the authenticated shopper id, set by the gateway in front of the service.
const UserIDHeader = "X-User-Id"

type userIDKey struct{}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// GetUserID returns the shopper id from the context, falling back to incoming gRPC metadata.
func GetUserID(ctx context.Context) string {
	if val, ok := ctx.Value(userIDKey{}).(string); ok {
		return val
	}

	md, ok := metadata.FromIncomingContext(ctx)
	if ok {
		if val := md.Get("x-user-id"); len(val) > 0 {
			return val[0]
		}
	}
	return ""
}
