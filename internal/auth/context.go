package auth

import (
	"context"

	"google.golang.org/grpc/metadata"
)

const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// UserContext is the acting user of a request.
type UserContext struct {
	UserID   string
	Username string
	Name     string
	Email    string
	Role     string
}

func (u UserContext) IsAdmin() bool { return u.Role == RoleAdmin }

type ctxKey struct{}

func WithUser(ctx context.Context, u UserContext) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// GetUser returns the acting user set by the HTTP or gRPC middleware, falling
// back to the x-user-* incoming metadata.
func GetUser(ctx context.Context) (UserContext, bool) {
	if u, ok := ctx.Value(ctxKey{}).(UserContext); ok {
		return u, true
	}

	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return UserContext{}, false
	}
	u := UserContext{
		UserID:   first(md, "x-user-id"),
		Username: first(md, "x-username"),
		Role:     first(md, "x-user-role"),
	}
	if u.UserID == "" {
		return UserContext{}, false
	}
	return u, true
}

func first(md metadata.MD, key string) string {
	if val := md.Get(key); len(val) > 0 {
		return val[0]
	}
	return ""
}
