package utils

import (
	"context"

	"repair-desk/internal/entities"
	"repair-desk/pkg/contextkeys"
)

// WithCaller stores the identity of the request.
func WithCaller(ctx context.Context, caller entities.Caller) context.Context {
	return context.WithValue(ctx, contextkeys.CallerKey, caller)
}

// GetCallerFromCtx returns the identity of the request; without one the
// caller is anonymous.
func GetCallerFromCtx(ctx context.Context) entities.Caller {
	caller, ok := ctx.Value(contextkeys.CallerKey).(entities.Caller)
	if !ok || caller.Principal == "" {
		return entities.AnonymousCaller()
	}
	return caller
}

func GetRequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(contextkeys.RequestIDKey).(string)
	return id
}
