package xcontext

import "context"

type (
	userIDKey   struct{}
	responseKey struct{}
	errorKey    struct{}
)

func WithRequestUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, userIDKey{}, id)
}

func RequestUserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey{}).(string)
	return id
}

// SetError and SetResponse use a pointer holder so that After middlewares can
// observe values set during the handler with the same context.

type holder struct {
	value any
}

func WithErrorHolder(ctx context.Context) context.Context {
	return context.WithValue(ctx, errorKey{}, &holder{})
}

func SetError(ctx context.Context, err error) {
	if h, ok := ctx.Value(errorKey{}).(*holder); ok {
		h.value = err
	}
}

func Error(ctx context.Context) error {
	if h, ok := ctx.Value(errorKey{}).(*holder); ok && h.value != nil {
		return h.value.(error)
	}

	return nil
}

func WithResponseHolder(ctx context.Context) context.Context {
	return context.WithValue(ctx, responseKey{}, &holder{})
}

func SetResponse(ctx context.Context, resp any) {
	if h, ok := ctx.Value(responseKey{}).(*holder); ok {
		h.value = resp
	}
}

func Response(ctx context.Context) any {
	if h, ok := ctx.Value(responseKey{}).(*holder); ok {
		return h.value
	}

	return nil
}
