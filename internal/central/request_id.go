package central

import "context"

// HeaderRequestID 请求ID头
const HeaderRequestID = "X-Request-Id"

type requestIDKey struct{}

// WithRequestID 将请求ID放入 context，central 请求会透传 X-Request-Id
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext 读取请求ID
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
