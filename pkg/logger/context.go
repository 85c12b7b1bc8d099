package logger

import (
	"context"
	"sync"
)

type fieldsKey struct{}

type fields struct {
	mu sync.Mutex
	kv []any
}

// WithFields returns a context carrying the key value pairs in addition to
// the ones already attached to ctx.
func WithFields(ctx context.Context, kv ...any) context.Context {
	merged := append(Fields(ctx), kv...)
	return context.WithValue(ctx, fieldsKey{}, &fields{kv: merged})
}

// AddFields appends to the fields of ctx in place. It is a no-op when ctx
// was not prepared with WithFields.
func AddFields(ctx context.Context, kv ...any) {
	f, ok := ctx.Value(fieldsKey{}).(*fields)
	if !ok {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.kv = append(f.kv, kv...)
}

// Fields returns a copy of the key value pairs attached to ctx.
func Fields(ctx context.Context) []any {
	if ctx == nil {
		return nil
	}
	f, ok := ctx.Value(fieldsKey{}).(*fields)
	if !ok {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]any, len(f.kv))
	copy(out, f.kv)
	return out
}
