package trace

import "context"

type ctxKey struct{}

// ctxState is what a context carries: the tracer and the innermost open span.
type ctxState struct {
	tracer Tracer
	span   uint64
}

func stateOf(ctx context.Context) ctxState {
	if ctx != nil {
		if st, ok := ctx.Value(ctxKey{}).(ctxState); ok && st.tracer != nil {
			return st
		}
	}
	return ctxState{tracer: Nop}
}

// FromContext returns the Tracer in ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	return stateOf(ctx).tracer
}

// WithTracer attaches t to ctx as a new root; nil is stored as Nop.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKey{}, ctxState{tracer: t})
}

// SpanID returns the innermost span opened by Enter on ctx, 0 if none.
func SpanID(ctx context.Context) uint64 {
	return stateOf(ctx).span
}
