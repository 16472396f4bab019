package trace

import "context"

type nopTracer struct{}

func (nopTracer) Emit(*Event)   {}
func (nopTracer) Flush() error  { return nil }
func (nopTracer) Close() error  { return nil }
func (nopTracer) Level() Level  { return LevelOff }
func (nopTracer) Enabled() bool { return false }

// Nop discards everything. It is what FromContext hands out when a run was
// started without --trace.
var Nop Tracer = nopTracer{}

type (
	tracerKey    struct{}
	heartbeatKey struct{}
	spanKey      struct{}
)

// FromContext returns the context's tracer, or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx == nil {
		return Nop
	}
	if t, ok := ctx.Value(tracerKey{}).(Tracer); ok {
		return t
	}
	return Nop
}

// WithTracer attaches a Tracer to context.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, tracerKey{}, t)
}

// WithHeartbeat lets the driver report pass progress to h. A nil h leaves
// ctx unchanged.
func WithHeartbeat(ctx context.Context, h *Heartbeat) context.Context {
	if h == nil {
		return ctx
	}
	return context.WithValue(ctx, heartbeatKey{}, h)
}

// HeartbeatFromContext returns the attached heartbeat or nil. The Heartbeat
// progress methods accept nil, so callers need not check.
func HeartbeatFromContext(ctx context.Context) *Heartbeat {
	if ctx == nil {
		return nil
	}
	h, _ := ctx.Value(heartbeatKey{}).(*Heartbeat)
	return h
}

// SpanContext is the enclosing span of nested work: pass spans parent to
// their file span, node points to their pass. File is the source path being
// rewritten, empty above the file level.
type SpanContext struct {
	SpanID uint64
	File   string
}

// CurrentSpan returns the span context in ctx, or the zero value.
func CurrentSpan(ctx context.Context) SpanContext {
	if ctx == nil {
		return SpanContext{}
	}
	if sc, ok := ctx.Value(spanKey{}).(SpanContext); ok {
		return sc
	}
	return SpanContext{}
}

// WithSpanContext attaches span context. An empty File is inherited from
// the enclosing span.
func WithSpanContext(ctx context.Context, sc SpanContext) context.Context {
	if ctx == nil {
		return nil
	}
	if sc.File == "" {
		sc.File = CurrentSpan(ctx).File
	}
	return context.WithValue(ctx, spanKey{}, sc)
}
