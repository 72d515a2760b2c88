package trace

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

var (
	seqCounter  atomic.Uint64
	spanCounter atomic.Uint64
)

// emit stamps time and sequence and hands ev to t.
func emit(t Tracer, ev Event) {
	ev.Time = time.Now()
	ev.Seq = seqCounter.Add(1)
	t.Emit(&ev)
}

// Span is one Enter/End pair. A nil *Span is valid and records nothing, which is what
// Enter returns when the scope is filtered out.
type Span struct {
	tracer  Tracer
	id      uint64
	parent  uint64
	scope   Scope
	name    string
	started time.Time
	attrs   []Attr
}

// Enter opens a span under the one recorded in ctx and returns a context carrying it.
func Enter(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	st := stateOf(ctx)
	if !st.tracer.Level().ShouldEmit(scope) {
		return ctx, nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	sp := &Span{
		tracer:  st.tracer,
		id:      spanCounter.Add(1),
		parent:  st.span,
		scope:   scope,
		name:    name,
		started: time.Now(),
	}
	emit(sp.tracer, Event{Kind: KindBegin, Scope: scope, SpanID: sp.id, Parent: sp.parent, Name: name})
	return context.WithValue(ctx, ctxKey{}, ctxState{tracer: st.tracer, span: sp.id}), sp
}

// Set records key=value for the end event; value goes through fmt.Sprint.
func (s *Span) Set(key string, value any) *Span {
	if s != nil {
		s.attrs = append(s.attrs, Attr{Key: key, Value: fmt.Sprint(value)})
	}
	return s
}

// End emits the end event and returns the span duration.
func (s *Span) End(detail string) time.Duration {
	if s == nil {
		return 0
	}
	dur := time.Since(s.started)
	emit(s.tracer, Event{
		Kind:   KindEnd,
		Scope:  s.scope,
		SpanID: s.id,
		Parent: s.parent,
		Name:   s.name,
		Detail: detail,
		Attrs:  s.attrs,
	})
	return dur
}

func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

// Point emits an instant event under the span in ctx.
func Point(ctx context.Context, scope Scope, name, detail string) {
	st := stateOf(ctx)
	if !st.tracer.Level().ShouldEmit(scope) {
		return
	}
	emit(st.tracer, Event{Kind: KindPoint, Scope: scope, Parent: st.span, Name: name, Detail: detail})
}
