package trace

import (
	"errors"
	"io"
	"sync"
)

// Tracer receives events. Emit must be goroutine-safe.
type Tracer interface {
	Emit(ev *Event)
	Flush() error
	Close() error
	Level() Level
}

type nopTracer struct{}

func (nopTracer) Emit(*Event)  {}
func (nopTracer) Flush() error { return nil }
func (nopTracer) Close() error { return nil }
func (nopTracer) Level() Level { return LevelOff }

// Nop drops everything.
var Nop Tracer = nopTracer{}

// Stream writes each event as soon as it arrives. Below LevelCall it writes nothing;
// heartbeats are written at any enabled level.
type Stream struct {
	mu     sync.Mutex
	w      io.Writer
	level  Level
	format Format
}

func NewStream(w io.Writer, level Level, format Format) *Stream {
	return &Stream{w: w, level: level, format: format}
}

func (t *Stream) Emit(ev *Event) {
	if ev.Kind != KindHeartbeat && !t.level.streams() {
		return
	}
	data := FormatEvent(ev, t.format)
	t.mu.Lock()
	defer t.mu.Unlock()
	// трейс не должен ронять генерацию: ошибки записи игнорируем
	_, _ = t.w.Write(data) //nolint:errcheck
}

func (t *Stream) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if f, ok := t.w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

// Close flushes and closes the writer when it is an io.Closer.
func (t *Stream) Close() error {
	if err := t.Flush(); err != nil {
		return err
	}
	if c, ok := t.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (t *Stream) Level() Level { return t.level }

// Ring keeps the last events in memory; `serve` dumps it after a failed request.
type Ring struct {
	mu     sync.Mutex
	buf    []Event
	next   int
	filled bool
	level  Level
}

func NewRing(capacity int, level Level) *Ring {
	if capacity <= 0 {
		capacity = defaultRingSize
	}
	return &Ring{buf: make([]Event, capacity), level: level}
}

func (t *Ring) Emit(ev *Event) {
	if t.level == LevelOff {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf[t.next] = *ev
	t.next++
	if t.next == len(t.buf) {
		t.next, t.filled = 0, true
	}
}

// Events returns the stored events, oldest first.
func (t *Ring) Events() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.filled {
		return append([]Event(nil), t.buf[:t.next]...)
	}
	out := make([]Event, 0, len(t.buf))
	out = append(out, t.buf[t.next:]...)
	return append(out, t.buf[:t.next]...)
}

// Dump writes the stored events to w.
func (t *Ring) Dump(w io.Writer, format Format) error {
	for _, ev := range t.Events() {
		if _, err := w.Write(FormatEvent(&ev, format)); err != nil {
			return err
		}
	}
	return nil
}

func (t *Ring) Flush() error { return nil }
func (t *Ring) Close() error { return nil }
func (t *Ring) Level() Level { return t.level }

// tee отдаёт каждое событие всем приёмникам.
type tee struct {
	sinks []Tracer
	level Level
}

// Tee fans events out to every sink; level decides what Enter and Point record.
func Tee(level Level, sinks ...Tracer) Tracer {
	return &tee{sinks: sinks, level: level}
}

func (t *tee) Emit(ev *Event) {
	for _, s := range t.sinks {
		cp := *ev
		s.Emit(&cp)
	}
}

func (t *tee) Flush() error {
	var errs []error
	for _, s := range t.sinks {
		errs = append(errs, s.Flush())
	}
	return errors.Join(errs...)
}

func (t *tee) Close() error {
	var errs []error
	for _, s := range t.sinks {
		errs = append(errs, s.Close())
	}
	return errors.Join(errs...)
}

func (t *tee) Level() Level { return t.level }

// FindRing returns the ring buffer behind t, if it keeps one.
func FindRing(t Tracer) (*Ring, bool) {
	switch tr := t.(type) {
	case *Ring:
		return tr, true
	case *tee:
		for _, s := range tr.sinks {
			if r, ok := FindRing(s); ok {
				return r, true
			}
		}
	}
	return nil, false
}
