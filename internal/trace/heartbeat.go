package trace

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// StartHeartbeat emits a heartbeat every interval until ctx is done or stop is called.
// Heartbeats without end events while `serve` waits on the host mean a call is stuck.
// With tracing off or a non-positive interval it starts nothing.
func StartHeartbeat(ctx context.Context, tracer Tracer, interval time.Duration) (stop func()) {
	if tracer == nil || tracer.Level() == LevelOff || interval <= 0 {
		return func() {}
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for n := 1; ; n++ {
			select {
			case <-ticker.C:
				emit(tracer, Event{Kind: KindHeartbeat, Scope: ScopeServe, Name: "heartbeat", Detail: fmt.Sprintf("#%d", n)})
			case <-ctx.Done():
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-done
		})
	}
}
