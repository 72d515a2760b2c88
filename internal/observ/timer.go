package observ

import (
	"fmt"
	"io"
	"time"
)

// Phase is one measured step of a command run.
type Phase struct {
	Name string
	Dur  time.Duration
	Note string
}

// Timer collects the phases of one `expand` run. Not safe for concurrent use.
type Timer struct {
	phases []Phase
}

func NewTimer() *Timer { return &Timer{phases: make([]Phase, 0, 4)} }

// Track starts phase name; the returned func ends it with an optional note.
func (t *Timer) Track(name string) func(note string) {
	start := time.Now()
	return func(note string) {
		t.phases = append(t.phases, Phase{Name: name, Dur: time.Since(start), Note: note})
	}
}

func (t *Timer) Phases() []Phase {
	return append([]Phase(nil), t.phases...)
}

func (t *Timer) Total() time.Duration {
	var total time.Duration
	for _, p := range t.phases {
		total += p.Dur
	}
	return total
}

// WriteSummary печатает по строке на фазу и итог, в миллисекундах.
func (t *Timer) WriteSummary(w io.Writer) {
	fmt.Fprintln(w, "timings:")
	for _, p := range t.phases {
		fmt.Fprintf(w, "  %-12s %8.2f ms", p.Name, millis(p.Dur))
		if p.Note != "" {
			fmt.Fprintf(w, "  // %s", p.Note)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "  %-12s %8.2f ms\n", "total", millis(t.Total()))
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
