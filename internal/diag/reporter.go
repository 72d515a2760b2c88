package diag

import (
	"fmt"

	"cairoplug/internal/source"
)

// Reporter принимает диагностики от правил генерации.
type Reporter interface {
	Report(d Diagnostic)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(d Diagnostic)

func (f ReporterFunc) Report(d Diagnostic) { f(d) }

type seenKey struct {
	code Code
	sev  Severity
	span source.Span
	msg  string
}

// Collector keeps the diagnostics of one expansion call in report order. A diagnostic
// equal to an earlier one in code, severity, primary span and message is ignored.
// The limit applies to warnings and infos only: errors are always kept.
type Collector struct {
	items       []Diagnostic
	seen        map[seenKey]struct{}
	limit       int
	soft        int // kept non-errors
	dropped     int
	droppedSpan source.Span
}

// NewCollector returns a collector keeping at most limit warnings and infos; limit <= 0
// means no limit.
func NewCollector(limit int) *Collector {
	return &Collector{seen: make(map[seenKey]struct{}), limit: limit}
}

func (c *Collector) Report(d Diagnostic) {
	key := seenKey{code: d.Code, sev: d.Severity, span: d.Primary, msg: d.Message}
	if _, dup := c.seen[key]; dup {
		return
	}
	c.seen[key] = struct{}{}
	if d.Severity < SevError {
		if c.limit > 0 && c.soft >= c.limit {
			if c.dropped == 0 {
				c.droppedSpan = d.Primary
			}
			c.dropped++
			return
		}
		c.soft++
	}
	c.items = append(c.items, d)
}

func (c *Collector) Len() int { return len(c.items) }

// Dropped counts distinct warnings and infos rejected by the limit.
func (c *Collector) Dropped() int { return c.dropped }

func (c *Collector) HasErrors() bool {
	for i := range c.items {
		if c.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

// Diagnostics returns a copy of the kept diagnostics, nil when there are none. When the
// limit dropped anything, a PlugInfo summary with the count is appended; its span is
// the first dropped diagnostic's.
func (c *Collector) Diagnostics() []Diagnostic {
	if len(c.items) == 0 && c.dropped == 0 {
		return nil
	}
	out := make([]Diagnostic, len(c.items), len(c.items)+1)
	copy(out, c.items)
	if c.dropped > 0 {
		out = append(out, NewInfo(PlugInfo, c.droppedSpan,
			fmt.Sprintf("%d more diagnostic(s) omitted", c.dropped)))
	}
	return out
}
