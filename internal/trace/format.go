package trace

import (
	"encoding/json"
	"fmt"
	"strings"
)

type Format uint8

const (
	FormatText   Format = iota // human-readable text
	FormatNDJSON               // newline-delimited JSON
)

func (f Format) String() string {
	if f == FormatNDJSON {
		return "ndjson"
	}
	return "text"
}

// ParseFormat accepts "text", "ndjson" and "auto"; auto is reported by the second result
// and resolved from the output path by New.
func ParseFormat(s string) (Format, bool, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return FormatText, true, nil
	case "text":
		return FormatText, false, nil
	case "ndjson", "json":
		return FormatNDJSON, false, nil
	}
	return FormatText, false, fmt.Errorf("invalid trace format: %q (expected: auto|text|ndjson)", s)
}

// FormatEvent renders one event as a single line, newline included.
func FormatEvent(ev *Event, format Format) []byte {
	if format == FormatNDJSON {
		return formatNDJSON(ev)
	}
	return []byte(formatText(ev))
}

type jsonEvent struct {
	Time   string            `json:"time"`
	Seq    uint64            `json:"seq"`
	Kind   string            `json:"kind"`
	Scope  string            `json:"scope"`
	SpanID uint64            `json:"span_id,omitempty"`
	Parent uint64            `json:"parent_id,omitempty"`
	Name   string            `json:"name"`
	Detail string            `json:"detail,omitempty"`
	Attrs  map[string]string `json:"attrs,omitempty"`
}

func formatNDJSON(ev *Event) []byte {
	je := jsonEvent{
		Time:   ev.Time.Format("2006-01-02T15:04:05.000000Z07:00"),
		Seq:    ev.Seq,
		Kind:   ev.Kind.String(),
		Scope:  ev.Scope.String(),
		SpanID: ev.SpanID,
		Parent: ev.Parent,
		Name:   ev.Name,
		Detail: ev.Detail,
	}
	if len(ev.Attrs) > 0 {
		je.Attrs = make(map[string]string, len(ev.Attrs))
		for _, a := range ev.Attrs {
			je.Attrs[a.Key] = a.Value
		}
	}
	data, err := json.Marshal(je)
	if err != nil {
		return fmt.Appendf(nil, "{\"kind\":\"error\",\"detail\":%q}\n", err.Error())
	}
	return append(data, '\n')
}

var kindMarks = [...]string{KindBegin: "→ ", KindEnd: "← ", KindPoint: "• ", KindHeartbeat: "♡ "}

// formatText: #seq [scope] →/←/• name (detail) {k=v, ...}, indented by scope depth
func formatText(ev *Event) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "#%-5d [%s] ", ev.Seq, ev.Scope)
	if ev.Scope > ScopeServe {
		sb.WriteString(strings.Repeat("  ", int(ev.Scope-ScopeServe)))
	}
	if int(ev.Kind) < len(kindMarks) {
		sb.WriteString(kindMarks[ev.Kind])
	}
	sb.WriteString(ev.Name)
	if ev.Detail != "" {
		fmt.Fprintf(&sb, " (%s)", ev.Detail)
	}
	if len(ev.Attrs) > 0 {
		pairs := make([]string, len(ev.Attrs))
		for i, a := range ev.Attrs {
			pairs[i] = a.Key + "=" + a.Value
		}
		fmt.Fprintf(&sb, " {%s}", strings.Join(pairs, ", "))
	}
	sb.WriteByte('\n')
	return sb.String()
}
