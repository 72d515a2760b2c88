package patcher

import (
	"fmt"
	"strings"
)

// TemplateError reports a template that cannot be interpolated.
// It is a defect in generation logic, not a user-facing diagnostic.
type TemplateError struct {
	Template    string
	Placeholder string
	Offset      int // byte offset of the offending `$` in Template
	Reason      string
}

func (e *TemplateError) Error() string {
	if e.Placeholder != "" {
		return fmt.Sprintf("template placeholder $%s$ at offset %d: %s", e.Placeholder, e.Offset, e.Reason)
	}
	return fmt.Sprintf("template at offset %d: %s", e.Offset, e.Reason)
}

type segment struct {
	literal     string
	placeholder string // empty for literal segments
	offset      int
}

// Interpolate builds an Interpolated node. Placeholders are `$name$` with name made of
// letters, digits and underscores; `$$` stands for a literal `$`. Every placeholder
// must be bound in subs, otherwise a *TemplateError is returned. Extra bindings are allowed.
func Interpolate(template string, subs map[string]RewriteNode) (*Interpolated, error) {
	segments, err := parseTemplate(template)
	if err != nil {
		return nil, err
	}
	bound := make(map[string]RewriteNode, len(subs))
	for _, seg := range segments {
		if seg.placeholder == "" {
			continue
		}
		node, ok := subs[seg.placeholder]
		if !ok || node == nil {
			return nil, &TemplateError{
				Template:    template,
				Placeholder: seg.placeholder,
				Offset:      seg.offset,
				Reason:      "no substitution bound",
			}
		}
		bound[seg.placeholder] = node
	}
	return &Interpolated{template: template, segments: segments, subs: bound}, nil
}

// MustInterpolate is Interpolate for templates known at compile time to be well-formed.
func MustInterpolate(template string, subs map[string]RewriteNode) *Interpolated {
	n, err := Interpolate(template, subs)
	if err != nil {
		panic(err)
	}
	return n
}

func parseTemplate(template string) ([]segment, error) {
	var segments []segment
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			segments = append(segments, segment{literal: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(template); {
		c := template[i]
		if c != '$' {
			lit.WriteByte(c)
			i++
			continue
		}
		rest := template[i+1:]
		end := strings.IndexByte(rest, '$')
		if end < 0 {
			return nil, &TemplateError{Template: template, Offset: i, Reason: "unterminated placeholder"}
		}
		name := rest[:end]
		if name == "" {
			lit.WriteByte('$') // $$
			i += 2
			continue
		}
		if !isPlaceholderName(name) {
			return nil, &TemplateError{Template: template, Placeholder: name, Offset: i, Reason: "invalid placeholder name"}
		}
		flush()
		segments = append(segments, segment{placeholder: name, offset: i})
		i += end + 2
	}
	flush()
	return segments, nil
}

func isPlaceholderName(name string) bool {
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_':
		default:
			return false
		}
	}
	return true
}
