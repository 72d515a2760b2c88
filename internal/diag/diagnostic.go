package diag

import (
	"cairoplug/internal/source"
)

type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

// String is the upper-case form used by the pretty printer.
func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// Label is the lower-case form of golden and short output.
func (s Severity) Label() string {
	switch s {
	case SevError:
		return "error"
	case SevWarning:
		return "warning"
	}
	return "info"
}

type Note struct {
	Span source.Span `msgpack:"span"`
	Msg  string      `msgpack:"msg"`
}

// Diagnostic is a finding attached to the original source of an expanded item.
// Primary always points into the host's tree, never into generated text.
type Diagnostic struct {
	Severity Severity    `msgpack:"sev"`
	Code     Code        `msgpack:"code"`
	Message  string      `msgpack:"msg"`
	Primary  source.Span `msgpack:"primary"`
	Notes    []Note      `msgpack:"notes,omitempty"`
}

func NewError(code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{Severity: SevError, Code: code, Primary: primary, Message: msg}
}

func NewWarning(code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{Severity: SevWarning, Code: code, Primary: primary, Message: msg}
}

func NewInfo(code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{Severity: SevInfo, Code: code, Primary: primary, Message: msg}
}

func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}
