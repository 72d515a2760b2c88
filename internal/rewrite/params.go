package rewrite

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"cairoplug/internal/diag"
	"cairoplug/internal/syntax"
)

// ParamInfo is the read-only view of one parameter. Computed on demand, never cached.
type ParamInfo struct {
	Name      string // NFC-normalised identifier
	Modifiers string // e.g. "ref", "mut", "" for none
	Type      string
}

func GetParamInfo(p syntax.Param) ParamInfo {
	return ParamInfo{
		Name:      NormalizeIdent(p.Name().TrimmedText()),
		Modifiers: strings.TrimSpace(p.Modifiers().TrimmedText()),
		Type:      strings.TrimSpace(p.Type().TrimmedText()),
	}
}

// NormalizeIdent brings an identifier to NFC so visually equal names compare equal.
func NormalizeIdent(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// Convention describes the receiver-parameter rule: a parameter `MarkerName: MarkerType`
// asks for the Mutable receiver, its absence gives the Readonly one.
type Convention struct {
	MarkerName string
	MarkerType string
	Mutable    string // e.g. "ref self: ContractState"
	Readonly   string // e.g. "self: @ContractState"
}

func (c Convention) isMarker(info ParamInfo) bool {
	return info.Name == NormalizeIdent(c.MarkerName) && info.Type == c.MarkerType
}

// Params is the outcome of RewriteParameters.
type Params struct {
	Text    string   // emitted parameter list, without parentheses
	Mutable bool     // marker found, mutable receiver prepended
	Kept    []string // original parameters kept, in order
}

// RewriteParameters drops the first marker parameter and prepends the receiver matching it.
// A second or later marker is kept verbatim and reported as a warning at its own span.
func RewriteParameters(params []syntax.Param, conv Convention, r diag.Reporter) Params {
	var out Params
	for _, p := range params {
		info := GetParamInfo(p)
		if conv.isMarker(info) {
			if !out.Mutable {
				out.Mutable = true
				continue
			}
			r.Report(diag.NewWarning(diag.PlugDuplicateReceiverMarker, p.SpanWithoutTrivia(),
				"duplicate receiver marker `"+conv.MarkerName+": "+conv.MarkerType+"`; only the first one selects the receiver"))
		}
		out.Kept = append(out.Kept, p.TrimmedText())
	}

	receiver := conv.Readonly
	if out.Mutable {
		receiver = conv.Mutable
	}
	out.Text = strings.Join(append([]string{receiver}, out.Kept...), ", ")
	return out
}
