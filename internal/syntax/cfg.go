package syntax

import (
	"sort"
	"strings"
)

// CfgAttr is the attribute that makes an item conditional on the active configuration.
const CfgAttr = "cfg"

// Cfg is one configuration entry: a bare flag (`test`) or a key/value pair (`feature: "x"`).
type Cfg struct {
	Key   string `msgpack:"k" toml:"key"`
	Value string `msgpack:"v,omitempty" toml:"value"`
}

// ParseCfg parses the text of one cfg attribute argument.
func ParseCfg(arg string) Cfg {
	key, value, ok := strings.Cut(arg, ":")
	if !ok {
		return Cfg{Key: strings.TrimSpace(arg)}
	}
	return Cfg{
		Key:   strings.TrimSpace(key),
		Value: strings.Trim(strings.TrimSpace(value), `"`),
	}
}

func (c Cfg) String() string {
	if c.Value == "" {
		return c.Key
	}
	return c.Key + `: "` + c.Value + `"`
}

// CfgSet is the set of configuration entries active for one compilation.
type CfgSet map[Cfg]struct{}

func NewCfgSet(entries ...Cfg) CfgSet {
	set := make(CfgSet, len(entries))
	for _, e := range entries {
		set[e] = struct{}{}
	}
	return set
}

func (s CfgSet) Contains(c Cfg) bool {
	_, ok := s[c]
	return ok
}

// Entries returns the set content in a deterministic order.
func (s CfgSet) Entries() []Cfg {
	out := make([]Cfg, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Key != out[j].Key {
			return out[i].Key < out[j].Key
		}
		return out[i].Value < out[j].Value
	})
	return out
}

// InCfg reports whether item participates under set: every argument of every
// cfg attribute on the item must be active. Items without cfg always participate.
func InCfg(item Node, set CfgSet) bool {
	for _, attr := range Attributes(item).Elements() {
		if attr.Path() != CfgAttr {
			continue
		}
		for _, arg := range attr.Args() {
			if !set.Contains(ParseCfg(arg)) {
				return false
			}
		}
	}
	return true
}

// ItemsInCfg filters items down to those participating under set, keeping order.
func ItemsInCfg(items []Node, set CfgSet) []Node {
	out := make([]Node, 0, len(items))
	for _, it := range items {
		if InCfg(it, set) {
			out = append(out, it)
		}
	}
	return out
}
