package trace

import "time"

type Kind uint8

const (
	KindBegin Kind = iota + 1
	KindEnd
	KindPoint
	KindHeartbeat // periodic liveness signal of `serve`
)

var kindNames = [...]string{KindBegin: "begin", KindEnd: "end", KindPoint: "point", KindHeartbeat: "heartbeat"}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// Scope is the granularity of an event; lower values are coarser.
type Scope uint8

const (
	ScopeServe Scope = iota + 1 // server lifetime, request batches
	ScopeCall                   // one request or GenerateCode call
	ScopeItem                   // one item of an expanded module
	ScopeNode                   // functions, copied items
)

var scopeNames = [...]string{ScopeServe: "serve", ScopeCall: "call", ScopeItem: "item", ScopeNode: "node"}

func (s Scope) String() string {
	if int(s) < len(scopeNames) && scopeNames[s] != "" {
		return scopeNames[s]
	}
	return "unknown"
}

// Attr is one key=value pair of a span end event, kept in the order it was set.
type Attr struct {
	Key   string
	Value string
}

type Event struct {
	Time   time.Time
	Seq    uint64 // process-wide, monotonic
	Kind   Kind
	Scope  Scope
	SpanID uint64 // 0 for points and heartbeats
	Parent uint64 // enclosing span, 0 at the root
	Name   string // e.g. "request:3", "impl:Foo"
	Detail string
	Attrs  []Attr
}
