// Package trace is the logging layer of the plugin.
//
// Events are spans (Enter/End) and points, filtered by Level against their Scope:
//
//   - ScopeServe: server lifetime and request batches
//   - ScopeCall: one request or GenerateCode call
//   - ScopeItem: one item of the expanded module (impl, copied item)
//   - ScopeNode: functions and copied items inside a module
//
// The tracer and the current span travel in context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.Enter(ctx, trace.ScopeCall, "generate")
//	defer span.Set("items", n).End("")
//
// Stream writes text or NDJSON lines; Ring keeps the tail in memory and is
// dumped by `serve` when a request fails. LevelError records calls into the
// ring without streaming them.
package trace
