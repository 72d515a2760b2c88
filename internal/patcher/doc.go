// Package patcher assembles generated source text out of rewrite nodes while
// recording which generated ranges came from which original ranges.
//
// # Node model
//
// RewriteNode is a closed set of variants:
//
//   - Text – literal text, no origin.
//   - Copied – the verbatim text of a host syntax node; origin is that node's span.
//   - Mapped – whatever the inner node renders to, attributed as a whole to an
//     explicit origin span. Mappings the inner node would produce are dropped.
//   - Modified – children rendered in order; no mapping of its own.
//   - Interpolated – a `$name$` template whose placeholders render bound nodes.
//     Built only through Interpolate, which rejects unbound placeholders.
//
// # Rendering
//
// PatchBuilder renders a tree in one left-to-right pass. Mappings are appended in
// generated order, never overlap, and always lie inside the generated text. A range
// without a mapping is boilerplate; the host attributes it to the replaced item.
//
// Mapped is the origin substitution point: a synthetic header rewritten from an
// impl is diagnosed against the whole impl, not fragment by fragment.
package patcher
