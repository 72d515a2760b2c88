package hostbridge

import (
	"context"
	"fmt"
	"runtime"

	"fortio.org/safecast"
	"golang.org/x/sync/errgroup"

	"cairoplug/internal/diag"
	"cairoplug/internal/plugin"
	"cairoplug/internal/source"
	"cairoplug/internal/syntax"
	"cairoplug/internal/trace"
)

// item resolves the requested item after validating the tree shape.
func (r *Request) item() (syntax.Node, error) {
	if err := r.Tree.Validate(); err != nil {
		return syntax.Node{}, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	id := r.Item
	if !id.IsValid() {
		id = r.Tree.Root
	}
	if int(id) > len(r.Tree.Nodes) {
		return syntax.Node{}, fmt.Errorf("%w: item %d outside the tree (%d nodes)", ErrBadRequest, id, len(r.Tree.Nodes))
	}
	n := r.Tree.Node(id)
	if !n.Kind().IsItem() {
		return syntax.Node{}, fmt.Errorf("%w: node %d is a %s, not an item", ErrBadRequest, id, n.Kind())
	}
	return n, nil
}

// Expand answers one request: every plugin of suite that matches the item is called
// in suite order. A panic anywhere below is converted into a failed response.
func Expand(ctx context.Context, suite plugin.Suite, req Request) (resp Response) {
	resp = Response{Schema: SchemaVersion, ID: req.ID}
	if req.Schema != SchemaVersion {
		resp.Error = fmt.Sprintf("%v: %v: got %d, want %d", ErrBadRequest, ErrSchema, req.Schema, SchemaVersion)
		return resp
	}

	ctx, span := trace.Enter(ctx, trace.ScopeCall, fmt.Sprintf("request:%d", req.ID))
	defer func() {
		if r := recover(); r != nil {
			resp.Results = nil
			resp.Error = fmt.Sprintf("internal error: %v", r)
			resp.Diagnostics = append(resp.Diagnostics,
				diag.NewError(diag.HostGenFailed, requestSpan(&req), "Code generation failed"))
		}
		if resp.Error != "" {
			span.Set("error", resp.Error)
		}
		span.Set("results", len(resp.Results)).End("")
	}()

	item, err := req.item()
	if err != nil {
		resp.Error = err.Error()
		resp.Diagnostics = append(resp.Diagnostics, diag.NewError(diag.HostBadItem, requestSpan(&req), err.Error()))
		return resp
	}

	meta := req.Metadata()
	for _, p := range suite.Matching(item) {
		res := p.GenerateCode(ctx, item, meta)
		if res.Err != nil {
			resp.Diagnostics = append(resp.Diagnostics,
				diag.NewError(diag.HostGenFailed, item.SpanWithoutTrivia(), "Code generation failed: "+res.Err.Error()))
		}
		resp.Results = append(resp.Results, FromResult(res))
	}
	return resp
}

// requestSpan is where bridge diagnostics point: the item when it resolves, else the
// whole source of the request.
func requestSpan(req *Request) source.Span {
	whole := source.Span{File: req.Tree.File}
	if end, err := safecast.Conv[uint32](len(req.Tree.Source)); err == nil {
		whole.End = end
	}
	if req.Tree.Validate() != nil {
		return whole
	}
	id := req.Item
	if !id.IsValid() {
		id = req.Tree.Root
	}
	if int(id) > len(req.Tree.Nodes) {
		return whole
	}
	return req.Tree.Node(id).SpanWithoutTrivia()
}

// ExpandBatch expands independent requests concurrently; responses keep request order.
func ExpandBatch(ctx context.Context, suite plugin.Suite, reqs []Request, jobs int) ([]Response, error) {
	if len(reqs) == 0 {
		return nil, nil
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// индексы уникальны для каждой горутины, мьютекс не нужен
	results := make([]Response, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(reqs)))
	for i := range reqs {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = Expand(gctx, suite, reqs[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
