package hostbridge

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"cairoplug/internal/plugin"
	"cairoplug/internal/trace"
)

type ServeOptions struct {
	// Heartbeat is the interval of liveness events while serving; 0 disables them.
	Heartbeat time.Duration
	// FailureDump receives the trace ring buffer after every failed request.
	// Nil, or a tracer without a ring, disables the dump.
	FailureDump io.Writer
}

// Serve reads a stream of msgpack requests from r and writes one response per request
// to w, in request order. A request that cannot be decoded gets an error response and
// the loop goes on; I/O errors and ctx cancellation end it. A clean EOF returns nil.
func Serve(ctx context.Context, r io.Reader, w io.Writer, suite plugin.Suite, opts ServeOptions) error {
	tracer := trace.FromContext(ctx)
	ctx, span := trace.Enter(ctx, trace.ScopeServe, "serve")
	stop := trace.StartHeartbeat(ctx, tracer, opts.Heartbeat)

	var served, failed int
	defer func() {
		stop()
		span.Set("served", served).
			Set("failed", failed).
			End("")
	}()

	dec := msgpack.NewDecoder(bufio.NewReader(r))
	bw := bufio.NewWriter(w)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		// запрос читается целиком, чтобы ошибка формы не сбивала поток
		var raw msgpack.RawMessage
		if err := dec.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read request: %w", err)
		}

		var resp Response
		req, err := DecodeRequest(raw)
		if err != nil {
			resp = Response{Schema: SchemaVersion, ID: req.ID, Error: err.Error()}
		} else {
			resp = Expand(ctx, suite, req)
		}

		served++
		if resp.Failed() {
			failed++
			dumpRing(tracer, opts.FailureDump)
		}

		data, err := EncodeResponse(&resp)
		if err != nil {
			return fmt.Errorf("write response %d: %w", resp.ID, err)
		}
		if _, err := bw.Write(data); err != nil {
			return fmt.Errorf("write response %d: %w", resp.ID, err)
		}
		if err := bw.Flush(); err != nil {
			return fmt.Errorf("write response %d: %w", resp.ID, err)
		}
	}
}

func dumpRing(tracer trace.Tracer, w io.Writer) {
	if w == nil {
		return
	}
	ring, ok := trace.FindRing(tracer)
	if !ok {
		return
	}
	if err := ring.Dump(w, trace.FormatText); err != nil {
		fmt.Fprintf(w, "trace dump failed: %v\n", err)
	}
}
