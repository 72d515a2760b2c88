package hostbridge

import (
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"cairoplug/internal/diag"
	"cairoplug/internal/patcher"
	"cairoplug/internal/plugin"
	"cairoplug/internal/syntax"
)

// SchemaVersion - increment when Request or Response change shape.
const SchemaVersion uint16 = 1

var (
	// ErrBadRequest wraps every failure to decode or validate a request.
	ErrBadRequest = errors.New("bad request")
	// ErrSchema marks a request written for another SchemaVersion.
	ErrSchema = errors.New("unsupported schema")
)

// Request asks the plugin process to expand one item of a host tree.
type Request struct {
	Schema uint16        `msgpack:"schema"`
	ID     uint64        `msgpack:"id"`
	Tree   syntax.Tree   `msgpack:"tree"`
	Item   syntax.NodeID `msgpack:"item"` // NoNodeID selects the tree root
	Cfg    []syntax.Cfg  `msgpack:"cfg,omitempty"`
}

// NewRequest packs item of tree together with the active cfg set.
func NewRequest(id uint64, tree *syntax.Tree, item syntax.NodeID, cfg syntax.CfgSet) Request {
	return Request{
		Schema: SchemaVersion,
		ID:     id,
		Tree:   *tree,
		Item:   item,
		Cfg:    cfg.Entries(),
	}
}

func (r *Request) Metadata() plugin.Metadata {
	return plugin.Metadata{CfgSet: syntax.NewCfgSet(r.Cfg...)}
}

// WireFile is plugin.GeneratedFile on the wire.
type WireFile struct {
	Name     string           `msgpack:"name"`
	Content  string           `msgpack:"content"`
	AuxData  []byte           `msgpack:"aux,omitempty"`
	Mappings patcher.Mappings `msgpack:"mappings"`
}

// WireResult is one plugin.Result; Err travels as its message.
type WireResult struct {
	Code           *WireFile         `msgpack:"code,omitempty"`
	Diagnostics    []diag.Diagnostic `msgpack:"diags,omitempty"`
	RemoveOriginal bool              `msgpack:"remove,omitempty"`
	Error          string            `msgpack:"error,omitempty"`
}

func FromResult(res plugin.Result) WireResult {
	out := WireResult{
		Diagnostics:    res.Diagnostics,
		RemoveOriginal: res.RemoveOriginal,
	}
	if res.Code != nil {
		out.Code = &WireFile{
			Name:     res.Code.Name,
			Content:  res.Code.Content,
			AuxData:  res.Code.AuxData,
			Mappings: res.Code.CodeMappings,
		}
	}
	if res.Err != nil {
		out.Error = res.Err.Error()
	}
	return out
}

// Result converts back to the plugin-side value.
func (w WireResult) Result() plugin.Result {
	res := plugin.Result{
		Diagnostics:    w.Diagnostics,
		RemoveOriginal: w.RemoveOriginal,
	}
	if w.Code != nil {
		res.Code = &plugin.GeneratedFile{
			Name:         w.Code.Name,
			Content:      w.Code.Content,
			AuxData:      w.Code.AuxData,
			CodeMappings: w.Code.Mappings,
		}
	}
	if w.Error != "" {
		res.Err = errors.New(w.Error)
	}
	return res
}

// Response answers one Request. Results hold one entry per plugin that matched the
// item, in suite order; Diagnostics are the bridge's own findings.
type Response struct {
	Schema      uint16            `msgpack:"schema"`
	ID          uint64            `msgpack:"id"`
	Results     []WireResult      `msgpack:"results,omitempty"`
	Diagnostics []diag.Diagnostic `msgpack:"diags,omitempty"`
	Error       string            `msgpack:"error,omitempty"`
}

// Failed reports whether the request or any plugin call failed.
func (r *Response) Failed() bool {
	if r.Error != "" {
		return true
	}
	for i := range r.Results {
		if r.Results[i].Error != "" {
			return true
		}
	}
	return false
}

func EncodeRequest(req *Request) ([]byte, error) {
	if req.Schema == 0 {
		req.Schema = SchemaVersion
	}
	return msgpack.Marshal(req)
}

// DecodeRequest decodes one framed request. On failure the returned request still
// carries the id when it could be recovered, so the host can match the error response.
func DecodeRequest(data []byte) (Request, error) {
	var req Request
	if err := msgpack.Unmarshal(data, &req); err != nil {
		var hdr struct {
			ID uint64 `msgpack:"id"`
		}
		_ = msgpack.Unmarshal(data, &hdr) // best effort
		return Request{ID: hdr.ID}, fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	if req.Schema != SchemaVersion {
		return Request{ID: req.ID}, fmt.Errorf("%w: %w: got %d, want %d", ErrBadRequest, ErrSchema, req.Schema, SchemaVersion)
	}
	return req, nil
}

func EncodeResponse(resp *Response) ([]byte, error) {
	return msgpack.Marshal(resp)
}

func DecodeResponse(data []byte) (Response, error) {
	var resp Response
	if err := msgpack.Unmarshal(data, &resp); err != nil {
		return Response{}, fmt.Errorf("decode response: %w", err)
	}
	return resp, nil
}
