// Package rpc implements the newline-delimited JSON request protocol spoken
// over the server's stdio streams. Each inbound line is one request object;
// each response is emitted as exactly one line. Framing, dispatch and
// envelope encoding live here; tool semantics live in internal/tool.
package rpc

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/aiemployee/email-mcp/internal/tool"
)

// JSON-RPC style dispatch error codes.
const (
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// maxLineSize bounds a single request frame.
const maxLineSize = 1 << 20

// Request is one inbound frame. ID is optional; when present it is echoed
// verbatim on the response so pipelining callers can correlate completions
// that finish out of arrival order.
type Request struct {
	ID     json.RawMessage `json:"id,omitempty"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params,omitempty"`
}

// Error is the structured dispatch-level error payload.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Content is one entry of a tools/call success envelope.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type callParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

type listResponse struct {
	ID    json.RawMessage   `json:"id,omitempty"`
	Tools []tool.Descriptor `json:"tools"`
}

type callResponse struct {
	ID      json.RawMessage `json:"id,omitempty"`
	Content []Content       `json:"content"`
}

type errorResponse struct {
	ID    json.RawMessage `json:"id,omitempty"`
	Error *Error          `json:"error"`
}

// Handler decodes request frames, dispatches them against the registry and
// writes response frames. The outgoing stream is shared by all in-flight
// dispatches; writes are whole-line and serialized.
type Handler struct {
	registry *tool.Registry
	log      *slog.Logger

	mu  sync.Mutex
	out io.Writer
}

// NewHandler creates a Handler writing responses to out.
func NewHandler(registry *tool.Registry, out io.Writer, log *slog.Logger) *Handler {
	return &Handler{
		registry: registry,
		log:      log,
		out:      out,
	}
}

// Serve reads frames from in until EOF. Frames are parsed strictly in
// arrival order; each one is dispatched on its own goroutine so a slow
// provider call never blocks ingestion of further frames. Malformed lines
// are logged and dropped without a response; blank lines are ignored.
// Serve returns once the stream is drained and every dispatch completed.
func (h *Handler) Serve(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, maxLineSize), maxLineSize)

	var inflight errgroup.Group

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			h.log.Error("dropping malformed frame", "error", err)

			continue
		}

		inflight.Go(func() error {
			h.handle(ctx, &req)

			return nil
		})
	}

	err := scanner.Err()
	_ = inflight.Wait()

	if err != nil {
		return fmt.Errorf("scanner failed: %w", err)
	}

	return nil
}

func (h *Handler) handle(ctx context.Context, req *Request) {
	defer func() {
		if r := recover(); r != nil {
			h.log.Error("dispatch panicked", "method", req.Method, "panic", r)
			h.write(errorResponse{ID: req.ID, Error: &Error{
				Code:    CodeInternalError,
				Message: fmt.Sprintf("internal error: %v", r),
			}})
		}
	}()

	switch req.Method {
	case "tools/list":
		h.write(listResponse{ID: req.ID, Tools: h.registry.Descriptors()})
	case "tools/call":
		h.handleCall(ctx, req)
	default:
		h.write(errorResponse{ID: req.ID, Error: &Error{
			Code:    CodeMethodNotFound,
			Message: "Method not found: " + req.Method,
		}})
	}
}

func (h *Handler) handleCall(ctx context.Context, req *Request) {
	var params callParams
	if err := json.Unmarshal(req.Params, &params); err != nil || params.Name == "" {
		h.write(errorResponse{ID: req.ID, Error: &Error{
			Code:    CodeInvalidParams,
			Message: "tools/call params must carry a tool name",
		}})

		return
	}

	h.log.Info("tool call", "tool", params.Name)

	result, err := h.registry.Dispatch(ctx, params.Name, params.Arguments)
	if err != nil {
		h.writeDispatchError(req.ID, params.Name, err)

		return
	}

	encoded, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		h.log.Error("result encoding failed", "tool", params.Name, "error", err)
		h.write(errorResponse{ID: req.ID, Error: &Error{
			Code:    CodeInternalError,
			Message: fmt.Sprintf("result encoding failed: %v", err),
		}})

		return
	}

	h.write(callResponse{ID: req.ID, Content: []Content{{Type: "text", Text: string(encoded)}}})
}

func (h *Handler) writeDispatchError(id json.RawMessage, name string, err error) {
	code := CodeInternalError

	var unknownTool *tool.UnknownToolError
	var invalidArgs *tool.ValidationError
	switch {
	case errors.As(err, &unknownTool), errors.As(err, &invalidArgs):
		code = CodeInvalidParams
	}

	h.log.Warn("dispatch failed", "tool", name, "code", code, "error", err)
	h.write(errorResponse{ID: id, Error: &Error{Code: code, Message: err.Error()}})
}

// write emits one response as a single newline-terminated Write call so
// concurrent completions never interleave partial lines.
func (h *Handler) write(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		h.log.Error("response encoding failed", "error", err)

		return
	}
	data = append(data, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, err := h.out.Write(data); err != nil {
		h.log.Error("response write failed", "error", err)
	}
}
