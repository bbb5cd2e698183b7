// Package mcp implements a Model Context Protocol stdio server exposing the
// wardrobe analytics as tools.
package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/blackwell-systems/closetwatch/internal/suggest"
	"github.com/blackwell-systems/closetwatch/internal/wardrobe"
)

const (
	protocolVersion = "2024-11-05"
	serverName      = "closetwatch"

	// maxLineBytes bounds a single request line.
	maxLineBytes = 1 << 20
)

// JSON-RPC 2.0 error codes.
const (
	codeParseError     = -32700
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
)

// Server answers MCP requests, one JSON-RPC message per line.
type Server struct {
	tools      []toolDef
	byName     map[string]int
	source     wardrobe.Source
	user       string
	version    string
	thresholds suggest.Thresholds
	loc        *time.Location

	// now supplies the evaluation time of each tool call.
	now func() time.Time
}

type toolDef struct {
	Name        string
	Description string
	InputSchema json.RawMessage
	Handler     toolHandler
}

type toolHandler func(ctx context.Context, args json.RawMessage) (any, error)

type rpcRequest struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      *json.RawMessage `json:"id,omitempty"`
	Method  string           `json:"method"`
	Params  json.RawMessage  `json:"params,omitempty"`
}

type rpcResponse struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      *json.RawMessage `json:"id,omitempty"`
	Result  any              `json:"result,omitempty"`
	Error   *rpcError        `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// callResult is the MCP envelope for a tools/call answer. Tool failures are
// reported here with IsError set, not as JSON-RPC errors.
type callResult struct {
	Content []textContent `json:"content"`
	IsError bool          `json:"isError"`
}

type textContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

func textResult(text string, isError bool) callResult {
	return callResult{Content: []textContent{{Type: "text", Text: text}}, IsError: isError}
}

// Options configures a Server.
type Options struct {
	// User is the wardrobe queried when a call names none.
	User       string
	Version    string
	Thresholds suggest.Thresholds
	// Location is applied to "now" before analysis; nil means time.Local.
	Location *time.Location
}

// NewServer constructs a Server reading wardrobes from source.
func NewServer(source wardrobe.Source, opts Options) *Server {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	s := &Server{
		byName:     make(map[string]int),
		source:     source,
		user:       opts.User,
		version:    opts.Version,
		thresholds: opts.Thresholds,
		loc:        loc,
		now:        time.Now,
	}
	addTools(s)
	return s
}

func (s *Server) registerTool(def toolDef) {
	s.byName[def.Name] = len(s.tools)
	s.tools = append(s.tools, def)
}

// Run serves requests read from r until r reaches EOF or ctx is done, writing
// one response line per request to w. Notifications get no response. A nil
// error means a clean shutdown.
func (s *Server) Run(ctx context.Context, r io.Reader, w io.Writer) error {
	lines, readErr := readLines(ctx, r)
	enc := json.NewEncoder(w)

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return <-readErr
			}
			resp, reply := s.handle(ctx, line)
			if !reply {
				continue
			}
			if err := enc.Encode(resp); err != nil {
				return fmt.Errorf("writing response: %w", err)
			}
		}
	}
}

// readLines scans r on its own goroutine so Run can stop on ctx while a read
// is blocked. The error channel yields the scan error, or nil, once lines is
// closed.
func readLines(ctx context.Context, r io.Reader) (<-chan []byte, <-chan error) {
	lines := make(chan []byte)
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		defer close(lines)
		sc := bufio.NewScanner(r)
		sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
		for sc.Scan() {
			line := append([]byte(nil), sc.Bytes()...)
			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
		}
		errc <- sc.Err()
	}()
	return lines, errc
}

// handle decodes one message and builds its response. reply is false for
// notifications.
func (s *Server) handle(ctx context.Context, line []byte) (resp rpcResponse, reply bool) {
	resp.JSONRPC = "2.0"

	var req rpcRequest
	if err := json.Unmarshal(line, &req); err != nil {
		// The request id is unknown, so the reply carries an explicit null id.
		null := json.RawMessage("null")
		resp.ID = &null
		resp.Error = &rpcError{Code: codeParseError, Message: "Parse error"}
		return resp, true
	}
	if req.ID == nil {
		return resp, false
	}
	resp.ID = req.ID

	switch req.Method {
	case "initialize":
		resp.Result = s.initializeResult()
	case "tools/list":
		resp.Result = s.toolList()
	case "tools/call":
		resp.Result, resp.Error = s.callTool(ctx, req.Params)
	default:
		resp.Error = &rpcError{Code: codeMethodNotFound, Message: "Method not found"}
	}
	return resp, true
}

func (s *Server) initializeResult() map[string]any {
	return map[string]any{
		"protocolVersion": protocolVersion,
		"capabilities":    map[string]any{"tools": map[string]any{}},
		"serverInfo":      map[string]any{"name": serverName, "version": s.version},
	}
}

type toolListEntry struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

func (s *Server) toolList() map[string]any {
	entries := make([]toolListEntry, len(s.tools))
	for i, t := range s.tools {
		entries[i] = toolListEntry{Name: t.Name, Description: t.Description, InputSchema: t.InputSchema}
	}
	return map[string]any{"tools": entries}
}

func (s *Server) callTool(ctx context.Context, raw json.RawMessage) (any, *rpcError) {
	var params struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments,omitempty"`
	}
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, &rpcError{Code: codeInvalidParams, Message: "Invalid params"}
	}

	i, ok := s.byName[params.Name]
	if !ok {
		return textResult("unknown tool: "+params.Name, true), nil
	}
	args := params.Arguments
	if len(args) == 0 {
		args = json.RawMessage(`{}`)
	}

	out, err := s.tools[i].Handler(ctx, args)
	if err != nil {
		return textResult(err.Error(), true), nil
	}
	data, err := json.Marshal(out)
	if err != nil {
		return textResult(err.Error(), true), nil
	}
	return textResult(string(data), false), nil
}
