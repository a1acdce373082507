package protocol

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"github.com/dshills/booger/internal/dispatch"
	boogerlog "github.com/dshills/booger/internal/log"
)

// ServerName and ServerVersion identify this server in the initialize
// handshake's serverInfo block.
const (
	ServerName      = "booger"
	ServerVersion   = "1.0.0"
	protocolVersion = "2024-11-05"
)

// Engine is what the protocol loop needs from the tool layer. A
// *dispatch.Dispatcher satisfies this directly; tests can substitute a
// fake.
type Engine interface {
	Call(ctx context.Context, name string, args map[string]any) (*dispatch.Result, error)
	Resources() ([]dispatch.Resource, error)
	ReadResource(ctx context.Context, uri string) (*dispatch.ResourceContent, error)
}

// Server reads JSON-RPC requests line by line from r and writes
// responses line by line to w, per spec §5's one-request-per-process
// model generalized to a long-lived stdio loop.
type Server struct {
	engine Engine
	logger zerolog.Logger
}

// NewServer builds a Server around engine.
func NewServer(engine Engine) *Server {
	return &Server{engine: engine, logger: boogerlog.Component("protocol")}
}

// Serve runs the read-dispatch-write loop until r reaches EOF or a
// write fails. A malformed line produces a parse-error response and
// the loop continues — one bad line never aborts the session.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	out := bufio.NewWriter(w)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var req Request
		if err := json.Unmarshal([]byte(line), &req); err != nil {
			if werr := s.send(out, errorResponse(nil, ErrParse, fmt.Sprintf("Parse error: %s", err))); werr != nil {
				return werr
			}
			continue
		}

		resp := s.dispatch(ctx, &req)
		if resp == nil {
			continue
		}
		if err := s.send(out, resp); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func (s *Server) send(out *bufio.Writer, resp *Response) error {
	b, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("marshal response: %w", err)
	}
	if _, err := out.Write(b); err != nil {
		return fmt.Errorf("write response: %w", err)
	}
	if err := out.WriteByte('\n'); err != nil {
		return fmt.Errorf("write response: %w", err)
	}
	return out.Flush()
}

// dispatch routes one request to its handler. A nil return means "no
// response" (a notification), matching the prototype's Option<Response>
// shape.
func (s *Server) dispatch(ctx context.Context, req *Request) *Response {
	if req.JSONRPC != "2.0" || req.Method == "" {
		return errorResponse(req.ID, ErrInvalidRequest, "Invalid Request")
	}
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "initialized", "notifications/initialized":
		return nil
	case "ping":
		return successResponse(req.ID, map[string]any{})
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(ctx, req)
	case "resources/list":
		return s.handleResourcesList(req)
	case "resources/read":
		return s.handleResourcesRead(ctx, req)
	case "resources/templates/list":
		return successResponse(req.ID, map[string]any{"resourceTemplates": []any{}})
	default:
		s.logger.Warn().Str("method", req.Method).Msg("unknown method")
		return errorResponse(req.ID, ErrMethodNotFound, fmt.Sprintf("Method not found: %s", req.Method))
	}
}

func (s *Server) handleInitialize(req *Request) *Response {
	result := InitializeResult{
		ProtocolVersion: protocolVersion,
		Capabilities: ServerCapabilities{
			Tools:     &ToolsCapability{ListChanged: false},
			Resources: &ResourcesCapability{ListChanged: false},
		},
		ServerInfo: ServerInfo{Name: ServerName, Version: ServerVersion},
	}
	return successResponse(req.ID, result)
}

func (s *Server) handleToolsList(req *Request) *Response {
	return successResponse(req.ID, map[string]any{"tools": dispatch.Tools()})
}

type toolCallParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

func (s *Server) handleToolsCall(ctx context.Context, req *Request) *Response {
	var params toolCallParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return errorResponse(req.ID, ErrInvalidParams, fmt.Sprintf("invalid params: %s", err))
		}
	}

	result, err := s.engine.Call(ctx, params.Name, params.Arguments)
	if err != nil {
		s.logger.Error().Err(err).Str("tool", params.Name).Msg("tool call failed")
		return errorResponse(req.ID, ErrInternal, err.Error())
	}

	var tr ToolResult
	if result.IsError {
		tr = toolError(result.Text)
	} else {
		tr = toolSuccess(result.Text)
	}
	return successResponse(req.ID, tr)
}

func (s *Server) handleResourcesList(req *Request) *Response {
	resources, err := s.engine.Resources()
	if err != nil {
		return errorResponse(req.ID, ErrInternal, err.Error())
	}
	descriptors := make([]ResourceDescriptor, len(resources))
	for i, r := range resources {
		descriptors[i] = ResourceDescriptor{URI: r.URI, Name: r.Name, Description: r.Description, MimeType: r.MimeType}
	}
	return successResponse(req.ID, map[string]any{"resources": descriptors})
}

type resourcesReadParams struct {
	URI string `json:"uri"`
}

// handleResourcesRead maps a lookup failure to a JSON-RPC -32602 error,
// not a tool-level error — resources/read has no isError convention of
// its own, matching the prototype's resources::read_resource mapping.
func (s *Server) handleResourcesRead(ctx context.Context, req *Request) *Response {
	var params resourcesReadParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return errorResponse(req.ID, ErrInvalidParams, fmt.Sprintf("invalid params: %s", err))
		}
	}

	content, err := s.engine.ReadResource(ctx, params.URI)
	if err != nil {
		return errorResponse(req.ID, ErrInvalidParams, err.Error())
	}
	contents := ResourceContents{URI: content.URI, MimeType: content.MimeType, Text: content.Text}
	return successResponse(req.ID, map[string]any{"contents": []ResourceContents{contents}})
}
