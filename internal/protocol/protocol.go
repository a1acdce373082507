// Package protocol is booger's JSON-RPC 2.0 stdio transport (spec
// §4.10). It is hand-rolled rather than delegated to mcp-go's server
// loop: the spec needs exact JSON-RPC error codes, no response for
// notifications, and a batch tool whose fail-fast nesting rejection
// mcp-go's stdio server doesn't expose control over. It still reuses
// mcp-go's mcp.Tool/mcp.ToolInputSchema struct shapes (via
// internal/dispatch.Tools) for the tools/list payload, so the schema
// data itself is never hand-duplicated.
package protocol

import "encoding/json"

// Error codes per spec §7's protocol-error mapping.
const (
	ErrParse          = -32700
	ErrInvalidRequest = -32600
	ErrMethodNotFound = -32601
	ErrInvalidParams  = -32602
	ErrInternal       = -32603
)

// Request is one JSON-RPC 2.0 request or notification. A notification
// omits ID.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response is one JSON-RPC 2.0 response. Result and Error are mutually
// exclusive.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  interface{}     `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError is a JSON-RPC 2.0 error object.
type RPCError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func successResponse(id json.RawMessage, result interface{}) *Response {
	return &Response{JSONRPC: "2.0", ID: id, Result: result}
}

func errorResponse(id json.RawMessage, code int, message string) *Response {
	return &Response{JSONRPC: "2.0", ID: id, Error: &RPCError{Code: code, Message: message}}
}

// ToolContent is one block of a tool result's content array.
type ToolContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ToolResult is the tools/call payload, wrapped as a successful
// JSON-RPC result even when the tool itself failed (IsError is the
// signal, not a JSON-RPC error) — spec §7's "tool-level errors never
// become protocol errors" rule.
type ToolResult struct {
	Content []ToolContent `json:"content"`
	IsError bool          `json:"isError,omitempty"`
}

func toolSuccess(text string) ToolResult {
	return ToolResult{Content: []ToolContent{{Type: "text", Text: text}}}
}

func toolError(text string) ToolResult {
	return ToolResult{Content: []ToolContent{{Type: "text", Text: text}}, IsError: true}
}

// ServerInfo, InitializeResult, and the capability structs mirror the
// MCP initialize handshake.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

type ToolsCapability struct {
	ListChanged bool `json:"listChanged"`
}

type ResourcesCapability struct {
	ListChanged bool `json:"listChanged"`
}

type ServerCapabilities struct {
	Tools     *ToolsCapability     `json:"tools,omitempty"`
	Resources *ResourcesCapability `json:"resources,omitempty"`
}

type InitializeResult struct {
	ProtocolVersion string             `json:"protocolVersion"`
	Capabilities    ServerCapabilities `json:"capabilities"`
	ServerInfo      ServerInfo         `json:"serverInfo"`
}

// ResourceDescriptor is one resources/list entry.
type ResourceDescriptor struct {
	URI         string `json:"uri"`
	Name        string `json:"name"`
	Description string `json:"description"`
	MimeType    string `json:"mimeType"`
}

// ResourceContents is one resources/read content block.
type ResourceContents struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType"`
	Text     string `json:"text"`
}
