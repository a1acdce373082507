package protocol

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/booger/internal/dispatch"
)

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "widget.go"), []byte("package widget\n\nfunc Widget() {}\n"), 0o644))
	return NewServer(dispatch.New(dir)), dir
}

// runLines feeds each line as one request and returns the decoded
// response lines, in order. A method with no response (a notification)
// produces no line in the output.
func runLines(t *testing.T, s *Server, lines ...string) []Response {
	t.Helper()
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	var out bytes.Buffer
	require.NoError(t, s.Serve(context.Background(), in, &out))

	var responses []Response
	dec := json.NewDecoder(&out)
	for dec.More() {
		var r Response
		require.NoError(t, dec.Decode(&r))
		responses = append(responses, r)
	}
	return responses
}

func TestServe_MalformedLineReturnsParseErrorAndContinues(t *testing.T) {
	s, _ := newTestServer(t)
	responses := runLines(t, s, `not json`, `{"jsonrpc":"2.0","id":1,"method":"ping"}`)
	require.Len(t, responses, 2)
	require.NotNil(t, responses[0].Error)
	assert.Equal(t, ErrParse, responses[0].Error.Code)
	assert.Nil(t, responses[1].Error)
}

func TestServe_MissingMethodReturnsInvalidRequest(t *testing.T) {
	s, _ := newTestServer(t)
	responses := runLines(t, s, `{"jsonrpc":"2.0","id":1}`)
	require.Len(t, responses, 1)
	require.NotNil(t, responses[0].Error)
	assert.Equal(t, ErrInvalidRequest, responses[0].Error.Code)
}

func TestServe_WrongJSONRPCVersionReturnsInvalidRequest(t *testing.T) {
	s, _ := newTestServer(t)
	responses := runLines(t, s, `{"jsonrpc":"1.0","id":1,"method":"ping"}`)
	require.Len(t, responses, 1)
	require.NotNil(t, responses[0].Error)
	assert.Equal(t, ErrInvalidRequest, responses[0].Error.Code)
}

func TestServe_UnknownMethodReturnsMethodNotFound(t *testing.T) {
	s, _ := newTestServer(t)
	responses := runLines(t, s, `{"jsonrpc":"2.0","id":1,"method":"nope"}`)
	require.Len(t, responses, 1)
	require.NotNil(t, responses[0].Error)
	assert.Equal(t, ErrMethodNotFound, responses[0].Error.Code)
}

func TestServe_NotificationGetsNoResponse(t *testing.T) {
	s, _ := newTestServer(t)
	responses := runLines(t, s,
		`{"jsonrpc":"2.0","method":"initialized"}`,
		`{"jsonrpc":"2.0","id":1,"method":"ping"}`,
	)
	require.Len(t, responses, 1)
}

func TestServe_Initialize(t *testing.T) {
	s, _ := newTestServer(t)
	responses := runLines(t, s, `{"jsonrpc":"2.0","id":1,"method":"initialize"}`)
	require.Len(t, responses, 1)
	require.Nil(t, responses[0].Error)

	b, err := json.Marshal(responses[0].Result)
	require.NoError(t, err)
	var result InitializeResult
	require.NoError(t, json.Unmarshal(b, &result))
	assert.Equal(t, protocolVersion, result.ProtocolVersion)
	assert.Equal(t, ServerName, result.ServerInfo.Name)
}

func TestServe_ToolsListIncludesSearch(t *testing.T) {
	s, _ := newTestServer(t)
	responses := runLines(t, s, `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)
	require.Len(t, responses, 1)

	b, err := json.Marshal(responses[0].Result)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"search"`)
}

func TestServe_ToolsCallSuccessWrapsResultNotError(t *testing.T) {
	s, dir := newTestServer(t)
	req := `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"index","arguments":{"project":"` + dir + `"}}}`
	responses := runLines(t, s, req)
	require.Len(t, responses, 1)
	require.Nil(t, responses[0].Error)

	b, err := json.Marshal(responses[0].Result)
	require.NoError(t, err)
	var tr ToolResult
	require.NoError(t, json.Unmarshal(b, &tr))
	assert.False(t, tr.IsError)
}

func TestServe_ToolsCallFailureIsSuccessfulResponseWithIsError(t *testing.T) {
	s, dir := newTestServer(t)
	req := `{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"search","arguments":{"project":"` + dir + `"}}}`
	responses := runLines(t, s, req)
	require.Len(t, responses, 1)
	require.Nil(t, responses[0].Error, "a tool-level failure must not become a JSON-RPC error")

	b, err := json.Marshal(responses[0].Result)
	require.NoError(t, err)
	var tr ToolResult
	require.NoError(t, json.Unmarshal(b, &tr))
	assert.True(t, tr.IsError)
}

func TestServe_ResourcesReadUnknownURIIsProtocolError(t *testing.T) {
	s, _ := newTestServer(t)
	req := `{"jsonrpc":"2.0","id":1,"method":"resources/read","params":{"uri":"booger://status/nope"}}`
	responses := runLines(t, s, req)
	require.Len(t, responses, 1)
	require.NotNil(t, responses[0].Error)
	assert.Equal(t, ErrInvalidParams, responses[0].Error.Code)
}

func TestServe_ResourcesReadKnownURIReturnsContents(t *testing.T) {
	s, dir := newTestServer(t)
	req := `{"jsonrpc":"2.0","id":1,"method":"resources/read","params":{"uri":"booger://status/` + dir + `"}}`
	responses := runLines(t, s, req)
	require.Len(t, responses, 1)
	require.Nil(t, responses[0].Error)

	b, err := json.Marshal(responses[0].Result)
	require.NoError(t, err)
	assert.Contains(t, string(b), "booger index")
}
