package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.Level(100)}))
}

func TestStdioServerRoundTrip(t *testing.T) {
	reader, writer := io.Pipe()
	var output bytes.Buffer

	server := NewStdioServer(reader, &output, testLogger())
	server.Start(context.Background())

	_, err := io.WriteString(writer, `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`+"\n")
	require.NoError(t, err)

	request := <-server.ReadChannel()
	assert.Equal(t, "tools/list", request.Method)
	assert.Equal(t, float64(1), request.ID)

	server.WriteChannel() <- NewResultResponse(request.ID, map[string]interface{}{"ok": true})

	// A malformed line must be skipped, not kill the reader.
	_, err = io.WriteString(writer, "this is not json\n"+`{"jsonrpc":"2.0","id":2,"method":"resources/list"}`+"\n")
	require.NoError(t, err)

	request = <-server.ReadChannel()
	assert.Equal(t, "resources/list", request.Method)

	require.NoError(t, writer.Close())
	server.Wait()

	lines := strings.Split(strings.TrimSpace(output.String()), "\n")
	require.Len(t, lines, 1)

	var response JSONRPCResponse
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &response))
	assert.Equal(t, "2.0", response.JSONRPC)
	assert.Equal(t, float64(1), response.ID)
	assert.Nil(t, response.Error)
}

func TestStdioServerShutdownOnEOF(t *testing.T) {
	server := NewStdioServer(strings.NewReader(""), &bytes.Buffer{}, testLogger())
	server.Start(context.Background())

	_, open := <-server.ReadChannel()
	assert.False(t, open)

	// Wait must return once the input is exhausted.
	server.Wait()
}

func TestNewErrorResponse(t *testing.T) {
	response := NewErrorResponse(7, CodeInvalidParams, "bad input", "details")

	assert.Equal(t, "2.0", response.JSONRPC)
	assert.Equal(t, 7, response.ID)
	require.NotNil(t, response.Error)
	assert.Equal(t, CodeInvalidParams, response.Error.Code)
	assert.Equal(t, "bad input", response.Error.Message)
	assert.Equal(t, "details", response.Error.Data)
	assert.Nil(t, response.Result)
}
