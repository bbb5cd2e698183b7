package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/closetwatch/internal/suggest"
	"github.com/blackwell-systems/closetwatch/internal/wardrobe"
)

// memSource serves fixed snapshots keyed by user.
type memSource map[string]wardrobe.Snapshot

func (m memSource) LoadSnapshot(_ context.Context, userID string) (wardrobe.Snapshot, error) {
	snap := m[userID]
	snap.UserID = userID
	return snap, nil
}

func newEmptyServer() *Server {
	return NewServer(memSource{}, Options{User: "me", Version: "test", Thresholds: suggest.DefaultThresholds(), Location: time.UTC})
}

// runServer starts s.Run over pipes and returns a function that writes one
// request line and returns the response line.
func runServer(t *testing.T, s *Server) (sendLine func(line string) string, cleanup func()) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	pr, pw := io.Pipe()
	sr, sw := io.Pipe()
	out := bufio.NewReader(sr)

	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx, pr, sw)
	}()

	sendLine = func(line string) string {
		_, err := io.WriteString(pw, line+"\n")
		require.NoError(t, err)
		resp, err := out.ReadString('\n')
		require.NoError(t, err)
		return resp[:len(resp)-1]
	}

	cleanup = func() {
		cancel()
		_ = pw.Close()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Error("Run did not return after cancel+close")
		}
	}
	return sendLine, cleanup
}

func TestRun_Initialize(t *testing.T) {
	sendLine, cleanup := runServer(t, newEmptyServer())
	defer cleanup()

	resp := sendLine(`{"jsonrpc":"2.0","id":1,"method":"initialize"}`)

	var parsed struct {
		Result struct {
			ProtocolVersion string `json:"protocolVersion"`
			ServerInfo      struct {
				Name    string `json:"name"`
				Version string `json:"version"`
			} `json:"serverInfo"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(resp), &parsed), resp)
	assert.Equal(t, protocolVersion, parsed.Result.ProtocolVersion)
	assert.Equal(t, "closetwatch", parsed.Result.ServerInfo.Name)
	assert.Equal(t, "test", parsed.Result.ServerInfo.Version)
}

func TestRun_ToolsList(t *testing.T) {
	sendLine, cleanup := runServer(t, newEmptyServer())
	defer cleanup()

	resp := sendLine(`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`)

	var parsed struct {
		Result struct {
			Tools []struct {
				Name        string          `json:"name"`
				InputSchema json.RawMessage `json:"inputSchema"`
			} `json:"tools"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal([]byte(resp), &parsed), resp)

	var names []string
	for _, tool := range parsed.Result.Tools {
		names = append(names, tool.Name)
		assert.True(t, json.Valid(tool.InputSchema), tool.Name)
	}
	assert.Equal(t, []string{"get_analytics", "get_weekly_plan", "get_suggestions", "get_chart_data"}, names)
}

func TestRun_UnknownMethod(t *testing.T) {
	sendLine, cleanup := runServer(t, newEmptyServer())
	defer cleanup()

	resp := sendLine(`{"jsonrpc":"2.0","id":3,"method":"nonexistent/method"}`)

	var parsed struct {
		Error *rpcError `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(resp), &parsed), resp)
	require.NotNil(t, parsed.Error)
	assert.Equal(t, -32601, parsed.Error.Code)
}

func TestRun_ParseError(t *testing.T) {
	sendLine, cleanup := runServer(t, newEmptyServer())
	defer cleanup()

	resp := sendLine(`{not json`)

	var parsed struct {
		Error *rpcError `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(resp), &parsed), resp)
	require.NotNil(t, parsed.Error)
	assert.Equal(t, -32700, parsed.Error.Code)

	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(resp), &fields), resp)
	id, ok := fields["id"]
	require.True(t, ok, "parse error reply must carry an id member: %s", resp)
	assert.Equal(t, "null", string(id))
}

func TestRun_Notification(t *testing.T) {
	s := newEmptyServer()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pr, pw := io.Pipe()
	sr, sw := io.Pipe()
	go func() { _ = s.Run(ctx, pr, sw) }()

	_, err := io.WriteString(pw, `{"jsonrpc":"2.0","method":"notifications/initialized"}`+"\n")
	require.NoError(t, err)

	readDone := make(chan []byte, 1)
	go func() {
		buf := make([]byte, 1024)
		n, _ := sr.Read(buf)
		readDone <- buf[:n]
	}()

	select {
	case data := <-readDone:
		t.Errorf("expected no response for notification, got: %s", data)
	case <-time.After(100 * time.Millisecond):
	}

	cancel()
	_ = pw.Close()
	_ = sr.Close()
}

func TestRun_ContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pr, pw := io.Pipe()
	_, sw := io.Pipe()

	done := make(chan error, 1)
	go func() { done <- newEmptyServer().Run(ctx, pr, sw) }()

	cancel()
	_ = pw.Close()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Error("Run did not return after context cancel")
	}
}

func TestRun_EOFClean(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	pr, pw := io.Pipe()
	_, sw := io.Pipe()

	done := make(chan error, 1)
	go func() { done <- newEmptyServer().Run(ctx, pr, sw) }()

	_ = pw.Close()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Error("Run did not return after EOF")
	}
}
