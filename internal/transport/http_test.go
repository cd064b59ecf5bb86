package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rpggio/calmmind/internal/mcp"
)

type testHandler struct {
	method string
	caller mcp.Caller
	err    error
}

func (h *testHandler) Handle(_ context.Context, caller mcp.Caller, method string, _ json.RawMessage) (any, error) {
	h.method = method
	h.caller = caller
	if h.err != nil {
		return nil, h.err
	}
	return map[string]string{"tenant": caller.TenantID, "session": caller.SessionID}, nil
}

type staticResolver struct {
	caller mcp.Caller
}

func (r *staticResolver) Resolve(_ context.Context, token string) (mcp.Caller, error) {
	if token != "good" {
		return mcp.Caller{}, ErrUnauthorized
	}
	return r.caller, nil
}

func post(t *testing.T, url, token, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, url+"/rpc", bytes.NewBufferString(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Mcp-Session-Id", "sess1")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response) Response {
	t.Helper()
	var out Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestHTTPServer_RPC(t *testing.T) {
	handler := &testHandler{}
	resolver := &staticResolver{caller: mcp.Caller{TenantID: "u1", Admin: true}}
	server := httptest.NewServer(NewServer(handler, Options{Auth: AuthMiddleware(resolver)}))
	t.Cleanup(server.Close)

	resp := post(t, server.URL, "good", `{"jsonrpc":"2.0","method":"list_tasks","id":1}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "list_tasks", handler.method)
	require.Equal(t, mcp.Caller{TenantID: "u1", SessionID: "sess1", Admin: true}, handler.caller)

	out := decode(t, resp)
	require.Nil(t, out.Error)
	require.Equal(t, map[string]any{"tenant": "u1", "session": "sess1"}, out.Result)
}

func TestHTTPServer_RejectsBadToken(t *testing.T) {
	handler := &testHandler{}
	server := httptest.NewServer(NewServer(handler, Options{Auth: AuthMiddleware(&staticResolver{})}))
	t.Cleanup(server.Close)

	resp := post(t, server.URL, "", `{"jsonrpc":"2.0","method":"list_tasks","id":1}`)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = post(t, server.URL, "bad", `{"jsonrpc":"2.0","method":"list_tasks","id":1}`)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Empty(t, handler.method)
}

func TestHTTPServer_DefaultCallerWithoutAuth(t *testing.T) {
	handler := &testHandler{}
	server := httptest.NewServer(NewServer(handler, Options{}))
	t.Cleanup(server.Close)

	resp := post(t, server.URL, "", `{"jsonrpc":"2.0","method":"get_stress_summary","id":"a"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, mcp.DefaultTenant, handler.caller.TenantID)
}

func TestHTTPServer_Errors(t *testing.T) {
	handler := &testHandler{}
	server := httptest.NewServer(NewServer(handler, Options{}))
	t.Cleanup(server.Close)

	out := decode(t, post(t, server.URL, "", `{not json`))
	require.Equal(t, ErrParseCode, out.Error.Code)

	out = decode(t, post(t, server.URL, "", `{"jsonrpc":"1.0","method":"x"}`))
	require.Equal(t, ErrInvalidReq, out.Error.Code)

	handler.err = fmt.Errorf("%w: nope", mcp.ErrUnknownMethod)
	out = decode(t, post(t, server.URL, "", `{"jsonrpc":"2.0","method":"nope","id":2}`))
	require.Equal(t, ErrMethodNotFound, out.Error.Code)

	handler.err = &mcp.APIError{Code: "TASK_NOT_FOUND", Message: "task not found"}
	out = decode(t, post(t, server.URL, "", `{"jsonrpc":"2.0","method":"get_task","id":3}`))
	require.Equal(t, ErrApplication, out.Error.Code)
	require.Equal(t, "task not found", out.Error.Message)
	data, ok := out.Error.Data.(map[string]any)
	require.True(t, ok)
	require.Equal(t, "TASK_NOT_FOUND", data["code"])
}

func TestHTTPServer_Health(t *testing.T) {
	handler := &testHandler{}
	server := httptest.NewServer(NewServer(handler, Options{Auth: AuthMiddleware(&staticResolver{})}))
	t.Cleanup(server.Close)

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, "ok", string(body))
}

func TestHTTPServer_MountsMCP(t *testing.T) {
	mcpHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})
	server := httptest.NewServer(NewServer(&testHandler{}, Options{MCP: mcpHandler}))
	t.Cleanup(server.Close)

	resp, err := http.Post(server.URL+"/mcp", "application/json", bytes.NewBufferString(`{}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
}

func TestHTTPServer_NotificationsAndIDs(t *testing.T) {
	handler := &testHandler{}
	server := httptest.NewServer(NewServer(handler, Options{}))
	t.Cleanup(server.Close)

	resp := post(t, server.URL, "", `{"jsonrpc":"2.0","method":"log_stress","params":{"level":2}}`)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	require.Equal(t, "log_stress", handler.method)

	out := decode(t, post(t, server.URL, "", `{"jsonrpc":"2.0","method":"list_tasks","id":"req-7"}`))
	require.JSONEq(t, `"req-7"`, string(out.ID))
}
