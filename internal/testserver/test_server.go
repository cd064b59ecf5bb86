// Package testserver runs the full HTTP stack over an in-memory database
// for end-to-end tests.
package testserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rpggio/calmmind/internal/dashboard"
	"github.com/rpggio/calmmind/internal/domain/stresslog"
	"github.com/rpggio/calmmind/internal/domain/student"
	"github.com/rpggio/calmmind/internal/domain/task"
	"github.com/rpggio/calmmind/internal/mcp"
	"github.com/rpggio/calmmind/internal/sqlite"
	"github.com/rpggio/calmmind/internal/transport"
)

type TestServer struct {
	Server *httptest.Server
	DB     *sqlite.DB
	Keys   *sqlite.APIKeyRepository
}

// New starts an authenticated server. Keys are issued with AddKey.
func New(t *testing.T) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	tasks := task.NewService(sqlite.NewTaskRepository(db), nil)
	logs := stresslog.NewService(sqlite.NewStressLogRepository(db), nil)
	students := student.NewService(sqlite.NewStudentRepository(db), nil)
	dash := dashboard.NewService(tasks, logs, students, nil)

	handler := mcp.NewHandler(mcp.Services{
		Tasks:      tasks,
		StressLogs: logs,
		Students:   students,
		Dashboard:  dash,
	})

	keys := sqlite.NewAPIKeyRepository(db)
	resolver := transport.NewKeyResolver(keys, nil)
	server := httptest.NewServer(transport.NewServer(handler, transport.Options{
		Auth: transport.AuthMiddleware(resolver),
	}))

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return &TestServer{Server: server, DB: db, Keys: keys}
}

// AddKey issues a bearer token for userID.
func (ts *TestServer) AddKey(t *testing.T, userID string, admin bool) string {
	t.Helper()
	token, err := transport.IssueKey(context.Background(), ts.Keys, userID, admin)
	require.NoError(t, err)
	return token
}

// Call posts a JSON-RPC request and decodes the response. result, when
// non-nil, receives the decoded result on success.
func (ts *TestServer) Call(t *testing.T, token, method string, params any, result any) *transport.Error {
	t.Helper()

	raw, err := json.Marshal(params)
	require.NoError(t, err)
	body, err := json.Marshal(transport.Request{JSONRPC: "2.0", Method: method, Params: raw, ID: json.RawMessage(`1`)})
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, ts.Server.URL+"/rpc", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var envelope struct {
		Result json.RawMessage  `json:"result"`
		Error  *transport.Error `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	if envelope.Error != nil {
		return envelope.Error
	}
	if result != nil {
		require.NoError(t, json.Unmarshal(envelope.Result, result))
	}
	return nil
}
