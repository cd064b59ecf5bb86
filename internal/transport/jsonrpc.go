package transport

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rpggio/calmmind/internal/mcp"
)

// JSON-RPC 2.0 error codes.
const (
	ErrParseCode      = -32700
	ErrInvalidReq     = -32600
	ErrMethodNotFound = -32601
	ErrInvalidParams  = -32602
	ErrInternal       = -32603
	// ErrApplication carries a coded mcp.APIError in its data.
	ErrApplication = -32000
)

var (
	errParse   = errors.New("parse error")
	errInvalid = errors.New("invalid request")
)

// Request is a JSON-RPC 2.0 call. A request without an id is a
// notification and gets no response body.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      json.RawMessage `json:"id,omitempty"`
}

// IsNotification reports whether the caller expects no reply.
func (r Request) IsNotification() bool {
	return len(r.ID) == 0
}

// Response is a JSON-RPC 2.0 reply. ID echoes the request id verbatim and
// is null when the request could not be read.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  any             `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
	ID      json.RawMessage `json:"id"`
}

// Error is a JSON-RPC 2.0 error object.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("jsonrpc %d: %s", e.Code, e.Message)
}

// ParseRequest reads one request. Ids must be a string, a number or null.
func ParseRequest(body io.Reader) (Request, error) {
	var req Request
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		return Request{}, fmt.Errorf("%w: %v", errParse, err)
	}
	if req.JSONRPC != "2.0" || req.Method == "" || !validID(req.ID) {
		return Request{}, errInvalid
	}
	return req, nil
}

func validID(id json.RawMessage) bool {
	id = bytes.TrimSpace(id)
	if len(id) == 0 || bytes.Equal(id, []byte("null")) {
		return true
	}
	switch c := id[0]; {
	case c == '"':
		return true
	case c == '-' || (c >= '0' && c <= '9'):
		var n json.Number
		return json.Unmarshal(id, &n) == nil
	default:
		return false
	}
}

// ErrorFor translates a handler or parse error into its wire form.
// Coded application errors keep their payload in Data.
func ErrorFor(err error) *Error {
	var apiErr *mcp.APIError
	switch {
	case errors.Is(err, errParse):
		return &Error{Code: ErrParseCode, Message: err.Error()}
	case errors.Is(err, errInvalid):
		return &Error{Code: ErrInvalidReq, Message: err.Error()}
	case errors.Is(err, mcp.ErrUnknownMethod):
		return &Error{Code: ErrMethodNotFound, Message: err.Error()}
	case errors.As(err, &apiErr):
		return &Error{Code: ErrApplication, Message: apiErr.Message, Data: apiErr}
	default:
		return &Error{Code: ErrInternal, Message: err.Error()}
	}
}

// WriteResult writes a success response.
func WriteResult(w http.ResponseWriter, id json.RawMessage, result any) {
	writeJSON(w, Response{JSONRPC: "2.0", Result: result, ID: id})
}

// WriteError writes an error response.
func WriteError(w http.ResponseWriter, id json.RawMessage, rpcErr *Error) {
	writeJSON(w, Response{JSONRPC: "2.0", Error: rpcErr, ID: id})
}

func writeJSON(w http.ResponseWriter, payload Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(payload)
}
