package mcp

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Version is the JSON-RPC protocol marker echoed back to JSON-RPC callers.
const Version = "2.0"

// Envelope error codes.
const (
	// CodeMethodNotFound is the JSON-RPC reserved code for an unknown method.
	CodeMethodNotFound = -32601

	// CodeNotFound is returned when UpdateDevice targets an unknown device.
	CodeNotFound = 404
)

// Envelope error messages.
const (
	MessageMethodNotFound = "Method not found"
	MessageDeviceNotFound = "Device not found"
)

// ErrInvalidRequest is returned when a request body is not a well-formed envelope.
var ErrInvalidRequest = errors.New("mcp: invalid request")

// Request is an inbound MCP envelope.
//
// ID is kept as raw JSON so it can be echoed back byte for byte. It is nil
// when the caller did not send one.
type Request struct {
	JSONRPC string
	ID      json.RawMessage
	Method  string
	Params  map[string]any
}

// IsJSONRPC reports whether the caller asked for the JSON-RPC 2.0 flavour.
func (r *Request) IsJSONRPC() bool {
	return r.JSONRPC == Version
}

// Response is an outbound MCP envelope. Exactly one of Result and Error is set.
type Response struct {
	JSONRPC string          `json:"jsonrpc,omitempty"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// Error is the error object carried inside a response envelope.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewResult builds a success envelope answering req.
func NewResult(req *Request, result any) *Response {
	resp := newResponse(req)
	resp.Result = result
	return resp
}

// NewError builds an error envelope answering req.
func NewError(req *Request, code int, message string) *Response {
	resp := newResponse(req)
	resp.Error = &Error{Code: code, Message: message}
	return resp
}

// newResponse echoes the request id, and the protocol marker for JSON-RPC
// callers. The marker is echoed on error envelopes too.
func newResponse(req *Request) *Response {
	resp := &Response{ID: req.ID}
	if req.IsJSONRPC() {
		resp.JSONRPC = Version
	}
	return resp
}

// wireRequest defers decoding of every member so types can be checked.
type wireRequest struct {
	JSONRPC json.RawMessage `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Method  json.RawMessage `json:"method"`
	Params  json.RawMessage `json:"params"`
}

// DecodeRequest reads a single envelope from r.
//
// The id may be a string, a number or null; method must be a string; params
// must be an object or null. Anything else yields ErrInvalidRequest.
func DecodeRequest(r io.Reader) (*Request, error) {
	var wire wireRequest
	dec := json.NewDecoder(r)
	if err := dec.Decode(&wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after envelope", ErrInvalidRequest)
	}

	req := &Request{}

	if !isNull(wire.JSONRPC) {
		if err := json.Unmarshal(wire.JSONRPC, &req.JSONRPC); err != nil {
			return nil, fmt.Errorf("%w: jsonrpc must be a string", ErrInvalidRequest)
		}
	}

	if !isNull(wire.ID) {
		switch first := firstByte(wire.ID); {
		case first == '"', first == '-', first >= '0' && first <= '9':
			req.ID = bytes.TrimSpace(wire.ID)
		default:
			return nil, fmt.Errorf("%w: id must be a string, number or null", ErrInvalidRequest)
		}
	}

	if isNull(wire.Method) {
		return nil, fmt.Errorf("%w: method is required", ErrInvalidRequest)
	}
	if err := json.Unmarshal(wire.Method, &req.Method); err != nil {
		return nil, fmt.Errorf("%w: method must be a string", ErrInvalidRequest)
	}

	if !isNull(wire.Params) {
		if firstByte(wire.Params) != '{' {
			return nil, fmt.Errorf("%w: params must be an object", ErrInvalidRequest)
		}
		if err := json.Unmarshal(wire.Params, &req.Params); err != nil {
			return nil, fmt.Errorf("%w: params: %v", ErrInvalidRequest, err)
		}
	}

	return req, nil
}

// isNull reports whether a raw member is absent or JSON null.
func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func firstByte(raw json.RawMessage) byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}
