// Package mcp implements the MCP control envelope for the device inventory.
//
// A request envelope names a method and carries optional parameters:
//
//	{"jsonrpc": "2.0", "id": "req1", "method": "GetDevice", "params": {"id": "dev1"}}
//
// The Dispatcher routes it to ListDevices, GetDevice or UpdateDevice and
// wraps the outcome in a response envelope. Failures travel on three
// distinct channels:
//
//   - Malformed envelopes or parameters are Go errors (ErrInvalidRequest,
//     *ParamsError) that the HTTP layer turns into a 400.
//   - Unknown methods (-32601) and UpdateDevice on a missing device (404)
//     are error envelopes delivered with HTTP 200.
//   - GetDevice on a missing device is a success envelope with a null item.
//
// Requests carrying "jsonrpc": "2.0" get the marker echoed on every response.
package mcp
