// Package api implements the HTTP and WebSocket surface of netmcp.
//
// This package provides:
//   - GET /devices with filtering and pagination, plus /devices/{id} and /devices/stats
//   - POST /mcp, the envelope endpoint for ListDevices, GetDevice and UpdateDevice
//   - Discovery documents at /mcp/methods, /list-tools and /mcp/tools
//   - A WebSocket hub broadcasting device.updated events
//   - Middleware stack (request ID, logging, recovery, CORS, body limit)
//
// # Error Channels
//
// Malformed REST queries, malformed envelopes and malformed method params
// are answered with 400 and a {status, code, message} body. Unknown methods
// and UpdateDevice on a missing device are answered with 200 and an error
// inside the envelope. GetDevice on a missing device succeeds with a null item.
//
// # Events
//
// Every applied UpdateDevice is fanned out by EventNotifier to WebSocket
// subscribers and, when configured, to MQTT and InfluxDB. The server keeps
// working when either sink is disabled or unreachable.
//
// Lifecycle:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
package api
