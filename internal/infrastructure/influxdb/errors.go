package influxdb

import "errors"

// Errors returned by the change history writer. Only ErrDisabled is
// expected in normal operation; the rest mean history is being lost.
var (
	// ErrNotConnected is returned by HealthCheck on a client that never connected.
	ErrNotConnected = errors.New("influxdb: history writer not connected")

	// ErrConnectionFailed wraps the reason Connect could not reach the server.
	ErrConnectionFailed = errors.New("influxdb: cannot reach history server")

	// ErrUnhealthy is returned by HealthCheck when the server answers but reports a problem.
	ErrUnhealthy = errors.New("influxdb: history server unhealthy")

	// ErrWriteFailed wraps every asynchronous batch error passed to the OnError callback.
	ErrWriteFailed = errors.New("influxdb: device history write failed")

	// ErrDisabled is returned by Connect when influxdb.enabled is false.
	ErrDisabled = errors.New("influxdb: history disabled")
)
