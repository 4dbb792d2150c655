package mcp

import (
	"context"
	"errors"

	"github.com/nerrad567/netmcp/internal/device"
)

// Method names understood by the dispatcher.
const (
	MethodListDevices  = "ListDevices"
	MethodGetDevice    = "GetDevice"
	MethodUpdateDevice = "UpdateDevice"
)

// Inventory is the subset of device.Store used by the dispatcher.
type Inventory interface {
	Lookup(id string) (*device.Device, bool)
	Query(c device.Criteria, p device.Page) (device.Result, error)
	ApplyPatch(id string, p device.Patch) (*device.Device, error)
}

// Notifier is told about every successful UpdateDevice.
type Notifier interface {
	DeviceUpdated(ctx context.Context, d *device.Device, fields []device.Field)
}

// Logger defines the logging interface used by the Dispatcher.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// GetResult is the result of GetDevice. Item is null when the id is unknown.
type GetResult struct {
	Item *device.Device `json:"item"`
}

// UpdateResult is the result of UpdateDevice.
type UpdateResult struct {
	Item *device.Device `json:"item"`
}

// Dispatcher routes request envelopes to inventory operations.
// It holds no per-request state and is safe for concurrent use.
type Dispatcher struct {
	inventory Inventory
	notifier  Notifier
	logger    Logger
}

// NewDispatcher creates a dispatcher backed by the given inventory.
func NewDispatcher(inv Inventory) *Dispatcher {
	return &Dispatcher{
		inventory: inv,
		logger:    noopLogger{},
	}
}

// SetNotifier sets the receiver of device update events.
func (d *Dispatcher) SetNotifier(n Notifier) {
	d.notifier = n
}

// SetLogger sets the logger for the dispatcher.
func (d *Dispatcher) SetLogger(logger Logger) {
	d.logger = logger
}

// Dispatch executes req and returns the response envelope.
//
// Malformed parameters are returned as a *ParamsError with no envelope.
// Unknown methods and UpdateDevice on a missing device produce error
// envelopes. GetDevice on a missing device succeeds with a null item.
func (d *Dispatcher) Dispatch(ctx context.Context, req *Request) (*Response, error) {
	switch req.Method {
	case MethodListDevices:
		return d.listDevices(req)
	case MethodGetDevice:
		return d.getDevice(req)
	case MethodUpdateDevice:
		return d.updateDevice(ctx, req)
	default:
		d.logger.Debug("unknown mcp method", "method", req.Method)
		return NewError(req, CodeMethodNotFound, MessageMethodNotFound), nil
	}
}

func (d *Dispatcher) listDevices(req *Request) (*Response, error) {
	p, err := parseListParams(req.Params)
	if err != nil {
		return nil, &ParamsError{Method: req.Method, Err: err}
	}

	res, err := d.inventory.Query(p.Criteria, p.Page)
	if err != nil {
		return nil, &ParamsError{Method: req.Method, Err: err}
	}
	return NewResult(req, res), nil
}

func (d *Dispatcher) getDevice(req *Request) (*Response, error) {
	p, err := parseGetParams(req.Params)
	if err != nil {
		return nil, &ParamsError{Method: req.Method, Err: err}
	}

	item, _ := d.inventory.Lookup(p.ID)
	return NewResult(req, GetResult{Item: item}), nil
}

func (d *Dispatcher) updateDevice(ctx context.Context, req *Request) (*Response, error) {
	p, err := parseUpdateParams(req.Params)
	if err != nil {
		return nil, &ParamsError{Method: req.Method, Err: err}
	}

	updated, err := d.inventory.ApplyPatch(p.ID, p.Patch)
	if errors.Is(err, device.ErrDeviceNotFound) {
		return NewError(req, CodeNotFound, MessageDeviceNotFound), nil
	}
	if err != nil {
		return nil, &ParamsError{Method: req.Method, Err: err}
	}

	if d.notifier != nil && !p.Patch.IsEmpty() {
		d.notifier.DeviceUpdated(ctx, updated.DeepCopy(), p.Patch.Fields())
	}
	return NewResult(req, UpdateResult{Item: updated}), nil
}
