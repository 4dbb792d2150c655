package mcp

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"github.com/nerrad567/netmcp/internal/device"
)

// ErrInvalidParams is wrapped by every parameter validation failure.
var ErrInvalidParams = errors.New("mcp: invalid params")

// ParamsError reports malformed method parameters.
//
// It is surfaced at the transport boundary (HTTP 400), never inside an envelope.
type ParamsError struct {
	Method string
	Err    error
}

func (e *ParamsError) Error() string {
	return fmt.Sprintf("invalid params for %s: %v", e.Method, e.Err)
}

func (e *ParamsError) Unwrap() []error {
	return []error{ErrInvalidParams, e.Err}
}

// ListParams are the parameters of ListDevices.
type ListParams struct {
	Criteria device.Criteria
	Page     device.Page
}

// GetParams are the parameters of GetDevice.
type GetParams struct {
	ID string
}

// UpdateParams are the parameters of UpdateDevice.
type UpdateParams struct {
	ID    string
	Patch device.Patch
}

// parseListParams reads ListDevices parameters.
//
// String filters accept strings or numbers; an empty string is treated as
// absent. limit and offset accept integral numbers or numeric strings.
// Unrecognised keys are ignored.
func parseListParams(params map[string]any) (ListParams, error) {
	var (
		lp  = ListParams{Page: device.DefaultPage()}
		err error
	)

	status, err := optionalString(params, "status")
	if err != nil {
		return ListParams{}, err
	}
	if status != "" {
		if lp.Criteria.Status, err = device.ParseStatus(status); err != nil {
			return ListParams{}, err
		}
	}

	if lp.Criteria.Vendor, err = optionalString(params, "vendor"); err != nil {
		return ListParams{}, err
	}
	if lp.Criteria.Location, err = optionalString(params, "location"); err != nil {
		return ListParams{}, err
	}
	if lp.Criteria.Tag, err = optionalString(params, "tag"); err != nil {
		return ListParams{}, err
	}
	if lp.Criteria.Query, err = optionalString(params, "q"); err != nil {
		return ListParams{}, err
	}

	if lp.Page.Limit, err = optionalInt(params, "limit", device.DefaultLimit); err != nil {
		return ListParams{}, err
	}
	if lp.Page.Offset, err = optionalInt(params, "offset", 0); err != nil {
		return ListParams{}, err
	}
	if err := lp.Page.Validate(); err != nil {
		return ListParams{}, err
	}

	return lp, nil
}

// parseGetParams reads GetDevice parameters.
func parseGetParams(params map[string]any) (GetParams, error) {
	id, err := requiredString(params, "id")
	if err != nil {
		return GetParams{}, err
	}
	return GetParams{ID: id}, nil
}

// parseUpdateParams reads UpdateDevice parameters.
// The patch object is converted with device.ParsePatch.
func parseUpdateParams(params map[string]any) (UpdateParams, error) {
	id, err := requiredString(params, "id")
	if err != nil {
		return UpdateParams{}, err
	}

	raw, ok := params["patch"]
	if !ok || raw == nil {
		return UpdateParams{}, errors.New("patch is required")
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return UpdateParams{}, errors.New("patch must be an object")
	}

	patch, err := device.ParsePatch(obj)
	if err != nil {
		return UpdateParams{}, err
	}
	return UpdateParams{ID: id, Patch: patch}, nil
}

// optionalString returns the string value of key, or "" when absent or null.
func optionalString(params map[string]any, key string) (string, error) {
	v, ok := params[key]
	if !ok || v == nil {
		return "", nil
	}
	return toString(key, v)
}

// requiredString returns the string value of key, failing when absent or null.
func requiredString(params map[string]any, key string) (string, error) {
	v, ok := params[key]
	if !ok || v == nil {
		return "", fmt.Errorf("%s is required", key)
	}
	return toString(key, v)
}

func toString(key string, v any) (string, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case float64:
		s, err := cast.ToStringE(val)
		if err != nil {
			return "", fmt.Errorf("%s: %w", key, err)
		}
		return s, nil
	default:
		return "", fmt.Errorf("%s must be a string", key)
	}
}

// optionalInt returns the integer value of key, or def when absent or null.
// Fractional numbers and booleans are rejected.
func optionalInt(params map[string]any, key string, def int) (int, error) {
	v, ok := params[key]
	if !ok || v == nil {
		return def, nil
	}

	switch val := v.(type) {
	case float64:
		if val != math.Trunc(val) || math.IsInf(val, 0) || math.Abs(val) > math.MaxInt32 {
			return 0, fmt.Errorf("%s must be an integer", key)
		}
		return cast.ToIntE(val)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return 0, fmt.Errorf("%s must be an integer", key)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%s must be an integer", key)
	}
}
