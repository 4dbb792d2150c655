package device

import "errors"

// Domain errors for the device package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, device.ErrDeviceNotFound) {
//	    // handle not found case
//	}
var (
	// ErrDeviceNotFound is returned when a device ID does not exist.
	ErrDeviceNotFound = errors.New("device: not found")

	// ErrDeviceExists is returned when seeding a store with a duplicate ID.
	ErrDeviceExists = errors.New("device: already exists")

	// ErrInvalidDevice is returned when device validation fails.
	ErrInvalidDevice = errors.New("device: invalid")

	// ErrInvalidID is returned when a device identifier is empty or too long.
	ErrInvalidID = errors.New("device: invalid id")

	// ErrInvalidHostname is returned when a hostname is empty or too long.
	ErrInvalidHostname = errors.New("device: invalid hostname")

	// ErrInvalidIP is returned when an address is not an IPv4 or IPv6 literal.
	ErrInvalidIP = errors.New("device: invalid ip address")

	// ErrInvalidStatus is returned when a status value is not recognised.
	ErrInvalidStatus = errors.New("device: invalid status")

	// ErrInvalidTags is returned when tags are malformed or exceed limits.
	ErrInvalidTags = errors.New("device: invalid tags")

	// ErrInvalidPatch is returned when a patch value has the wrong type.
	ErrInvalidPatch = errors.New("device: invalid patch")

	// ErrUnknownField is returned when a patch names an attribute that does not exist.
	ErrUnknownField = errors.New("device: unknown field")

	// ErrImmutableField is returned when a patch targets the identifier.
	ErrImmutableField = errors.New("device: field cannot be changed")

	// ErrInvalidPage is returned when limit or offset are out of range.
	ErrInvalidPage = errors.New("device: invalid pagination")
)
