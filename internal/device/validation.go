package device

import (
	"fmt"
	"net/netip"
	"strings"
)

// Validation constants.
const (
	maxIDLength       = 64
	maxHostnameLength = 253 // RFC 1035 limit for a fully qualified name
	maxStringValueLen = 1024
	maxTagLength      = 64
	maxTagsPerDevice  = 50
)

// reservedIDs collide with fixed REST routes under /devices.
var reservedIDs = map[string]struct{}{
	"stats": {},
}

// Pre-computed validation set for O(1) lookups instead of O(n) linear search.
var validStatuses map[Status]struct{}

func init() {
	validStatuses = make(map[Status]struct{}, len(AllStatuses()))
	for _, s := range AllStatuses() {
		validStatuses[s] = struct{}{}
	}
}

// ValidateDevice performs comprehensive validation on a device.
// Returns an error describing the first validation failure found.
func ValidateDevice(d *Device) error {
	if d == nil {
		return ErrInvalidDevice
	}

	if err := ValidateID(d.ID); err != nil {
		return err
	}
	if err := ValidateHostname(d.Hostname); err != nil {
		return err
	}
	if !d.IP.IsValid() {
		return fmt.Errorf("%w: address is required", ErrInvalidIP)
	}
	if d.IP.Zone() != "" {
		return fmt.Errorf("%w: zoned address %q", ErrInvalidIP, d.IP)
	}
	if err := ValidateStatus(d.Status); err != nil {
		return err
	}

	optional := []struct {
		field Field
		value *string
	}{
		{FieldVendor, d.Vendor},
		{FieldModel, d.Model},
		{FieldLocation, d.Location},
	}
	for _, o := range optional {
		if o.value != nil && len(*o.value) > maxStringValueLen {
			return fmt.Errorf("%w: %s exceeds %d characters", ErrInvalidDevice, o.field, maxStringValueLen)
		}
	}

	return ValidateTags(d.Tags)
}

// ValidateID checks if a device identifier is valid.
func ValidateID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: id cannot be empty", ErrInvalidID)
	}
	if len(id) > maxIDLength {
		return fmt.Errorf("%w: id exceeds %d characters", ErrInvalidID, maxIDLength)
	}
	if _, ok := reservedIDs[id]; ok {
		return fmt.Errorf("%w: %q is reserved", ErrInvalidID, id)
	}
	return nil
}

// ValidateHostname checks if a hostname is valid.
func ValidateHostname(hostname string) error {
	if strings.TrimSpace(hostname) == "" {
		return fmt.Errorf("%w: hostname cannot be empty", ErrInvalidHostname)
	}
	if len(hostname) > maxHostnameLength {
		return fmt.Errorf("%w: hostname exceeds %d characters", ErrInvalidHostname, maxHostnameLength)
	}
	return nil
}

// ValidateStatus checks if a status is valid.
// Uses O(1) map lookup for efficiency.
func ValidateStatus(status Status) error {
	if _, ok := validStatuses[status]; ok {
		return nil
	}
	return fmt.Errorf("%w: %q (want online, offline or maintenance)", ErrInvalidStatus, status)
}

// ParseStatus converts a string into a Status, rejecting unknown values.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if err := ValidateStatus(status); err != nil {
		return "", err
	}
	return status, nil
}

// ParseIP parses an IPv4 or IPv6 literal. Zoned IPv6 addresses are rejected.
func ParseIP(s string) (netip.Addr, error) {
	addr, err := netip.ParseAddr(strings.TrimSpace(s))
	if err != nil {
		return netip.Addr{}, fmt.Errorf("%w: %q", ErrInvalidIP, s)
	}
	if addr.Zone() != "" {
		return netip.Addr{}, fmt.Errorf("%w: zoned address %q", ErrInvalidIP, s)
	}
	return addr, nil
}

// ValidateTags checks tag count and individual tag length.
// Duplicates are allowed.
func ValidateTags(tags []string) error {
	if len(tags) > maxTagsPerDevice {
		return fmt.Errorf("%w: too many tags (max %d)", ErrInvalidTags, maxTagsPerDevice)
	}
	for _, tag := range tags {
		if tag == "" || len(tag) > maxTagLength {
			return fmt.Errorf("%w: each tag must be 1-%d characters", ErrInvalidTags, maxTagLength)
		}
	}
	return nil
}
