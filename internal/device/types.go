package device

import "net/netip"

// Device represents a network device held in the inventory.
//
// Vendor, Model and Location are optional and serialise as JSON null when unset.
// Tags keep their insertion order and may contain duplicates.
type Device struct {
	// Identity
	ID       string     `json:"id"`
	Hostname string     `json:"hostname"`
	IP       netip.Addr `json:"ip"`

	// Metadata
	Vendor   *string `json:"vendor"`
	Model    *string `json:"model"`
	Location *string `json:"location"`

	Status Status `json:"status"`

	// Tags are free-form labels used by the tag filter.
	// Example: ["leaf", "core"]
	Tags []string `json:"tags"`
}

// DeepCopy creates a complete independent copy of the Device.
// The tag slice is cloned so modifications to the copy do not affect
// the original. This is essential for store isolation.
func (d *Device) DeepCopy() *Device {
	if d == nil {
		return nil
	}

	cpy := *d // Shallow copy of value fields

	// Always hand out a non-nil slice so tags serialise as [] rather than null
	cpy.Tags = make([]string, len(d.Tags))
	copy(cpy.Tags, d.Tags)

	// Pointer fields (*string) don't need deep copy because strings are
	// immutable and patches replace the pointer rather than writing through it

	return &cpy
}

// Status represents the operational state of a device.
type Status string

// Status constants.
const (
	StatusOnline      Status = "online"
	StatusOffline     Status = "offline"
	StatusMaintenance Status = "maintenance"
)

// AllStatuses returns all valid status values.
func AllStatuses() []Status {
	return []Status{StatusOnline, StatusOffline, StatusMaintenance}
}

// Field names a patchable device attribute.
type Field string

// Patchable fields. The identifier is deliberately absent.
const (
	FieldHostname Field = "hostname"
	FieldIP       Field = "ip"
	FieldVendor   Field = "vendor"
	FieldModel    Field = "model"
	FieldLocation Field = "location"
	FieldStatus   Field = "status"
	FieldTags     Field = "tags"
)

// PatchableFields returns every field a patch may set, in declaration order.
func PatchableFields() []Field {
	return []Field{
		FieldHostname, FieldIP, FieldVendor, FieldModel,
		FieldLocation, FieldStatus, FieldTags,
	}
}

// StringPtr returns a pointer to s. Handy for building optional attributes.
func StringPtr(s string) *string {
	return &s
}
