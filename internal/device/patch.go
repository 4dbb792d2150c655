package device

import (
	"fmt"
	"net/netip"
	"sort"
	"strings"
)

// Clearable carries a new value for an optional attribute.
// A nil Value clears the attribute.
type Clearable struct {
	Value *string
}

// Patch is a shallow, allow-listed update to a device.
//
// Only non-nil members are applied; everything else is left untouched.
// Build one from decoded JSON with ParsePatch, or construct it directly.
type Patch struct {
	Hostname *string
	IP       *netip.Addr
	Vendor   *Clearable
	Model    *Clearable
	Location *Clearable
	Status   *Status
	Tags     *[]string
}

// ParsePatch converts a decoded JSON object into a Patch.
//
// Keys must name a patchable field. The identifier and unknown names are
// rejected rather than ignored, and every value is type-checked:
//   - hostname: non-empty string
//   - ip: IPv4 or IPv6 literal string
//   - vendor, model, location: string or null (null clears)
//   - status: one of online, offline, maintenance
//   - tags: array of strings
//
// Keys are processed in sorted order so the reported error is deterministic.
func ParsePatch(m map[string]any) (Patch, error) {
	var p Patch

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		v := m[key]
		switch Field(key) {
		case FieldHostname:
			s, ok := v.(string)
			if !ok {
				return Patch{}, fmt.Errorf("%w: hostname must be a string", ErrInvalidPatch)
			}
			if err := ValidateHostname(s); err != nil {
				return Patch{}, err
			}
			p.Hostname = &s
		case FieldIP:
			s, ok := v.(string)
			if !ok {
				return Patch{}, fmt.Errorf("%w: ip must be a string", ErrInvalidPatch)
			}
			addr, err := ParseIP(s)
			if err != nil {
				return Patch{}, err
			}
			p.IP = &addr
		case FieldVendor:
			c, err := parseClearable(FieldVendor, v)
			if err != nil {
				return Patch{}, err
			}
			p.Vendor = c
		case FieldModel:
			c, err := parseClearable(FieldModel, v)
			if err != nil {
				return Patch{}, err
			}
			p.Model = c
		case FieldLocation:
			c, err := parseClearable(FieldLocation, v)
			if err != nil {
				return Patch{}, err
			}
			p.Location = c
		case FieldStatus:
			s, ok := v.(string)
			if !ok {
				return Patch{}, fmt.Errorf("%w: status must be a string", ErrInvalidPatch)
			}
			status, err := ParseStatus(s)
			if err != nil {
				return Patch{}, err
			}
			p.Status = &status
		case FieldTags:
			tags, err := parseTags(v)
			if err != nil {
				return Patch{}, err
			}
			p.Tags = &tags
		default:
			if key == "id" {
				return Patch{}, fmt.Errorf("%w: %q", ErrImmutableField, key)
			}
			return Patch{}, fmt.Errorf("%w: %q (patchable: %s)", ErrUnknownField, key, patchableList())
		}
	}

	return p, nil
}

// patchableList renders PatchableFields for error messages.
func patchableList() string {
	fields := PatchableFields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// parseClearable accepts a string or JSON null for an optional attribute.
func parseClearable(field Field, v any) (*Clearable, error) {
	if v == nil {
		return &Clearable{}, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("%w: %s must be a string or null", ErrInvalidPatch, field)
	}
	if len(s) > maxStringValueLen {
		return nil, fmt.Errorf("%w: %s exceeds %d characters", ErrInvalidPatch, field, maxStringValueLen)
	}
	return &Clearable{Value: &s}, nil
}

// parseTags accepts a JSON array of strings.
func parseTags(v any) ([]string, error) {
	var raw []any
	switch val := v.(type) {
	case []any:
		raw = val
	case []string:
		return append([]string{}, val...), ValidateTags(val)
	default:
		return nil, fmt.Errorf("%w: tags must be an array of strings", ErrInvalidPatch)
	}

	tags := make([]string, 0, len(raw))
	for _, elem := range raw {
		s, ok := elem.(string)
		if !ok {
			return nil, fmt.Errorf("%w: tags must be an array of strings", ErrInvalidPatch)
		}
		tags = append(tags, s)
	}
	if err := ValidateTags(tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// IsEmpty reports whether the patch sets no fields.
func (p Patch) IsEmpty() bool {
	return len(p.Fields()) == 0
}

// Fields returns the names of the fields set by the patch, in declaration order.
func (p Patch) Fields() []Field {
	var fields []Field
	if p.Hostname != nil {
		fields = append(fields, FieldHostname)
	}
	if p.IP != nil {
		fields = append(fields, FieldIP)
	}
	if p.Vendor != nil {
		fields = append(fields, FieldVendor)
	}
	if p.Model != nil {
		fields = append(fields, FieldModel)
	}
	if p.Location != nil {
		fields = append(fields, FieldLocation)
	}
	if p.Status != nil {
		fields = append(fields, FieldStatus)
	}
	if p.Tags != nil {
		fields = append(fields, FieldTags)
	}
	return fields
}

// Apply overwrites the fields set by the patch on d.
func (p Patch) Apply(d *Device) {
	if p.Hostname != nil {
		d.Hostname = *p.Hostname
	}
	if p.IP != nil {
		d.IP = *p.IP
	}
	if p.Vendor != nil {
		d.Vendor = p.Vendor.Value
	}
	if p.Model != nil {
		d.Model = p.Model.Value
	}
	if p.Location != nil {
		d.Location = p.Location.Value
	}
	if p.Status != nil {
		d.Status = *p.Status
	}
	if p.Tags != nil {
		d.Tags = make([]string, len(*p.Tags))
		copy(d.Tags, *p.Tags)
	}
}
