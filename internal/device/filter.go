package device

import (
	"fmt"
	"slices"
	"strings"
)

// Pagination defaults and bounds.
const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// Criteria holds the optional predicates of a device query.
// An empty value means the predicate is not applied.
type Criteria struct {
	Status   Status
	Vendor   string // case-insensitive substring
	Location string // case-insensitive substring
	Tag      string // exact membership
	Query    string // case-insensitive substring of hostname or model
}

// Matches reports whether d satisfies every supplied predicate.
func (c Criteria) Matches(d *Device) bool {
	if c.Status != "" && d.Status != c.Status {
		return false
	}
	if c.Vendor != "" && !containsFold(d.Vendor, c.Vendor) {
		return false
	}
	if c.Location != "" && !containsFold(d.Location, c.Location) {
		return false
	}
	if c.Tag != "" && !slices.Contains(d.Tags, c.Tag) {
		return false
	}
	if c.Query != "" {
		hostname := d.Hostname
		if !containsFold(&hostname, c.Query) && !containsFold(d.Model, c.Query) {
			return false
		}
	}
	return true
}

// containsFold reports whether the optional value contains sub, ignoring case.
// An absent value never matches.
func containsFold(value *string, sub string) bool {
	if value == nil {
		return false
	}
	return strings.Contains(strings.ToLower(*value), strings.ToLower(sub))
}

// Page selects a window of a filtered result.
type Page struct {
	Limit  int
	Offset int
}

// DefaultPage returns the first page with the default limit.
func DefaultPage() Page {
	return Page{Limit: DefaultLimit}
}

// Validate checks that limit is in [1, MaxLimit] and offset is non-negative.
func (p Page) Validate() error {
	if p.Limit < 1 || p.Limit > MaxLimit {
		return fmt.Errorf("%w: limit must be between 1 and %d, got %d", ErrInvalidPage, MaxLimit, p.Limit)
	}
	if p.Offset < 0 {
		return fmt.Errorf("%w: offset must be >= 0, got %d", ErrInvalidPage, p.Offset)
	}
	return nil
}

// Result is a filtered, paginated view of the inventory.
type Result struct {
	Total int      `json:"total"`
	Items []Device `json:"items"`
}

// Filter returns the devices matching c, windowed by p.
//
// Total counts every match before pagination. Items keep the input order and
// are clamped to the bounds of the match set, so an offset past the end yields
// an empty slice. The page is assumed to be valid.
func Filter(devices []*Device, c Criteria, p Page) Result {
	res := Result{Items: []Device{}}
	for _, d := range devices {
		if !c.Matches(d) {
			continue
		}
		if res.Total >= p.Offset && len(res.Items) < p.Limit {
			res.Items = append(res.Items, *d.DeepCopy())
		}
		res.Total++
	}
	return res
}
