package device

import (
	"fmt"
	"sync"
)

// Logger defines the logging interface used by the Store.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Store is the in-memory device inventory.
//
// Devices keep the order they were seeded in. Every read hands out deep
// copies, and patches replace a record atomically under the write lock, so
// callers never observe a half-applied update.
//
// All public methods are thread-safe.
type Store struct {
	mu      sync.RWMutex
	devices []*Device      // seed order
	index   map[string]int // id -> position in devices
	logger  Logger
}

// NewStore creates a store pre-populated with the given devices.
// Every device is validated and identifiers must be unique.
func NewStore(devices []Device) (*Store, error) {
	s := &Store{
		devices: make([]*Device, 0, len(devices)),
		index:   make(map[string]int, len(devices)),
		logger:  noopLogger{},
	}

	for i := range devices {
		d := devices[i].DeepCopy()
		if err := ValidateDevice(d); err != nil {
			return nil, fmt.Errorf("seeding device %d: %w", i, err)
		}
		if _, dup := s.index[d.ID]; dup {
			return nil, fmt.Errorf("seeding device %d: %w: %s", i, ErrDeviceExists, d.ID)
		}
		s.index[d.ID] = len(s.devices)
		s.devices = append(s.devices, d)
	}

	return s, nil
}

// SetLogger sets the logger for the store.
func (s *Store) SetLogger(logger Logger) {
	s.logger = logger
}

// Lookup returns a copy of the device with the given id.
// The boolean is false when no such device exists.
func (s *Store) Lookup(id string) (*Device, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pos, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return s.devices[pos].DeepCopy(), true
}

// List returns copies of every device in seed order.
func (s *Store) List() []Device {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Device, 0, len(s.devices))
	for _, d := range s.devices {
		out = append(out, *d.DeepCopy())
	}
	return out
}

// Query filters and paginates the inventory.
// Returns ErrInvalidPage if the page is out of range.
func (s *Store) Query(c Criteria, p Page) (Result, error) {
	if err := p.Validate(); err != nil {
		return Result{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return Filter(s.devices, c, p), nil
}

// ApplyPatch applies a shallow patch to the device with the given id and
// returns a copy of the updated record.
//
// The patch is applied to a copy which is validated before it replaces the
// stored record. Returns ErrDeviceNotFound if the id is unknown.
func (s *Store) ApplyPatch(id string, p Patch) (*Device, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.index[id]
	if !ok {
		return nil, ErrDeviceNotFound
	}

	updated := s.devices[pos].DeepCopy()
	p.Apply(updated)
	if err := ValidateDevice(updated); err != nil {
		return nil, fmt.Errorf("patching device %s: %w", id, err)
	}
	s.devices[pos] = updated

	s.logger.Info("device patched", "device_id", id, "fields", p.Fields())
	return updated.DeepCopy(), nil
}

// Count returns the number of devices in the inventory.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.devices)
}

// Stats summarises the inventory by status.
type Stats struct {
	Total    int            `json:"total"`
	ByStatus map[Status]int `json:"by_status"`
}

// Stats returns device counts grouped by status.
// Every known status is present, even with a zero count.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Stats{
		Total:    len(s.devices),
		ByStatus: make(map[Status]int, len(validStatuses)),
	}
	for _, status := range AllStatuses() {
		st.ByStatus[status] = 0
	}
	for _, d := range s.devices {
		st.ByStatus[d.Status]++
	}
	return st
}
