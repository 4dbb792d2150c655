package device

import (
	"fmt"
	"net/netip"
	"os"

	"gopkg.in/yaml.v3"
)

// SampleDevices returns the built-in inventory used when no seed file is configured.
func SampleDevices() []Device {
	return []Device{
		{
			ID:       "dev1",
			Hostname: "switch-1",
			IP:       netip.MustParseAddr("192.168.1.10"),
			Vendor:   StringPtr("Cisco"),
			Model:    StringPtr("Nexus9000"),
			Location: StringPtr("datacenter-1"),
			Status:   StatusOnline,
			Tags:     []string{"leaf", "core"},
		},
		{
			ID:       "dev2",
			Hostname: "router-1",
			IP:       netip.MustParseAddr("10.0.0.1"),
			Vendor:   StringPtr("Juniper"),
			Model:    StringPtr("MX480"),
			Location: StringPtr("datacenter-2"),
			Status:   StatusMaintenance,
			Tags:     []string{"edge"},
		},
		{
			ID:       "dev3",
			Hostname: "ap-1",
			IP:       netip.MustParseAddr("172.16.0.5"),
			Vendor:   StringPtr("Ubiquiti"),
			Model:    StringPtr("UniFi-AC"),
			Location: StringPtr("branch-1"),
			Status:   StatusOffline,
			Tags:     []string{"wireless"},
		},
	}
}

// seedFile is the on-disk layout of an inventory seed file.
type seedFile struct {
	Devices []seedRecord `yaml:"devices"`
}

// seedRecord mirrors Device with YAML-friendly field types.
type seedRecord struct {
	ID       string   `yaml:"id"`
	Hostname string   `yaml:"hostname"`
	IP       string   `yaml:"ip"`
	Vendor   *string  `yaml:"vendor"`
	Model    *string  `yaml:"model"`
	Location *string  `yaml:"location"`
	Status   string   `yaml:"status"`
	Tags     []string `yaml:"tags"`
}

// LoadSeedFile reads devices from a YAML seed file.
//
// Records are converted and validated, but uniqueness is left to NewStore.
// Devices without a status default to offline.
func LoadSeedFile(path string) ([]Device, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from operator config
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}

	var sf seedFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parsing seed file: %w", err)
	}

	devices := make([]Device, 0, len(sf.Devices))
	for i, rec := range sf.Devices {
		d, err := rec.toDevice()
		if err != nil {
			return nil, fmt.Errorf("seed record %d: %w", i, err)
		}
		devices = append(devices, d)
	}
	return devices, nil
}

func (r seedRecord) toDevice() (Device, error) {
	addr, err := ParseIP(r.IP)
	if err != nil {
		return Device{}, err
	}

	status := StatusOffline
	if r.Status != "" {
		status, err = ParseStatus(r.Status)
		if err != nil {
			return Device{}, err
		}
	}

	d := Device{
		ID:       r.ID,
		Hostname: r.Hostname,
		IP:       addr,
		Vendor:   r.Vendor,
		Model:    r.Model,
		Location: r.Location,
		Status:   status,
		Tags:     append([]string{}, r.Tags...),
	}
	if err := ValidateDevice(&d); err != nil {
		return Device{}, err
	}
	return d, nil
}
