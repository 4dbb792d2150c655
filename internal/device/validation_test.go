package device

import (
	"errors"
	"net/netip"
	"strings"
	"testing"
)

func TestValidateHostname(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{
			name:    "valid hostname",
			input:   "switch-1",
			wantErr: nil,
		},
		{
			name:    "fully qualified",
			input:   "core-sw1.dc1.example.net",
			wantErr: nil,
		},
		{
			name:    "empty hostname",
			input:   "",
			wantErr: ErrInvalidHostname,
		},
		{
			name:    "whitespace only",
			input:   "   ",
			wantErr: ErrInvalidHostname,
		},
		{
			name:    "hostname at max length",
			input:   strings.Repeat("a", maxHostnameLength),
			wantErr: nil,
		},
		{
			name:    "hostname exceeds max length",
			input:   strings.Repeat("a", maxHostnameLength+1),
			wantErr: ErrInvalidHostname,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateHostname(tt.input)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateHostname(%q) = %v, want nil", tt.input, err)
				}
			} else {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("ValidateHostname(%q) = %v, want %v", tt.input, err, tt.wantErr)
				}
			}
		})
	}
}

func TestValidateID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple id", "dev1", false},
		{"empty", "", true},
		{"whitespace", "  ", true},
		{"at max length", strings.Repeat("x", maxIDLength), false},
		{"too long", strings.Repeat("x", maxIDLength+1), true},
		{"reserved route name", "stats", true},
		{"reserved name as prefix", "stats-1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateID(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidID) {
				t.Errorf("ValidateID(%q) = %v, want ErrInvalidID", tt.input, err)
			}
		})
	}
}

func TestParseStatus(t *testing.T) {
	for _, s := range AllStatuses() {
		got, err := ParseStatus(string(s))
		if err != nil {
			t.Errorf("ParseStatus(%q) unexpected error: %v", s, err)
		}
		if got != s {
			t.Errorf("ParseStatus(%q) = %q", s, got)
		}
	}

	for _, bad := range []string{"", "Online", "degraded", "up"} {
		if _, err := ParseStatus(bad); !errors.Is(err, ErrInvalidStatus) {
			t.Errorf("ParseStatus(%q) = %v, want ErrInvalidStatus", bad, err)
		}
	}
}

func TestParseIP(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"ipv4", "192.168.1.10", "192.168.1.10", false},
		{"ipv6", "2001:db8::1", "2001:db8::1", false},
		{"ipv6 canonicalised", "2001:0db8:0000::0001", "2001:db8::1", false},
		{"surrounding whitespace", " 10.0.0.1 ", "10.0.0.1", false},
		{"empty", "", "", true},
		{"hostname", "router-1", "", true},
		{"cidr", "10.0.0.0/8", "", true},
		{"octet out of range", "10.0.0.256", "", true},
		{"zoned ipv6", "fe80::1%eth0", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseIP(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidIP) {
					t.Errorf("ParseIP(%q) = %v, want ErrInvalidIP", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseIP(%q) unexpected error: %v", tt.input, err)
			}
			if got.String() != tt.want {
				t.Errorf("ParseIP(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateTags(t *testing.T) {
	tooMany := make([]string, maxTagsPerDevice+1)
	for i := range tooMany {
		tooMany[i] = "t"
	}

	tests := []struct {
		name    string
		tags    []string
		wantErr bool
	}{
		{"nil", nil, false},
		{"empty", []string{}, false},
		{"duplicates allowed", []string{"core", "core"}, false},
		{"empty tag", []string{"leaf", ""}, true},
		{"tag too long", []string{strings.Repeat("t", maxTagLength+1)}, true},
		{"too many", tooMany, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTags(tt.tags)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTags() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDevice(t *testing.T) {
	valid := func() *Device {
		return &Device{
			ID:       "dev9",
			Hostname: "edge-9",
			IP:       netip.MustParseAddr("10.9.9.9"),
			Status:   StatusOnline,
		}
	}

	if err := ValidateDevice(valid()); err != nil {
		t.Fatalf("ValidateDevice(valid) = %v", err)
	}
	if err := ValidateDevice(nil); !errors.Is(err, ErrInvalidDevice) {
		t.Errorf("ValidateDevice(nil) = %v, want ErrInvalidDevice", err)
	}

	tests := []struct {
		name    string
		mutate  func(d *Device)
		wantErr error
	}{
		{"missing id", func(d *Device) { d.ID = "" }, ErrInvalidID},
		{"missing hostname", func(d *Device) { d.Hostname = "" }, ErrInvalidHostname},
		{"missing ip", func(d *Device) { d.IP = netip.Addr{} }, ErrInvalidIP},
		{"zoned ip", func(d *Device) { d.IP = netip.MustParseAddr("fe80::1%eth0") }, ErrInvalidIP},
		{"bad status", func(d *Device) { d.Status = "unknown" }, ErrInvalidStatus},
		{"bad tags", func(d *Device) { d.Tags = []string{""} }, ErrInvalidTags},
		{
			"vendor too long",
			func(d *Device) { d.Vendor = StringPtr(strings.Repeat("v", maxStringValueLen+1)) },
			ErrInvalidDevice,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := valid()
			tt.mutate(d)
			if err := ValidateDevice(d); !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateDevice() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
