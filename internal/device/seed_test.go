package device

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "devices.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestSampleDevices(t *testing.T) {
	samples := SampleDevices()
	require.Len(t, samples, 3)

	for i := range samples {
		assert.NoError(t, ValidateDevice(&samples[i]), samples[i].ID)
	}

	// Each call returns an independent slice
	samples[0].Hostname = "changed"
	assert.Equal(t, "switch-1", SampleDevices()[0].Hostname)
}

func TestLoadSeedFile(t *testing.T) {
	t.Run("valid file", func(t *testing.T) {
		path := writeSeed(t, `
devices:
  - id: fw1
    hostname: firewall-1
    ip: 2001:db8::1
    vendor: Palo Alto
    status: online
    tags: [edge, security]
  - id: probe1
    hostname: probe-1
    ip: 198.51.100.7
`)
		devices, err := LoadSeedFile(path)
		require.NoError(t, err)
		require.Len(t, devices, 2)

		assert.Equal(t, "fw1", devices[0].ID)
		assert.Equal(t, "2001:db8::1", devices[0].IP.String())
		require.NotNil(t, devices[0].Vendor)
		assert.Equal(t, "Palo Alto", *devices[0].Vendor)
		assert.Nil(t, devices[0].Model)
		assert.Equal(t, []string{"edge", "security"}, devices[0].Tags)

		assert.Equal(t, StatusOffline, devices[1].Status, "status defaults to offline")
		assert.NotNil(t, devices[1].Tags)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadSeedFile(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		_, err := LoadSeedFile(writeSeed(t, "devices: [unterminated"))
		assert.Error(t, err)
	})

	t.Run("bad ip", func(t *testing.T) {
		_, err := LoadSeedFile(writeSeed(t, "devices:\n  - {id: a, hostname: a, ip: nope}\n"))
		assert.ErrorIs(t, err, ErrInvalidIP)
	})

	t.Run("bad status", func(t *testing.T) {
		_, err := LoadSeedFile(writeSeed(t, "devices:\n  - {id: a, hostname: a, ip: 10.0.0.1, status: up}\n"))
		assert.ErrorIs(t, err, ErrInvalidStatus)
	})

	t.Run("duplicate ids rejected by store", func(t *testing.T) {
		devices, err := LoadSeedFile(writeSeed(t, `
devices:
  - {id: a, hostname: a, ip: 10.0.0.1}
  - {id: a, hostname: b, ip: 10.0.0.2}
`))
		require.NoError(t, err)
		_, err = NewStore(devices)
		assert.ErrorIs(t, err, ErrDeviceExists)
	})
}
