package influxdb

import (
	"strings"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// Measurement names written by netmcp.
const (
	MeasurementDeviceUpdates = "device_updates"
	MeasurementInventory     = "inventory"
)

// DeviceUpdate describes one applied UpdateDevice call.
type DeviceUpdate struct {
	EventID  string
	DeviceID string
	Status   string
	Fields   []string
	Time     time.Time
}

// NewDeviceUpdatePoint builds the point recorded for a device change.
//
// device_id and status are tags; the changed field names are stored as a
// comma separated string alongside their count.
func NewDeviceUpdatePoint(u DeviceUpdate) *write.Point {
	ts := u.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	return write.NewPoint(
		MeasurementDeviceUpdates,
		map[string]string{
			"device_id": u.DeviceID,
			"status":    u.Status,
		},
		map[string]interface{}{
			"event_id":       u.EventID,
			"changed_fields": strings.Join(u.Fields, ","),
			"field_count":    len(u.Fields),
		},
		ts,
	)
}

// NewInventoryPoint builds a snapshot of device counts by status.
func NewInventoryPoint(total int, byStatus map[string]int, ts time.Time) *write.Point {
	fields := map[string]interface{}{
		"total": total,
	}
	for status, n := range byStatus {
		fields["status_"+status] = n
	}
	return write.NewPoint(MeasurementInventory, nil, fields, ts)
}

// WriteDeviceUpdate queues a device change point. Non-blocking; write
// failures surface through the SetOnError callback.
func (c *Client) WriteDeviceUpdate(u DeviceUpdate) {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(NewDeviceUpdatePoint(u))
}

// WriteInventorySnapshot queues an inventory count point stamped now.
func (c *Client) WriteInventorySnapshot(total int, byStatus map[string]int) {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(NewInventoryPoint(total, byStatus, time.Now()))
}
