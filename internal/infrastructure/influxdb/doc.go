// Package influxdb records netmcp inventory history in InfluxDB v2.
//
// It wraps the official influxdb-client-go v2 library with connection
// management, batched non-blocking writes and health checks.
//
// # Measurements
//
//	device_updates  tags: device_id, status
//	                fields: event_id, changed_fields, field_count
//	inventory       fields: total, status_<status>
//
// # Usage
//
//	client, err := influxdb.Connect(cfg.InfluxDB)
//	if err != nil && !errors.Is(err, influxdb.ErrDisabled) {
//	    return err
//	}
//	defer client.Close()
//
//	client.WriteDeviceUpdate(influxdb.DeviceUpdate{DeviceID: "dev3", Fields: []string{"status"}})
//
// Writes are batched according to batch_size and flush_interval. Errors
// from the async writer are delivered to the SetOnError callback.
package influxdb
