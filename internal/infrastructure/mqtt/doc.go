// Package mqtt publishes netmcp device events to an MQTT broker.
//
// It wraps the Eclipse Paho MQTT client with:
//   - Connection management with automatic reconnection
//   - Last Will and Testament on {prefix}/system/status
//   - JSON publishing helpers with payload size and QoS validation
//
// netmcp never subscribes; downstream consumers subscribe to
// {prefix}/device/+/updated to follow inventory changes.
//
// Usage:
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if errors.Is(err, mqtt.ErrDisabled) {
//	    // publishing is optional
//	}
//	defer client.Close()
//
//	err = client.PublishJSON(client.Topics().DeviceUpdated("dev3"), event)
package mqtt
