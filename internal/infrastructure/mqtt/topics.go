package mqtt

import "strings"

// DefaultTopicPrefix is used when the configuration leaves topic_prefix empty.
const DefaultTopicPrefix = "netmcp"

// Topics builds the MQTT topic names netmcp publishes to.
//
// Topic layout:
//
//	{prefix}/device/{id}/updated   device change events (not retained)
//	{prefix}/system/status         service online/offline status (retained, LWT)
//
// Example:
//
//	topics := mqtt.Topics{Prefix: "lab"}
//	topics.DeviceUpdated("dev3") // "lab/device/dev3/updated"
type Topics struct {
	Prefix string
}

func (t Topics) prefix() string {
	p := strings.TrimRight(t.Prefix, "/")
	if p == "" {
		return DefaultTopicPrefix
	}
	return p
}

// DeviceUpdated returns the topic for change events of a single device.
func (t Topics) DeviceUpdated(deviceID string) string {
	return t.prefix() + "/device/" + deviceID + "/updated"
}

// SystemStatus returns the retained service status topic.
func (t Topics) SystemStatus() string {
	return t.prefix() + "/system/status"
}
