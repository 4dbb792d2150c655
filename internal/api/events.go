package api

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nerrad567/netmcp/internal/device"
	"github.com/nerrad567/netmcp/internal/infrastructure/influxdb"
	"github.com/nerrad567/netmcp/internal/infrastructure/logging"
	"github.com/nerrad567/netmcp/internal/infrastructure/mqtt"
)

// ChannelDeviceUpdated is the WebSocket channel carrying device change events.
const ChannelDeviceUpdated = "device.updated"

// DeviceEvent describes one applied UpdateDevice call.
type DeviceEvent struct {
	EventID   string         `json:"event_id"`
	DeviceID  string         `json:"device_id"`
	Fields    []device.Field `json:"fields"`
	Device    *device.Device `json:"device"`
	Timestamp string         `json:"timestamp"`
}

// eventPublisher is the subset of mqtt.Client used for events.
type eventPublisher interface {
	PublishJSON(topic string, v any) error
	Topics() mqtt.Topics
}

// historyWriter is the subset of influxdb.Client used for events.
type historyWriter interface {
	WriteDeviceUpdate(u influxdb.DeviceUpdate)
}

// EventNotifier fans device updates out to WebSocket subscribers, MQTT and
// InfluxDB. It implements mcp.Notifier.
//
// WebSocket sends never block. MQTT publishes are bounded by the client's
// publish timeout and InfluxDB writes are queued asynchronously. Sink
// failures are logged and never fail the update.
type EventNotifier struct {
	hub    *Hub
	logger *logging.Logger

	mu        sync.RWMutex
	publisher eventPublisher
	history   historyWriter
}

// NewEventNotifier creates a notifier broadcasting on hub.
func NewEventNotifier(hub *Hub, logger *logging.Logger) *EventNotifier {
	return &EventNotifier{
		hub:    hub,
		logger: logger,
	}
}

// SetPublisher enables MQTT publishing of device events.
func (n *EventNotifier) SetPublisher(p eventPublisher) {
	n.mu.Lock()
	n.publisher = p
	n.mu.Unlock()
}

// SetHistory enables recording device events in a time-series store.
func (n *EventNotifier) SetHistory(h historyWriter) {
	n.mu.Lock()
	n.history = h
	n.mu.Unlock()
}

// DeviceUpdated publishes a device.updated event for d.
func (n *EventNotifier) DeviceUpdated(ctx context.Context, d *device.Device, fields []device.Field) {
	now := time.Now().UTC()
	event := DeviceEvent{
		EventID:   uuid.NewString(),
		DeviceID:  d.ID,
		Fields:    fields,
		Device:    d,
		Timestamp: now.Format(time.RFC3339),
	}

	n.hub.Broadcast(ChannelDeviceUpdated, event)

	n.mu.RLock()
	publisher, history := n.publisher, n.history
	n.mu.RUnlock()

	if publisher != nil && ctx.Err() == nil {
		topic := publisher.Topics().DeviceUpdated(d.ID)
		if err := publisher.PublishJSON(topic, event); err != nil {
			n.logger.Warn("device event publish failed",
				"device_id", d.ID,
				"topic", topic,
				"error", err,
			)
		}
	}

	if history != nil {
		names := make([]string, len(fields))
		for i, f := range fields {
			names[i] = string(f)
		}
		history.WriteDeviceUpdate(influxdb.DeviceUpdate{
			EventID:  event.EventID,
			DeviceID: d.ID,
			Status:   string(d.Status),
			Fields:   names,
			Time:     now,
		})
	}

	n.logger.Debug("device event sent", "device_id", d.ID, "event_id", event.EventID)
}
