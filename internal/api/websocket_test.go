package api

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nerrad567/netmcp/internal/device"
	"github.com/nerrad567/netmcp/internal/infrastructure/config"
	"github.com/nerrad567/netmcp/internal/infrastructure/influxdb"
	"github.com/nerrad567/netmcp/internal/infrastructure/mqtt"
)

func newTestClient(hub *Hub, channels ...string) *WSClient {
	subs := make(map[string]struct{}, len(channels))
	for _, ch := range channels {
		subs[ch] = struct{}{}
	}
	return &WSClient{
		hub:           hub,
		send:          make(chan []byte, wsSendBufferSize),
		subscriptions: subs,
	}
}

func readEvent(t *testing.T, client *WSClient) WSMessage {
	t.Helper()
	select {
	case data := <-client.send:
		var msg WSMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("unmarshal broadcast: %v", err)
		}
		return msg
	case <-time.After(time.Second):
		t.Fatal("no message received")
	}
	return WSMessage{}
}

// =============================================================================
// Hub
// =============================================================================

func TestHub_BroadcastToSubscribed(t *testing.T) {
	hub := NewHub(testWSConfig(), testLogger())
	client := newTestClient(hub, ChannelDeviceUpdated)
	hub.Register(client)

	hub.Broadcast(ChannelDeviceUpdated, map[string]any{"device_id": "dev1"})

	msg := readEvent(t, client)
	if msg.Type != WSTypeEvent {
		t.Errorf("type = %s, want event", msg.Type)
	}
	if msg.EventType != ChannelDeviceUpdated {
		t.Errorf("event_type = %s, want %s", msg.EventType, ChannelDeviceUpdated)
	}
}

func TestHub_NoMessageForUnsubscribed(t *testing.T) {
	hub := NewHub(testWSConfig(), testLogger())
	client := newTestClient(hub, "other.channel")
	hub.Register(client)

	hub.Broadcast(ChannelDeviceUpdated, map[string]any{"device_id": "dev1"})

	select {
	case data := <-client.send:
		t.Errorf("unexpected message: %s", data)
	default:
	}
}

func TestHub_ClientCount(t *testing.T) {
	hub := NewHub(testWSConfig(), testLogger())
	client := newTestClient(hub)

	hub.Register(client)
	if hub.ClientCount() != 1 {
		t.Errorf("after register count = %d, want 1", hub.ClientCount())
	}

	hub.Unregister(client)
	if hub.ClientCount() != 0 {
		t.Errorf("after unregister count = %d, want 0", hub.ClientCount())
	}

	// A second Unregister must not close the channel twice.
	hub.Unregister(client)
}

func TestHub_RunClosesClients(t *testing.T) {
	hub := NewHub(testWSConfig(), testLogger())
	client := newTestClient(hub)
	hub.Register(client)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if _, open := <-client.send; open {
		t.Error("client send channel still open")
	}
	if hub.ClientCount() != 0 {
		t.Errorf("ClientCount() = %d after shutdown", hub.ClientCount())
	}
}

func TestHub_SlowClientDoesNotBlock(t *testing.T) {
	hub := NewHub(testWSConfig(), testLogger())
	client := &WSClient{
		hub:           hub,
		send:          make(chan []byte, 1),
		subscriptions: map[string]struct{}{ChannelDeviceUpdated: {}},
	}
	hub.Register(client)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			hub.Broadcast(ChannelDeviceUpdated, i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Broadcast blocked on a full client buffer")
	}
}

func testWSConfig() config.WebSocketConfig {
	return config.WebSocketConfig{
		Path:           "/ws",
		MaxMessageSize: 8192,
		PingInterval:   30,
		PongTimeout:    10,
	}
}

// =============================================================================
// EventNotifier
// =============================================================================

type fakePublisher struct {
	mu       sync.Mutex
	topics   []string
	payloads []any
	err      error
}

func (p *fakePublisher) PublishJSON(topic string, v any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	p.payloads = append(p.payloads, v)
	return p.err
}

func (p *fakePublisher) Topics() mqtt.Topics {
	return mqtt.Topics{Prefix: "lab"}
}

type fakeHistory struct {
	mu      sync.Mutex
	updates []influxdb.DeviceUpdate
}

func (h *fakeHistory) WriteDeviceUpdate(u influxdb.DeviceUpdate) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.updates = append(h.updates, u)
}

func sampleDevice(t *testing.T, id string) *device.Device {
	t.Helper()
	store, err := device.NewStore(device.SampleDevices())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	d, ok := store.Lookup(id)
	if !ok {
		t.Fatalf("sample device %s missing", id)
	}
	return d
}

func TestEventNotifier_FanOut(t *testing.T) {
	hub := NewHub(testWSConfig(), testLogger())
	client := newTestClient(hub, ChannelDeviceUpdated)
	hub.Register(client)

	pub := &fakePublisher{}
	hist := &fakeHistory{}
	n := NewEventNotifier(hub, testLogger())
	n.SetPublisher(pub)
	n.SetHistory(hist)

	fields := []device.Field{device.FieldLocation, device.FieldStatus}
	n.DeviceUpdated(context.Background(), sampleDevice(t, "dev3"), fields)

	msg := readEvent(t, client)
	payload, ok := msg.Payload.(map[string]any)
	if !ok {
		t.Fatalf("payload = %T", msg.Payload)
	}
	if payload["device_id"] != "dev3" || payload["event_id"] == "" {
		t.Errorf("payload = %v", payload)
	}

	if len(pub.topics) != 1 || pub.topics[0] != "lab/device/dev3/updated" {
		t.Errorf("published topics = %v", pub.topics)
	}
	event := pub.payloads[0].(DeviceEvent)

	if len(hist.updates) != 1 {
		t.Fatalf("history updates = %d, want 1", len(hist.updates))
	}
	u := hist.updates[0]
	if u.DeviceID != "dev3" || u.Status != "offline" || strings.Join(u.Fields, ",") != "location,status" {
		t.Errorf("history update = %+v", u)
	}
	if u.EventID != event.EventID || payload["event_id"] != event.EventID {
		t.Error("event id differs between sinks")
	}
}

func TestEventNotifier_PublishFailureIsNotFatal(t *testing.T) {
	hub := NewHub(testWSConfig(), testLogger())
	hist := &fakeHistory{}
	n := NewEventNotifier(hub, testLogger())
	n.SetPublisher(&fakePublisher{err: errors.New("broker down")})
	n.SetHistory(hist)

	n.DeviceUpdated(context.Background(), sampleDevice(t, "dev1"), []device.Field{device.FieldTags})

	if len(hist.updates) != 1 {
		t.Errorf("history updates = %d, want 1 despite publish failure", len(hist.updates))
	}
}

func TestEventNotifier_CancelledContextSkipsPublish(t *testing.T) {
	hub := NewHub(testWSConfig(), testLogger())
	pub := &fakePublisher{}
	n := NewEventNotifier(hub, testLogger())
	n.SetPublisher(pub)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	n.DeviceUpdated(ctx, sampleDevice(t, "dev1"), []device.Field{device.FieldTags})

	if len(pub.topics) != 0 {
		t.Errorf("published %v on a cancelled context", pub.topics)
	}
}

func TestMCP_UpdateBroadcastsEvent(t *testing.T) {
	srv, _ := testServer(t)
	client := newTestClient(srv.hub, ChannelDeviceUpdated)
	srv.hub.Register(client)

	mcpCall(t, srv, `{"id":"1","method":"UpdateDevice","params":{"id":"dev2","patch":{"tags":["edge","bgp"]}}}`)

	msg := readEvent(t, client)
	payload := msg.Payload.(map[string]any)
	if payload["device_id"] != "dev2" {
		t.Errorf("device_id = %v", payload["device_id"])
	}
	dev := payload["device"].(map[string]any)
	if tags := dev["tags"].([]any); len(tags) != 2 || tags[1] != "bgp" {
		t.Errorf("tags = %v", tags)
	}
}

func TestMCP_EmptyPatchSendsNoEvent(t *testing.T) {
	srv, _ := testServer(t)
	client := newTestClient(srv.hub, ChannelDeviceUpdated)
	srv.hub.Register(client)

	mcpCall(t, srv, `{"id":"1","method":"UpdateDevice","params":{"id":"dev2","patch":{}}}`)

	select {
	case data := <-client.send:
		t.Errorf("unexpected event for empty patch: %s", data)
	default:
	}
}

// =============================================================================
// WebSocket connections
// =============================================================================

func dialWebSocket(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	ws, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial websocket: %v", err)
	}
	resp.Body.Close()
	t.Cleanup(func() { ws.Close() })
	return ws
}

func startTestHTTP(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	srv, _ := testServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go srv.hub.Run(ctx)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func wsExchange(t *testing.T, ws *websocket.Conn, msg WSMessage) WSMessage {
	t.Helper()
	if err := ws.WriteJSON(msg); err != nil {
		t.Fatalf("write %s: %v", msg.Type, err)
	}
	//nolint:errcheck // test deadline
	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	var resp WSMessage
	if err := ws.ReadJSON(&resp); err != nil {
		t.Fatalf("read response to %s: %v", msg.Type, err)
	}
	return resp
}

// hijackableRecorder is a ResponseRecorder that supports connection takeover.
type hijackableRecorder struct {
	*httptest.ResponseRecorder
	conn net.Conn
}

func (r *hijackableRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	rw := bufio.NewReadWriter(bufio.NewReader(r.conn), bufio.NewWriter(r.conn))
	return r.conn, rw, nil
}

func TestStatusWriter_Hijack(t *testing.T) {
	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	sw := &statusWriter{
		ResponseWriter: &hijackableRecorder{ResponseRecorder: httptest.NewRecorder(), conn: server},
		status:         http.StatusOK,
	}

	var w http.ResponseWriter = sw
	hj, ok := w.(http.Hijacker)
	if !ok {
		t.Fatal("statusWriter does not implement http.Hijacker")
	}
	conn, _, err := hj.Hijack()
	if err != nil {
		t.Fatalf("Hijack() error = %v", err)
	}
	if conn != server {
		t.Error("Hijack() returned a different connection")
	}
	if sw.status != http.StatusSwitchingProtocols {
		t.Errorf("status = %d, want %d", sw.status, http.StatusSwitchingProtocols)
	}
	if sw.Unwrap() != sw.ResponseWriter {
		t.Error("Unwrap() did not return the wrapped writer")
	}
}

func TestStatusWriter_HijackUnsupported(t *testing.T) {
	sw := &statusWriter{ResponseWriter: httptest.NewRecorder(), status: http.StatusOK}
	if _, _, err := sw.Hijack(); err == nil {
		t.Error("Hijack() expected error when the wrapped writer cannot hijack")
	}
	if sw.status != http.StatusOK {
		t.Errorf("status = %d, want unchanged %d", sw.status, http.StatusOK)
	}
}

func TestWebSocket_UpgradeThroughMiddleware(t *testing.T) {
	_, ts := startTestHTTP(t)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	ws, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		t.Fatalf("dial websocket: %v (status %d)", err, status)
	}
	defer ws.Close()
	resp.Body.Close()

	if resp.StatusCode != http.StatusSwitchingProtocols {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusSwitchingProtocols)
	}
}

func TestWebSocket_DeviceUpdatedDelivery(t *testing.T) {
	_, ts := startTestHTTP(t)
	ws := dialWebSocket(t, ts)

	resp := wsExchange(t, ws, WSMessage{
		Type:    WSTypeSubscribe,
		ID:      "sub-1",
		Payload: WSSubscribePayload{Channels: []string{ChannelDeviceUpdated}},
	})
	if resp.Type != WSTypeResponse || resp.ID != "sub-1" {
		t.Fatalf("subscribe response = %+v", resp)
	}

	body := `{"id":"1","method":"UpdateDevice","params":{"id":"dev3","patch":{"status":"online"}}}`
	httpResp, err := http.Post(ts.URL+"/mcp", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST /mcp: %v", err)
	}
	httpResp.Body.Close()

	var event WSMessage
	if err := ws.ReadJSON(&event); err != nil {
		t.Fatalf("read event: %v", err)
	}
	if event.Type != WSTypeEvent || event.EventType != ChannelDeviceUpdated {
		t.Errorf("event = %+v", event)
	}
	payload := event.Payload.(map[string]any)
	if payload["device_id"] != "dev3" {
		t.Errorf("device_id = %v, want dev3", payload["device_id"])
	}
}

func TestWebSocket_SubscribeUnsubscribe(t *testing.T) {
	_, ts := startTestHTTP(t)
	ws := dialWebSocket(t, ts)

	resp := wsExchange(t, ws, WSMessage{
		Type:    WSTypeSubscribe,
		ID:      "sub-1",
		Payload: WSSubscribePayload{Channels: []string{ChannelDeviceUpdated}},
	})
	if resp.Type != WSTypeResponse {
		t.Errorf("subscribe response type = %s, want response", resp.Type)
	}

	resp = wsExchange(t, ws, WSMessage{
		Type:    WSTypeUnsubscribe,
		ID:      "unsub-1",
		Payload: WSSubscribePayload{Channels: []string{ChannelDeviceUpdated}},
	})
	if resp.Type != WSTypeResponse {
		t.Errorf("unsubscribe response type = %s, want response", resp.Type)
	}

	resp = wsExchange(t, ws, WSMessage{Type: WSTypeSubscribe, ID: "sub-2"})
	if resp.Type != WSTypeError {
		t.Errorf("subscribe without channels type = %s, want error", resp.Type)
	}
}

func TestWebSocket_Ping(t *testing.T) {
	_, ts := startTestHTTP(t)
	ws := dialWebSocket(t, ts)

	resp := wsExchange(t, ws, WSMessage{Type: WSTypePing, ID: "ping-1"})
	if resp.Type != WSTypePong {
		t.Errorf("response type = %s, want pong", resp.Type)
	}
	if resp.ID != "ping-1" {
		t.Errorf("response ID = %s, want ping-1", resp.ID)
	}
}

func TestWebSocket_InvalidMessages(t *testing.T) {
	_, ts := startTestHTTP(t)
	ws := dialWebSocket(t, ts)

	if err := ws.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatalf("write invalid message: %v", err)
	}
	//nolint:errcheck // test deadline
	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	var resp WSMessage
	if err := ws.ReadJSON(&resp); err != nil {
		t.Fatalf("read error response: %v", err)
	}
	if resp.Type != WSTypeError {
		t.Errorf("response type = %s, want error", resp.Type)
	}

	resp = wsExchange(t, ws, WSMessage{Type: "unknown_type", ID: "test-1"})
	if resp.Type != WSTypeError {
		t.Errorf("response type = %s, want error", resp.Type)
	}
}
