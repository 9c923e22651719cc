package websocket

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"sync"
)

// Channel names
const (
	// ChannelEvents carries every ledger event
	ChannelEvents = "events"
	// PoolChannelPrefix is followed by a pool id and carries that pool's events
	PoolChannelPrefix = "pool:"
)

// PoolChannel returns the channel name of a pool
func PoolChannel(poolID uint64) string {
	return PoolChannelPrefix + strconv.FormatUint(poolID, 10)
}

// Hub maintains the set of active clients and broadcasts messages
type Hub struct {
	clients  map[*Client]bool
	channels map[string]map[*Client]bool // channel -> clients

	// Register/unregister requests
	register   chan *Client
	unregister chan *Client

	// Channel subscription requests
	subscribe   chan *SubscriptionRequest
	unsubscribe chan *SubscriptionRequest

	mu sync.RWMutex

	// done is closed when Run returns
	done chan struct{}

	config *HubConfig

	// onUnregister is called after a client leaves the hub
	onUnregister func(*Client)
}

// HubConfig contains hub configuration
type HubConfig struct {
	MaxSubscriptions int
	// Messages per second per client
	MessageRateLimit int
	// OnBroadcast is called once per channel message delivered to subscribers
	OnBroadcast func(channel string)
}

// DefaultHubConfig returns default hub configuration
func DefaultHubConfig() *HubConfig {
	return &HubConfig{
		MaxSubscriptions: 50,
		MessageRateLimit: 100,
	}
}

// SubscriptionRequest represents a subscription request
type SubscriptionRequest struct {
	Client  *Client
	Channel string
}

// NewHub creates a new Hub
func NewHub(config *HubConfig) *Hub {
	if config == nil {
		config = DefaultHubConfig()
	}

	return &Hub{
		clients:     make(map[*Client]bool),
		channels:    make(map[string]map[*Client]bool),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		subscribe:   make(chan *SubscriptionRequest, 256),
		unsubscribe: make(chan *SubscriptionRequest, 256),
		done:        make(chan struct{}),
		config:      config,
	}
}

// Run processes registrations and subscriptions until ctx is done, then
// disconnects every client
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case req := <-h.subscribe:
			h.handleSubscription(req)

		case req := <-h.unsubscribe:
			h.handleUnsubscription(req)

		case <-ctx.Done():
			h.closeAll()
			return
		}
	}
}

// enqueue hands a request to the Run loop; it reports false once the hub
// has stopped
func enqueue[T any](h *Hub, ch chan<- T, v T) bool {
	select {
	case ch <- v:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	_, ok := h.clients[client]
	if ok {
		delete(h.clients, client)

		for channel, clients := range h.channels {
			delete(clients, client)
			if len(clients) == 0 {
				delete(h.channels, channel)
			}
		}

		client.closeSend()
	}
	h.mu.Unlock()

	if ok && h.onUnregister != nil {
		h.onUnregister(client)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.Unlock()

	for _, client := range clients {
		h.unregisterClient(client)
	}
}

func (h *Hub) handleSubscription(req *SubscriptionRequest) {
	h.mu.Lock()
	if _, ok := h.clients[req.Client]; !ok {
		h.mu.Unlock()
		return
	}
	if _, ok := h.channels[req.Channel]; !ok {
		h.channels[req.Channel] = make(map[*Client]bool)
	}
	h.channels[req.Channel][req.Client] = true
	h.mu.Unlock()

	req.Client.SendMessage(&WSMessage{Type: "subscribed", Channel: req.Channel})
}

func (h *Hub) handleUnsubscription(req *SubscriptionRequest) {
	h.mu.Lock()
	if _, ok := h.clients[req.Client]; !ok {
		h.mu.Unlock()
		return
	}
	if clients, ok := h.channels[req.Channel]; ok {
		delete(clients, req.Client)
		if len(clients) == 0 {
			delete(h.channels, req.Channel)
		}
	}
	h.mu.Unlock()

	req.Client.SendMessage(&WSMessage{Type: "unsubscribed", Channel: req.Channel})
}

// BroadcastToChannel sends a message to all clients subscribed to a channel
func (h *Hub) BroadcastToChannel(channel string, message interface{}) {
	h.mu.RLock()
	clients, ok := h.channels[channel]
	if !ok {
		h.mu.RUnlock()
		return
	}

	// Copy to avoid holding the lock during send
	clientList := make([]*Client, 0, len(clients))
	for client := range clients {
		clientList = append(clientList, client)
	}
	h.mu.RUnlock()

	data, err := json.Marshal(message)
	if err != nil {
		return
	}

	for _, client := range clientList {
		client.Send(data)
	}

	if h.config.OnBroadcast != nil {
		h.config.OnBroadcast(channel)
	}
}

// PublishEvent sends a ledger event to the events channel and, when the
// event names a pool, to that pool's channel
func (h *Hub) PublishEvent(ev *EventMessage) {
	h.BroadcastToChannel(ChannelEvents, &WSMessage{Type: "event", Channel: ChannelEvents, Data: ev})

	if poolID, ok := ev.Attributes["pool_id"]; ok {
		channel := PoolChannelPrefix + poolID
		h.BroadcastToChannel(channel, &WSMessage{Type: "event", Channel: channel, Data: ev})
	}
}

// ============ Message Types ============

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string      `json:"type"`
	Channel string      `json:"channel,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// EventMessage is a committed ledger event
type EventMessage struct {
	Height     int64             `json:"height"`
	Type       string            `json:"type"`
	Attributes map[string]string `json:"attributes"`
}

// GetClientCount returns the number of connected clients
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// GetChannelCount returns the number of active channels
func (h *Hub) GetChannelCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.channels)
}

// GetChannelClientCount returns the number of clients in a channel
func (h *Hub) GetChannelClientCount(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if clients, ok := h.channels[channel]; ok {
		return len(clients)
	}
	return 0
}

// isPublicChannel reports whether channel is one clients may subscribe to
func isPublicChannel(channel string) bool {
	if channel == ChannelEvents {
		return true
	}
	id, ok := strings.CutPrefix(channel, PoolChannelPrefix)
	if !ok {
		return false
	}
	poolID, err := strconv.ParseUint(id, 10, 64)
	// only the canonical spelling receives broadcasts
	return err == nil && PoolChannel(poolID) == channel
}
