package websocket

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// Hub maintains the set of active clients and broadcasts messages
type Hub struct {
	// Registered clients by channel
	clients  map[*Client]bool
	channels map[string]map[*Client]bool // channel -> clients

	// Subscription management
	subscriptions map[string]map[*Client]bool // topic -> clients

	// Inbound messages from clients
	broadcast chan []byte

	// Register/unregister requests
	register   chan *Client
	unregister chan *Client

	// Channel subscription requests
	subscribe   chan *SubscriptionRequest
	unsubscribe chan *SubscriptionRequest

	// Message buffers, flushed at the hub intervals
	poolBuffer   map[string]*PoolStatsMessage
	supplyBuffer *SupplyMessage

	// Mutex for thread-safe operations
	mu sync.RWMutex

	// Configuration
	config *HubConfig
}

// HubConfig contains hub configuration
type HubConfig struct {
	// Update intervals
	PoolInterval   time.Duration // Default: 1s
	SupplyInterval time.Duration // Default: 1s
	BurnsBuffer    int           // Number of burns to buffer

	// Connection limits
	MaxClientsPerIP  int
	MaxSubscriptions int

	// Rate limiting
	MessageRateLimit int // Messages per second per client
}

// DefaultHubConfig returns default hub configuration
func DefaultHubConfig() *HubConfig {
	return &HubConfig{
		PoolInterval:     time.Second,
		SupplyInterval:   time.Second,
		BurnsBuffer:      100,
		MaxClientsPerIP:  10,
		MaxSubscriptions: 50,
		MessageRateLimit: 100,
	}
}

// SubscriptionRequest represents a subscription request
type SubscriptionRequest struct {
	Client  *Client
	Channel string
	Action  string // "subscribe" or "unsubscribe"
}

// NewHub creates a new Hub
func NewHub(config *HubConfig) *Hub {
	if config == nil {
		config = DefaultHubConfig()
	}

	return &Hub{
		clients:       make(map[*Client]bool),
		channels:      make(map[string]map[*Client]bool),
		subscriptions: make(map[string]map[*Client]bool),
		broadcast:     make(chan []byte, 256),
		register:      make(chan *Client),
		unregister:    make(chan *Client),
		subscribe:     make(chan *SubscriptionRequest, 256),
		unsubscribe:   make(chan *SubscriptionRequest, 256),
		poolBuffer:    make(map[string]*PoolStatsMessage),
		config:        config,
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	poolTicker := time.NewTicker(h.config.PoolInterval)
	supplyTicker := time.NewTicker(h.config.SupplyInterval)

	defer poolTicker.Stop()
	defer supplyTicker.Stop()

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

		case message := <-h.broadcast:
			h.broadcastMessage(message)

		case <-poolTicker.C:
			h.broadcastPools()

		case <-supplyTicker.C:
			h.broadcastSupply()
		}
	}
}

// registerClient adds a new client
func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true
}

// unregisterClient removes a client
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)

		// Remove from all channels
		for channel, clients := range h.channels {
			delete(clients, client)
			if len(clients) == 0 {
				delete(h.channels, channel)
			}
		}

		// Remove from all subscriptions
		for topic := range h.subscriptions {
			delete(h.subscriptions[topic], client)
		}

		close(client.send)
	}
}

// handleSubscription handles a subscription request
func (h *Hub) handleSubscription(req *SubscriptionRequest) {
	h.mu.Lock()
	defer h.mu.Unlock()

	channel := req.Channel
	client := req.Client

	if _, ok := h.channels[channel]; !ok {
		h.channels[channel] = make(map[*Client]bool)
	}
	h.channels[channel][client] = true

	// Send subscription confirmation
	confirmation := &WSMessage{
		Type:    "subscribed",
		Channel: channel,
		Data:    nil,
	}
	data, _ := json.Marshal(confirmation)
	client.send <- data
}

// handleUnsubscription handles an unsubscription request
func (h *Hub) handleUnsubscription(req *SubscriptionRequest) {
	h.mu.Lock()
	defer h.mu.Unlock()

	channel := req.Channel
	client := req.Client

	if clients, ok := h.channels[channel]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.channels, channel)
		}
	}

	// Send unsubscription confirmation
	confirmation := &WSMessage{
		Type:    "unsubscribed",
		Channel: channel,
		Data:    nil,
	}
	data, _ := json.Marshal(confirmation)
	client.send <- data
}

// broadcastMessage sends a message to all clients
func (h *Hub) broadcastMessage(message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		select {
		case client.send <- message:
		default:
			// Client buffer is full, skip
		}
	}
}

// BroadcastToChannel sends a message to all clients subscribed to a channel
func (h *Hub) BroadcastToChannel(channel string, message interface{}) {
	h.mu.RLock()
	clients, ok := h.channels[channel]
	if !ok {
		h.mu.RUnlock()
		return
	}

	// Make a copy of clients to avoid holding lock during send
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
		select {
		case client.send <- data:
		default:
			// Client buffer is full, skip
		}
	}
}

// ============ Channel-specific broadcasts ============

// UpdatePoolStats updates the pool buffer for a pool
func (h *Hub) UpdatePoolStats(poolKey string, stats *PoolStatsMessage) {
	h.mu.Lock()
	h.poolBuffer[poolKey] = stats
	h.mu.Unlock()
}

// UpdateSupply updates the supply buffer
func (h *Hub) UpdateSupply(supply *SupplyMessage) {
	h.mu.Lock()
	h.supplyBuffer = supply
	h.mu.Unlock()
}

// broadcastPools broadcasts all buffered pool stat updates
func (h *Hub) broadcastPools() {
	h.mu.RLock()
	pools := make(map[string]*PoolStatsMessage)
	for k, v := range h.poolBuffer {
		pools[k] = v
	}
	h.mu.RUnlock()

	for poolKey, stats := range pools {
		channel := "pools:" + poolKey
		msg := &WSMessage{
			Type:    "pool_stats",
			Channel: channel,
			Data:    stats,
		}
		h.BroadcastToChannel(channel, msg)
	}
}

// broadcastSupply broadcasts the buffered supply snapshot
func (h *Hub) broadcastSupply() {
	h.mu.RLock()
	supply := h.supplyBuffer
	h.mu.RUnlock()

	if supply == nil {
		return
	}
	msg := &WSMessage{
		Type:    "supply",
		Channel: "supply",
		Data:    supply,
	}
	h.BroadcastToChannel("supply", msg)
}

// BroadcastBurn broadcasts a visitor burn to site subscribers
func (h *Hub) BroadcastBurn(siteHash string, burn *BurnMessage) {
	channel := "burns:" + siteHash
	msg := &WSMessage{
		Type:    "burn",
		Channel: channel,
		Data:    burn,
	}
	h.BroadcastToChannel(channel, msg)

	// Firehose channel carries every burn
	h.BroadcastToChannel("burns", &WSMessage{
		Type:    "burn",
		Channel: "burns",
		Data:    burn,
	})
}

// BroadcastLeaderboard broadcasts a leaderboard update
func (h *Hub) BroadcastLeaderboard(entries *LeaderboardMessage) {
	msg := &WSMessage{
		Type:    "leaderboard",
		Channel: "leaderboard",
		Data:    entries,
	}
	h.BroadcastToChannel("leaderboard", msg)
}

// BroadcastPosition broadcasts a position update to a specific user
func (h *Hub) BroadcastPosition(userID string, position *PositionMessage) {
	channel := "positions:" + userID
	msg := &WSMessage{
		Type:    "position",
		Channel: channel,
		Data:    position,
	}
	h.BroadcastToChannel(channel, msg)
}

// ============ Message Types ============

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type    string      `json:"type"`
	Channel string      `json:"channel"`
	Data    interface{} `json:"data,omitempty"`
}

// PoolStatsMessage represents a staking pool stats update
type PoolStatsMessage struct {
	PoolKey        string `json:"pool_key"`
	TotalStaked    string `json:"total_staked"`
	TotalShares    string `json:"total_shares"`
	RewardPerShare string `json:"reward_per_share"`
	StakerCount    int    `json:"staker_count"`
	Timestamp      int64  `json:"timestamp"`
}

// SupplyMessage represents a supply state update
type SupplyMessage struct {
	Price                int64  `json:"price"`
	TotalSupply          string `json:"total_supply"`
	CircuitBreakerActive bool   `json:"circuit_breaker_active"`
	BreakerSeverity      string `json:"breaker_severity"`
	Timestamp            int64  `json:"timestamp"`
}

// BurnMessage represents a processed visitor burn
type BurnMessage struct {
	RecordID  string `json:"record_id"`
	SiteHash  string `json:"site_hash"`
	Visitor   string `json:"visitor"`
	Amount    string `json:"amount"`
	Timestamp int64  `json:"timestamp"`
}

// LeaderboardMessage represents a leaderboard snapshot
type LeaderboardMessage struct {
	Entries   interface{} `json:"entries"`
	Timestamp int64       `json:"timestamp"`
}

// PositionMessage represents a staking position update
type PositionMessage struct {
	Owner          string `json:"owner"`
	PoolID         uint64 `json:"pool_id"`
	Shares         string `json:"shares"`
	PendingRewards string `json:"pending_rewards"`
	LockEnd        int64  `json:"lock_end"`
	Timestamp      int64  `json:"timestamp"`
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

// ServeWS handles WebSocket upgrade requests
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	clientID := r.URL.Query().Get("client_id")
	if clientID == "" {
		clientID = generateID()
	}

	userID := r.URL.Query().Get("user_id")
	ip := getClientIPFromRequest(r)

	client := NewClient(h, conn, clientID, userID, ip)

	h.register <- client

	go client.writePump()
	go client.readPump()
}

// Helper function to get client IP
func getClientIPFromRequest(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for i := 0; i < len(xff); i++ {
			if xff[i] == ',' {
				return xff[:i]
			}
		}
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	ip := r.RemoteAddr
	for i := len(ip) - 1; i >= 0; i-- {
		if ip[i] == ':' {
			return ip[:i]
		}
	}
	return ip
}

// Generate a simple ID
func generateID() string {
	return fmt.Sprintf("%d", time.Now().UnixNano())
}
