package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"cosmossdk.io/log"
	"github.com/google/uuid"
)

// Server accepts websocket connections and attaches them to a Hub
type Server struct {
	hub    *Hub
	config *ServerConfig
	logger log.Logger

	connections      map[string]*Client
	connectionsPerIP map[string]int
	connectionsMu    sync.RWMutex

	totalConnections int64
}

// ServerConfig contains server configuration
type ServerConfig struct {
	MaxConnPerIP int

	// OnConnectionChange is called with +1 or -1 as clients come and go
	OnConnectionChange func(delta int)

	HubConfig *HubConfig
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		MaxConnPerIP: 10,
		HubConfig:    DefaultHubConfig(),
	}
}

// NewServer creates a new WebSocket server
func NewServer(config *ServerConfig, logger log.Logger) *Server {
	if config == nil {
		config = DefaultServerConfig()
	}

	s := &Server{
		hub:              NewHub(config.HubConfig),
		config:           config,
		logger:           logger.With("module", "websocket"),
		connections:      make(map[string]*Client),
		connectionsPerIP: make(map[string]int),
	}
	s.hub.onUnregister = s.unregisterConnection
	return s
}

// Run runs the hub until ctx is done
func (s *Server) Run(ctx context.Context) {
	s.hub.Run(ctx)
}

// HandleWebSocket handles WebSocket upgrade requests
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	ip := getClientIP(r)

	if !s.reserveIP(ip) {
		http.Error(w, "Too many connections from this IP", http.StatusTooManyRequests)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.releaseIP(ip)
		s.logger.Debug("Websocket upgrade failed", "ip", ip, "err", err)
		return
	}

	client := NewClient(s.hub, conn, s.logger, uuid.New().String(), ip)

	s.connectionsMu.Lock()
	s.connections[client.GetID()] = client
	s.totalConnections++
	s.connectionsMu.Unlock()

	if !enqueue(s.hub, s.hub.register, client) {
		s.dropConnection(client)
		conn.Close()
		return
	}
	if s.config.OnConnectionChange != nil {
		s.config.OnConnectionChange(1)
	}

	go client.writePump()
	go client.readPump()
}

// HandleStats reports connection statistics
func (s *Server) HandleStats(w http.ResponseWriter, _ *http.Request) {
	s.connectionsMu.RLock()
	stats := map[string]interface{}{
		"total_connections":  s.totalConnections,
		"active_connections": len(s.connections),
		"channels":           s.hub.GetChannelCount(),
	}
	s.connectionsMu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(stats)
}

// reserveIP counts a pending connection against ip's limit
func (s *Server) reserveIP(ip string) bool {
	s.connectionsMu.Lock()
	defer s.connectionsMu.Unlock()

	if s.connectionsPerIP[ip] >= s.config.MaxConnPerIP {
		return false
	}
	s.connectionsPerIP[ip]++
	return true
}

func (s *Server) releaseIP(ip string) {
	s.connectionsMu.Lock()
	defer s.connectionsMu.Unlock()

	s.connectionsPerIP[ip]--
	if s.connectionsPerIP[ip] <= 0 {
		delete(s.connectionsPerIP, ip)
	}
}

func (s *Server) dropConnection(client *Client) {
	s.connectionsMu.Lock()
	delete(s.connections, client.GetID())
	s.connectionsMu.Unlock()
	s.releaseIP(client.GetIP())
}

// unregisterConnection runs once the hub has dropped client
func (s *Server) unregisterConnection(client *Client) {
	s.dropConnection(client)
	if s.config.OnConnectionChange != nil {
		s.config.OnConnectionChange(-1)
	}
}

// GetHub returns the hub
func (s *Server) GetHub() *Hub {
	return s.hub
}

// GetConnection returns a client by ID
func (s *Server) GetConnection(clientID string) *Client {
	s.connectionsMu.RLock()
	defer s.connectionsMu.RUnlock()
	return s.connections[clientID]
}

// GetActiveConnections returns the number of active connections
func (s *Server) GetActiveConnections() int {
	s.connectionsMu.RLock()
	defer s.connectionsMu.RUnlock()
	return len(s.connections)
}

func getClientIP(r *http.Request) string {
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
