package websocket

import (
	"encoding/json"
	"sync"
)

type BalanceUpdate struct {
	AccountID int64  `json:"account_id"`
	Balance   string `json:"balance"`
	Currency  string `json:"currency"`
}

// Hub fans committed balance changes out to the owning merchant's websocket
// clients. Sends never block a transfer: a slow client just misses updates.
type Hub struct {
	mu      sync.RWMutex
	clients map[int64]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[int64]map[*Client]struct{}),
	}
}

func (h *Hub) Register(merchantID int64, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[merchantID] == nil {
		h.clients[merchantID] = make(map[*Client]struct{})
	}
	h.clients[merchantID][client] = struct{}{}
}

func (h *Hub) Unregister(merchantID int64, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[merchantID] == nil {
		return
	}
	delete(h.clients[merchantID], client)
	if len(h.clients[merchantID]) == 0 {
		delete(h.clients, merchantID)
	}
}

func (h *Hub) BroadcastBalance(merchantID int64, update BalanceUpdate) {
	payload, _ := json.Marshal(update)
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients[merchantID] {
		select {
		case client.send <- payload:
		default:
		}
	}
}
