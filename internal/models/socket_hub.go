package models

import (
	redisModels "marketChat/internal/models/redis"
	"sync"
)

// SocketHub is the in-process subscription registry, keyed by user id. A user
// with several open sessions has several clients registered; every one of
// them receives each event addressed to that user.
type SocketHub struct {
	Clients map[uint][]*SocketClient
	Mu      sync.Mutex
}

func NewSocketHub() *SocketHub {
	return &SocketHub{
		Clients: make(map[uint][]*SocketClient),
	}
}

func (hub *SocketHub) Register(client *SocketClient) {
	hub.Mu.Lock()
	defer hub.Mu.Unlock()
	hub.Clients[client.UserID] = append(hub.Clients[client.UserID], client)
}

func (hub *SocketHub) Unregister(client *SocketClient) {
	hub.Mu.Lock()
	defer hub.Mu.Unlock()
	hub.removeClient(client)
}

// Broadcast delivers the event to every open session of its receiver, in the
// order events arrive here. A session whose buffer is full is dropped; the
// client reconciles through the store on reconnect.
func (hub *SocketHub) Broadcast(event redisModels.RedisPublishedMessage) {
	hub.Mu.Lock()
	defer hub.Mu.Unlock()
	clients := make([]*SocketClient, len(hub.Clients[event.ReceiverID]))
	copy(clients, hub.Clients[event.ReceiverID])
	for _, client := range clients {
		select {
		case client.Send <- event:
		default:
			hub.removeClient(client)
		}
	}
}

func (hub *SocketHub) CloseAll() {
	hub.Mu.Lock()
	defer hub.Mu.Unlock()
	for userID, clients := range hub.Clients {
		for _, client := range clients {
			if !client.closed {
				client.closed = true
				close(client.Send)
			}
		}
		delete(hub.Clients, userID)
	}
}

// removeClient must be called with Mu held. Closing Send is what terminates
// the session's write loop.
func (hub *SocketHub) removeClient(client *SocketClient) {
	clients := hub.Clients[client.UserID]
	for i, c := range clients {
		if c.SessionID == client.SessionID {
			hub.Clients[client.UserID] = append(clients[:i], clients[i+1:]...)
			break
		}
	}
	if len(hub.Clients[client.UserID]) == 0 {
		delete(hub.Clients, client.UserID)
	}
	if !client.closed {
		client.closed = true
		close(client.Send)
	}
}
