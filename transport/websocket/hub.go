package websocket

import "sync"

// hub tracks which connections subscribe to which room's broadcasts.
// Subscription is added on successful join and removed on leave or
// disconnect; the room state itself lives in the room store, never here.
type hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*client]struct{}
}

func newHub() *hub {
	return &hub{
		rooms: make(map[string]map[*client]struct{}),
	}
}

func (that *hub) subscribe(roomID string, c *client) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.rooms[roomID]; !ok {
		that.rooms[roomID] = make(map[*client]struct{})
	}

	that.rooms[roomID][c] = struct{}{}
}

func (that *hub) unsubscribe(roomID string, c *client) {
	that.mu.Lock()
	defer that.mu.Unlock()

	subscribers, ok := that.rooms[roomID]
	if !ok {
		return
	}

	delete(subscribers, c)
	if len(subscribers) == 0 {
		delete(that.rooms, roomID)
	}
}

// dropConnection removes the connection from every room it subscribed to.
func (that *hub) dropConnection(c *client) {
	that.mu.Lock()
	defer that.mu.Unlock()

	for roomID, subscribers := range that.rooms {
		delete(subscribers, c)
		if len(subscribers) == 0 {
			delete(that.rooms, roomID)
		}
	}
}

// broadcast pushes the payload to every subscriber of the room,
// fire-and-forget.
func (that *hub) broadcast(roomID string, payload []byte) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	for c := range that.rooms[roomID] {
		c.enqueue(payload)
	}
}
