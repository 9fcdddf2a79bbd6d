package entity

// Player is a seated participant of a room. ID is the connection identity
// assigned by the gateway; Mark is the seat ("X" joined first).
type Player struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
	Mark   string `json:"mark"`
}

// Snapshot is the full serializable state of a room, broadcast to every
// subscriber after each processed command that changes state.
type Snapshot struct {
	Board   Board    `json:"board"`
	Turn    string   `json:"turn"`
	Status  string   `json:"status"`
	Winner  string   `json:"winner,omitempty"`
	Players []Player `json:"players"`
}
