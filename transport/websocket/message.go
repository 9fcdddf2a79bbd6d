package websocket

import "encoding/json"

const (
	actionJoinGame   = "joinGame"
	actionMakeMove   = "makeMove"
	actionResetGame  = "resetGame"
	actionLeaveGame  = "leaveGame"
	actionGameUpdate = "gameUpdate"
)

// Message is the envelope for every event on the wire, inbound and outbound.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type joinGamePayload struct {
	Room   string `json:"room"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

type makeMovePayload struct {
	Room  string `json:"room"`
	Index int    `json:"index"`
}

type resetGamePayload struct {
	Room string `json:"room"`
}

// leaveGamePayload carries a name for symmetry with the client protocol; only
// the room matters, identity is the connection.
type leaveGamePayload struct {
	Room string `json:"room"`
	Name string `json:"name,omitempty"`
}
