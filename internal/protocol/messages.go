package protocol

import "encoding/json"

// HelloMsg is the guest's first message: join a hosted game by room
// code.
type HelloMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	RoomCode        string `json:"room_code"`
	PlayerName      string `json:"player_name"`
}

// WelcomeMsg acknowledges a join and tells the guest who they are.
type WelcomeMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	PlayerID        string `json:"player_id"`
	GameID          string `json:"game_id"`
	Week            int    `json:"week"`
	CatalogDigests  map[string]string `json:"catalog_digests"`
}

// StateMsg carries the full authoritative game state. The host
// broadcasts one after every applied action; guests render and never
// simulate.
type StateMsg struct {
	Type            string          `json:"type"`
	ProtocolVersion string          `json:"protocol_version"`
	Week            int             `json:"week"`
	CurrentPlayer   string          `json:"current_player"`
	State           json.RawMessage `json:"state"`
}

// ActionMsg is a guest player's requested move, applied by the host
// through the same mutation API the AI uses.
type ActionMsg struct {
	Type            string          `json:"type"`
	ProtocolVersion string          `json:"protocol_version"`
	PlayerID        string          `json:"player_id"`
	Action          string          `json:"action"`
	Payload         json.RawMessage `json:"payload,omitempty"`
}

// ResultMsg answers one ActionMsg.
type ResultMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	PlayerID        string `json:"player_id"`
	Action          string `json:"action"`
	OK              bool   `json:"ok"`
	ErrorCode       string `json:"error_code,omitempty"`
	Message         string `json:"message,omitempty"`
}

// TurnMsg announces whose turn begins.
type TurnMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Week            int    `json:"week"`
	PlayerID        string `json:"player_id"`
	IsAI            bool   `json:"is_ai"`
}

// ErrorMsg reports a protocol-level failure.
type ErrorMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	Code            string `json:"code"`
	Message         string `json:"message"`
}
