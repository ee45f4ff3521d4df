package websocket

import "github.com/optimum-study/optimum-backend/internal/model"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionRefresh Action = "refresh"
	ActionPing    Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError   Event = "error"
	EventHistory Event = "history"
	EventPong    Event = "pong"
)

// HistoryResponse carries a full history snapshot. Sent on connect, on
// client refresh requests and whenever a new result is persisted.
type HistoryResponse struct {
	Event   Event              `json:"event"`
	Results []model.QuizResult `json:"results"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
