package communication

import (
	"darkchess/experiments/metrics"
	"darkchess/game"
	"darkchess/searcher/agent"
)

// Wire types shared by the move-selection server and its clients. Every request
// carries the full board, so the server keeps no game state between calls.

type NewGameRequest struct {
	Seed *uint64 `json:"seed,omitempty"`
}

type GameResponse struct {
	Seed  uint64        `json:"seed"`
	Board *game.Board   `json:"board"`
	Legal []game.Action `json:"legal"`
}

type LegalRequest struct {
	Board *game.Board    `json:"board"`
	From  *game.Position `json:"from,omitempty"` // Restricts the answer to one cell
}

type LegalResponse struct {
	Actions []game.Action   `json:"actions"`
	Targets []game.Position `json:"targets,omitempty"`
}

type PerformRequest struct {
	Board  *game.Board `json:"board"`
	Action game.Action `json:"action"`
}

type PerformResponse struct {
	OK    bool        `json:"ok"`
	Board *game.Board `json:"board"`
}

type SelectMoveRequest struct {
	Board *game.Board `json:"board"`
	Tier  string      `json:"tier"`
	Seed  *uint64     `json:"seed,omitempty"`
}

type SelectMoveResponse struct {
	Action game.Action          `json:"action"`
	Found  bool                 `json:"found"`
	Metric metrics.SearchMetric `json:"metric"`
}

type TiersResponse struct {
	Tiers agent.Tiers `json:"tiers"`
	Terms []string    `json:"terms"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
