package service

import "github.com/benbeisheim/legalchess-backend/internal/model"

type Player struct {
	ID    string
	Color model.Color
}

type ClientPlayer struct {
	ID       string      `json:"id"`
	Color    model.Color `json:"color"`
	TimeLeft int64       `json:"timeLeft,omitempty"` // milliseconds
	Flagged  bool        `json:"flagged,omitempty"`
}

type MatchFoundEvent struct {
	GameID string      `json:"gameId"`
	Color  model.Color `json:"color"`
}
