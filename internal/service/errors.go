package service

import "errors"

var (
	ErrGameNotFound  = errors.New("game not found")
	ErrGameFull      = errors.New("game is full")
	ErrNotYourTurn   = errors.New("not your turn")
	ErrNotSeated     = errors.New("not seated in this game")
	ErrAlreadyQueued = errors.New("player already in queue")
	ErrInvalidDepth  = errors.New("invalid perft depth")
)
