package service

import (
	"context"
	"fmt"
	"time"

	"github.com/apex/log"

	"github.com/benbeisheim/legalchess-backend/internal/model"
	"github.com/benbeisheim/legalchess-backend/internal/perft"
)

type GameService struct {
	gameManager   *GameManager
	maxPerftDepth int
}

func NewGameService(gameManager *GameManager, maxPerftDepth int) *GameService {
	return &GameService{
		gameManager:   gameManager,
		maxPerftDepth: maxPerftDepth,
	}
}

// GameSummary describes a stored game without replaying it.
type GameSummary struct {
	ID        string    `json:"gameId"`
	White     string    `json:"white,omitempty"`
	Black     string    `json:"black,omitempty"`
	Moves     int       `json:"moves"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Stats is a point-in-time count of live games and waiting players.
type Stats struct {
	Games  int `json:"games"`
	Queued int `json:"queued"`
}

type PerftResult struct {
	Depth int `json:"depth"`
	perft.Stats
	Divide []perft.Split `json:"divide"`
}

func (gs *GameService) JoinGame(gameID string, playerID string) (model.Color, error) {
	return gs.gameManager.AddPlayerToGame(gameID, playerID)
}

func (gs *GameService) CreateGame(fen string) (string, error) {
	session, err := gs.gameManager.CreateGame(fen)
	if err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}
	return session.ID, nil
}

func (gs *GameService) JoinMatchmaking(playerID string) error {
	return gs.gameManager.JoinMatchmaking(playerID)
}

func (gs *GameService) LeaveMatchmaking(playerID string) bool {
	return gs.gameManager.LeaveMatchmaking(playerID)
}

func (gs *GameService) MatchStatus(playerID string) (MatchFoundEvent, bool) {
	return gs.gameManager.MatchStatus(playerID)
}

func (gs *GameService) ListGames() ([]GameSummary, error) {
	snaps, err := gs.gameManager.SavedGames()
	if err != nil {
		return nil, err
	}
	games := make([]GameSummary, len(snaps))
	for i, snap := range snaps {
		games[i] = GameSummary{
			ID:        snap.ID,
			White:     snap.White,
			Black:     snap.Black,
			Moves:     len(snap.Moves),
			UpdatedAt: snap.UpdatedAt,
		}
	}
	return games, nil
}

func (gs *GameService) DeleteGame(gameID string) error {
	return gs.gameManager.DeleteGame(gameID)
}

func (gs *GameService) Stats() Stats {
	return Stats{
		Games:  gs.gameManager.GameCount(),
		Queued: gs.gameManager.QueueSize(),
	}
}

func (gs *GameService) GetGameState(gameID string) (State, error) {
	session, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return State{}, err
	}
	return session.State()
}

func (gs *GameService) LegalMoves(gameID string) ([]string, error) {
	session, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return session.LegalMoves(), nil
}

func (gs *GameService) HandleMove(gameID string, playerID string, move string) (State, error) {
	session, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return State{}, err
	}
	state, err := session.Move(playerID, move)
	if err != nil {
		log.WithError(err).WithFields(log.Fields{"game": gameID, "client": playerID, "move": move}).Info("move rejected")
		return State{}, err
	}
	gs.gameManager.Persist(session)
	return state, nil
}

func (gs *GameService) HandleUndo(gameID string, playerID string) (State, error) {
	session, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return State{}, err
	}
	state, err := session.Undo(playerID)
	if err != nil {
		log.WithError(err).WithFields(log.Fields{"game": gameID, "client": playerID}).Info("undo rejected")
		return State{}, err
	}
	gs.gameManager.Persist(session)
	return state, nil
}

// Perft runs a divide on a copy of the game's current position.
func (gs *GameService) Perft(ctx context.Context, gameID string, depth int) (PerftResult, error) {
	if depth < 1 || depth > gs.maxPerftDepth {
		return PerftResult{}, fmt.Errorf("%w: %d not in 1..%d", ErrInvalidDepth, depth, gs.maxPerftDepth)
	}
	session, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return PerftResult{}, err
	}
	splits, err := perft.Divide(ctx, session.Clone(), depth, 0)
	if err != nil {
		return PerftResult{}, err
	}
	return PerftResult{Depth: depth, Stats: perft.Total(splits), Divide: splits}, nil
}

func (gs *GameService) RegisterConnection(gameID string, playerID string, conn Conn) error {
	session, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	return session.RegisterConnection(playerID, conn)
}

func (gs *GameService) UnregisterConnection(gameID string, playerID string, conn Conn) {
	session, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return
	}
	session.UnregisterConnection(playerID, conn)
}

// Send writes v to a registered connection of the game.
func (gs *GameService) Send(gameID string, conn Conn, v interface{}) error {
	session, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return err
	}
	return session.Send(conn, v)
}
