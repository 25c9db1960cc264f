package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/apex/log"
	"github.com/google/uuid"

	"github.com/benbeisheim/legalchess-backend/internal/model"
	"github.com/benbeisheim/legalchess-backend/internal/notation"
	"github.com/benbeisheim/legalchess-backend/internal/storage"
)

// SnapshotStore persists sessions between restarts.
type SnapshotStore interface {
	Save(snap storage.Snapshot) error
	Load(id string) (storage.Snapshot, error)
	List() ([]storage.Snapshot, error)
	Delete(id string) error
}

type GameManager struct {
	sessions map[string]*Session
	queue    *Queue
	matches  map[string]MatchFoundEvent
	store    SnapshotStore
	clock    time.Duration
	mu       sync.RWMutex
}

// NewGameManager creates a manager. store may be nil, in which case games
// live only in memory.
func NewGameManager(store SnapshotStore, clock time.Duration) *GameManager {
	return &GameManager{
		sessions: make(map[string]*Session),
		queue:    NewQueue(),
		matches:  make(map[string]MatchFoundEvent),
		store:    store,
		clock:    clock,
	}
}

// Run pairs queued players every interval until ctx is done.
func (gm *GameManager) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			gm.processMatchmaking()
		}
	}
}

func (gm *GameManager) processMatchmaking() {
	for {
		white, black, ok := gm.queue.NextPair()
		if !ok {
			return
		}

		session := NewSession(uuid.New().String(), model.NewGame(), gm.clock)
		session.white, session.black = white.ID, black.ID

		gm.mu.Lock()
		gm.sessions[session.ID] = session
		gm.matches[white.ID] = MatchFoundEvent{GameID: session.ID, Color: model.White}
		gm.matches[black.ID] = MatchFoundEvent{GameID: session.ID, Color: model.Black}
		gm.mu.Unlock()

		gm.Persist(session)
		log.WithFields(log.Fields{"game": session.ID, "white": white.ID, "black": black.ID}).Info("match found")
	}
}

// CreateGame starts a session from the initial position or from fen.
func (gm *GameManager) CreateGame(fen string) (*Session, error) {
	game := model.NewGame()
	if fen != "" {
		var err error
		if game, err = notation.ParseFEN(fen); err != nil {
			return nil, err
		}
	}

	session := NewSession(uuid.New().String(), game, gm.clock)
	gm.mu.Lock()
	gm.sessions[session.ID] = session
	gm.mu.Unlock()

	gm.Persist(session)
	log.WithFields(log.Fields{"game": session.ID, "fen": fen}).Info("game created")
	return session, nil
}

// GetGame looks the session up in memory and then in the store.
func (gm *GameManager) GetGame(gameID string) (*Session, error) {
	gm.mu.RLock()
	session, exists := gm.sessions[gameID]
	gm.mu.RUnlock()
	if exists {
		return session, nil
	}
	if gm.store == nil {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}

	snap, err := gm.store.Load(gameID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, gameID)
	}
	if err != nil {
		return nil, err
	}
	restored, err := RestoreSession(snap, gm.clock)
	if err != nil {
		return nil, err
	}

	gm.mu.Lock()
	defer gm.mu.Unlock()
	// another request may have restored it meanwhile
	if session, exists := gm.sessions[gameID]; exists {
		return session, nil
	}
	gm.sessions[gameID] = restored
	log.WithField("game", gameID).Info("game restored")
	return restored, nil
}

func (gm *GameManager) AddPlayerToGame(gameID string, playerID string) (model.Color, error) {
	session, err := gm.GetGame(gameID)
	if err != nil {
		return "", err
	}
	color, err := session.Join(playerID)
	if err != nil {
		return "", err
	}
	gm.Persist(session)
	return color, nil
}

func (gm *GameManager) JoinMatchmaking(playerID string) error {
	gm.mu.Lock()
	delete(gm.matches, playerID)
	gm.mu.Unlock()

	if err := gm.queue.AddPlayer(Player{ID: playerID}); err != nil {
		return err
	}
	log.WithField("client", playerID).Info("queued for matchmaking")
	return nil
}

func (gm *GameManager) LeaveMatchmaking(playerID string) bool {
	return gm.queue.Remove(playerID)
}

// MatchStatus returns the game a queued player was paired into, if any. A
// match is handed out once and then forgotten.
func (gm *GameManager) MatchStatus(playerID string) (MatchFoundEvent, bool) {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	event, ok := gm.matches[playerID]
	if ok {
		delete(gm.matches, playerID)
	}
	return event, ok
}

// QueueSize is the number of players waiting for a match.
func (gm *GameManager) QueueSize() int {
	return gm.queue.Size()
}

// SavedGames lists the stored games, most recently updated first. Without a
// store it lists the games held in memory.
func (gm *GameManager) SavedGames() ([]storage.Snapshot, error) {
	if gm.store != nil {
		return gm.store.List()
	}

	gm.mu.RLock()
	sessions := make([]*Session, 0, len(gm.sessions))
	for _, session := range gm.sessions {
		sessions = append(sessions, session)
	}
	gm.mu.RUnlock()

	snaps := make([]storage.Snapshot, len(sessions))
	for i, session := range sessions {
		snaps[i] = session.Snapshot()
	}
	sort.Slice(snaps, func(i, j int) bool { return snaps[i].UpdatedAt.After(snaps[j].UpdatedAt) })
	return snaps, nil
}

// DeleteGame drops a game from memory and from the store.
func (gm *GameManager) DeleteGame(gameID string) error {
	if _, err := gm.GetGame(gameID); err != nil {
		return err
	}

	gm.mu.Lock()
	delete(gm.sessions, gameID)
	for playerID, event := range gm.matches {
		if event.GameID == gameID {
			delete(gm.matches, playerID)
		}
	}
	gm.mu.Unlock()

	if gm.store != nil {
		if err := gm.store.Delete(gameID); err != nil {
			return fmt.Errorf("delete %s: %w", gameID, err)
		}
	}
	log.WithField("game", gameID).Info("game deleted")
	return nil
}

// Persist saves the session, logging rather than failing the caller.
func (gm *GameManager) Persist(session *Session) {
	if gm.store == nil {
		return
	}
	if err := gm.store.Save(session.Snapshot()); err != nil {
		log.WithError(err).WithField("game", session.ID).Error("persist game")
	}
}

func (gm *GameManager) GameCount() int {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	return len(gm.sessions)
}
