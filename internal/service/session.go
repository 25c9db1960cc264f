package service

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/apex/log"
	"github.com/gofiber/websocket/v2"

	"github.com/benbeisheim/legalchess-backend/internal/model"
	"github.com/benbeisheim/legalchess-backend/internal/notation"
	"github.com/benbeisheim/legalchess-backend/internal/storage"
	"github.com/benbeisheim/legalchess-backend/internal/ws"
)

// Conn is the part of a websocket connection a session writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// The connections for a specific game
type connections struct {
	conns map[string]Conn // clientID -> connection
	mu    sync.Mutex
}

// Session is one game together with its seats, clocks and observers.
type Session struct {
	ID          string
	mu          sync.Mutex
	game        *model.Game
	start       model.Record
	white       string
	black       string
	clocks      map[model.Color]*Clock
	connections *connections
	updatedAt   time.Time
}

type State struct {
	ID         string               `json:"gameId"`
	FEN        string               `json:"fen"`
	Record     []int                `json:"record"`
	ToMove     model.Color          `json:"toMove"`
	InCheck    bool                 `json:"inCheck"`
	Outcome    model.Outcome        `json:"outcome"`
	LegalMoves []string             `json:"legalMoves"`
	History    []string             `json:"history"`
	LastMove   string               `json:"lastMove,omitempty"`
	Castling   model.CastlingRights `json:"castling"`
	EnPassant  string               `json:"enPassant,omitempty"`
	HalfMove   int                  `json:"halfMove"`
	FullMove   int                  `json:"fullMove"`
	Players    struct {
		White ClientPlayer `json:"white"`
		Black ClientPlayer `json:"black"`
	} `json:"players"`
}

// NewSession wraps game. A zero clock disables time keeping.
func NewSession(id string, game *model.Game, clock time.Duration) *Session {
	s := &Session{
		ID:          id,
		game:        game,
		start:       game.Record(),
		connections: &connections{conns: make(map[string]Conn)},
		updatedAt:   time.Now(),
	}
	if clock > 0 {
		s.clocks = map[model.Color]*Clock{
			model.White: NewClock(clock),
			model.Black: NewClock(clock),
		}
	}
	return s
}

// RestoreSession rebuilds a session by replaying the stored moves on the
// stored start position.
func RestoreSession(snap storage.Snapshot, clock time.Duration) (*Session, error) {
	start, err := model.RecordFromBytes(snap.Record)
	if err != nil {
		return nil, err
	}
	game, err := model.FromRecord(start)
	if err != nil {
		return nil, err
	}
	for _, uci := range snap.Moves {
		mv, err := model.ParseMove(uci)
		if err != nil {
			return nil, fmt.Errorf("replay %s: %w", snap.ID, err)
		}
		if err := game.MakeMove(mv); err != nil {
			return nil, fmt.Errorf("replay %s: %w", snap.ID, err)
		}
	}
	s := NewSession(snap.ID, game, clock)
	s.white, s.black = snap.White, snap.Black
	s.updatedAt = snap.UpdatedAt
	return s, nil
}

func (s *Session) Snapshot() storage.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	moves := s.game.Moves()
	uci := make([]string, len(moves))
	for i, mv := range moves {
		uci[i] = mv.String()
	}
	return storage.Snapshot{
		ID:        s.ID,
		Record:    s.start.Bytes(),
		Moves:     uci,
		White:     s.white,
		Black:     s.black,
		UpdatedAt: s.updatedAt,
	}
}

// Join seats clientID on the first free side. A client already seated gets
// its color back.
func (s *Session) Join(clientID string) (model.Color, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if color, ok := s.seatOf(clientID); ok {
		return color, nil
	}
	switch {
	case s.white == "":
		s.white = clientID
		return model.White, nil
	case s.black == "":
		s.black = clientID
		return model.Black, nil
	}
	return "", ErrGameFull
}

func (s *Session) seatOf(clientID string) (model.Color, bool) {
	switch {
	case clientID == "":
		return "", false
	case s.white == clientID:
		return model.White, true
	case s.black == clientID:
		return model.Black, true
	}
	return "", false
}

func (s *Session) seat(color model.Color) string {
	if color == model.White {
		return s.white
	}
	return s.black
}

func (s *Session) IsPlayerInGame(clientID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.seatOf(clientID)
	return ok
}

func (s *Session) canSpectate() bool {
	return s.white == "" || s.black == ""
}

// mayPlay reports whether clientID may move for color: the seat is either
// free or held by the client.
func (s *Session) mayPlay(clientID string, color model.Color) error {
	seat := s.seat(color)
	if seat == "" || seat == clientID {
		return nil
	}
	if _, ok := s.seatOf(clientID); ok {
		return ErrNotYourTurn
	}
	return ErrNotSeated
}

func (s *Session) State() (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state()
}

func (s *Session) LegalMoves() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return uciMoves(s.game.LegalMoves())
}

// Clone returns a copy of the game for read-only work outside the lock.
func (s *Session) Clone() *model.Game {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Clone()
}

func (s *Session) Move(clientID, uci string) (State, error) {
	mv, err := model.ParseMove(uci)
	if err != nil {
		return State{}, fmt.Errorf("%w: %v", model.ErrIllegalMove, err)
	}

	s.mu.Lock()
	mover := s.game.SideToMove()
	if err := s.mayPlay(clientID, mover); err != nil {
		s.mu.Unlock()
		return State{}, err
	}
	if err := s.game.MakeMove(mv); err != nil {
		s.mu.Unlock()
		return State{}, err
	}
	s.switchClocks(mover)
	s.updatedAt = time.Now()
	state, err := s.state()
	s.mu.Unlock()
	if err != nil {
		return State{}, err
	}

	log.WithFields(log.Fields{"game": s.ID, "client": clientID, "move": uci}).Info("move accepted")
	s.broadcast(state)
	return state, nil
}

// Undo takes back the last move. Only the side that made it, or anyone when
// that seat is free, may undo.
func (s *Session) Undo(clientID string) (State, error) {
	s.mu.Lock()
	if s.game.HistoryLen() == 0 {
		s.mu.Unlock()
		return State{}, model.ErrEmptyHistory
	}
	mover := s.game.SideToMove().Opposite()
	if err := s.mayPlay(clientID, mover); err != nil {
		s.mu.Unlock()
		return State{}, err
	}
	if err := s.game.UndoLastMove(); err != nil {
		s.mu.Unlock()
		return State{}, err
	}
	s.switchClocks(mover.Opposite())
	s.updatedAt = time.Now()
	state, err := s.state()
	s.mu.Unlock()
	if err != nil {
		return State{}, err
	}

	log.WithFields(log.Fields{"game": s.ID, "client": clientID}).Info("move undone")
	s.broadcast(state)
	return state, nil
}

// switchClocks stops the clock of the side that just acted and starts the
// other one.
func (s *Session) switchClocks(stopped model.Color) {
	if s.clocks == nil {
		return
	}
	s.clocks[stopped].Stop()
	if s.game.Outcome() == model.Ongoing {
		s.clocks[stopped.Opposite()].Start()
	}
}

func (s *Session) state() (State, error) {
	g := s.game
	history, err := notation.History(g)
	if err != nil {
		return State{}, err
	}

	record := g.Record()
	ints := make([]int, len(record))
	for i, b := range record {
		ints[i] = int(b)
	}

	state := State{
		ID:         s.ID,
		FEN:        notation.FEN(g),
		Record:     ints,
		ToMove:     g.SideToMove(),
		InCheck:    g.InCheck(),
		Outcome:    g.Outcome(),
		LegalMoves: uciMoves(g.LegalMoves()),
		History:    history,
		Castling:   g.Castling(),
		HalfMove:   g.HalfMoveClock(),
		FullMove:   g.FullMoveNumber(),
	}
	if moves := g.Moves(); len(moves) > 0 {
		state.LastMove = moves[len(moves)-1].String()
	}
	if target, ok := g.EnPassant(); ok {
		state.EnPassant = target.String()
	}
	state.Players.White = s.clientPlayer(model.White)
	state.Players.Black = s.clientPlayer(model.Black)
	return state, nil
}

func (s *Session) clientPlayer(color model.Color) ClientPlayer {
	p := ClientPlayer{ID: s.seat(color), Color: color}
	if clock, ok := s.clocks[color]; ok {
		p.TimeLeft = clock.TimeLeft().Milliseconds()
		p.Flagged = clock.Flagged()
	}
	return p
}

func uciMoves(moves []model.Move) []string {
	out := make([]string, len(moves))
	for i, mv := range moves {
		out[i] = mv.String()
	}
	return out
}

// RegisterConnection attaches a websocket observer. Seated players and, while
// a seat is free, anyone else may watch. A second connection for the same
// client is turned away.
func (s *Session) RegisterConnection(clientID string, conn Conn) error {
	s.mu.Lock()
	_, seated := s.seatOf(clientID)
	authorized := seated || s.canSpectate()
	s.mu.Unlock()

	if !authorized {
		return errors.New("not authorized to join this game")
	}

	s.connections.mu.Lock()
	if _, exists := s.connections.conns[clientID]; exists {
		s.connections.mu.Unlock()
		logger := log.WithFields(log.Fields{"game": s.ID, "client": clientID})
		logger.Warn("duplicate connection rejected")
		if err := conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "Connection already exists"),
		); err != nil {
			logger.WithError(err).Debug("write close frame")
		}
		if err := conn.Close(); err != nil {
			logger.WithError(err).Debug("close duplicate connection")
		}
		return nil
	}
	s.connections.conns[clientID] = conn
	s.connections.mu.Unlock()
	log.WithFields(log.Fields{"game": s.ID, "client": clientID}).Info("connection registered")

	state, err := s.State()
	if err != nil {
		return err
	}
	s.broadcast(state)
	return nil
}

// UnregisterConnection detaches conn if it is still the client's current one.
func (s *Session) UnregisterConnection(clientID string, conn Conn) {
	s.connections.mu.Lock()
	defer s.connections.mu.Unlock()

	if current, exists := s.connections.conns[clientID]; exists && current == conn {
		delete(s.connections.conns, clientID)
		log.WithFields(log.Fields{"game": s.ID, "client": clientID}).Info("connection unregistered")
	}
}

func (s *Session) ConnectionCount() int {
	s.connections.mu.Lock()
	defer s.connections.mu.Unlock()
	return len(s.connections.conns)
}

// broadcast writes the state to every observer. Writes happen under the
// connections lock since a websocket allows one writer at a time.
func (s *Session) broadcast(state State) {
	msg, err := ws.NewMessage(ws.MessageTypeGameState, state)
	if err != nil {
		log.WithError(err).WithField("game", s.ID).Error("marshal state")
		return
	}

	s.connections.mu.Lock()
	defer s.connections.mu.Unlock()
	for clientID, conn := range s.connections.conns {
		if err := conn.WriteJSON(msg); err != nil {
			log.WithError(err).WithFields(log.Fields{"game": s.ID, "client": clientID}).Warn("dropping connection")
			delete(s.connections.conns, clientID)
		}
	}
}

// Send writes v to one observer, serialised with broadcasts.
func (s *Session) Send(conn Conn, v interface{}) error {
	s.connections.mu.Lock()
	defer s.connections.mu.Unlock()
	return conn.WriteJSON(v)
}
