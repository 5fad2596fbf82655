package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"

	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/benbeisheim/chessrules-backend/internal/ws"
	"go.uber.org/zap"
)

var (
	ErrGameNotFound  = errors.New("game not found")
	ErrGameFull      = errors.New("game is full")
	ErrNotSeated     = errors.New("player not in game")
	ErrNotYourTurn   = errors.New("not your turn")
	ErrAlreadyQueued = errors.New("player already in queue")
)

// ComputerPlayerID names the computer's seat in client views. Clients may not
// use it as their own ID.
const ComputerPlayerID = "computer"

// Opponent is a computer player occupying one seat of a session.
type Opponent struct {
	Color    model.Color    `json:"color"`
	Strategy model.Strategy `json:"strategy"`
}

type Players struct {
	White string `json:"white"`
	Black string `json:"black"`
}

// SessionOptions configures a new session.
type SessionOptions struct {
	// FEN sets up a custom position; empty means the standard one.
	FEN string
	// Opponent, when set, lets the computer play the other color.
	Opponent model.Strategy
	// Color is the seat the creator wants against a computer opponent.
	Color model.Color
	Seed  uint64
}

// GameState is the view of a session sent to clients.
type GameState struct {
	ID              string                       `json:"id"`
	Board           map[model.Square]model.Piece `json:"board"`
	Turn            model.Color                  `json:"turn"`
	Status          model.Status                 `json:"status"`
	Winner          *model.Color                 `json:"winner,omitempty"`
	PromotionSquare *model.Square                `json:"promotionSquare,omitempty"`
	IsCheck         bool                         `json:"isCheck"`
	LastMove        string                       `json:"lastMove,omitempty"`
	Moves           []string                     `json:"moves"`
	Players         Players                      `json:"players"`
	Opponent        *Opponent                    `json:"opponent,omitempty"`
}

// MoveResult is the answer to an accepted request. Reply is the computer's
// answering move, if it made one.
type MoveResult struct {
	Outcome model.Outcome `json:"outcome"`
	Reply   string        `json:"reply,omitempty"`
}

// Session is one game plus the players and sockets attached to it. All access
// to the game goes through mu, since legality probes mutate the board.
type Session struct {
	ID          string
	mu          sync.Mutex
	game        *model.Game
	players     Players
	opponent    *Opponent
	rng         *rand.Rand
	moves       []string
	connections *Connections
	logger      *zap.Logger
}

func NewSession(id string, opts SessionOptions, logger *zap.Logger) (*Session, error) {
	game := model.NewGame()
	if opts.FEN != "" {
		var err error
		if game, err = model.NewGameFromFEN(opts.FEN); err != nil {
			return nil, err
		}
	}
	s := &Session{
		ID:          id,
		game:        game,
		rng:         rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)),
		moves:       make([]string, 0),
		connections: NewConnections(logger),
		logger:      logger.With(zap.String("game_id", id)),
	}
	if opts.Opponent != "" {
		s.opponent = &Opponent{Color: opts.Color.Opponent(), Strategy: opts.Opponent}
		s.seat(s.opponent.Color, ComputerPlayerID)
		s.playComputer()
	}
	return s, nil
}

func (s *Session) seat(c model.Color, playerID string) {
	if c == model.White {
		s.players.White = playerID
	} else {
		s.players.Black = playerID
	}
}

func (s *Session) seatOf(c model.Color) string {
	if c == model.White {
		return s.players.White
	}
	return s.players.Black
}

// AddPlayer seats playerID in the first free seat, white first. A player
// already seated gets their color back.
func (s *Session) AddPlayer(playerID string) (model.Color, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.colorOf(playerID); ok {
		return c, nil
	}
	if s.players.White == "" {
		s.players.White = playerID
		return model.White, nil
	}
	if s.players.Black == "" {
		s.players.Black = playerID
		return model.Black, nil
	}
	return model.White, ErrGameFull
}

// colorOf finds the seat held by playerID. The computer's seat never matches
// a client ID, even one equal to its display name.
func (s *Session) colorOf(playerID string) (model.Color, bool) {
	if playerID == "" {
		return model.White, false
	}
	for _, c := range []model.Color{model.White, model.Black} {
		if s.opponent != nil && s.opponent.Color == c {
			continue
		}
		if s.seatOf(c) == playerID {
			return c, true
		}
	}
	return model.White, false
}

func (s *Session) IsPlayerInGame(playerID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.colorOf(playerID)
	return ok
}

// CanSpectate reports whether a seat is still open.
func (s *Session) CanSpectate() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.players.White == "" || s.players.Black == ""
}

func (s *Session) State() GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state()
}

func (s *Session) state() GameState {
	st := GameState{
		ID:       s.ID,
		Board:    s.game.Position(),
		Turn:     s.game.Turn(),
		Status:   s.game.Status(),
		Moves:    slices.Clone(s.moves),
		Players:  s.players,
		Opponent: s.opponent,
	}
	if winner, ok := s.game.Winner(); ok {
		st.Winner = &winner
	}
	if sq, ok := s.game.PromotionPending(); ok {
		st.PromotionSquare = &sq
	}
	if !st.Status.Terminal() {
		st.IsCheck = s.game.InCheck(st.Turn)
	}
	if len(s.moves) > 0 {
		st.LastMove = s.moves[len(s.moves)-1]
	}
	return st
}

// authorize checks that playerID holds the seat of the side to move.
func (s *Session) authorize(playerID string) error {
	c, ok := s.colorOf(playerID)
	if !ok {
		return ErrNotSeated
	}
	if c != s.game.Turn() {
		return ErrNotYourTurn
	}
	return nil
}

// Move plays long algebraic move text for playerID.
func (s *Session) Move(playerID, text string) (MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.authorize(playerID); err != nil {
		return MoveResult{}, err
	}
	outcome, err := s.game.SubmitText(text)
	if err != nil {
		return MoveResult{}, err
	}
	if outcome.Move != "" {
		s.moves = append(s.moves, outcome.Move)
	}
	s.logger.Debug("move accepted",
		zap.String("player_id", playerID),
		zap.String("move", outcome.Move),
		zap.String("outcome", string(outcome.Kind)),
	)
	return s.finish(outcome), nil
}

// Promote completes a pending promotion for playerID.
func (s *Session) Promote(playerID, choice string) (MoveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.authorize(playerID); err != nil {
		return MoveResult{}, err
	}
	kind, err := model.ParsePromotion(choice)
	if err != nil {
		return MoveResult{}, err
	}
	outcome, err := s.game.SubmitPromotion(kind)
	if err != nil {
		return MoveResult{}, err
	}
	if n := len(s.moves); n > 0 {
		s.moves[n-1] += promotionSuffix(kind)
	}
	return s.finish(outcome), nil
}

// Quit ends the game on behalf of a seated player.
func (s *Session) Quit(playerID string) (model.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.colorOf(playerID); !ok {
		return model.Outcome{}, ErrNotSeated
	}
	outcome, err := s.game.Quit()
	if err != nil {
		return model.Outcome{}, err
	}
	s.logger.Info("game quit", zap.String("player_id", playerID))
	s.broadcast()
	return outcome, nil
}

// finish lets the computer answer, then pushes the new state to the sockets.
func (s *Session) finish(outcome model.Outcome) MoveResult {
	result := MoveResult{Outcome: outcome}
	if reply := s.playComputer(); reply != "" {
		result.Reply = reply
	}
	s.broadcast()
	return result
}

// playComputer makes the computer's move when it is its turn and returns it
// in long algebraic form.
func (s *Session) playComputer() string {
	if s.opponent == nil || s.game.Status() != model.StatusInProgress || s.game.Turn() != s.opponent.Color {
		return ""
	}
	m, ok := s.game.Suggest(s.opponent.Strategy, s.opponent.Color, s.rng)
	if !ok {
		return ""
	}
	outcome, err := s.game.SubmitMove(m.From, m.To)
	if err != nil {
		// Suggestions come from the legal move list.
		panic(fmt.Sprintf("service: computer move %s rejected: %v", m, err))
	}
	text := m.String()
	if outcome.Kind == model.OutcomePromotionRequired {
		if _, err := s.game.SubmitPromotion(model.Queen); err != nil {
			panic(fmt.Sprintf("service: computer promotion rejected: %v", err))
		}
		text += promotionSuffix(model.Queen)
	}
	s.moves = append(s.moves, text)
	s.logger.Debug("computer moved",
		zap.String("move", text),
		zap.String("strategy", string(s.opponent.Strategy)),
	)
	return text
}

func promotionSuffix(kind model.PieceType) string {
	if kind == model.Knight {
		return "n"
	}
	return string(kind[0])
}

// LegalMoves lists the legal moves of c in long algebraic form.
func (s *Session) LegalMoves(c model.Color) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	moves := []string{}
	for m := range s.game.LegalMoves(c) {
		moves = append(moves, m.String())
	}
	return moves
}

// Suggest proposes a move for the side to move without playing it.
func (s *Session) Suggest(strategy model.Strategy) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.game.Suggest(strategy, s.game.Turn(), s.rng)
	if !ok {
		return "", false
	}
	return m.String(), true
}

// RegisterConnection attaches a socket for a seated player, or for a
// spectator while a seat is open.
func (s *Session) RegisterConnection(playerID string, conn Conn) error {
	if !s.IsPlayerInGame(playerID) && !s.CanSpectate() {
		return fmt.Errorf("not authorized to join this game: %w", ErrNotSeated)
	}
	if !s.connections.Register(playerID, conn) {
		return nil
	}
	s.logger.Info("registered connection", zap.String("player_id", playerID))

	s.mu.Lock()
	defer s.mu.Unlock()
	s.broadcast()
	return nil
}

// Send writes v to one of the session's sockets.
func (s *Session) Send(conn Conn, v interface{}) error {
	return s.connections.Send(conn, v)
}

func (s *Session) UnregisterConnection(playerID string, conn Conn) {
	s.connections.Unregister(playerID, conn)
}

// broadcast sends the current state to every socket. Callers hold mu.
func (s *Session) broadcast() {
	if s.connections.Len() == 0 {
		return
	}
	payload, err := json.Marshal(s.state())
	if err != nil {
		s.logger.Error("failed to marshal game state", zap.Error(err))
		return
	}
	s.connections.Broadcast(ws.Message{
		Type:    ws.MessageTypeGameState,
		Payload: json.RawMessage(payload),
	})
}
