package service

import (
	"fmt"
	"time"

	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/google/uuid"
)

type GameService struct {
	gameManager *GameManager
}

func NewGameService(gameManager *GameManager) *GameService {
	return &GameService{
		gameManager: gameManager,
	}
}

// CreateGame opens a game and seats its creator.
func (gs *GameService) CreateGame(playerID string, opts SessionOptions) (string, model.Color, error) {
	gameID := uuid.New().String()
	if opts.Seed == 0 {
		opts.Seed = uint64(time.Now().UnixNano())
	}

	session, err := gs.gameManager.CreateGame(gameID, opts)
	if err != nil {
		return "", model.White, fmt.Errorf("failed to create game: %w", err)
	}
	color, err := session.AddPlayer(playerID)
	if err != nil {
		return "", model.White, fmt.Errorf("failed to seat creator: %w", err)
	}
	return gameID, color, nil
}

func (gs *GameService) JoinGame(gameID string, playerID string) (model.Color, error) {
	session, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return model.White, err
	}
	return session.AddPlayer(playerID)
}

func (gs *GameService) JoinMatchmaking(playerID string) error {
	return gs.gameManager.JoinMatchmaking(playerID)
}

func (gs *GameService) MatchStatus(playerID string) (MatchFoundEvent, bool, bool) {
	return gs.gameManager.MatchStatus(playerID)
}

func (gs *GameService) GetGameState(gameID string) (GameState, error) {
	session, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return GameState{}, err
	}
	return session.State(), nil
}

func (gs *GameService) HandleMove(gameID, playerID, move string) (MoveResult, error) {
	session, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return MoveResult{}, err
	}
	return session.Move(playerID, move)
}

func (gs *GameService) HandlePromotion(gameID, playerID, piece string) (MoveResult, error) {
	session, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return MoveResult{}, err
	}
	return session.Promote(playerID, piece)
}

func (gs *GameService) HandleQuit(gameID, playerID string) (model.Outcome, error) {
	session, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return model.Outcome{}, err
	}
	return session.Quit(playerID)
}

func (gs *GameService) LegalMoves(gameID string, c model.Color) ([]string, error) {
	session, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return session.LegalMoves(c), nil
}

func (gs *GameService) Suggest(gameID string, strategy model.Strategy) (string, bool, error) {
	session, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return "", false, err
	}
	move, ok := session.Suggest(strategy)
	return move, ok, nil
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

// Send writes v to conn without racing the game's state broadcasts.
func (gs *GameService) Send(gameID string, conn Conn, v interface{}) error {
	session, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return conn.WriteJSON(v)
	}
	return session.Send(conn, v)
}
