package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MatchFoundEvent tells a queued player which game and seat they got.
type MatchFoundEvent struct {
	GameID string      `json:"game_id"`
	Color  model.Color `json:"color"`
}

// GameManager owns every live session and the matchmaking queue.
type GameManager struct {
	games   map[string]*Session
	queue   *Queue
	matches map[string]MatchFoundEvent
	mu      sync.RWMutex
	logger  *zap.Logger
	stop    chan struct{}
	done    chan struct{}
}

// NewGameManager starts the matchmaking loop, which pairs queued players every
// interval until Close is called.
func NewGameManager(logger *zap.Logger, interval time.Duration) *GameManager {
	gm := &GameManager{
		games:   make(map[string]*Session),
		queue:   NewQueue(),
		matches: make(map[string]MatchFoundEvent),
		logger:  logger,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
	go gm.processMatchmaking(interval)
	return gm
}

func (gm *GameManager) Close() {
	close(gm.stop)
	<-gm.done
}

func (gm *GameManager) processMatchmaking(interval time.Duration) {
	defer close(gm.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-gm.stop:
			return
		case <-ticker.C:
			gm.matchQueued()
		}
	}
}

// matchQueued pairs queued players into fresh games.
func (gm *GameManager) matchQueued() {
	for {
		first, second, ok := gm.queue.NextPair()
		if !ok {
			return
		}
		gameID := uuid.New().String()
		session, err := NewSession(gameID, SessionOptions{Seed: uint64(time.Now().UnixNano())}, gm.logger)
		if err != nil {
			gm.logger.Error("failed to create matched game", zap.Error(err))
			return
		}
		firstColor, _ := session.AddPlayer(first.ID)
		secondColor, _ := session.AddPlayer(second.ID)

		gm.mu.Lock()
		gm.games[gameID] = session
		gm.matches[first.ID] = MatchFoundEvent{GameID: gameID, Color: firstColor}
		gm.matches[second.ID] = MatchFoundEvent{GameID: gameID, Color: secondColor}
		gm.mu.Unlock()

		gm.logger.Info("match found",
			zap.String("game_id", gameID),
			zap.Strings("players", []string{first.ID, second.ID}),
		)
	}
}

func (gm *GameManager) CreateGame(gameID string, opts SessionOptions) (*Session, error) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[gameID]; exists {
		return nil, fmt.Errorf("game %s already exists", gameID)
	}
	session, err := NewSession(gameID, opts, gm.logger)
	if err != nil {
		return nil, err
	}
	gm.games[gameID] = session
	return session, nil
}

func (gm *GameManager) GetGame(gameID string) (*Session, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	session, exists := gm.games[gameID]
	if !exists {
		return nil, fmt.Errorf("game %s: %w", gameID, ErrGameNotFound)
	}
	return session, nil
}

func (gm *GameManager) JoinMatchmaking(playerID string) error {
	gm.mu.Lock()
	delete(gm.matches, playerID)
	gm.mu.Unlock()

	if err := gm.queue.AddPlayer(playerID); err != nil {
		gm.logger.Warn("failed to queue player", zap.String("player_id", playerID), zap.Error(err))
		return err
	}
	return nil
}

// MatchStatus reports the match found for playerID, and whether they are
// still waiting.
func (gm *GameManager) MatchStatus(playerID string) (MatchFoundEvent, bool, bool) {
	gm.mu.RLock()
	event, matched := gm.matches[playerID]
	gm.mu.RUnlock()
	return event, matched, gm.queue.Contains(playerID)
}
