package controller

import (
	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/benbeisheim/chessrules-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type GameController struct {
	gameService *service.GameService
	logger      *zap.Logger
}

func NewGameController(gameService *service.GameService, logger *zap.Logger) *GameController {
	return &GameController{gameService: gameService, logger: logger}
}

// Register mounts the game routes on router.
func (gc *GameController) Register(router fiber.Router) {
	router.Post("/create", gc.CreateGame)
	router.Post("/join/:gameId", gc.JoinGame)
	router.Post("/matchmaking/join", gc.JoinMatchmaking)
	router.Get("/matchmaking/status", gc.MatchmakingStatus)
	router.Get("/:gameId", gc.GetGameState)
	router.Get("/:gameId/moves", gc.GetLegalMoves)
	router.Get("/:gameId/suggest", gc.SuggestMove)
	router.Post("/:gameId/move", gc.MakeMove)
	router.Post("/:gameId/promotion", gc.Promote)
	router.Post("/:gameId/quit", gc.Quit)
}

type createGameRequest struct {
	Opponent string `json:"opponent"`
	Color    string `json:"color"`
	FEN      string `json:"fen"`
	Seed     uint64 `json:"seed"`
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	var req createGameRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error(), "code": "bad_request"})
		}
	}

	opts := service.SessionOptions{FEN: req.FEN, Seed: req.Seed}
	if req.Opponent != "" {
		strategy, err := model.ParseStrategy(req.Opponent)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error(), "code": "bad_request"})
		}
		opts.Opponent = strategy
	}
	if req.Color != "" {
		color, err := model.ParseColor(req.Color)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error(), "code": "bad_request"})
		}
		opts.Color = color
	}

	gameID, color, err := gc.gameService.CreateGame(playerID(c), opts)
	if err != nil {
		return sendError(c, err)
	}
	gc.logger.Info("game created", zap.String("game_id", gameID), zap.String("opponent", req.Opponent))
	return c.JSON(fiber.Map{
		"message": "Game created",
		"game_id": gameID,
		"color":   color,
	})
}

func (gc *GameController) JoinGame(c *fiber.Ctx) error {
	color, err := gc.gameService.JoinGame(c.Params("gameId"), playerID(c))
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Game joined",
		"color":   color,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	gameState, err := gc.gameService.GetGameState(c.Params("gameId"))
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(gameState)
}

func (gc *GameController) GetLegalMoves(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	var color model.Color
	if q := c.Query("color"); q != "" {
		parsed, err := model.ParseColor(q)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error(), "code": "bad_request"})
		}
		color = parsed
	} else {
		state, err := gc.gameService.GetGameState(gameID)
		if err != nil {
			return sendError(c, err)
		}
		color = state.Turn
	}

	moves, err := gc.gameService.LegalMoves(gameID, color)
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(fiber.Map{"color": color, "moves": moves})
}

func (gc *GameController) SuggestMove(c *fiber.Ctx) error {
	strategy, err := model.ParseStrategy(c.Query("strategy", string(model.StrategyGreedy)))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error(), "code": "bad_request"})
	}
	move, ok, err := gc.gameService.Suggest(c.Params("gameId"), strategy)
	if err != nil {
		return sendError(c, err)
	}
	if !ok {
		return c.JSON(fiber.Map{"move": nil})
	}
	return c.JSON(fiber.Map{"move": move})
}

type moveRequest struct {
	Move string `json:"move"`
	From string `json:"from"`
	To   string `json:"to"`
}

func (gc *GameController) MakeMove(c *fiber.Ctx) error {
	var req moveRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error(), "code": "bad_request"})
	}
	text := req.Move
	if text == "" {
		text = req.From + req.To
	}

	result, err := gc.gameService.HandleMove(c.Params("gameId"), playerID(c), text)
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(result)
}

type promotionRequest struct {
	Piece string `json:"piece"`
}

func (gc *GameController) Promote(c *fiber.Ctx) error {
	var req promotionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error(), "code": "bad_request"})
	}
	result, err := gc.gameService.HandlePromotion(c.Params("gameId"), playerID(c), req.Piece)
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(result)
}

func (gc *GameController) Quit(c *fiber.Ctx) error {
	outcome, err := gc.gameService.HandleQuit(c.Params("gameId"), playerID(c))
	if err != nil {
		return sendError(c, err)
	}
	return c.JSON(fiber.Map{"outcome": outcome})
}

func (gc *GameController) JoinMatchmaking(c *fiber.Ctx) error {
	if err := gc.gameService.JoinMatchmaking(playerID(c)); err != nil {
		return sendError(c, err)
	}
	return c.JSON(fiber.Map{
		"status": "queued",
	})
}

func (gc *GameController) MatchmakingStatus(c *fiber.Ctx) error {
	event, matched, queued := gc.gameService.MatchStatus(playerID(c))
	switch {
	case matched:
		return c.JSON(fiber.Map{"status": "matched", "game_id": event.GameID, "color": event.Color})
	case queued:
		return c.JSON(fiber.Map{"status": "queued"})
	}
	return c.JSON(fiber.Map{"status": "idle"})
}

func playerID(c *fiber.Ctx) string {
	id, _ := c.Locals("playerID").(string)
	return id
}
