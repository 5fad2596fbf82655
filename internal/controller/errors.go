package controller

import (
	"errors"

	"github.com/benbeisheim/chessrules-backend/internal/model"
	"github.com/benbeisheim/chessrules-backend/internal/service"
	"github.com/gofiber/fiber/v2"
)

// errorCode maps a rejection to the code and HTTP status clients see. Rule
// rejections keep their own codes so a client can tell them apart.
func errorCode(err error) (string, int) {
	switch {
	case errors.Is(err, model.ErrMalformedMove):
		return "malformed_move", fiber.StatusBadRequest
	case errors.Is(err, model.ErrNoPiece):
		return "no_piece", fiber.StatusUnprocessableEntity
	case errors.Is(err, model.ErrWrongColor):
		return "wrong_color", fiber.StatusUnprocessableEntity
	case errors.Is(err, model.ErrIllegalMove):
		return "illegal_move", fiber.StatusUnprocessableEntity
	case errors.Is(err, model.ErrInvalidPromotion):
		return "invalid_promotion", fiber.StatusUnprocessableEntity
	case errors.Is(err, model.ErrGameOver):
		return "game_over", fiber.StatusConflict
	case errors.Is(err, model.ErrInvalidFEN):
		return "invalid_fen", fiber.StatusBadRequest
	case errors.Is(err, service.ErrGameNotFound):
		return "game_not_found", fiber.StatusNotFound
	case errors.Is(err, service.ErrGameFull):
		return "game_full", fiber.StatusConflict
	case errors.Is(err, service.ErrAlreadyQueued):
		return "already_queued", fiber.StatusConflict
	case errors.Is(err, service.ErrNotSeated):
		return "not_seated", fiber.StatusForbidden
	case errors.Is(err, service.ErrNotYourTurn):
		return "not_your_turn", fiber.StatusForbidden
	}
	return "internal", fiber.StatusInternalServerError
}

func sendError(c *fiber.Ctx, err error) error {
	code, status := errorCode(err)
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
