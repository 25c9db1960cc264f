package controller

import (
	"errors"

	"github.com/apex/log"
	"github.com/gofiber/fiber/v2"

	"github.com/benbeisheim/legalchess-backend/internal/middleware"
	"github.com/benbeisheim/legalchess-backend/internal/model"
	"github.com/benbeisheim/legalchess-backend/internal/notation"
	"github.com/benbeisheim/legalchess-backend/internal/service"
)

type GameController struct {
	gameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

type createRequest struct {
	FEN string `json:"fen"`
}

type moveRequest struct {
	Move string `json:"move"`
}

// statusFor maps service and core errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrNotYourTurn), errors.Is(err, service.ErrNotSeated):
		return fiber.StatusForbidden
	case errors.Is(err, service.ErrGameFull), errors.Is(err, service.ErrAlreadyQueued):
		return fiber.StatusConflict
	case errors.Is(err, model.ErrIllegalMove), errors.Is(err, model.ErrEmptyHistory):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, notation.ErrInvalidFEN), errors.Is(err, service.ErrInvalidDepth):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

func fail(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		log.WithError(err).WithField("path", c.Path()).Error("request failed")
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	var req createRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request body",
			})
		}
	}

	gameID, err := gc.gameService.CreateGame(req.FEN)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Game created",
		"gameId":  gameID,
	})
}

func (gc *GameController) JoinGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")
	playerID := middleware.PlayerID(c)

	color, err := gc.gameService.JoinGame(gameID, playerID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Game joined",
		"color":   color,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	gameState, err := gc.gameService.GetGameState(c.Params("gameId"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(gameState)
}

func (gc *GameController) GetLegalMoves(c *fiber.Ctx) error {
	moves, err := gc.gameService.LegalMoves(c.Params("gameId"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"moves": moves,
	})
}

func (gc *GameController) MakeMove(c *fiber.Ctx) error {
	var req moveRequest
	if err := c.BodyParser(&req); err != nil || req.Move == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "move is required",
		})
	}

	state, err := gc.gameService.HandleMove(c.Params("gameId"), middleware.PlayerID(c), req.Move)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(state)
}

func (gc *GameController) Undo(c *fiber.Ctx) error {
	state, err := gc.gameService.HandleUndo(c.Params("gameId"), middleware.PlayerID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(state)
}

func (gc *GameController) Perft(c *fiber.Ctx) error {
	depth := c.QueryInt("depth", 1)
	result, err := gc.gameService.Perft(c.UserContext(), c.Params("gameId"), depth)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(result)
}

func (gc *GameController) JoinMatchmaking(c *fiber.Ctx) error {
	if err := gc.gameService.JoinMatchmaking(middleware.PlayerID(c)); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"status": "queued",
	})
}

func (gc *GameController) MatchmakingStatus(c *fiber.Ctx) error {
	event, ok := gc.gameService.MatchStatus(middleware.PlayerID(c))
	if !ok {
		return c.JSON(fiber.Map{
			"status": "waiting",
		})
	}
	return c.JSON(fiber.Map{
		"status": "matched",
		"gameId": event.GameID,
		"color":  event.Color,
	})
}

func (gc *GameController) LeaveMatchmaking(c *fiber.Ctx) error {
	if !gc.gameService.LeaveMatchmaking(middleware.PlayerID(c)) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "not in queue",
		})
	}
	return c.JSON(fiber.Map{
		"status": "left",
	})
}

func (gc *GameController) ListGames(c *fiber.Ctx) error {
	games, err := gc.gameService.ListGames()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"games": games,
	})
}

func (gc *GameController) DeleteGame(c *fiber.Ctx) error {
	if err := gc.gameService.DeleteGame(c.Params("gameId")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
