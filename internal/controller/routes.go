package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/benbeisheim/legalchess-backend/internal/middleware"
	"github.com/benbeisheim/legalchess-backend/internal/service"
)

// NewApp builds the fiber application with every route wired to gameService.
func NewApp(gameService *service.GameService, allowOrigins string) *fiber.App {
	// ids taken from requests outlive them as seats, queue entries and map keys
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		Immutable:             true,
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, X-Player-ID",
		AllowMethods:     "GET, POST, DELETE, OPTIONS",
		AllowCredentials: allowOrigins != "*",
	}))
	app.Use(middleware.RequestLogger())

	gameController := NewGameController(gameService)
	wsController := NewWebSocketController(gameService)

	app.Get("/healthz", func(c *fiber.Ctx) error {
		stats := gameService.Stats()
		return c.JSON(fiber.Map{
			"status": "ok",
			"games":  stats.Games,
			"queued": stats.Queued,
		})
	})

	// WebSocket routes
	app.Use("/ws/*", middleware.EnsurePlayerID())
	app.Get("/ws/game/:gameId", middleware.WebSocketUpgrade(), websocket.New(wsController.HandleConnection, websocket.Config{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		Origins:         splitOrigins(allowOrigins),
	}))

	// REST routes
	api := app.Group("/api", middleware.EnsurePlayerID())

	api.Get("/games", gameController.ListGames)

	gameRoutes := api.Group("/game")
	gameRoutes.Post("/matchmaking/join", gameController.JoinMatchmaking)
	gameRoutes.Get("/matchmaking/status", gameController.MatchmakingStatus)
	gameRoutes.Delete("/matchmaking", gameController.LeaveMatchmaking)
	gameRoutes.Post("/create", gameController.CreateGame)
	gameRoutes.Post("/join/:gameId", gameController.JoinGame)
	gameRoutes.Get("/:gameId", gameController.GetGameState)
	gameRoutes.Delete("/:gameId", gameController.DeleteGame)
	gameRoutes.Get("/:gameId/moves", gameController.GetLegalMoves)
	gameRoutes.Post("/:gameId/move", gameController.MakeMove)
	gameRoutes.Post("/:gameId/undo", gameController.Undo)
	gameRoutes.Get("/:gameId/perft", gameController.Perft)

	return app
}

func splitOrigins(allowOrigins string) []string {
	var origins []string
	for _, origin := range strings.Split(allowOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
