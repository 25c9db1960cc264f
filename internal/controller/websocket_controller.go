package controller

import (
	"encoding/json"
	"fmt"

	"github.com/apex/log"
	"github.com/gofiber/websocket/v2"

	"github.com/benbeisheim/legalchess-backend/internal/middleware"
	"github.com/benbeisheim/legalchess-backend/internal/service"
	"github.com/benbeisheim/legalchess-backend/internal/ws"
)

type WebSocketController struct {
	gameService *service.GameService
}

func NewWebSocketController(gameService *service.GameService) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
	}
}

// HandleConnection is called when a new WebSocket connection is established
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID, _ := c.Locals(middleware.WSGameIDKey).(string)
	playerID, _ := c.Locals(middleware.WSPlayerIDKey).(string)
	logger := log.WithFields(log.Fields{"game": gameID, "client": playerID})

	if err := wsc.gameService.RegisterConnection(gameID, playerID, c); err != nil {
		logger.WithError(err).Warn("register connection")
		if msg, marshalErr := ws.NewMessage(ws.MessageTypeError, ws.ErrorPayload{Error: err.Error()}); marshalErr == nil {
			if writeErr := c.WriteJSON(msg); writeErr != nil {
				logger.WithError(writeErr).Debug("send register error")
			}
		}
		if closeErr := c.Close(); closeErr != nil {
			logger.WithError(closeErr).Debug("close rejected connection")
		}
		return
	}
	defer wsc.gameService.UnregisterConnection(gameID, playerID, c)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			logger.WithError(err).Debug("read loop ended")
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			wsc.sendError(gameID, c, fmt.Errorf("parse error: %w", err))
			continue
		}
		if err := wsc.handleMessage(gameID, playerID, msg); err != nil {
			wsc.sendError(gameID, c, err)
		}
	}
}

// handleMessage applies a mutation. The resulting state reaches every
// observer, this one included, through the session broadcast.
func (wsc *WebSocketController) handleMessage(gameID, playerID string, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeMove:
		var payload ws.MovePayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return err
		}
		_, err := wsc.gameService.HandleMove(gameID, playerID, payload.Move)
		return err
	case ws.MessageTypeUndo:
		_, err := wsc.gameService.HandleUndo(gameID, playerID)
		return err
	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
}

func (wsc *WebSocketController) sendError(gameID string, c *websocket.Conn, err error) {
	msg, marshalErr := ws.NewMessage(ws.MessageTypeError, ws.ErrorPayload{Error: err.Error()})
	if marshalErr != nil {
		return
	}
	if writeErr := wsc.gameService.Send(gameID, c, msg); writeErr != nil {
		log.WithError(writeErr).Debug("send error message")
	}
}
