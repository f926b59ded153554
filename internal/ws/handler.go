package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"holdem-service/internal/config"
	"holdem-service/internal/holdem"
	"holdem-service/internal/limiter"
	"holdem-service/internal/room"
	pkgAuth "holdem-service/pkg/auth"
	appErr "holdem-service/pkg/errors"
	"holdem-service/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type Handler struct {
	manager *room.Manager
	limiter *limiter.Limiter
}

func NewHandler(manager *room.Manager, limiter *limiter.Limiter) *Handler {
	return &Handler{manager: manager, limiter: limiter}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for dev
	},
}

// HandleWS authenticates the request, upgrades it and runs the connection.
// Room membership is chosen per connection via the join_room event, not the
// URL, so one socket serves a player's whole session.
func (h *Handler) HandleWS(c *gin.Context) {
	token, err := getTokenFromRequest(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	claims, err := pkgAuth.ParseToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Log.Error("Failed to upgrade websocket", zap.Error(err))
		return
	}

	logger.Log.Info("New WebSocket connection",
		zap.Int64("subjectID", claims.SubjectID),
		zap.String("name", claims.DisplayName()),
	)

	client := newClient(conn, claims, h.manager, h.limiter)
	client.run()
}

func getTokenFromRequest(c *gin.Context) (string, error) {
	token := strings.TrimSpace(c.Query("token"))
	if token != "" {
		return token, nil
	}
	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			token = strings.TrimSpace(parts[1])
			if token != "" {
				return token, nil
			}
		}
	}
	return "", errors.New("missing token")
}

type client struct {
	conn      *websocket.Conn
	subjectID int64
	name      string
	manager   *room.Manager
	limiter   *limiter.Limiter

	// roomID is the room this connection is seated in, empty when none. It
	// is touched only by the readPump goroutine.
	roomID string

	outbound  chan room.Event
	done      chan struct{}
	pingEvery time.Duration
}

func newClient(conn *websocket.Conn, claims *pkgAuth.Claims, manager *room.Manager, lim *limiter.Limiter) *client {
	conn.SetReadLimit(1 << 20)
	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})
	return &client{
		conn:      conn,
		subjectID: claims.SubjectID,
		name:      claims.DisplayName(),
		manager:   manager,
		limiter:   lim,
		outbound:  make(chan room.Event, 32),
		done:      make(chan struct{}),
		pingEvery: 25 * time.Second,
	}
}

func (c *client) run() {
	go c.writePump()
	c.readPump()
}

func (c *client) readPump() {
	defer func() {
		c.leaveCurrentRoom()
		close(c.done)
		c.conn.Close()
	}()

	for {
		mt, message, err := c.conn.ReadMessage()
		if err != nil {
			logger.Log.Info("WS read error", zap.Error(err), zap.Int64("subjectID", c.subjectID))
			return
		}
		if mt != websocket.TextMessage && mt != websocket.BinaryMessage {
			continue
		}

		var incoming struct {
			Type string          `json:"type"`
			Data json.RawMessage `json:"data"`
		}
		if err := json.Unmarshal(message, &incoming); err != nil {
			c.sendError("invalid payload")
			continue
		}
		if incoming.Type == "" {
			continue
		}

		c.dispatch(incoming.Type, incoming.Data)
	}
}

func (c *client) dispatch(eventType string, data json.RawMessage) {
	switch eventType {
	case "join_room":
		c.handleJoin(data)
	case "leave_room":
		c.leaveCurrentRoom()
	case "game_action":
		c.handleGameAction(data)
	case "chat_message":
		c.handleChat(data)
	case "add_bot":
		c.handleAddBot(data)
	case "ping":
		c.enqueue(room.Event{Type: "pong"})
	default:
		c.sendError("unknown event type")
	}
}

func (c *client) handleJoin(data json.RawMessage) {
	if c.roomID != "" {
		c.sendError("already in a room")
		return
	}

	limits := config.GlobalConfig.Limits
	if err := c.limiter.Allow(context.Background(), "join", c.subjectID, limits.JoinPerMinute); err != nil {
		c.sendError("too many join attempts")
		return
	}

	var req struct {
		RoomID string `json:"roomId"`
		BuyIn  int    `json:"buyIn"`
	}
	if err := json.Unmarshal(data, &req); err != nil {
		c.sendError("invalid payload")
		return
	}
	if req.BuyIn == 0 {
		req.BuyIn = config.GlobalConfig.Game.MinBuyIn
	}

	r, err := c.manager.Join(c.subjectID, c.name, req.RoomID, req.BuyIn)
	if err != nil {
		if errors.Is(err, appErr.ErrRoomFull) {
			// room_full is its own event so clients can offer a different
			// room instead of showing a generic failure.
			c.enqueue(room.Event{Type: room.EventRoomFull, Data: gin.H{"roomId": req.RoomID}})
			return
		}
		c.sendError(err.Error())
		return
	}

	c.roomID = r.ID
	events, err := c.manager.Subscribe(c.subjectID, r.ID)
	if err != nil {
		c.roomID = ""
		c.sendError(err.Error())
		return
	}
	go c.forward(events)
}

func (c *client) handleGameAction(data json.RawMessage) {
	if c.roomID == "" {
		c.sendError("not in a room")
		return
	}

	var req struct {
		Type   string `json:"type"`
		Amount int    `json:"amount"`
	}
	if err := json.Unmarshal(data, &req); err != nil {
		c.sendError("invalid payload")
		return
	}
	actionType, err := holdem.ParseActionType(req.Type)
	if err != nil {
		c.sendError(err.Error())
		return
	}

	if err := c.manager.Apply(c.subjectID, c.roomID, actionType, req.Amount); err != nil {
		c.sendError(err.Error())
	}
}

func (c *client) handleChat(data json.RawMessage) {
	if c.roomID == "" {
		c.sendError("not in a room")
		return
	}

	limits := config.GlobalConfig.Limits
	if err := c.limiter.Allow(context.Background(), "chat", c.subjectID, limits.ChatPerMinute); err != nil {
		c.sendError("too many messages")
		return
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(data, &req); err != nil || strings.TrimSpace(req.Text) == "" {
		c.sendError("invalid payload")
		return
	}

	if err := c.manager.Chat(c.subjectID, c.roomID, req.Text); err != nil {
		c.sendError(err.Error())
	}
}

func (c *client) handleAddBot(data json.RawMessage) {
	if c.roomID == "" {
		c.sendError("not in a room")
		return
	}

	var req struct {
		Style string `json:"style"`
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &req); err != nil {
			c.sendError("invalid payload")
			return
		}
	}

	if err := c.manager.AddBot(c.roomID, holdem.ParseStyle(req.Style)); err != nil {
		c.sendError(err.Error())
	}
}

// leaveCurrentRoom unsubscribes and stands the player up. Safe to call when
// not in a room, and on disconnect.
func (c *client) leaveCurrentRoom() {
	if c.roomID == "" {
		return
	}
	roomID := c.roomID
	c.roomID = ""

	c.manager.Unsubscribe(c.subjectID, roomID)
	if err := c.manager.Leave(c.subjectID, roomID); err != nil && !errors.Is(err, appErr.ErrRoomNotFound) {
		logger.Log.Warn("leave failed",
			zap.Error(err),
			zap.Int64("subjectID", c.subjectID),
			zap.String("roomID", roomID),
		)
	}
}

// forward bridges one room subscription onto the connection's outbound
// channel. It exits when the subscription channel closes on unsubscribe.
func (c *client) forward(events <-chan room.Event) {
	for ev := range events {
		select {
		case c.outbound <- ev:
		case <-c.done:
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(c.pingEvery)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg := <-c.outbound:
			if err := c.conn.WriteJSON(msg); err != nil {
				logger.Log.Info("WS write error", zap.Error(err), zap.Int64("subjectID", c.subjectID))
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(5*time.Second)); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

func (c *client) sendError(message string) {
	c.enqueue(room.Event{Type: "error", Data: gin.H{"message": message}})
}

func (c *client) enqueue(ev room.Event) {
	select {
	case c.outbound <- ev:
	default:
		logger.Log.Warn("outbound channel full, dropping event",
			zap.Int64("subjectID", c.subjectID),
			zap.String("event", ev.Type),
		)
	}
}
