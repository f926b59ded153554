package api

import (
	"net/http"
	"strconv"

	"holdem-service/internal/config"
	"holdem-service/internal/middleware"
	"holdem-service/internal/room"
	"holdem-service/internal/ws"
	"holdem-service/pkg/auth"
	"holdem-service/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	manager *room.Manager
}

func RegisterRoutes(r *gin.Engine, manager *room.Manager, wsHandler *ws.Handler) {
	handler := &Handler{manager: manager}

	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{"message": "pong"})
	})

	v1 := r.Group("/holdem/v1")
	{
		v1.GET("/ws", wsHandler.HandleWS)

		authed := v1.Group("/")
		authed.Use(middleware.AuthRequired())
		{
			authed.GET("/rooms", handler.ListRooms)
		}
	}

	// Token minting is a development convenience; a real deployment gets
	// tokens from the identity service.
	if config.GlobalConfig.Server.Mode == "debug" {
		r.POST("/dev/token", handler.DevToken)
	}
}

func (h *Handler) ListRooms(c *gin.Context) {
	response.Success(c, gin.H{"rooms": h.manager.Rooms()})
}

type devTokenBody struct {
	SubjectID int64  `json:"subjectId" binding:"required,min=1"`
	Name      string `json:"name"`
}

func (h *Handler) DevToken(c *gin.Context) {
	var body devTokenBody
	if err := c.ShouldBindJSON(&body); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	token, err := auth.GenerateToken(body.SubjectID, body.Name)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, err.Error())
		return
	}

	response.Success(c, gin.H{
		"token":     token,
		"subjectId": strconv.FormatInt(body.SubjectID, 10),
	})
}
