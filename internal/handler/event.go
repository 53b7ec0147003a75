package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"progress-bot/internal/logger"
	"progress-bot/internal/model"
	"progress-bot/internal/service"
)

type EventHandler struct {
	svc *service.Service
}

func NewEventHandler(svc *service.Service) *EventHandler {
	return &EventHandler{svc: svc}
}

// Events receives the Slack event callback: either the URL-verification
// challenge (echoed back) or a wrapped event. The reply, when the
// orchestrator produces one, is delivered asynchronously so Slack gets
// its ack immediately.
func (h *EventHandler) Events(c *gin.Context) {
	var callback model.EventCallback
	if err := c.ShouldBindJSON(&callback); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event payload"})
		return
	}

	if callback.Challenge != "" {
		c.String(http.StatusOK, h.svc.Challenge(callback.Challenge))
		return
	}

	if callback.Event == nil {
		c.String(http.StatusOK, "")
		return
	}

	reply, username, err := h.svc.HandleEvent(c.Request.Context(), callback.Event, callback.TeamID)
	if err != nil {
		logger.Error("event handling failed", "type", callback.Event.Type, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "event handling failed"})
		return
	}
	if reply != nil {
		h.svc.SendReply(callback.TeamID, username, reply)
	}

	c.String(http.StatusOK, "")
}
