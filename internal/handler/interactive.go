package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"

	"progress-bot/internal/logger"
	"progress-bot/internal/model"
	"progress-bot/internal/service"
)

type InteractionHandler struct {
	svc *service.Service
}

func NewInteractionHandler(svc *service.Service) *InteractionHandler {
	return &InteractionHandler{svc: svc}
}

// Interact receives interactivity callbacks (a JSON document in the
// "payload" form field): dialog submissions update configuration, block
// actions toggle tasks from intro-message buttons. Anything else is
// acknowledged and ignored.
func (h *InteractionHandler) Interact(c *gin.Context) {
	raw := c.PostForm("payload")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing payload"})
		return
	}

	kind := model.ParseInteractionType(gjson.Get(raw, "type").String())
	if kind == model.InteractionUnknown {
		c.JSON(http.StatusOK, gin.H{})
		return
	}

	var payload model.Interaction
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed payload"})
		return
	}

	switch kind {
	case model.InteractionDialogSubmission:
		copyText, err := h.svc.ApplyConfig(c.Request.Context(), &payload)
		if err != nil {
			logger.Error("config submission failed", "user", payload.User.ID, "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "config failed"})
			return
		}
		h.svc.SendConfigConfirmation(payload.ResponseURL, copyText)
		c.JSON(http.StatusOK, gin.H{})

	case model.InteractionBlockActions:
		if err := h.svc.HandleBlockActions(c.Request.Context(), &payload); err != nil {
			logger.Error("block action failed", "user", payload.User.ID, "err", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "action failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{})
	}
}
