package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"progress-bot/internal/logger"
	"progress-bot/internal/service"
)

type OAuthHandler struct {
	svc        *service.Service
	successURL string
	errorURL   string
}

func NewOAuthHandler(svc *service.Service, successURL, errorURL string) *OAuthHandler {
	return &OAuthHandler{svc: svc, successURL: successURL, errorURL: errorURL}
}

// Authorize completes the "Add to Slack" flow: it exchanges the temporary
// code for a workspace token and redirects the installer to a static page.
func (h *OAuthHandler) Authorize(c *gin.Context) {
	if errParam := c.Query("error"); errParam != "" {
		logger.Info("oauth declined", "reason", errParam)
		c.Redirect(http.StatusFound, h.errorURL)
		return
	}

	code := c.Query("code")
	if code == "" {
		c.Redirect(http.StatusFound, h.errorURL)
		return
	}

	if err := h.svc.CompleteOAuth(c.Request.Context(), code); err != nil {
		logger.Error("oauth exchange failed", "err", err)
		c.Redirect(http.StatusFound, h.errorURL)
		return
	}
	c.Redirect(http.StatusFound, h.successURL)
}
