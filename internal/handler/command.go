package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"progress-bot/internal/logger"
	"progress-bot/internal/model"
	"progress-bot/internal/service"
)

type CommandHandler struct {
	svc *service.Service
}

func NewCommandHandler(svc *service.Service) *CommandHandler {
	return &CommandHandler{svc: svc}
}

func bindCommand(c *gin.Context) (*model.SlashCommand, bool) {
	var cmd model.SlashCommand
	if err := c.ShouldBind(&cmd); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid command payload"})
		return nil, false
	}
	return &cmd, true
}

func textReply(c *gin.Context, text string) {
	c.JSON(http.StatusOK, gin.H{"text": text})
}

// ShowConfig opens the configuration dialog against the command's
// trigger id; the reply body is intentionally empty.
func (h *CommandHandler) ShowConfig(c *gin.Context) {
	cmd, ok := bindCommand(c)
	if !ok {
		return
	}
	if err := h.svc.OpenConfigDialog(c.Request.Context(), cmd); err != nil {
		logger.Error("config dialog failed", "user", cmd.UserID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "config dialog failed"})
		return
	}
	c.String(http.StatusOK, "")
}

// Remove forgets today's standup.
func (h *CommandHandler) Remove(c *gin.Context) {
	cmd, ok := bindCommand(c)
	if !ok {
		return
	}
	copyText, err := h.svc.RemoveToday(c.Request.Context(), cmd.UserID, cmd.TeamID)
	if err != nil {
		logger.Error("remove today failed", "user", cmd.UserID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "remove failed"})
		return
	}
	textReply(c, copyText)
}

// Today lists today's tasks.
func (h *CommandHandler) Today(c *gin.Context) {
	cmd, ok := bindCommand(c)
	if !ok {
		return
	}
	header, tasks, err := h.svc.TodayTasks(c.Request.Context(), cmd.UserID, cmd.TeamID)
	if err != nil {
		logger.Error("today tasks failed", "user", cmd.UserID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "task listing failed"})
		return
	}
	if tasks == nil {
		textReply(c, header)
		return
	}
	textReply(c, header+"\n"+model.PrintTasks(tasks)+
		"\n\nMark tasks as done with `/d task_number`, undo with `/u task_number`.")
}

// Done marks the numbered task complete.
func (h *CommandHandler) Done(c *gin.Context) {
	h.toggle(c, true)
}

// Undo reverses a done mark.
func (h *CommandHandler) Undo(c *gin.Context) {
	h.toggle(c, false)
}

func (h *CommandHandler) toggle(c *gin.Context, done bool) {
	cmd, ok := bindCommand(c)
	if !ok {
		return
	}

	verb := "done"
	if !done {
		verb = "not done"
	}
	task, err := strconv.Atoi(strings.TrimSpace(cmd.Text))
	if err != nil {
		textReply(c, ":warning: Please include the task number to set as "+verb+". Run `/progress-today` to get the list of tasks.")
		return
	}

	var copyText string
	if done {
		copyText, err = h.svc.SetTodayTaskDone(c.Request.Context(), task, cmd.UserID)
	} else {
		copyText, err = h.svc.SetTodayTaskNotDone(c.Request.Context(), task, cmd.UserID)
	}
	if err != nil {
		logger.Error("task toggle failed", "user", cmd.UserID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "task toggle failed"})
		return
	}
	textReply(c, copyText)
}

// Add appends a task to today's list.
func (h *CommandHandler) Add(c *gin.Context) {
	cmd, ok := bindCommand(c)
	if !ok {
		return
	}
	if strings.TrimSpace(cmd.Text) == "" {
		textReply(c, ":warning: You have to include the task to add.")
		return
	}
	copyText, err := h.svc.AddTaskToToday(c.Request.Context(), cmd.Text, cmd.UserID)
	if err != nil {
		logger.Error("add task failed", "user", cmd.UserID, "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "add task failed"})
		return
	}
	textReply(c, copyText)
}

// Help returns the static help copy.
func (h *CommandHandler) Help(c *gin.Context) {
	textReply(c, h.svc.HelpText())
}
