package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rmcastle/fieldops/internal/adapter/api/dto"
	"github.com/rmcastle/fieldops/pkg/assistant"
	"github.com/rmcastle/fieldops/pkg/conversation"
	"github.com/rmcastle/fieldops/pkg/logger"
)

// AssistantController exposes the multi-turn dialogue to authenticated
// users. The session is keyed by the user's identity.
type AssistantController struct {
	manager       *assistant.Manager
	conversations conversation.Repository
	logger        logger.Logger
}

// NewAssistantController creates the assistant controller
func NewAssistantController(manager *assistant.Manager, conversations conversation.Repository, log logger.Logger) *AssistantController {
	return &AssistantController{manager: manager, conversations: conversations, logger: log}
}

// ProcessMessage godoc
// @Summary Send one message to the assistant
// @Description Runs one turn of the dialogue for the authenticated user's session
// @Tags assistant
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.AssistantMessageRequest true "User message"
// @Success 200 {object} dto.AssistantMessageResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /assistant/message [post]
func (ctl *AssistantController) ProcessMessage(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "not authenticated"})
		return
	}

	var req dto.AssistantMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	outcome, err := ctl.manager.ProcessTurn(c.Request.Context(), userID, req.Message)
	if err != nil {
		ctl.logger.Error("error processing turn for user %s: %v", userID, err)
		c.JSON(http.StatusBadGateway, dto.ErrorResponse{Error: "something went wrong handling that, please try again"})
		return
	}

	c.JSON(http.StatusOK, dto.AssistantMessageResponse{
		Reply:     outcome.Message,
		Options:   outcome.Options,
		Pending:   outcome.Pending != nil,
		Done:      outcome.Done,
		Cancelled: outcome.Cancelled,
		Data:      outcome.Data,
	})
}

// GetHistory godoc
// @Summary Get conversation history
// @Description Returns the authenticated user's recent conversation window
// @Tags assistant
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum messages to return" default(20)
// @Param offset query int false "Messages to skip" default(0)
// @Success 200 {object} dto.HistoryResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /assistant/history [get]
func (ctl *AssistantController) GetHistory(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "not authenticated"})
		return
	}

	limit := queryInt(c, "limit", 20)
	offset := queryInt(c, "offset", 0)

	messages, err := ctl.conversations.GetUserHistory(c.Request.Context(), userID, limit, offset)
	if err != nil {
		ctl.logger.Error("error loading history for user %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "could not load history"})
		return
	}

	total, err := ctl.conversations.CountUserMessages(c.Request.Context(), userID)
	if err != nil {
		ctl.logger.Error("error counting history for user %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "could not load history"})
		return
	}

	response := dto.HistoryResponse{Total: total, Messages: make([]dto.HistoryMessage, 0, len(messages))}
	for _, m := range messages {
		response.Messages = append(response.Messages, dto.HistoryMessage{
			ID:        m.ID,
			Role:      m.Role,
			Content:   m.Content,
			Timestamp: m.Timestamp,
		})
	}
	c.JSON(http.StatusOK, response)
}

// DeleteHistory godoc
// @Summary Delete conversation history
// @Description Removes all of the authenticated user's stored messages
// @Tags assistant
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.StatusResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /assistant/history [delete]
func (ctl *AssistantController) DeleteHistory(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "not authenticated"})
		return
	}

	if err := ctl.conversations.DeleteUserHistory(c.Request.Context(), userID); err != nil {
		ctl.logger.Error("error deleting history for user %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "could not delete history"})
		return
	}
	c.JSON(http.StatusOK, dto.StatusResponse{Status: "ok"})
}

func queryInt(c *gin.Context, key string, defaultValue int) int {
	raw := c.Query(key)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return defaultValue
	}
	return value
}
