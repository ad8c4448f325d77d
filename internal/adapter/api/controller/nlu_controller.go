package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rmcastle/fieldops/internal/adapter/api/dto"
	"github.com/rmcastle/fieldops/pkg/assistant"
	"github.com/rmcastle/fieldops/pkg/logger"
)

// NLUController exposes the two NLU stages and the combined pipeline
type NLUController struct {
	manager *assistant.Manager
	logger  logger.Logger
}

// NewNLUController creates the NLU controller
func NewNLUController(manager *assistant.Manager, log logger.Logger) *NLUController {
	return &NLUController{manager: manager, logger: log}
}

// ClassifyIntent godoc
// @Summary Classify a command's intent
// @Description Maps one free-text command to a supported action name with a confidence score
// @Tags nlu
// @Accept json
// @Produce json
// @Param request body dto.ClassifyIntentRequest true "Command to classify"
// @Success 200 {object} dto.ClassifyIntentResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /nlu/classify-intent [post]
func (ctl *NLUController) ClassifyIntent(c *gin.Context) {
	var req dto.ClassifyIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	cctx, err := req.ParsedContext()
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	result, err := ctl.manager.Classifier().Classify(c.Request.Context(), req.Command, cctx)
	if err != nil {
		ctl.logger.Error("error classifying intent: %v", err)
		c.JSON(http.StatusBadGateway, dto.ErrorResponse{Error: "could not classify the command"})
		return
	}

	c.JSON(http.StatusOK, dto.ClassifyIntentResponse{
		Action:     result.Action,
		Confidence: result.Confidence,
		Reasoning:  result.Reasoning,
	})
}

// ExtractParams godoc
// @Summary Extract an action's parameters from a command
// @Description Fills the action's declared fields from free text and lists required fields still missing
// @Tags nlu
// @Accept json
// @Produce json
// @Param request body dto.ExtractParamsRequest true "Command and confirmed action"
// @Success 200 {object} dto.ExtractParamsResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /nlu/extract-params [post]
func (ctl *NLUController) ExtractParams(c *gin.Context) {
	var req dto.ExtractParamsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	result, err := ctl.manager.Extractor().Extract(c.Request.Context(), req.Command, req.Action, req.Context)
	if err != nil {
		ctl.logger.Error("error extracting parameters: %v", err)
		c.JSON(http.StatusBadGateway, dto.ErrorResponse{Error: "could not extract parameters"})
		return
	}

	c.JSON(http.StatusOK, dto.ExtractParamsResponse{
		Parameters:      result.Parameters,
		MissingRequired: result.MissingRequired,
		Confidence:      result.Confidence,
	})
}

// ParseCommand godoc
// @Summary Run both NLU stages on a command
// @Description Classifies then extracts in one call and normalizes the combined result
// @Tags nlu
// @Accept json
// @Produce json
// @Param request body dto.ParseCommandRequest true "Command to parse"
// @Success 200 {object} dto.ParseCommandResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /nlu/parse-command [post]
func (ctl *NLUController) ParseCommand(c *gin.Context) {
	var req dto.ParseCommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	result, err := ctl.manager.ParseCommand(c.Request.Context(), req.Command, req.Context)
	if err != nil {
		ctl.logger.Error("error parsing command: %v", err)
		c.JSON(http.StatusBadGateway, dto.ErrorResponse{Error: "could not parse the command"})
		return
	}

	c.JSON(http.StatusOK, dto.ParseCommandResponse{
		Action:          result.Action,
		Confidence:      result.Confidence,
		Reasoning:       result.Reasoning,
		Parameters:      result.Parameters,
		MissingRequired: result.MissingRequired,
	})
}
