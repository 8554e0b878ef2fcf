package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"psyscore/internal/domain"
	"psyscore/internal/norms"
	"psyscore/internal/service"
)

// AssessmentHandler mantiene dependencias para los endpoints de scoring.
type AssessmentHandler struct {
	logger        *zap.Logger
	assessments   *service.AssessmentService
	questionnaire *service.QuestionnaireService
	norms         *norms.Table
}

func NewAssessmentHandler(
	logger *zap.Logger,
	assessments *service.AssessmentService,
	questionnaire *service.QuestionnaireService,
	table *norms.Table,
) *AssessmentHandler {
	return &AssessmentHandler{
		logger:        logger,
		assessments:   assessments,
		questionnaire: questionnaire,
		norms:         table,
	}
}

// Score maneja POST /score.
func (h *AssessmentHandler) Score(c *gin.Context) {
	var req domain.ScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid score request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	result, err := h.assessments.Preview(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, "score failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result})
}

// ScoreBatch maneja POST /score/batch.
func (h *AssessmentHandler) ScoreBatch(c *gin.Context) {
	var req struct {
		Requests []domain.ScoreRequest `json:"requests" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid batch request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	results, err := h.assessments.ScoreBatch(c.Request.Context(), req.Requests)
	if err != nil {
		h.writeError(c, "batch score failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// Submit maneja POST /assessments.
func (h *AssessmentHandler) Submit(c *gin.Context) {
	var req domain.ScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid submit request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	assessment, err := h.assessments.Submit(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, "submit failed", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"assessment": assessment})
}

// Get maneja GET /assessments/:id.
func (h *AssessmentHandler) Get(c *gin.Context) {
	assessment, err := h.assessments.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, "get assessment failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"assessment": assessment})
}

// Similar maneja GET /assessments/:id/similar?limit=N.
func (h *AssessmentHandler) Similar(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = n
	}
	similar, err := h.assessments.Similar(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		h.writeError(c, "similar assessments failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"similar": similar})
}

// Norms maneja GET /norms.
func (h *AssessmentHandler) Norms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"norms": h.norms.Document()})
}

// Questionnaire maneja GET /questionnaire?tier=basic|standard|comprehensive.
func (h *AssessmentHandler) Questionnaire(c *gin.Context) {
	tier := domain.ParseTier(c.Query("tier"))
	c.JSON(http.StatusOK, gin.H{"tier": tier, "items": h.questionnaire.Questionnaire(tier)})
}

// ScoreAnswers maneja POST /questionnaire/score.
func (h *AssessmentHandler) ScoreAnswers(c *gin.Context) {
	var sheet domain.AnswerSheet
	if err := c.ShouldBindJSON(&sheet); err != nil {
		h.logger.Warn("invalid answer sheet", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	req := domain.ScoreRequest{Meta: sheet.Meta, Responses: h.questionnaire.BuildResponses(sheet.Answers)}
	result, err := h.assessments.Preview(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, "score answers failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result})
}

func (h *AssessmentHandler) writeError(c *gin.Context, msg string, err error) {
	switch {
	case errors.Is(err, service.ErrAssessmentInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
	case errors.Is(err, service.ErrBatchTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "batch too large"})
	case errors.Is(err, service.ErrAssessmentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "assessment not found"})
	case errors.Is(err, service.ErrAssessmentRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many submissions"})
	case errors.Is(err, service.ErrPersistenceDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "persistence not configured"})
	default:
		h.logger.Error(msg, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
