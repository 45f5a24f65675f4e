package handlers

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/greenloop/greenloop-backend/internal/logger"
	"github.com/greenloop/greenloop-backend/internal/repos"
	"github.com/greenloop/greenloop-backend/internal/requestdata"
	"github.com/greenloop/greenloop-backend/internal/services"
)

type RecycleHistoryHandler struct {
	log               *logger.Logger
	historyService    services.HistoryService
	submissionService services.SubmissionService
}

func NewRecycleHistoryHandler(
	log *logger.Logger,
	historyService services.HistoryService,
	submissionService services.SubmissionService,
) *RecycleHistoryHandler {
	return &RecycleHistoryHandler{
		log:               log.With("handler", "RecycleHistoryHandler"),
		historyService:    historyService,
		submissionService: submissionService,
	}
}

func (h *RecycleHistoryHandler) List(c *gin.Context) {
	limit, offset := parsePagination(c)
	filter := repos.HistoryFilter{}
	if v := c.Query("user_id"); v != "" {
		parsed, err := uuid.Parse(v)
		if err != nil {
			RespondError(c, http.StatusBadRequest, err)
			return
		}
		filter.UserID = &parsed
	}
	if v := c.Query("bin_id"); v != "" {
		parsed, err := uuid.Parse(v)
		if err != nil {
			RespondError(c, http.StatusBadRequest, err)
			return
		}
		filter.BinID = &parsed
	}
	histories, total, err := h.historyService.List(c.Request.Context(), filter, limit, offset)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, err)
		return
	}
	RespondList(c, histories, total, limit, offset)
}

type submitRequest struct {
	BinID      string `json:"binId"`
	TotalCount int    `json:"totalCount"`
	MediaURL   string `json:"mediaUrl"`
}

// validate returns per-field problems; an empty map means the shape is fine.
func (r *submitRequest) validate() (uuid.UUID, map[string]string) {
	details := map[string]string{}
	binID, err := uuid.Parse(r.BinID)
	if err != nil {
		details["binId"] = "must be a valid uuid"
	}
	if r.TotalCount < 1 {
		details["totalCount"] = "must be an integer >= 1"
	}
	if parsed, err := url.ParseRequestURI(r.MediaURL); err != nil || parsed.Scheme == "" || parsed.Host == "" {
		details["mediaUrl"] = "must be a valid url"
	}
	return binID, details
}

// POST /api/recycle-histories/submit
func (h *RecycleHistoryHandler) Submit(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "Validation failed",
			"details": gin.H{"body": "invalid request body"},
		})
		return
	}
	binID, details := req.validate()
	if len(details) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "Validation failed",
			"details": details,
		})
		return
	}

	result, err := h.submissionService.Submit(c.Request.Context(), rd.UserID, services.SubmitInput{
		BinID:      binID,
		TotalCount: req.TotalCount,
		MediaURL:   req.MediaURL,
	})
	if err != nil {
		h.respondSubmitError(c, err)
		return
	}

	history := result.History
	material := result.Bin.Material
	c.JSON(http.StatusCreated, gin.H{
		"message": "Submission accepted",
		"data": gin.H{
			"id":           history.ID,
			"pointsEarned": history.Points,
			"totalCount":   history.TotalCount,
			"material":     material,
			"store":        result.Bin.Store,
			"rewardRule":   material.RewardRule,
			"recycledAt":   history.RecycledAt,
			"mediaUrl":     history.MediaURL,
		},
	})
}

func (h *RecycleHistoryHandler) respondSubmitError(c *gin.Context, err error) {
	var subErr *services.SubmissionError
	if errors.As(err, &subErr) {
		switch subErr {
		case services.ErrBinNotFound, services.ErrBinNotActive:
			c.JSON(subErr.Status, gin.H{"error": subErr.Message})
		default:
			c.JSON(subErr.Status, gin.H{
				"errorType":    subErr.ErrorType,
				"errorMessage": subErr.Message,
			})
		}
		return
	}
	h.log.Error("Submission failed", "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error"})
}
