package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/greenloop/greenloop-backend/internal/repos"
	"github.com/greenloop/greenloop-backend/internal/services"
	"github.com/greenloop/greenloop-backend/internal/types"
)

type BinHandler struct {
	binService services.BinService
}

func NewBinHandler(binService services.BinService) *BinHandler {
	return &BinHandler{binService: binService}
}

func (h *BinHandler) Create(c *gin.Context) {
	var req struct {
		Label      string    `json:"label"`
		Status     string    `json:"status"`
		MaterialID uuid.UUID `json:"material_id"`
		StoreID    uuid.UUID `json:"store_id"`
		CapacityL  int       `json:"capacity_l"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, err)
		return
	}
	bin, err := h.binService.Create(c.Request.Context(), &types.Bin{
		Label:      req.Label,
		Status:     req.Status,
		MaterialID: req.MaterialID,
		StoreID:    req.StoreID,
		CapacityL:  req.CapacityL,
	})
	if err != nil {
		RespondError(c, http.StatusBadRequest, err)
		return
	}
	RespondCreated(c, bin)
}

func (h *BinHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, err)
		return
	}
	bin, err := h.binService.Get(c.Request.Context(), id)
	if err != nil {
		RespondError(c, http.StatusNotFound, err)
		return
	}
	RespondOK(c, bin)
}

func (h *BinHandler) List(c *gin.Context) {
	limit, offset := parsePagination(c)
	filter := repos.BinFilter{Status: c.Query("status")}
	if v := c.Query("store_id"); v != "" {
		parsed, err := uuid.Parse(v)
		if err != nil {
			RespondError(c, http.StatusBadRequest, err)
			return
		}
		filter.StoreID = &parsed
	}
	if v := c.Query("material_id"); v != "" {
		parsed, err := uuid.Parse(v)
		if err != nil {
			RespondError(c, http.StatusBadRequest, err)
			return
		}
		filter.MaterialID = &parsed
	}
	bins, total, err := h.binService.List(c.Request.Context(), filter, limit, offset)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, err)
		return
	}
	RespondList(c, bins, total, limit, offset)
}

func (h *BinHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, err)
		return
	}
	var updates map[string]interface{}
	if err := c.ShouldBindJSON(&updates); err != nil {
		RespondError(c, http.StatusBadRequest, err)
		return
	}
	bin, err := h.binService.Update(c.Request.Context(), id, updates)
	if err != nil {
		RespondError(c, http.StatusBadRequest, err)
		return
	}
	RespondOK(c, bin)
}

func (h *BinHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, err)
		return
	}
	if err := h.binService.Delete(c.Request.Context(), id); err != nil {
		RespondError(c, http.StatusInternalServerError, err)
		return
	}
	c.Status(http.StatusNoContent)
}
