package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/greenloop/greenloop-backend/internal/services"
	"github.com/greenloop/greenloop-backend/internal/types"
)

type MaterialHandler struct {
	materialService services.MaterialService
}

func NewMaterialHandler(materialService services.MaterialService) *MaterialHandler {
	return &MaterialHandler{materialService: materialService}
}

func (h *MaterialHandler) Create(c *gin.Context) {
	var req struct {
		Name       string                    `json:"name"`
		RewardRule *services.RewardRuleInput `json:"reward_rule"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, err)
		return
	}
	material, err := h.materialService.Create(c.Request.Context(), &types.Material{Name: req.Name}, req.RewardRule)
	if err != nil {
		// Rule validation failures (zero unit included) land here.
		RespondError(c, http.StatusUnprocessableEntity, err)
		return
	}
	RespondCreated(c, material)
}

func (h *MaterialHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, err)
		return
	}
	material, err := h.materialService.Get(c.Request.Context(), id)
	if err != nil {
		RespondError(c, http.StatusNotFound, err)
		return
	}
	RespondOK(c, material)
}

func (h *MaterialHandler) List(c *gin.Context) {
	limit, offset := parsePagination(c)
	materials, total, err := h.materialService.List(c.Request.Context(), limit, offset)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, err)
		return
	}
	RespondList(c, materials, total, limit, offset)
}

func (h *MaterialHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, err)
		return
	}
	var req struct {
		Name       *string                   `json:"name"`
		RewardRule *services.RewardRuleInput `json:"reward_rule"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, err)
		return
	}
	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	material, err := h.materialService.Update(c.Request.Context(), id, updates, req.RewardRule)
	if err != nil {
		RespondError(c, http.StatusUnprocessableEntity, err)
		return
	}
	RespondOK(c, material)
}

func (h *MaterialHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, err)
		return
	}
	if err := h.materialService.Delete(c.Request.Context(), id); err != nil {
		RespondError(c, http.StatusInternalServerError, err)
		return
	}
	c.Status(http.StatusNoContent)
}
