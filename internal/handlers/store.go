package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/greenloop/greenloop-backend/internal/services"
	"github.com/greenloop/greenloop-backend/internal/types"
)

type StoreHandler struct {
	storeService services.StoreService
}

func NewStoreHandler(storeService services.StoreService) *StoreHandler {
	return &StoreHandler{storeService: storeService}
}

func (h *StoreHandler) Create(c *gin.Context) {
	var req struct {
		OrganizationID uuid.UUID      `json:"organization_id"`
		Name           string         `json:"name"`
		Address        string         `json:"address"`
		Location       datatypes.JSON `json:"location"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, err)
		return
	}
	store, err := h.storeService.Create(c.Request.Context(), &types.Store{
		OrganizationID: req.OrganizationID,
		Name:           req.Name,
		Address:        req.Address,
		Location:       req.Location,
	})
	if err != nil {
		RespondError(c, http.StatusBadRequest, err)
		return
	}
	RespondCreated(c, store)
}

func (h *StoreHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, err)
		return
	}
	store, err := h.storeService.Get(c.Request.Context(), id)
	if err != nil {
		RespondError(c, http.StatusNotFound, err)
		return
	}
	RespondOK(c, store)
}

func (h *StoreHandler) List(c *gin.Context) {
	limit, offset := parsePagination(c)
	var orgID *uuid.UUID
	if v := c.Query("organization_id"); v != "" {
		parsed, err := uuid.Parse(v)
		if err != nil {
			RespondError(c, http.StatusBadRequest, err)
			return
		}
		orgID = &parsed
	}
	stores, total, err := h.storeService.List(c.Request.Context(), orgID, limit, offset)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, err)
		return
	}
	RespondList(c, stores, total, limit, offset)
}

func (h *StoreHandler) Update(c *gin.Context) {
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
	store, err := h.storeService.Update(c.Request.Context(), id, updates)
	if err != nil {
		RespondError(c, http.StatusBadRequest, err)
		return
	}
	RespondOK(c, store)
}

func (h *StoreHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, err)
		return
	}
	if err := h.storeService.Delete(c.Request.Context(), id); err != nil {
		RespondError(c, http.StatusInternalServerError, err)
		return
	}
	c.Status(http.StatusNoContent)
}
