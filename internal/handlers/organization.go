package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/greenloop/greenloop-backend/internal/services"
	"github.com/greenloop/greenloop-backend/internal/types"
)

type OrganizationHandler struct {
	orgService services.OrganizationService
}

func NewOrganizationHandler(orgService services.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{orgService: orgService}
}

func (h *OrganizationHandler) Create(c *gin.Context) {
	var req struct {
		Name               string `json:"name"`
		RegistrationNumber string `json:"registration_number"`
		ContactEmail       string `json:"contact_email"`
		ContactPhone       string `json:"contact_phone"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, err)
		return
	}
	org, err := h.orgService.Create(c.Request.Context(), &types.Organization{
		Name:               req.Name,
		RegistrationNumber: req.RegistrationNumber,
		ContactEmail:       req.ContactEmail,
		ContactPhone:       req.ContactPhone,
	})
	if err != nil {
		RespondError(c, http.StatusBadRequest, err)
		return
	}
	RespondCreated(c, org)
}

func (h *OrganizationHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, err)
		return
	}
	org, err := h.orgService.Get(c.Request.Context(), id)
	if err != nil {
		RespondError(c, http.StatusNotFound, err)
		return
	}
	RespondOK(c, org)
}

func (h *OrganizationHandler) List(c *gin.Context) {
	limit, offset := parsePagination(c)
	orgs, total, err := h.orgService.List(c.Request.Context(), limit, offset)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, err)
		return
	}
	RespondList(c, orgs, total, limit, offset)
}

func (h *OrganizationHandler) Update(c *gin.Context) {
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
	org, err := h.orgService.Update(c.Request.Context(), id, updates)
	if err != nil {
		RespondError(c, http.StatusBadRequest, err)
		return
	}
	RespondOK(c, org)
}

func (h *OrganizationHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, err)
		return
	}
	if err := h.orgService.Delete(c.Request.Context(), id); err != nil {
		RespondError(c, http.StatusInternalServerError, err)
		return
	}
	c.Status(http.StatusNoContent)
}
