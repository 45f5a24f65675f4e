package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/greenloop/greenloop-backend/internal/services"
	"github.com/greenloop/greenloop-backend/internal/types"
)

type CouponHandler struct {
	couponService services.CouponService
}

func NewCouponHandler(couponService services.CouponService) *CouponHandler {
	return &CouponHandler{couponService: couponService}
}

func (h *CouponHandler) Create(c *gin.Context) {
	var req struct {
		Title     string         `json:"title"`
		PointCost int            `json:"point_cost"`
		Stock     int            `json:"stock"`
		ValidFrom time.Time      `json:"valid_from"`
		ValidTo   time.Time      `json:"valid_to"`
		Metadata  datatypes.JSON `json:"metadata"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, err)
		return
	}
	coupon, err := h.couponService.Create(c.Request.Context(), &types.Coupon{
		Title:     req.Title,
		PointCost: req.PointCost,
		Stock:     req.Stock,
		ValidFrom: req.ValidFrom,
		ValidTo:   req.ValidTo,
		Metadata:  req.Metadata,
	})
	if err != nil {
		RespondError(c, http.StatusBadRequest, err)
		return
	}
	RespondCreated(c, coupon)
}

func (h *CouponHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, err)
		return
	}
	coupon, err := h.couponService.Get(c.Request.Context(), id)
	if err != nil {
		RespondError(c, http.StatusNotFound, err)
		return
	}
	RespondOK(c, coupon)
}

func (h *CouponHandler) List(c *gin.Context) {
	limit, offset := parsePagination(c)
	coupons, total, err := h.couponService.List(c.Request.Context(), limit, offset)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, err)
		return
	}
	RespondList(c, coupons, total, limit, offset)
}

func (h *CouponHandler) Update(c *gin.Context) {
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
	coupon, err := h.couponService.Update(c.Request.Context(), id, updates)
	if err != nil {
		RespondError(c, http.StatusBadRequest, err)
		return
	}
	RespondOK(c, coupon)
}

func (h *CouponHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, err)
		return
	}
	if err := h.couponService.Delete(c.Request.Context(), id); err != nil {
		RespondError(c, http.StatusInternalServerError, err)
		return
	}
	c.Status(http.StatusNoContent)
}
