package vouchers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	jwtMiddleware "github.com/roamtours/tourdesk/internal/middleware"
	vouchersService "github.com/roamtours/tourdesk/internal/service/vouchers"
	storevouchers "github.com/roamtours/tourdesk/internal/store/vouchers"
)

type VouchersHandler struct {
	log    *zap.Logger
	svc    *vouchersService.VouchersService
	secret string
}

func NewVouchersHandler(log *zap.Logger, svc *vouchersService.VouchersService, secret string) *VouchersHandler {
	return &VouchersHandler{log: log, svc: svc, secret: secret}
}

func (h *VouchersHandler) Register(r *gin.Engine) {
	protected := r.Group("/v1/vouchers")
	protected.Use(jwtMiddleware.UserMiddleware(h.secret))
	{
		protected.POST("/redeem", h.redeem)
	}

	admin := r.Group("/admin/vouchers")
	admin.Use(jwtMiddleware.AdminMiddleware(h.secret))
	{
		admin.GET("", h.list)
		admin.POST("", h.create)
		admin.DELETE("/:id", h.delete)
	}
}

func (h *VouchersHandler) redeem(c *gin.Context) {
	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	voucher, err := h.svc.Redeem(c.Request.Context(), req.Code)
	if err != nil {
		switch {
		case errors.Is(err, vouchersService.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Voucher not found"})
		case errors.Is(err, vouchersService.ErrNotStarted),
			errors.Is(err, vouchersService.ErrExpired),
			errors.Is(err, storevouchers.ErrExhausted):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			h.log.Error("Redeem voucher failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": voucher.Code, "percent_off": voucher.PercentOff})
}

func (h *VouchersHandler) list(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	vouchers, err := h.svc.List(c.Request.Context(), limit, offset)
	if err != nil {
		h.log.Error("List vouchers failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"vouchers": vouchers, "limit": limit, "offset": offset})
}

func (h *VouchersHandler) create(c *gin.Context) {
	var req storevouchers.Voucher
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	voucher, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		h.log.Error("Create voucher failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusCreated, voucher)
}

func (h *VouchersHandler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.log.Error("Delete voucher failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Voucher deleted successfully"})
}
