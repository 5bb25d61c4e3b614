package bookings

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	jwtMiddleware "github.com/roamtours/tourdesk/internal/middleware"
	bookingsService "github.com/roamtours/tourdesk/internal/service/bookings"
)

type BookingsHandler struct {
	log    *zap.Logger
	svc    *bookingsService.BookingsService
	secret string
}

func NewBookingsHandler(log *zap.Logger, svc *bookingsService.BookingsService, secret string) *BookingsHandler {
	return &BookingsHandler{log: log, svc: svc, secret: secret}
}

func (h *BookingsHandler) Register(r *gin.Engine) {
	// Protected routes
	protected := r.Group("/v1/bookings")
	protected.Use(jwtMiddleware.UserMiddleware(h.secret))
	{
		protected.POST("", h.create)
	}

	// Admin routes
	admin := r.Group("/admin/bookings")
	admin.Use(jwtMiddleware.AdminMiddleware(h.secret))
	{
		admin.GET("", h.list)
		admin.GET("/export", h.export)
		admin.GET("/:id", h.get)
		admin.POST("/:id/status", h.updateStatus)
		admin.POST("/import", h.importLegacy)
	}
}

func (h *BookingsHandler) create(c *gin.Context) {
	userID := c.GetString("uid")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user id"})
		return
	}

	var req bookingsService.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.svc.Create(c.Request.Context(), userID, req)
	if err != nil {
		if errors.Is(err, bookingsService.ErrTourNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Tour not found"})
			return
		}
		h.log.Error("Create booking failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *BookingsHandler) list(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(bookingsService.DefaultPageSize)))

	f := bookingsService.Filter{
		Query:      c.Query("q"),
		DateFilter: c.DefaultQuery("date_filter", bookingsService.DateFilterAll),
		Status:     c.Query("status"),
		Category:   c.Query("category"),
	}
	if v := c.Query("min_price"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid min_price"})
			return
		}
		f.MinPrice = &p
	}
	if v := c.Query("max_price"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid max_price"})
			return
		}
		f.MaxPrice = &p
	}

	res, err := h.svc.List(c.Request.Context(), f, page, pageSize)
	if err != nil {
		h.log.Error("List bookings failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *BookingsHandler) export(c *gin.Context) {
	from, err := time.Parse("2006-01-02", c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from must be YYYY-MM-DD"})
		return
	}
	to, err := time.Parse("2006-01-02", c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to must be YYYY-MM-DD"})
		return
	}
	// Range is inclusive of the whole "to" day.
	to = to.AddDate(0, 0, 1).Add(-time.Nanosecond)

	views, err := h.svc.ExportRange(c.Request.Context(), from, to)
	if err != nil {
		h.log.Error("Export bookings failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": views, "count": len(views)})
}

func (h *BookingsHandler) get(c *gin.Context) {
	id := c.Param("id")
	view, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, bookingsService.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
			return
		}
		h.log.Error("Get booking failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *BookingsHandler) updateStatus(c *gin.Context) {
	id := c.Param("id")

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.svc.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, bookingsService.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		case errors.Is(err, bookingsService.ErrUnknownStatus):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, bookingsService.ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			h.log.Error("Update booking status failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *BookingsHandler) importLegacy(c *gin.Context) {
	var req struct {
		Records []json.RawMessage `json:"records" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	res, err := h.svc.Import(c.Request.Context(), req.Records)
	if err != nil {
		h.log.Error("Legacy import failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, res)
}
