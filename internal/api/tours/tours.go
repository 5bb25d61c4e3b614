package tours

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	jwtMiddleware "github.com/roamtours/tourdesk/internal/middleware"
	toursService "github.com/roamtours/tourdesk/internal/service/tours"
	storetours "github.com/roamtours/tourdesk/internal/store/tours"
)

type ToursHandler struct {
	log    *zap.Logger
	svc    *toursService.ToursService
	secret string
}

func NewToursHandler(log *zap.Logger, svc *toursService.ToursService, secret string) *ToursHandler {
	return &ToursHandler{log: log, svc: svc, secret: secret}
}

func (h *ToursHandler) Register(r *gin.Engine) {
	// Public catalog routes
	public := r.Group("/v1/tours")
	{
		public.GET("", h.list)
		public.GET("/categories", h.categories)
		public.GET("/:id", h.get)
	}

	// Admin routes
	admin := r.Group("/admin/tours")
	admin.Use(jwtMiddleware.AdminMiddleware(h.secret))
	{
		admin.POST("", h.create)
		admin.PUT("/:id", h.update)
		admin.DELETE("/:id", h.delete)
	}
}

func (h *ToursHandler) list(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	q := c.Query("q")
	category := c.Query("category")

	var minPrice, maxPrice *float64
	if v := c.Query("min_price"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid min_price"})
			return
		}
		minPrice = &p
	}
	if v := c.Query("max_price"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid max_price"})
			return
		}
		maxPrice = &p
	}

	tours, err := h.svc.List(c.Request.Context(), limit, offset, q, category, minPrice, maxPrice)
	if err != nil {
		h.log.Error("List tours failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tours": tours, "limit": limit, "offset": offset})
}

func (h *ToursHandler) categories(c *gin.Context) {
	categories, err := h.svc.Categories(c.Request.Context())
	if err != nil {
		h.log.Error("List categories failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (h *ToursHandler) get(c *gin.Context) {
	id := c.Param("id")
	detail, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, toursService.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Tour not found"})
			return
		}
		h.log.Error("Get tour failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *ToursHandler) create(c *gin.Context) {
	var req storetours.Tour
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tour, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		h.log.Error("Create tour failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusCreated, tour)
}

func (h *ToursHandler) update(c *gin.Context) {
	id := c.Param("id")
	var req storetours.Tour
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.svc.Update(c.Request.Context(), id, &req); err != nil {
		h.log.Error("Update tour failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Tour updated successfully"})
}

func (h *ToursHandler) delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, toursService.ErrHasBookings) {
			c.JSON(http.StatusConflict, gin.H{"error": "Tour has bookings and cannot be deleted"})
			return
		}
		h.log.Error("Delete tour failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Tour deleted successfully"})
}
