package reviews

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	jwtMiddleware "github.com/roamtours/tourdesk/internal/middleware"
	reviewsService "github.com/roamtours/tourdesk/internal/service/reviews"
	storereviews "github.com/roamtours/tourdesk/internal/store/reviews"
)

type ReviewsHandler struct {
	log    *zap.Logger
	svc    *reviewsService.ReviewsService
	secret string
}

func NewReviewsHandler(log *zap.Logger, svc *reviewsService.ReviewsService, secret string) *ReviewsHandler {
	return &ReviewsHandler{log: log, svc: svc, secret: secret}
}

func (h *ReviewsHandler) Register(r *gin.Engine) {
	r.GET("/v1/tours/:id/reviews", h.listByTour)

	protected := r.Group("/v1/tours/:id/reviews")
	protected.Use(jwtMiddleware.UserMiddleware(h.secret))
	{
		protected.POST("", h.create)
	}

	admin := r.Group("/admin/reviews")
	admin.Use(jwtMiddleware.AdminMiddleware(h.secret))
	{
		admin.DELETE("/:id", h.delete)
	}
}

func (h *ReviewsHandler) listByTour(c *gin.Context) {
	tourID := c.Param("id")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	reviews, err := h.svc.ListByTour(c.Request.Context(), tourID, limit, offset)
	if err != nil {
		h.log.Error("List reviews failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews, "limit": limit, "offset": offset})
}

func (h *ReviewsHandler) create(c *gin.Context) {
	userID := c.GetString("uid")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req struct {
		Rating  int    `json:"rating" binding:"required"`
		Comment string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := h.svc.Create(c.Request.Context(), &storereviews.Review{
		TourID:  c.Param("id"),
		UserID:  userID,
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		if errors.Is(err, reviewsService.ErrBadRating) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.log.Error("Create review failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusCreated, review)
}

func (h *ReviewsHandler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.log.Error("Delete review failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Review deleted successfully"})
}
