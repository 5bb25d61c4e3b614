package dashboard

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	jwtMiddleware "github.com/roamtours/tourdesk/internal/middleware"
	statsService "github.com/roamtours/tourdesk/internal/service/stats"
)

type DashboardHandler struct {
	log    *zap.Logger
	svc    *statsService.StatsService
	secret string
}

func NewDashboardHandler(log *zap.Logger, svc *statsService.StatsService, secret string) *DashboardHandler {
	return &DashboardHandler{log: log, svc: svc, secret: secret}
}

func (h *DashboardHandler) Register(r *gin.Engine) {
	admin := r.Group("/admin/dashboard")
	admin.Use(jwtMiddleware.AdminMiddleware(h.secret))
	{
		admin.GET("/monthly", h.monthly)
		admin.GET("/summary", h.summary)
	}
}

func (h *DashboardHandler) monthly(c *gin.Context) {
	now := time.Now()
	month, _ := strconv.Atoi(c.DefaultQuery("month", strconv.Itoa(int(now.Month()))))
	year, _ := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(now.Year())))
	if month < 1 || month > 12 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month must be between 1 and 12"})
		return
	}
	if year < 2000 || year > 2100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "year out of range"})
		return
	}

	series, err := h.svc.Monthly(c.Request.Context(), time.Month(month), year)
	if err != nil {
		h.log.Error("Monthly dashboard failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, series)
}

func (h *DashboardHandler) summary(c *gin.Context) {
	summary, err := h.svc.Summary(c.Request.Context())
	if err != nil {
		h.log.Error("Summary dashboard failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, summary)
}
