package suppliers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	jwtMiddleware "github.com/roamtours/tourdesk/internal/middleware"
	storesuppliers "github.com/roamtours/tourdesk/internal/store/suppliers"
)

type SuppliersHandler struct {
	log    *zap.Logger
	repo   *storesuppliers.SuppliersRepository
	secret string
}

func NewSuppliersHandler(log *zap.Logger, repo *storesuppliers.SuppliersRepository, secret string) *SuppliersHandler {
	return &SuppliersHandler{log: log, repo: repo, secret: secret}
}

func (h *SuppliersHandler) Register(r *gin.Engine) {
	admin := r.Group("/admin/suppliers")
	admin.Use(jwtMiddleware.AdminMiddleware(h.secret))
	{
		admin.GET("", h.list)
		admin.GET("/:id", h.get)
		admin.POST("", h.create)
		admin.PUT("/:id", h.update)
		admin.DELETE("/:id", h.delete)
	}
}

func (h *SuppliersHandler) list(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	suppliers, err := h.repo.List(c.Request.Context(), limit, offset)
	if err != nil {
		h.log.Error("List suppliers failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"suppliers": suppliers, "limit": limit, "offset": offset})
}

func (h *SuppliersHandler) get(c *gin.Context) {
	supplier, err := h.repo.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.log.Error("Get supplier failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if supplier == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Supplier not found"})
		return
	}
	c.JSON(http.StatusOK, supplier)
}

func (h *SuppliersHandler) create(c *gin.Context) {
	var req storesuppliers.Supplier
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	supplier, err := h.repo.Create(c.Request.Context(), &req)
	if err != nil {
		h.log.Error("Create supplier failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusCreated, supplier)
}

func (h *SuppliersHandler) update(c *gin.Context) {
	var req storesuppliers.Supplier
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.repo.Update(c.Request.Context(), c.Param("id"), &req); err != nil {
		h.log.Error("Update supplier failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Supplier updated successfully"})
}

func (h *SuppliersHandler) delete(c *gin.Context) {
	if err := h.repo.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.log.Error("Delete supplier failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Supplier deleted successfully"})
}
