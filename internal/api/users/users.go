package users

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	jwtMiddleware "github.com/roamtours/tourdesk/internal/middleware"
	storeusers "github.com/roamtours/tourdesk/internal/store/users"
)

type UsersHandler struct {
	log    *zap.Logger
	repo   *storeusers.UsersRepository
	secret string
}

func NewUsersHandler(log *zap.Logger, repo *storeusers.UsersRepository, secret string) *UsersHandler {
	return &UsersHandler{log: log, repo: repo, secret: secret}
}

func (h *UsersHandler) Register(r *gin.Engine) {
	admin := r.Group("/admin/users")
	admin.Use(jwtMiddleware.AdminMiddleware(h.secret))
	{
		admin.GET("", h.list)
		admin.GET("/:id", h.get)
		admin.PUT("/:id/role", h.setRole)
		admin.DELETE("/:id", h.delete)
	}
}

func (h *UsersHandler) list(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	users, err := h.repo.List(c.Request.Context(), limit, offset)
	if err != nil {
		h.log.Error("List users failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "limit": limit, "offset": offset})
}

func (h *UsersHandler) get(c *gin.Context) {
	user, err := h.repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.log.Error("Get user failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UsersHandler) setRole(c *gin.Context) {
	var req struct {
		Role string `json:"role" binding:"required,oneof=user admin"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.repo.SetRole(c.Request.Context(), c.Param("id"), req.Role); err != nil {
		h.log.Error("Set user role failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Role updated successfully"})
}

func (h *UsersHandler) delete(c *gin.Context) {
	if err := h.repo.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.log.Error("Delete user failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}
