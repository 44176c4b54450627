package transport

import (
	"net/http"
	"strconv"

	"github.com/eventure-dev/eventure-api/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// UpsertUser syncs a user on login: creates on first sight, refreshes
// the profile on every later one. Role and status are never touched
// here.
func (h *UserHandler) UpsertUser(c *gin.Context) {
	var req service.UpsertUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Message: err.Error()})
		return
	}

	user, err := h.userService.UpsertUser(c.Request.Context(), &req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) GetAllUsers(c *gin.Context) {
	users, err := h.userService.GetAllUsers(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}

// GetUserRole returns the role and status of a user looked up by email
func (h *UserHandler) GetUserRole(c *gin.Context) {
	email := c.Param("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Message: "email is required"})
		return
	}

	user, err := h.userService.GetUserByEmail(c.Request.Context(), email)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"role":   user.Role,
		"status": user.Status,
	})
}

// RequestManager flags the user as wanting the manager role. A repeat
// request reports modifiedCount 0 rather than an error.
func (h *UserHandler) RequestManager(c *gin.Context) {
	email := c.Param("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Message: "email is required"})
		return
	}

	modified, err := h.userService.RequestManager(c.Request.Context(), email)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"modifiedCount": modified})
}

// ApproveManager promotes a requested user to manager
func (h *UserHandler) ApproveManager(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Message: "invalid user id"})
		return
	}

	modified, err := h.userService.ApproveManager(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"modifiedCount": modified})
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Success: false, Message: "invalid user id"})
		return
	}

	deleted, err := h.userService.DeleteUser(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}

	if !deleted {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "User not deleted"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "User deleted successfully"})
}
