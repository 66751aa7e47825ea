package handler

import (
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/common"
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/middleware"
	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/service"
	"github.com/gin-gonic/gin"
)

// UserHandler handles account removal
type UserHandler struct {
	service *service.LifecycleService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(s *service.LifecycleService) *UserHandler {
	return &UserHandler{service: s}
}

// Delete handles DELETE /api/v1/users/:id
// @Summary Delete user
// @Description Removes the account; authored content stays without author
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} common.APIResponse
// @Failure 403 {object} common.APIResponse
// @Security BearerAuth
// @Router /users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteUser(c.Request.Context(), middleware.GetViewer(c), id); err != nil {
		fail(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"deleted": id}, nil)
}
