package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/goalgrid-backend/internal/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (uh *UserHandler) GetMe(c *gin.Context) {
	user, err := uh.userService.GetMe(c.Request.Context())
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, user)
}

func (uh *UserHandler) UpdateName(c *gin.Context) {
	var req struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	user, err := uh.userService.UpdateName(c.Request.Context(), req.FirstName, req.LastName)
	if err != nil {
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, user)
}
