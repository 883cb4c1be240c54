package handler

import (
	"net/http"

	"anoa.com/recipeshare/internal/modules/user/dto"
	user "anoa.com/recipeshare/internal/modules/user/service"
	"anoa.com/recipeshare/pkg/response"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	service user.UserService
}

func NewUserHandler(service user.UserService) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindingError(c, err)
		return
	}

	res, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := response.ParamID(c, "id")
	if !ok {
		return
	}

	res, err := h.service.GetUser(c.Request.Context(), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := response.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteUser(c.Request.Context(), id); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "user deleted successfully"})
}
