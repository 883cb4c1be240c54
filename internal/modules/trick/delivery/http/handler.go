package handler

import (
	"net/http"

	"anoa.com/recipeshare/internal/modules/trick/dto"
	trick "anoa.com/recipeshare/internal/modules/trick/service"
	"anoa.com/recipeshare/pkg/response"
	"github.com/gin-gonic/gin"
)

type TrickHandler struct {
	service trick.TrickService
}

func NewTrickHandler(service trick.TrickService) *TrickHandler {
	return &TrickHandler{service: service}
}

func (h *TrickHandler) CreateTrick(c *gin.Context) {
	var req dto.CreateTrickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindingError(c, err)
		return
	}

	res, err := h.service.CreateTrick(c.Request.Context(), req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

func (h *TrickHandler) GetTrick(c *gin.Context) {
	id, ok := response.ParamID(c, "id")
	if !ok {
		return
	}

	res, err := h.service.GetTrick(c.Request.Context(), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *TrickHandler) GetPublishedTricks(c *gin.Context) {
	tricks, err := h.service.GetPublishedTricks(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, tricks)
}

func (h *TrickHandler) UpdateTrick(c *gin.Context) {
	id, ok := response.ParamID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateTrickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindingError(c, err)
		return
	}

	res, err := h.service.UpdateTrick(c.Request.Context(), id, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *TrickHandler) DeleteTrick(c *gin.Context) {
	id, ok := response.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteTrick(c.Request.Context(), id); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "trick deleted successfully"})
}
