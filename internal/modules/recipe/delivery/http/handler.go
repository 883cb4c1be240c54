package handler

import (
	"errors"
	"fmt"
	"net/http"

	"anoa.com/recipeshare/internal/modules/recipe/dto"
	recipe "anoa.com/recipeshare/internal/modules/recipe/service"
	"anoa.com/recipeshare/pkg/apperror"
	"anoa.com/recipeshare/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
)

type RecipeHandler struct {
	service        recipe.RecipeService
	maxUploadBytes int64
}

// NewRecipeHandler creates the handler. A maxUploadBytes of 0 disables the size check.
func NewRecipeHandler(service recipe.RecipeService, maxUploadBytes int64) *RecipeHandler {
	return &RecipeHandler{service: service, maxUploadBytes: maxUploadBytes}
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req dto.CreateRecipeRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BindingError(c, err)
		return
	}

	var image *dto.ImageFile
	if c.ContentType() == binding.MIMEMultipartPOSTForm {
		fileHeader, err := c.FormFile("image")
		switch {
		case errors.Is(err, http.ErrMissingFile):
		case err != nil:
			response.ResponseError(c, apperror.Validation("invalid image upload"))
			return
		default:
			if h.maxUploadBytes > 0 && fileHeader.Size > h.maxUploadBytes {
				response.ResponseError(c, apperror.Validation(fmt.Sprintf("image must be at most %d bytes", h.maxUploadBytes)))
				return
			}

			file, err := fileHeader.Open()
			if err != nil {
				response.ResponseError(c, apperror.Validation("failed to read image"))
				return
			}
			defer file.Close()

			image = &dto.ImageFile{Reader: file, FileName: fileHeader.Filename}
		}
	}

	res, err := h.service.CreateRecipe(c.Request.Context(), req, image)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, res)
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, ok := response.ParamID(c, "id")
	if !ok {
		return
	}

	res, err := h.service.GetRecipe(c.Request.Context(), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// GetPublishedRecipes serves both /recipes?category={id} and /recipes/{category_id}.
func (h *RecipeHandler) GetPublishedRecipes(c *gin.Context) {
	raw := c.Param("category_id")
	if raw == "" {
		raw = c.Query("category")
	}

	var categoryID *uuid.UUID
	if raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			response.ResponseError(c, apperror.Validation("invalid category id"))
			return
		}
		categoryID = &id
	}

	recipes, err := h.service.GetPublishedRecipes(c.Request.Context(), categoryID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, recipes)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, ok := response.ParamID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindingError(c, err)
		return
	}

	res, err := h.service.UpdateRecipe(c.Request.Context(), id, req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, ok := response.ParamID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteRecipe(c.Request.Context(), id); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "recipe deleted successfully"})
}
