package response

import (
	"net/http"

	"anoa.com/recipeshare/pkg/apperror"
	"anoa.com/recipeshare/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ParamID parses a uuid path parameter, writing a 400 response when it is malformed.
func ParamID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name, "kind": apperror.KindValidation})
		return uuid.Nil, false
	}
	return id, true
}

// ResponseError standardized error response
func ResponseError(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)

	// Log internal errors
	if code == http.StatusInternalServerError {
		logrus.WithError(err).WithField("path", c.FullPath()).Error("internal error")
		c.JSON(code, gin.H{"error": apperror.ErrInternal.Error(), "kind": apperror.KindInternal})
		return
	}

	c.JSON(code, gin.H{"error": err.Error(), "kind": apperror.KindOf(err)})
}

// BindingError reports a request that failed gin binding or validation.
func BindingError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error": validator.FormatValidationError(err),
		"kind":  apperror.KindValidation,
	})
}
