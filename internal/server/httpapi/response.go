package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"carsapi/internal/common"
)

// APIResponse is the uniform envelope every endpoint returns. Code
// mirrors the HTTP status so clients can branch without reading headers.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Message string      `json:"message"`
	Code    int         `json:"code"`
}

func respond(c *gin.Context, httpStatus int, success bool, message string, data interface{}) {
	if message == "" {
		if success {
			message = "ok"
		} else {
			message = http.StatusText(httpStatus)
		}
	}

	resp := APIResponse{
		Success: success,
		Message: message,
		Code:    httpStatus,
	}

	if data == nil {
		resp.Data = gin.H{}
	} else {
		resp.Data = data
	}

	c.JSON(httpStatus, resp)
}

func respondSuccess(c *gin.Context, httpStatus int, data interface{}, message string) {
	respond(c, httpStatus, true, message, data)
}

func respondError(c *gin.Context, httpStatus int, message string, data interface{}) {
	respond(c, httpStatus, false, message, data)
}

// respondErr maps the error taxonomy onto HTTP statuses. Validation and
// duplicate errors carry their itemized details in the data field.
func respondErr(c *gin.Context, err error) {
	details := common.Details(err)
	var data interface{}
	if len(details) > 0 {
		data = gin.H{"errors": details}
	}

	switch {
	case errors.Is(err, common.ErrValidation):
		respondError(c, http.StatusBadRequest, "validation failed", data)
	case errors.Is(err, common.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, "invalid credentials", nil)
	case errors.Is(err, common.ErrUnauthenticated), errors.Is(err, common.ErrInvalidToken):
		respondError(c, http.StatusUnauthorized, "authentication required", nil)
	case errors.Is(err, common.ErrForbidden):
		respondError(c, http.StatusForbidden, "forbidden", nil)
	case errors.Is(err, common.ErrNotFound):
		respondError(c, http.StatusNotFound, "not found", nil)
	case errors.Is(err, common.ErrDuplicate):
		respondError(c, http.StatusConflict, "duplicate", data)
	default:
		respondError(c, http.StatusInternalServerError, "internal error", nil)
	}
}
