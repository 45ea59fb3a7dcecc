package response

import (
	"errors"
	"net/http"

	"mobile-wallet-service/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// The UI consumes bare JSON bodies ({message: ...} and friends), so unlike
// a versioned API there is no envelope here: success helpers write the body
// verbatim and Error adds a stable error_code next to the message.

// ErrorBody is the error payload for every failed request.
type ErrorBody struct {
	Message   string `json:"message"`
	ErrorCode string `json:"error_code"`
}

// OK sends a 200 response with the body as-is.
func OK(c *gin.Context, body interface{}) {
	c.JSON(http.StatusOK, body)
}

// Created sends a 201 response with the body as-is.
func Created(c *gin.Context, body interface{}) {
	c.JSON(http.StatusCreated, body)
}

// Error maps an *apperror.AppError to its HTTP status and stable code.
// Anything else becomes a generic 500 so internal details never leak.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.HTTPStatus, ErrorBody{
			Message:   appErr.Message,
			ErrorCode: appErr.Code,
		})
		return
	}

	c.JSON(http.StatusInternalServerError, ErrorBody{
		Message:   "Internal server error.",
		ErrorCode: "SYS_000",
	})
}
