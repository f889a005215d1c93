package util

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Detail string `json:"detail" example:"Appointment not found"`
}

// APIErrorParams carries the client-facing message and the underlying error.
// Err is attached to the gin context for logging and never sent to the client.
type APIErrorParams struct {
	Msg string
	Err error
}

func callError(c *gin.Context, status int, params APIErrorParams) {
	if params.Err != nil {
		_ = c.Error(params.Err)
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Detail: params.Msg})
}

// CallUserError is for return error from user side
func CallUserError(c *gin.Context, params APIErrorParams) {
	callError(c, http.StatusBadRequest, params)
}

// CallErrorNotFound is for return API response not found
func CallErrorNotFound(c *gin.Context, params APIErrorParams) {
	callError(c, http.StatusNotFound, params)
}

// CallUserNotAuthorized answers 401, used for missing or malformed credentials.
func CallUserNotAuthorized(c *gin.Context, params APIErrorParams) {
	callError(c, http.StatusUnauthorized, params)
}

// CallForbidden answers 403, used for credentials that were presented but rejected.
func CallForbidden(c *gin.Context, params APIErrorParams) {
	callError(c, http.StatusForbidden, params)
}

// CallUnprocessable answers 422 for bodies that fail binding or validation.
func CallUnprocessable(c *gin.Context, params APIErrorParams) {
	callError(c, http.StatusUnprocessableEntity, params)
}

func CallTooManyRequests(c *gin.Context, params APIErrorParams) {
	callError(c, http.StatusTooManyRequests, params)
}

// CallServerError is for return API response server error
func CallServerError(c *gin.Context, params APIErrorParams) {
	callError(c, http.StatusInternalServerError, params)
}

// CallSuccessOK writes body with status 200.
func CallSuccessOK(c *gin.Context, body any) {
	c.JSON(http.StatusOK, body)
}
