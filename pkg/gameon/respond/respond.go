// Package respond writes domain errors as JSON responses.
package respond

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/gargrave/gameon-server/pkg/gameon/errors"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}

// Error writes err with the status that matches its code. Internal errors are
// attached to the gin context for the request logger and their message is
// not sent to the client.
func Error(c *gin.Context, err error) {
	var domainErr *errors.Error
	if !errors.As(err, &domainErr) {
		domainErr = errors.Internal("internal server error", err)
	}

	status := domainErr.Code.HTTPStatus()
	body := ErrorResponse{
		Error:   domainErr.Message,
		Code:    string(domainErr.Code),
		Details: domainErr.Details,
	}
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		body.Error = "internal server error"
	}
	c.JSON(status, body)
}

// Abort is Error followed by c.Abort, for middleware.
func Abort(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}

// BadRequest reports a malformed request body or parameter as a validation error.
func BadRequest(c *gin.Context, msg string) {
	Error(c, errors.Validation(msg))
}

// ParamID parses a numeric path parameter. On failure it writes a 400 and
// reports false.
func ParamID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		BadRequest(c, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}
