package util

import (
	"net/http"

	"github.com/salaheddineREZIG/TheBrilliantEmporium/internal/apperr"

	"github.com/gin-gonic/gin"
)

// Response is the data payload of a successful reply.
type Response map[string]interface{}

// Business codes carried alongside the HTTP status.
const (
	CodeOK           = 0
	CodeInvalidParam = 40001
	CodeAuth         = 40101
	CodeNotFound     = 40401
	CodeDuplicate    = 40901
	CodeConflict     = 40902
	CodeServerErr    = 50001
)

// Success writes the unified success envelope.
func Success(c *gin.Context, data Response) {
	c.JSON(http.StatusOK, gin.H{
		"code": CodeOK,
		"data": data,
	})
}

// Error writes the unified error envelope.
func Error(c *gin.Context, httpStatus int, code int, msg string) {
	c.JSON(httpStatus, gin.H{
		"code":    code,
		"message": msg,
	})
}

// Fail translates a typed engine failure into the error envelope.
// Unrecognized errors become opaque 500s so internals never leak.
func Fail(c *gin.Context, err error) {
	switch {
	case apperr.IsValidation(err):
		Error(c, http.StatusBadRequest, CodeInvalidParam, err.Error())
	case apperr.IsNotFound(err):
		Error(c, http.StatusNotFound, CodeNotFound, err.Error())
	case apperr.IsDuplicate(err):
		Error(c, http.StatusConflict, CodeDuplicate, err.Error())
	case apperr.IsConflict(err):
		Error(c, http.StatusConflict, CodeConflict, err.Error())
	default:
		Error(c, http.StatusInternalServerError, CodeServerErr, "internal error")
	}
}
