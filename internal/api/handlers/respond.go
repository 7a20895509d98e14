package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/courtlog/handball-tracker/pkg/utils"
)

// intParam reads an integer path parameter, answering the request
// itself when the value does not parse.
func intParam(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil {
		utils.SendValidationError(c, "Invalid "+name, c.Param(name)+" is not a number")
		return 0, false
	}
	return v, true
}

// respondError maps a service error to the right HTTP status and the
// standard error envelope.
func respondError(c *gin.Context, err error) {
	var appErr *utils.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case utils.ErrCodeNotFound:
			utils.SendError(c, http.StatusNotFound, appErr)
		case utils.ErrCodeValidation:
			utils.SendError(c, http.StatusBadRequest, appErr)
		case utils.ErrCodeMalformedData:
			utils.SendError(c, http.StatusUnprocessableEntity, appErr)
		case utils.ErrCodeMatchFinished, utils.ErrCodeConflict:
			utils.SendError(c, http.StatusConflict, appErr)
		case utils.ErrCodeUnauthorized:
			utils.SendError(c, http.StatusUnauthorized, appErr)
		case utils.ErrCodeForbidden:
			utils.SendError(c, http.StatusForbidden, appErr)
		default:
			utils.SendError(c, http.StatusInternalServerError, appErr)
		}
		return
	}
	utils.SendInternalError(c, err.Error())
}
