package v1

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"go-jobboard-backend/pkg/apperror"
	"go-jobboard-backend/pkg/validation"
)

func pathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.BadRequest("Invalid " + name)
	}
	return id, nil
}

func bindJSON(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return apperror.BadRequest(validation.Message(err))
	}
	return nil
}
