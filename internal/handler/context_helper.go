package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appErrors "github.com/fatih-calik/dersdagitim-sub001/pkg/errors"
)

// paramInt64 parses a numeric path parameter.
func paramInt64(c *gin.Context, name string) (int64, error) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "invalid "+name+" parameter")
	}
	return id, nil
}
