package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/example/flashdeck/internal/apperr"
)

// pathID parses a positive integer path parameter
func pathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Invalid(name, "must be a positive integer")
	}
	return id, nil
}

func invalidBody(err error) error {
	return apperr.Invalid("body", "%v", err)
}
