package ginutil

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ErrInvalidID is returned for ids that are missing, malformed or zero
var ErrInvalidID = errors.New("invalid id")

// QueryInt reads a non-negative integer query parameter, defaultValue when absent or malformed
func QueryInt(c *gin.Context, key string, defaultValue int) int {
	value, err := strconv.Atoi(c.Query(key))
	if err != nil || value < 0 {
		return defaultValue
	}
	return value
}

// ParamID reads a database id from the path
func ParamID(c *gin.Context, key string) (uint64, error) {
	return parseID(c.Param(key))
}

// QueryID reads a required database id from the query string
func QueryID(c *gin.Context, key string) (uint64, error) {
	return parseID(c.Query(key))
}

func parseID(s string) (uint64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}
