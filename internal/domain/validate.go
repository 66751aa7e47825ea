package domain

import (
	"fmt"
	"strings"

	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/internal/common"
)

func requireText(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s must not be empty", common.ErrInvalidRequest, field)
	}
	return nil
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", common.ErrInvalidRequest, fmt.Sprintf(format, args...))
}
