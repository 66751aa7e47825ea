package common

import (
	"errors"
	"net/http"

	"github.com/FootprintsForFreedom/FootprintsForFreedomBackend-sub000/pkg/i18n"
	"github.com/gin-gonic/gin"
)

// APIResponse standard API response structure
type APIResponse struct {
	Data  interface{} `json:"data"`
	Meta  *Meta       `json:"meta,omitempty"`
	Error *ErrorInfo  `json:"error,omitempty"`
}

// Meta pagination metadata
type Meta struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
}

// NewMeta creates Meta with computed total_pages
func NewMeta(page, perPage int, total int64) *Meta {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	totalPages := total / int64(perPage)
	if total%int64(perPage) > 0 {
		totalPages++
	}
	return &Meta{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}
}

// ErrorInfo error details
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// SuccessResponse returns a successful JSON response
func SuccessResponse(c *gin.Context, data interface{}, meta *Meta) {
	c.JSON(http.StatusOK, APIResponse{
		Data: data,
		Meta: meta,
	})
}

// CreatedResponse returns a 201 JSON response
func CreatedResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Data: data})
}

// ErrorResponse returns an error JSON response
func ErrorResponse(c *gin.Context, status int, message string, err error) {
	errInfo := &ErrorInfo{
		Code:    getErrorCode(status, err),
		Message: message,
	}
	if err != nil && status < http.StatusInternalServerError {
		errInfo.Details = err.Error()
	}

	c.JSON(status, APIResponse{Error: errInfo})
}

// LocaleKey is the gin context key holding the message locale
const LocaleKey = "locale"

// HandleError maps a service error to the matching status and writes the error envelope
// with a message in the caller's locale
func HandleError(c *gin.Context, err error, privileged bool) {
	status := StatusCode(err, privileged)
	if status == http.StatusNotFound {
		// invisible repositories are indistinguishable from missing ones
		err = ErrNotFound
	}
	code := getErrorCode(status, err)
	message := i18n.Default().T(i18n.Locale(c.GetString(LocaleKey)), messageKey(code))
	if status == http.StatusInternalServerError {
		err = nil
	}
	ErrorResponse(c, status, message, err)
}

func messageKey(code string) string {
	switch code {
	case "STALE_EDIT":
		return "error.stale_edit"
	case "ALREADY_VERIFIED":
		return "error.already_verified"
	case "NOT_VISIBLE":
		return "error.not_visible"
	case "BAD_REQUEST":
		return "error.bad_request"
	case "UNAUTHORIZED":
		return "error.unauthorized"
	case "FORBIDDEN":
		return "error.forbidden"
	case "NOT_FOUND":
		return "error.not_found"
	case "RATE_LIMITED":
		return "error.rate_limited"
	default:
		return "error.internal"
	}
}

// getErrorCode generates error code from HTTP status
func getErrorCode(status int, err error) string {
	switch {
	case errors.Is(err, ErrStaleEdit):
		return "STALE_EDIT"
	case errors.Is(err, ErrAlreadyVerified):
		return "ALREADY_VERIFIED"
	case errors.Is(err, ErrNotVisible) && status == http.StatusConflict:
		return "NOT_VISIBLE"
	}
	switch status {
	case 400:
		return "BAD_REQUEST"
	case 401:
		return "UNAUTHORIZED"
	case 403:
		return "FORBIDDEN"
	case 404:
		return "NOT_FOUND"
	case 409:
		return "CONFLICT"
	case 429:
		return "RATE_LIMITED"
	case 500:
		return "INTERNAL_SERVER_ERROR"
	default:
		return "ERROR"
	}
}
