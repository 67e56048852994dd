package handler

import (
	"errors"

	apperrors "github.com/healthecon360/analytics-api/pkg/errors"
)

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// StatusForError resolves the HTTP status for a service error,
// honoring typed application errors and falling back otherwise.
func StatusForError(err error, fallback int) int {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode()
	}
	return fallback
}
