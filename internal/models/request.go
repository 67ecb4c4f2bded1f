package models

import "strings"

type ChatRequest struct {
	ThreadID string `json:"thread_id"`
	UserMsg  string `json:"user_msg"`
}

func (r *ChatRequest) Validate() error {
	r.ThreadID = strings.TrimSpace(r.ThreadID)
	if r.ThreadID == "" {
		return ErrMissingThreadID
	}
	if strings.TrimSpace(r.UserMsg) == "" {
		return ErrEmptyMessage
	}
	r.UserMsg = strings.TrimSpace(r.UserMsg)
	return nil
}

type ValidationError string

func (e ValidationError) Error() string {
	return string(e)
}

const (
	ErrMissingThreadID ValidationError = "thread_id is required"
	ErrEmptyMessage    ValidationError = "user_msg cannot be empty"
)
