// Package conversation keeps per-thread message history.
package conversation

import (
	"context"
	"errors"

	"github.com/dharmasatrya/tripassistant/internal/models"
)

const SystemPrompt = "You are a friendly travel assistant that helps people plan flights and hotel stays. " +
	"Collect the trip details conversationally, accept casual place names, loose date formats and abbreviations, " +
	"and keep the exchange short."

var ErrEmptyThreadID = errors.New("thread id is required")

// Store is safe for concurrent use by multiple request handlers.
type Store interface {
	// Get returns a copy of the thread's messages in insertion order.
	Get(ctx context.Context, threadID string) ([]models.Message, error)
	// Append adds a message, seeding the system prompt when the thread is new.
	Append(ctx context.Context, threadID string, role models.Role, content string) error
	Clear(ctx context.Context, threadID string) error
	ListThreads(ctx context.Context) ([]string, error)
}
