package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/dharmasatrya/tripassistant/internal/conversation"
	"github.com/dharmasatrya/tripassistant/internal/models"
	"github.com/dharmasatrya/tripassistant/internal/pipeline"
)

// Runner executes one conversation turn over a fresh SearchState.
type Runner interface {
	Run(ctx context.Context, s *models.SearchState) error
}

type ChatHandler struct {
	store       conversation.Store
	runner      Runner
	missingKeys []string
	logger      *slog.Logger
}

func NewChatHandler(store conversation.Store, runner Runner, missingKeys []string, logger *slog.Logger) *ChatHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChatHandler{
		store:       store,
		runner:      runner,
		missingKeys: missingKeys,
		logger:      logger,
	}
}

func (h *ChatHandler) Register(e *echo.Echo) {
	e.GET("/", h.Root)
	e.GET("/health", h.Health)

	api := e.Group("/api")
	api.POST("/chat", h.Chat)
	api.POST("/reset/:thread_id", h.Reset)
	api.GET("/threads", h.Threads)
}

func (h *ChatHandler) Chat(c echo.Context) error {
	startTime := time.Now()
	ctx := c.Request().Context()

	var req models.ChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "Failed to parse request body: " + err.Error(),
			Code:    http.StatusBadRequest,
		})
	}

	if err := req.Validate(); err != nil {
		return c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
			Code:    http.StatusBadRequest,
		})
	}

	if err := h.store.Append(ctx, req.ThreadID, models.RoleUser, req.UserMsg); err != nil {
		return h.storeError(c, err)
	}
	history, err := h.store.Get(ctx, req.ThreadID)
	if err != nil {
		return h.storeError(c, err)
	}

	turnID := uuid.NewString()
	logger := h.logger.With("thread", req.ThreadID, "turn", turnID)
	logger.Info("turn started", "messages", len(history))

	s := models.NewSearchState(req.ThreadID, history, req.UserMsg)
	if err := h.runner.Run(ctx, s); err != nil {
		logger.Error("turn failed", "error", err, "trace", s.Trace)
		if err := h.store.Append(ctx, req.ThreadID, models.RoleAssistant, pipeline.TurnFailedMessage); err != nil {
			logger.Warn("record failed turn", "error", err)
		}
		return c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "pipeline_error",
			Message: "Failed to process message: " + err.Error(),
			Code:    http.StatusInternalServerError,
		})
	}

	status, reply := outcome(s)
	if err := h.store.Append(ctx, req.ThreadID, models.RoleAssistant, reply); err != nil {
		return h.storeError(c, err)
	}

	rendered := s.Rendered
	if rendered == nil {
		r, err := pipeline.Render(s)
		if err != nil {
			logger.Warn("render failed", "error", err)
		}
		rendered = &r
	}

	elapsed := time.Since(startTime)
	logger.Info("turn finished", "status", status, "packages", len(s.TravelPackages), "failures", len(s.Failures), "elapsed", elapsed)

	return c.JSON(http.StatusOK, models.ChatResponse{
		ThreadID:      req.ThreadID,
		Status:        status,
		Message:       reply,
		HTML:          rendered.HTML,
		ExtractedInfo: s.Extracted(),
		Packages:      s.TravelPackages,
		Metadata: models.ChatMetadata{
			TurnID:          turnID,
			PackagesFound:   len(s.TravelPackages),
			SearchTimeMs:    elapsed.Milliseconds(),
			Failures:        s.Failures,
			Trace:           s.Trace,
			OriginCode:      s.OriginCode,
			DestinationCode: s.DestinationCode,
			FlightSearch:    s.FlightSearch,
			HotelSearch:     s.HotelSearch,
		},
	})
}

// outcome picks the assistant reply: the follow-up question for an incomplete
// turn, otherwise the package summary.
func outcome(s *models.SearchState) (models.ResponseStatus, string) {
	if s.NeedsFollowup || !s.InfoComplete {
		question := "Could you tell me a bit more about your trip?"
		if s.FollowupQuestion != nil {
			question = *s.FollowupQuestion
		}
		return models.StatusFollowup, question
	}
	return models.StatusResults, s.PackageSummary
}

func (h *ChatHandler) storeError(c echo.Context, err error) error {
	code := http.StatusInternalServerError
	if errors.Is(err, conversation.ErrEmptyThreadID) {
		code = http.StatusBadRequest
	}
	return c.JSON(code, models.ErrorResponse{
		Error:   "conversation_error",
		Message: err.Error(),
		Code:    code,
	})
}

func (h *ChatHandler) Reset(c echo.Context) error {
	threadID := c.Param("thread_id")
	if err := h.store.Clear(c.Request().Context(), threadID); err != nil {
		return h.storeError(c, err)
	}
	h.logger.Info("thread reset", "thread", threadID)
	return c.JSON(http.StatusOK, models.ResetResponse{
		ThreadID: threadID,
		Message:  "Conversation reset",
	})
}

func (h *ChatHandler) Threads(c echo.Context) error {
	threads, err := h.store.ListThreads(c.Request().Context())
	if err != nil {
		return h.storeError(c, err)
	}
	return c.JSON(http.StatusOK, models.ThreadsResponse{
		Threads: threads,
		Count:   len(threads),
	})
}

func (h *ChatHandler) Health(c echo.Context) error {
	threads, err := h.store.ListThreads(c.Request().Context())
	if err != nil {
		return h.storeError(c, err)
	}
	status := "healthy"
	if len(h.missingKeys) > 0 {
		status = "warning"
	}
	return c.JSON(http.StatusOK, models.HealthResponse{
		Status:      status,
		MissingKeys: h.missingKeys,
		Threads:     len(threads),
	})
}

func (h *ChatHandler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"message": "Trip assistant API",
		"chat":    "POST /api/chat",
	})
}
