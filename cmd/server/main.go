package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"

	"github.com/dharmasatrya/tripassistant/internal/app"
	"github.com/dharmasatrya/tripassistant/internal/config"
	"github.com/dharmasatrya/tripassistant/internal/handler"
	"github.com/dharmasatrya/tripassistant/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "server",
	Short: "Serve the trip assistant HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		return serve(path)
	},
}

func init() {
	rootCmd.Flags().String("config", "", "Path to a config file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func serve(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := logging.New(logging.ParseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.Build(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	defer a.Close()

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestID())

	chatHandler := handler.NewChatHandler(a.Store, a.Graph, cfg.MissingKeys(), logger)
	chatHandler.Register(e)
	e.GET("/metrics", echo.WrapHandler(a.Metrics.Handler()))

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting trip assistant", "port", cfg.Port, "llm", cfg.LLMProvider, "currency", cfg.Currency)
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server stopped: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
