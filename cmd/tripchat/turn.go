package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/dharmasatrya/tripassistant/internal/app"
	"github.com/dharmasatrya/tripassistant/internal/models"
	"github.com/dharmasatrya/tripassistant/internal/pipeline"
)

// turn runs one message through the pipeline and records both sides of the
// exchange in the thread's history. A failed run records an apology.
func turn(ctx context.Context, a *app.App, threadID, message string) (*models.SearchState, error) {
	if err := a.Store.Append(ctx, threadID, models.RoleUser, message); err != nil {
		return nil, err
	}
	history, err := a.Store.Get(ctx, threadID)
	if err != nil {
		return nil, err
	}

	s := models.NewSearchState(threadID, history, message)
	if err := a.Graph.Run(ctx, s); err != nil {
		if appendErr := a.Store.Append(ctx, threadID, models.RoleAssistant, pipeline.TurnFailedMessage); appendErr != nil {
			return s, errors.Join(err, appendErr)
		}
		return s, err
	}

	reply := s.PackageSummary
	if s.NeedsFollowup || !s.InfoComplete {
		reply = ""
		if s.FollowupQuestion != nil {
			reply = *s.FollowupQuestion
		}
	}
	return s, a.Store.Append(ctx, threadID, models.RoleAssistant, reply)
}

// markdown renders a finished turn for the terminal.
func markdown(s *models.SearchState) string {
	if s.Rendered != nil && s.Rendered.Markdown != "" {
		return s.Rendered.Markdown
	}
	r, _ := pipeline.Render(s)
	return r.Markdown
}

// newPrinter styles markdown with glamour unless --plain is set.
func newPrinter(cmd *cobra.Command) func(string) {
	plain, _ := cmd.Flags().GetBool("plain")
	var r *glamour.TermRenderer
	if !plain {
		r, _ = glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	}

	out := cmd.OutOrStdout()
	return func(md string) {
		if r != nil {
			if styled, err := r.Render(md); err == nil {
				fmt.Fprint(out, styled)
				return
			}
		}
		fmt.Fprintln(out, strings.TrimSpace(md))
	}
}
