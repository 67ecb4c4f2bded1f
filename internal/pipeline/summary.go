package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dharmasatrya/tripassistant/internal/llm"
	"github.com/dharmasatrya/tripassistant/internal/models"
	"github.com/dharmasatrya/tripassistant/internal/presentation"
	"github.com/dharmasatrya/tripassistant/pkg/currency"
)

// Summarize writes PackageSummary: a fixed message without packages, a
// completion-written comparison otherwise, or FallbackSummary when that fails.
func (p *Pipeline) Summarize(ctx context.Context, s *models.SearchState) {
	if len(s.TravelPackages) == 0 {
		s.PackageSummary = msgNoPackages
		return
	}

	summary, err := p.completeSummary(ctx, s.TravelPackages)
	if err != nil {
		p.logger.Warn("summary fell back", "thread", s.ThreadID, "error", err)
		s.Fail(StepSummary, 0, err)
		s.PackageSummary = FallbackSummary(s.TravelPackages)
		return
	}
	s.PackageSummary = summary
}

func (p *Pipeline) completeSummary(ctx context.Context, packages []models.Package) (string, error) {
	if len(packages) > models.SearchDays {
		packages = packages[:models.SearchDays]
	}

	items := make([]llm.SummaryPackage, 0, len(packages))
	for _, pkg := range packages {
		data, err := json.MarshalIndent(pkg, "", "  ")
		if err != nil {
			return "", err
		}
		items = append(items, llm.SummaryPackage{Index: pkg.PackageID, JSON: string(data)})
	}

	prompt, err := llm.SummaryPrompt(items)
	if err != nil {
		return "", err
	}
	return p.completer.Complete(ctx, prompt, llm.ModeText)
}

// FallbackSummary names the package count and the cheapest total price.
func FallbackSummary(packages []models.Package) string {
	if len(packages) == 0 {
		return msgNoPackages
	}
	cheapest := packages[0]
	for _, pkg := range packages[1:] {
		if pkg.Pricing.TotalMinPrice < cheapest.Pricing.TotalMinPrice {
			cheapest = pkg
		}
	}
	return fmt.Sprintf("I found %d travel packages for your trip. The best deal starts from %s in total.",
		len(packages), currency.Format(cheapest.Pricing.TotalMinPrice, cheapest.Pricing.Currency))
}

// Present renders the turn for clients.
func (p *Pipeline) Present(ctx context.Context, s *models.SearchState) {
	r, err := Render(s)
	if err != nil {
		p.logger.Warn("render failed", "thread", s.ThreadID, "error", err)
		s.Fail(StepPresent, 0, err)
	}
	s.Rendered = &r
}

// Render presents a follow-up question or the packages with their summary.
func Render(s *models.SearchState) (models.Rendering, error) {
	if s.NeedsFollowup || !s.InfoComplete {
		question := ""
		if s.FollowupQuestion != nil {
			question = *s.FollowupQuestion
		}
		html, err := presentation.FollowupHTML(question, s.Extracted())
		return models.Rendering{HTML: html, Markdown: presentation.FollowupMarkdown(question, s.Extracted())}, err
	}

	html, err := presentation.PackagesHTML(s.PackageSummary, s.TravelPackages)
	return models.Rendering{HTML: html, Markdown: presentation.PackagesMarkdown(s.PackageSummary, s.TravelPackages)}, err
}
