package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dharmasatrya/tripassistant/internal/models"
)

func pricedPackage(id int, total float64) models.Package {
	return models.Package{
		PackageID: id,
		Pricing:   models.PackagePricing{FlightPrice: total, TotalMinPrice: total, Currency: "EGP"},
	}
}

func TestFallbackSummary(t *testing.T) {
	got := FallbackSummary([]models.Package{pricedPackage(1, 1500), pricedPackage(2, 1150.5), pricedPackage(3, 2000)})
	assert.Equal(t, "I found 3 travel packages for your trip. The best deal starts from EGP 1,150.50 in total.", got)
	assert.Equal(t, msgNoPackages, FallbackSummary(nil))
}

func TestSummarizeWithoutPackages(t *testing.T) {
	c := &fakeCompleter{summary: "unused"}
	p := newTestPipeline(c, &fakeProvider{})
	s := completeState()

	p.Summarize(context.Background(), s)

	assert.Equal(t, msgNoPackages, s.PackageSummary)
	assert.Zero(t, c.count("Summarize these"))
}

func TestSummarizeUsesCompletion(t *testing.T) {
	c := &fakeCompleter{summary: "Package 2 is the best value."}
	p := newTestPipeline(c, &fakeProvider{})
	s := completeState()
	s.TravelPackages = []models.Package{pricedPackage(1, 100), pricedPackage(2, 90)}

	p.Summarize(context.Background(), s)

	assert.Equal(t, "Package 2 is the best value.", s.PackageSummary)
	require.Len(t, c.prompts, 1)
	assert.Contains(t, c.prompts[0], "Package 2:")
	assert.Contains(t, c.prompts[0], `"total_min_price": 90`)
}

func TestSummarizeFallsBack(t *testing.T) {
	p := newTestPipeline(&fakeCompleter{err: errors.New("rate limited")}, &fakeProvider{})
	s := completeState()
	s.TravelPackages = []models.Package{pricedPackage(1, 100)}

	p.Summarize(context.Background(), s)

	assert.Equal(t, FallbackSummary(s.TravelPackages), s.PackageSummary)
	require.Len(t, s.Failures, 1)
	assert.Equal(t, StepSummary, s.Failures[0].Step)
}

func TestRenderFollowup(t *testing.T) {
	s := completeState()
	s.AskFollowup("Which cabin?")

	r, err := Render(s)
	require.NoError(t, err)
	assert.Contains(t, r.HTML, "Which cabin?")
	assert.Contains(t, r.Markdown, "Which cabin?")
}
