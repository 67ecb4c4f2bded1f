// Package pipeline implements the conversation-to-search state machine: the
// steps that evolve a SearchState and the graph that sequences them.
package pipeline

import (
	"log/slog"
	"time"

	"github.com/dharmasatrya/tripassistant/internal/aggregator"
	"github.com/dharmasatrya/tripassistant/internal/llm"
	"github.com/dharmasatrya/tripassistant/internal/metrics"
	"github.com/dharmasatrya/tripassistant/internal/providers"
)

const (
	StepIntake        = "intake"
	StepValidate      = "validate"
	StepNormalize     = "normalize"
	StepBuildRequest  = "build_request"
	StepToken         = "token"
	StepFlights       = "flight_search"
	StepHotelLocation = "hotel_location"
	StepHotels        = "hotel_search"
	StepPackages      = "package_assembly"
	StepSummary       = "summary"
	StepPresent       = "present"
)

// Fan-out width for the per-day and per-stay searches.
const maxParallel = 3

// MaxHotelIDs caps how many hotels are priced per stay window.
const MaxHotelIDs = 20

const defaultCurrency = "EGP"

// User-facing messages for degraded turns.
const (
	msgNoCredential  = "I need a language model API key before I can help with your trip."
	msgMisunderstood = "I had trouble understanding. Could you please tell me your departure city, destination, and preferred travel date?"
	msgTechnical     = "I'm having technical difficulties. Please try again with your flight details."
	msgNormalizeFail = "Sorry, I had trouble processing your flight information. Please try again."
	msgHotelLookup   = "Sorry, I had trouble finding hotels in your city. Please try again later."
	msgNoPackages    = "No travel packages found for your search. Please try different dates or destinations."
)

// TurnFailedMessage is recorded as the assistant reply when a turn aborts, so
// the thread never ends on an unanswered user message.
const TurnFailedMessage = "Sorry, something went wrong while handling your message. Please try again."

type Config struct {
	Completer   llm.Completer
	Provider    providers.TravelProvider
	Credentials providers.Credentials
	// Currency for flight and hotel prices. Defaults to EGP.
	Currency string
	// TaskTimeout bounds each provider call inside a fan-out.
	TaskTimeout time.Duration
	Now         func() time.Time
	Logger      *slog.Logger
	Metrics     *metrics.Metrics
}

// Pipeline holds the collaborators shared by every step. Steps never return
// errors; failures degrade the SearchState instead.
type Pipeline struct {
	completer   llm.Completer
	provider    providers.TravelProvider
	credentials providers.Credentials
	currency    string
	fanout      aggregator.Config
	now         func() time.Time
	logger      *slog.Logger
	metrics     *metrics.Metrics
}

func New(cfg Config) *Pipeline {
	p := &Pipeline{
		completer:   cfg.Completer,
		provider:    cfg.Provider,
		credentials: cfg.Credentials,
		currency:    cfg.Currency,
		fanout:      aggregator.Config{Limit: maxParallel, Timeout: cfg.TaskTimeout},
		now:         cfg.Now,
		logger:      cfg.Logger,
		metrics:     cfg.Metrics,
	}
	if p.currency == "" {
		p.currency = defaultCurrency
	}
	if p.now == nil {
		p.now = time.Now
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}
