package pipeline

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/dharmasatrya/tripassistant/internal/llm"
	"github.com/dharmasatrya/tripassistant/internal/models"
	"github.com/dharmasatrya/tripassistant/internal/timezone"
)

const roundTrip = "round_trip"

var (
	iataToken = regexp.MustCompile(`\b[A-Z]{3}\b`)
	bareCode  = regexp.MustCompile(`^[A-Za-z]{3}$`)
)

var cityCodes = map[string]string{
	"new york":    "JFK",
	"nyc":         "JFK",
	"los angeles": "LAX",
	"la":          "LAX",
	"chicago":     "ORD",
	"london":      "LHR",
	"paris":       "CDG",
	"tokyo":       "NRT",
	"dubai":       "DXB",
	"amsterdam":   "AMS",
	"frankfurt":   "FRA",
	"madrid":      "MAD",
	"rome":        "FCO",
	"barcelona":   "BCN",
	"milan":       "MXP",
	"zurich":      "ZRH",
	"cairo":       "CAI",
}

var cabinTypes = map[string]bool{
	"ECONOMY":         true,
	"PREMIUM_ECONOMY": true,
	"BUSINESS":        true,
	"FIRST":           true,
}

// Normalize converts the candidate fields into provider codes. Completion
// failures fall back to deterministic rules; an unusable departure date
// degrades the turn to a follow-up.
//
// Reads Origin, Destination, DepartureDate and CabinClass. Writes the
// normalized fields.
func (p *Pipeline) Normalize(ctx context.Context, s *models.SearchState) {
	if s.Origin == nil || s.Destination == nil || s.DepartureDate == nil {
		p.degrade(s, StepNormalize, fmt.Errorf("missing validated fields"), msgNormalizeFail)
		return
	}
	date, err := timezone.ParseDate(*s.DepartureDate)
	if err != nil {
		p.degrade(s, StepNormalize, err, msgNormalizeFail)
		return
	}

	s.OriginCode = p.locationCode(ctx, *s.Origin)
	s.DestinationCode = p.locationCode(ctx, *s.Destination)
	s.NormalizedDepartureDate = date.Format(timezone.DateLayout)
	s.NormalizedCabin = "ECONOMY"
	if s.CabinClass != nil {
		s.NormalizedCabin = p.cabin(ctx, *s.CabinClass)
	}
	s.NormalizedTripType = roundTrip
}

// NormalizeLocation resolves a location without the completion service:
// bare codes pass through, then the city table, then the first three letters.
func NormalizeLocation(location string) string {
	loc := strings.TrimSpace(location)
	if bareCode.MatchString(loc) {
		return strings.ToUpper(loc)
	}
	if code, ok := cityCodes[strings.ToLower(strings.Join(strings.Fields(loc), " "))]; ok {
		return code
	}
	if r := []rune(loc); len(r) > 3 {
		loc = string(r[:3])
	}
	return strings.ToUpper(loc)
}

func (p *Pipeline) locationCode(ctx context.Context, location string) string {
	loc := strings.TrimSpace(location)
	if bareCode.MatchString(loc) {
		return strings.ToUpper(loc)
	}

	prompt, err := llm.AirportPrompt(loc)
	if err == nil {
		var answer string
		answer, err = p.completer.Complete(ctx, prompt, llm.ModeText)
		if err == nil {
			if code := airportCode(answer); code != "" {
				return code
			}
			err = fmt.Errorf("no airport code in %q", answer)
		}
	}

	code := NormalizeLocation(loc)
	p.logger.Warn("airport lookup fell back", "location", loc, "code", code, "error", err)
	return code
}

// airportCode takes the first uppercase three-letter token of a completion,
// accepting a lone lowercase code as well.
func airportCode(answer string) string {
	if code := iataToken.FindString(answer); code != "" {
		return code
	}
	if a := strings.TrimSpace(answer); bareCode.MatchString(a) {
		return strings.ToUpper(a)
	}
	return ""
}

// FallbackCabin maps free text to a cabin type by substring.
func FallbackCabin(cabin string) string {
	c := strings.ToLower(cabin)
	switch {
	case strings.Contains(c, "economy"), strings.Contains(c, "eco"), strings.Contains(c, "coach"):
		return "ECONOMY"
	case strings.Contains(c, "business"), strings.Contains(c, "biz"):
		return "BUSINESS"
	case strings.Contains(c, "first"):
		return "FIRST"
	default:
		return "ECONOMY"
	}
}

func (p *Pipeline) cabin(ctx context.Context, cabin string) string {
	prompt, err := llm.CabinPrompt(cabin)
	if err == nil {
		var answer string
		answer, err = p.completer.Complete(ctx, prompt, llm.ModeText)
		if err == nil {
			normalized := strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(answer)), " ", "_")
			if cabinTypes[normalized] {
				return normalized
			}
			err = fmt.Errorf("unrecognized cabin %q", answer)
		}
	}

	fallback := FallbackCabin(cabin)
	p.logger.Warn("cabin lookup fell back", "cabin", cabin, "normalized", fallback, "error", err)
	return fallback
}
