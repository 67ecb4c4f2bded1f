package pipeline

import (
	"context"
	"strings"

	"github.com/dharmasatrya/tripassistant/internal/models"
	"github.com/dharmasatrya/tripassistant/internal/timezone"
)

type requiredField struct {
	name     string
	question string
	missing  func(*models.SearchState) bool
}

// requiredFields is ordered by follow-up priority.
var requiredFields = []requiredField{
	{"origin", "Which city are you flying from?", func(s *models.SearchState) bool { return s.Origin == nil }},
	{"destination", "Which city would you like to fly to?", func(s *models.SearchState) bool { return s.Destination == nil }},
	{"departure_date", "What is your departure date? (YYYY-MM-DD)", func(s *models.SearchState) bool { return s.DepartureDate == nil }},
	{"duration", "How many days will you be staying?", func(s *models.SearchState) bool { return s.Duration == nil }},
	{"cabin_class", "Which cabin class would you like: economy, premium economy, business, or first?", func(s *models.SearchState) bool { return s.CabinClass == nil }},
}

// Validate decides whether the five required fields are present and usable.
// A departure date that does not parse as YYYY-MM-DD or lies before today is
// cleared. A non-positive duration is cleared.
//
// Reads and may clear the candidate fields. Writes InfoComplete,
// NeedsFollowup, FollowupQuestion and RequestType.
func (p *Pipeline) Validate(ctx context.Context, s *models.SearchState) {
	s.Origin = known(s.Origin)
	s.Destination = known(s.Destination)
	s.CabinClass = known(s.CabinClass)

	if s.DepartureDate != nil {
		d, err := timezone.ParseDate(*s.DepartureDate)
		if err != nil || timezone.IsPast(d, p.now()) {
			p.logger.Debug("discarding departure date", "thread", s.ThreadID, "date", *s.DepartureDate)
			s.DepartureDate = nil
		} else {
			s.DepartureDate = models.StringPtr(d.Format(timezone.DateLayout))
		}
	}
	if s.Duration != nil && *s.Duration <= 0 {
		s.Duration = nil
	}

	for _, f := range requiredFields {
		if !f.missing(s) {
			continue
		}
		question := f.question
		if s.FollowupQuestion != nil && strings.TrimSpace(*s.FollowupQuestion) != "" {
			question = *s.FollowupQuestion
		}
		s.AskFollowup(question)
		return
	}

	s.InfoComplete = true
	s.NeedsFollowup = false
	s.FollowupQuestion = nil
	if s.RequestType == "" {
		s.RequestType = models.RequestFlights
	}
}

// MissingFields lists absent required fields in follow-up priority order.
func MissingFields(s *models.SearchState) []string {
	var missing []string
	for _, f := range requiredFields {
		if f.missing(s) {
			missing = append(missing, f.name)
		}
	}
	return missing
}
