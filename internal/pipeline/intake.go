package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/dharmasatrya/tripassistant/internal/llm"
	"github.com/dharmasatrya/tripassistant/internal/models"
)

// optionalInt accepts a JSON number, a numeric string, or null. Anything else
// decodes as unknown rather than failing the whole object.
type optionalInt struct {
	Value *int
}

func (o *optionalInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		v := int(math.Round(n))
		o.Value = &v
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if v, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			o.Value = &v
		}
	}
	return nil
}

type intakeResult struct {
	DepartureDate    *string     `json:"departure_date"`
	Origin           *string     `json:"origin"`
	Destination      *string     `json:"destination"`
	CabinClass       *string     `json:"cabin_class"`
	Duration         optionalInt `json:"duration"`
	FollowupQuestion *string     `json:"followup_question"`
	NeedsFollowup    *bool       `json:"needs_followup"`
	InfoComplete     *bool       `json:"info_complete"`
}

// known drops blanks and the literal "null" some models emit inside strings.
func known(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" || strings.EqualFold(v, "null") || strings.EqualFold(v, "none") {
		return nil
	}
	return &v
}

// Intake asks the completion service to extract trip details from the whole
// conversation and merges every non-null field into s.
//
// Reads Conversation, CurrentMessage and the candidate fields. Writes the
// candidate fields, FollowupQuestion, InfoComplete, NeedsFollowup and RequestType.
func (p *Pipeline) Intake(ctx context.Context, s *models.SearchState) {
	prompt, err := llm.IntakePrompt(p.intakeData(s))
	if err != nil {
		p.degrade(s, StepIntake, err, msgTechnical)
		return
	}

	raw, err := p.completer.Complete(ctx, prompt, llm.ModeJSON)
	switch {
	case errors.Is(err, llm.ErrNoCredential):
		p.degrade(s, StepIntake, err, msgNoCredential)
		return
	case err != nil:
		p.degrade(s, StepIntake, err, msgTechnical)
		return
	}

	var res intakeResult
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		p.degrade(s, StepIntake, err, msgMisunderstood)
		return
	}

	if v := known(res.DepartureDate); v != nil {
		s.DepartureDate = v
	}
	if v := known(res.Origin); v != nil {
		s.Origin = v
	}
	if v := known(res.Destination); v != nil {
		s.Destination = v
	}
	if v := known(res.CabinClass); v != nil {
		s.CabinClass = v
	}
	if res.Duration.Value != nil {
		s.Duration = res.Duration.Value
	}
	if v := known(res.FollowupQuestion); v != nil {
		s.FollowupQuestion = v
	}
	if res.InfoComplete != nil {
		s.InfoComplete = *res.InfoComplete
		s.NeedsFollowup = !s.InfoComplete
	} else if res.NeedsFollowup != nil {
		s.NeedsFollowup = *res.NeedsFollowup
		s.InfoComplete = !s.NeedsFollowup
	}
	if s.InfoComplete && s.RequestType == "" {
		s.RequestType = models.RequestFlights
	}
}

func (p *Pipeline) intakeData(s *models.SearchState) llm.IntakeData {
	now := p.now()
	data := llm.IntakeData{
		Today:         now.Format("2006-01-02"),
		Year:          now.Year(),
		NextYear:      now.Year() + 1,
		Message:       s.CurrentMessage,
		DepartureDate: orNull(s.DepartureDate),
		Origin:        orNull(s.Origin),
		Destination:   orNull(s.Destination),
		CabinClass:    orNull(s.CabinClass),
		Duration:      "null",
	}
	if s.Duration != nil {
		data.Duration = strconv.Itoa(*s.Duration)
	}
	for _, m := range s.Conversation {
		if m.Role == models.RoleSystem {
			continue
		}
		data.Conversation = append(data.Conversation, llm.PromptMessage{Role: string(m.Role), Content: m.Content})
	}
	return data
}

func orNull(p *string) string {
	if p == nil {
		return "null"
	}
	return *p
}

// degrade ends the turn with a follow-up question and records why.
func (p *Pipeline) degrade(s *models.SearchState, step string, err error, question string) {
	p.logger.Warn("step degraded to follow-up", "step", step, "thread", s.ThreadID, "error", err)
	s.Fail(step, 0, err)
	s.AskFollowup(question)
}
