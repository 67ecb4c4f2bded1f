package models

import "time"

// SearchDays is the number of consecutive departure days searched per turn.
const SearchDays = 3

const DefaultTripType = "round trip"

type RequestType string

const (
	RequestFlights  RequestType = "flights"
	RequestHotels   RequestType = "hotels"
	RequestPackages RequestType = "packages"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// StepFailure records a degraded step or task without aborting the turn.
type StepFailure struct {
	Step   string `json:"step"`
	Slot   int    `json:"slot"`
	Reason string `json:"reason"`
}

// SearchStats counts the parallel provider searches of one step.
type SearchStats struct {
	Queried   int `json:"queried"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// SearchState is the record threaded through every step of one turn.
// It is built fresh per user message; only Conversation carries history.
type SearchState struct {
	ThreadID       string    `json:"thread_id"`
	Conversation   []Message `json:"conversation"`
	CurrentMessage string    `json:"current_message"`

	// Candidate fields extracted from the conversation. Nil means unknown.
	DepartureDate *string `json:"departure_date"`
	Origin        *string `json:"origin"`
	Destination   *string `json:"destination"`
	CabinClass    *string `json:"cabin_class"`
	Duration      *int    `json:"duration"`
	TripType      string  `json:"trip_type"`

	RequestType      RequestType `json:"request_type,omitempty"`
	InfoComplete     bool        `json:"info_complete"`
	NeedsFollowup    bool        `json:"needs_followup"`
	FollowupQuestion *string     `json:"followup_question"`

	// Normalized fields. Empty means not yet normalized.
	OriginCode              string `json:"origin_location_code,omitempty"`
	DestinationCode         string `json:"destination_location_code,omitempty"`
	NormalizedDepartureDate string `json:"normalized_departure_date,omitempty"`
	NormalizedCabin         string `json:"normalized_cabin,omitempty"`
	NormalizedTripType      string `json:"normalized_trip_type,omitempty"`

	Body        *FlightSearchRequest `json:"body,omitempty"`
	AccessToken string               `json:"-"`

	FlightOffers  [SearchDays][]FlightOffer `json:"result"`
	CheckinDates  []string                  `json:"checkin_dates"`
	CheckoutDates []string                  `json:"checkout_dates"`

	HotelIDs    []string                  `json:"hotel_id"`
	HotelOffers [SearchDays][]RankedHotel `json:"hotel_offers"`

	TravelPackages []Package `json:"travel_packages"`
	PackageSummary string    `json:"package_summary"`

	// FormattedResults backs the reserved selection path and stays empty today.
	FormattedResults []FlightSummary `json:"formatted_results,omitempty"`

	FlightSearch SearchStats `json:"flight_search"`
	HotelSearch  SearchStats `json:"hotel_search"`

	Rendered *Rendering `json:"-"`

	Failures []StepFailure `json:"failures,omitempty"`
	Trace    []string      `json:"trace,omitempty"`
}

func NewSearchState(threadID string, conversation []Message, message string) *SearchState {
	return &SearchState{
		ThreadID:       threadID,
		Conversation:   conversation,
		CurrentMessage: message,
		TripType:       DefaultTripType,
	}
}

// Fail appends a failure record.
func (s *SearchState) Fail(step string, slot int, err error) {
	s.Failures = append(s.Failures, StepFailure{Step: step, Slot: slot, Reason: err.Error()})
}

// AskFollowup marks the turn as incomplete with the given question.
func (s *SearchState) AskFollowup(question string) {
	s.InfoComplete = false
	s.NeedsFollowup = true
	s.FollowupQuestion = &question
}

// ExtractedInfo is the view of the candidate fields returned to clients.
type ExtractedInfo struct {
	DepartureDate *string `json:"departure_date"`
	Origin        *string `json:"origin"`
	Destination   *string `json:"destination"`
	CabinClass    *string `json:"cabin_class"`
	TripType      string  `json:"trip_type"`
	Duration      *int    `json:"duration"`
}

func (s *SearchState) Extracted() ExtractedInfo {
	return ExtractedInfo{
		DepartureDate: s.DepartureDate,
		Origin:        s.Origin,
		Destination:   s.Destination,
		CabinClass:    s.CabinClass,
		TripType:      s.TripType,
		Duration:      s.Duration,
	}
}

// StringPtr returns a pointer to v.
func StringPtr(v string) *string { return &v }

// IntPtr returns a pointer to v.
func IntPtr(v int) *int { return &v }

// Rendering is the presentation of a finished turn.
type Rendering struct {
	HTML     string `json:"html"`
	Markdown string `json:"markdown"`
}
