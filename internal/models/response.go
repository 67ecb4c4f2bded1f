package models

type ResponseStatus string

const (
	StatusFollowup ResponseStatus = "followup"
	StatusResults  ResponseStatus = "results"
)

type ChatMetadata struct {
	TurnID          string        `json:"turn_id"`
	PackagesFound   int           `json:"packages_found"`
	SearchTimeMs    int64         `json:"search_time_ms"`
	Failures        []StepFailure `json:"failures,omitempty"`
	Trace           []string      `json:"trace,omitempty"`
	OriginCode      string        `json:"origin_code,omitempty"`
	DestinationCode string        `json:"destination_code,omitempty"`
	FlightSearch    SearchStats   `json:"flight_search"`
	HotelSearch     SearchStats   `json:"hotel_search"`
}

type ChatResponse struct {
	ThreadID      string         `json:"thread_id"`
	Status        ResponseStatus `json:"status"`
	Message       string         `json:"message"`
	HTML          string         `json:"html"`
	ExtractedInfo ExtractedInfo  `json:"extracted_info"`
	Packages      []Package      `json:"packages,omitempty"`
	Metadata      ChatMetadata   `json:"metadata"`
}

type ResetResponse struct {
	ThreadID string `json:"thread_id"`
	Message  string `json:"message"`
}

type ThreadsResponse struct {
	Threads []string `json:"threads"`
	Count   int      `json:"count"`
}

type HealthResponse struct {
	Status      string   `json:"status"`
	MissingKeys []string `json:"missing_keys,omitempty"`
	Threads     int      `json:"threads"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
