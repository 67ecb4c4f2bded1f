package llm

import (
	"bytes"
	"text/template"
)

var intakeTmpl = template.Must(template.New("intake").Parse(`You are a travel assistant collecting the details needed to search flights and hotels. Today is {{.Today}}.

Conversation so far:
{{range .Conversation}}{{.Role}}: {{.Content}}
{{end}}
Latest user message: "{{.Message}}"

Extract every detail the user has given anywhere in the conversation:
1. departure_date as YYYY-MM-DD
2. origin city
3. destination city
4. cabin_class (economy, premium economy, business or first)
5. duration of the stay in days (a number)

Date rules:
- Convert phrases such as "Aug 20" or "the 5th" to YYYY-MM-DD.
- Without a year, use {{.Year}}; if that date has already passed this year, use {{.NextYear}}. A bare day and month always means its nearest future occurrence.
- Without a month, use the current month; if that day has already passed, use next month, rolling into next year after December.
- Relative phrases ("tomorrow", "next Friday") are resolved from today.

Normalize casual names ("NYC" means New York, "LA" means Los Angeles) and casual cabins ("eco" means economy, "biz" means business).

Known so far: departure_date={{.DepartureDate}}, origin={{.Origin}}, destination={{.Destination}}, cabin_class={{.CabinClass}}, duration={{.Duration}}. Trips are always round trips.

Answer with this JSON object and nothing else:
{"departure_date": "YYYY-MM-DD or null", "origin": "city or null", "destination": "city or null", "cabin_class": "cabin or null", "duration": number or null, "followup_question": "one question for the first missing detail, or null", "needs_followup": true or false, "info_complete": true or false}

Set info_complete to true only when all five details are known. Otherwise ask about exactly one missing detail.`))

var airportTmpl = template.Must(template.New("airport").Parse(`Give the primary IATA airport code for this city or location: "{{.}}"
Return only the 3-letter code in plain text. For cities with several airports, use the main international one (New York is JFK, London is LHR, Paris is CDG).
Airport code:`))

var cabinTmpl = template.Must(template.New("cabin").Parse(`Map this cabin description to one standard cabin type: "{{.}}"
Allowed answers: ECONOMY, PREMIUM_ECONOMY, BUSINESS, FIRST.
If the input is misspelled or vague, pick the closest match. Answer with the cabin type only, in plain text.`))

var summaryTmpl = template.Must(template.New("summary").Parse(`You are a friendly travel assistant. Summarize these flight and hotel packages for the traveller in a few short conversational paragraphs, plain text without markdown or emojis.
{{range $i, $p := .}}
Package {{$p.Index}}:
{{$p.JSON}}
{{end}}
Cover: a short overview of the options, your recommended package weighing price, flight timing and duration, and hotel choice, which option is cheapest, and any practical tips such as layovers or fees.`))

// IntakeData feeds the extraction prompt. Unknown fields render as "null".
type IntakeData struct {
	Today         string
	Year          int
	NextYear      int
	Conversation  []PromptMessage
	Message       string
	DepartureDate string
	Origin        string
	Destination   string
	CabinClass    string
	Duration      string
}

type PromptMessage struct {
	Role    string
	Content string
}

type SummaryPackage struct {
	Index int
	JSON  string
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func IntakePrompt(data IntakeData) (string, error) { return render(intakeTmpl, data) }

func AirportPrompt(location string) (string, error) { return render(airportTmpl, location) }

func CabinPrompt(cabin string) (string, error) { return render(cabinTmpl, cabin) }

func SummaryPrompt(packages []SummaryPackage) (string, error) { return render(summaryTmpl, packages) }
