// Package presentation renders turn results for HTML clients and terminals.
package presentation

import (
	"bytes"
	"html/template"
	"unicode"
	"unicode/utf8"

	"github.com/dharmasatrya/tripassistant/internal/models"
	"github.com/dharmasatrya/tripassistant/pkg/currency"
)

var funcs = template.FuncMap{
	"money": currency.Format,
	"title": title,
}

// title upper-cases the first rune of s.
func title(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

var followupTmpl = template.Must(template.New("followup").Funcs(funcs).Parse(`<div class="followup">
<p class="question">{{.Question}}</p>
{{- if or .DepartureDate .Origin .Destination .CabinClass .Duration}}
<div class="extracted-info"><h4>Current information</h4><ul>
{{- with .DepartureDate}}<li><strong>Departure date:</strong> {{.}}</li>{{end}}
{{- with .Origin}}<li><strong>From:</strong> {{.}}</li>{{end}}
{{- with .Destination}}<li><strong>To:</strong> {{.}}</li>{{end}}
{{- with .CabinClass}}<li><strong>Cabin:</strong> {{title .}}</li>{{end}}
{{- with .Duration}}<li><strong>Duration:</strong> {{.}} days</li>{{end}}
</ul></div>{{end}}
</div>`))

var packagesTmpl = template.Must(template.New("packages").Funcs(funcs).Parse(`<div class="packages">
<p class="summary">{{.Summary}}</p>
{{- range .Packages}}
<table class="package" border="1">
<caption>Package {{.PackageID}} ({{.SearchDate}})</caption>
<tr><td>Dates</td><td>{{.TravelDates.CheckIn}} to {{.TravelDates.CheckOut}}, {{.TravelDates.Nights}} nights</td></tr>
<tr><td>Flight</td><td>{{money .Flight.Price .Flight.Currency}}
{{- with .Flight.Summary.Outbound}}<br>Out: {{.DepartureAirport}} {{.DepartureTime}} to {{.ArrivalAirport}} {{.ArrivalTime}}, {{.Stops}} stops{{end}}
{{- with .Flight.Summary.Return}}<br>Back: {{.DepartureAirport}} {{.DepartureTime}} to {{.ArrivalAirport}} {{.ArrivalTime}}, {{.Stops}} stops{{end}}</td></tr>
<tr><td>Hotels</td><td>{{.Hotels.AvailableCount}} of {{.Hotels.TotalFound}} available, from {{money .Hotels.MinPrice .Hotels.Currency}}
{{- if .Hotels.TopOptions}}<ul>{{range .Hotels.TopOptions}}<li>{{if .Hotel.Name}}{{.Hotel.Name}}{{else}}{{.Hotel.HotelID}}{{end}}{{with index .BestOffers 0}}: {{.RoomType}} {{.Offer.Price.Total}}{{end}}</li>{{end}}</ul>{{end}}</td></tr>
<tr><td>Total from</td><td>{{money .Pricing.TotalMinPrice .Pricing.Currency}}</td></tr>
</table>
{{- end}}
</div>`))

type followupView struct {
	Question      string
	DepartureDate string
	Origin        string
	Destination   string
	CabinClass    string
	Duration      int
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

type packagesView struct {
	Summary  string
	Packages []models.Package
}

// FollowupHTML renders the follow-up question and whatever has been collected so far.
func FollowupHTML(question string, info models.ExtractedInfo) (string, error) {
	var buf bytes.Buffer
	view := followupView{
		Question:      question,
		DepartureDate: deref(info.DepartureDate),
		Origin:        deref(info.Origin),
		Destination:   deref(info.Destination),
		CabinClass:    deref(info.CabinClass),
	}
	if info.Duration != nil {
		view.Duration = *info.Duration
	}
	if err := followupTmpl.Execute(&buf, view); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func PackagesHTML(summary string, packages []models.Package) (string, error) {
	var buf bytes.Buffer
	if err := packagesTmpl.Execute(&buf, packagesView{Summary: summary, Packages: packages}); err != nil {
		return "", err
	}
	return buf.String(), nil
}
