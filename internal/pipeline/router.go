package pipeline

import (
	"regexp"

	"github.com/dharmasatrya/tripassistant/internal/models"
)

type Route string

const (
	RouteFollowup  Route = "ask_followup"
	RouteSelection Route = "selection_request"
	RouteFlights   Route = "flights"
	RouteHotels    Route = "hotels"
	RoutePackages  Route = "packages"
)

var bareNumber = regexp.MustCompile(`\b\d+\b`)

// Decide picks the branch after validation. An incomplete state always ends
// the turn. A bare number answering earlier results is a selection, which
// currently continues like a search. Every request type shares one path.
func Decide(s *models.SearchState) Route {
	if !s.InfoComplete {
		return RouteFollowup
	}
	if len(s.FormattedResults) > 0 && bareNumber.MatchString(s.CurrentMessage) {
		return RouteSelection
	}
	switch s.RequestType {
	case models.RequestHotels:
		return RouteHotels
	case models.RequestPackages:
		return RoutePackages
	default:
		return RouteFlights
	}
}
