package presentation

import (
	"fmt"
	"strings"

	"github.com/dharmasatrya/tripassistant/internal/models"
	"github.com/dharmasatrya/tripassistant/pkg/currency"
)

func FollowupMarkdown(question string, info models.ExtractedInfo) string {
	var b strings.Builder
	b.WriteString(question)
	b.WriteString("\n")

	var known []string
	if info.DepartureDate != nil {
		known = append(known, "**Departure:** "+*info.DepartureDate)
	}
	if info.Origin != nil {
		known = append(known, "**From:** "+*info.Origin)
	}
	if info.Destination != nil {
		known = append(known, "**To:** "+*info.Destination)
	}
	if info.CabinClass != nil {
		known = append(known, "**Cabin:** "+*info.CabinClass)
	}
	if info.Duration != nil {
		known = append(known, fmt.Sprintf("**Duration:** %d days", *info.Duration))
	}
	if len(known) > 0 {
		b.WriteString("\n")
		for _, k := range known {
			b.WriteString("- " + k + "\n")
		}
	}
	return b.String()
}

func PackagesMarkdown(summary string, packages []models.Package) string {
	var b strings.Builder
	b.WriteString(summary)
	b.WriteString("\n")

	for _, p := range packages {
		fmt.Fprintf(&b, "\n## Package %d\n\n", p.PackageID)
		fmt.Fprintf(&b, "| | |\n|---|---|\n")
		fmt.Fprintf(&b, "| Dates | %s to %s (%d nights) |\n", p.TravelDates.CheckIn, p.TravelDates.CheckOut, p.TravelDates.Nights)
		fmt.Fprintf(&b, "| Flight | %s |\n", currency.Format(p.Flight.Price, p.Flight.Currency))
		if leg := p.Flight.Summary.Outbound; leg != nil {
			fmt.Fprintf(&b, "| Outbound | %s %s to %s %s, %d stops |\n", leg.DepartureAirport, leg.DepartureTime, leg.ArrivalAirport, leg.ArrivalTime, leg.Stops)
		}
		if leg := p.Flight.Summary.Return; leg != nil {
			fmt.Fprintf(&b, "| Return | %s %s to %s %s, %d stops |\n", leg.DepartureAirport, leg.DepartureTime, leg.ArrivalAirport, leg.ArrivalTime, leg.Stops)
		}
		fmt.Fprintf(&b, "| Hotels | %d of %d available from %s |\n", p.Hotels.AvailableCount, p.Hotels.TotalFound, currency.Format(p.Hotels.MinPrice, p.Hotels.Currency))
		fmt.Fprintf(&b, "| Total from | %s |\n", currency.Format(p.Pricing.TotalMinPrice, p.Pricing.Currency))
	}
	return b.String()
}
