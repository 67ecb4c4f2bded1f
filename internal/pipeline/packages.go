package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dharmasatrya/tripassistant/internal/filter"
	"github.com/dharmasatrya/tripassistant/internal/models"
	"github.com/dharmasatrya/tripassistant/internal/timezone"
	"github.com/dharmasatrya/tripassistant/pkg/currency"
)

const topHotelOptions = 5

var errNoFlight = errors.New("no flight offer for this day")

// AssemblePackages pairs day N flights with stay N hotels. A package whose
// flight or dates are missing, or that fails to build, is left out.
//
// Reads FlightOffers, HotelOffers, CheckinDates and CheckoutDates. Writes
// TravelPackages.
func (p *Pipeline) AssemblePackages(ctx context.Context, s *models.SearchState) {
	s.TravelPackages = []models.Package{}

	stays := stayWindows(s.CheckinDates, s.CheckoutDates)
	if stays == nil {
		p.logger.Debug("no stay windows, no packages", "thread", s.ThreadID)
		return
	}

	for i := 0; i < models.SearchDays; i++ {
		pkg, err := p.buildPackageSafely(i+1, s.FlightOffers[i], s.HotelOffers[i], stays[i])
		if errors.Is(err, errNoFlight) {
			p.logger.Debug("no flight for package", "thread", s.ThreadID, "package", i+1)
			continue
		}
		if err != nil {
			p.logger.Warn("package dropped", "thread", s.ThreadID, "package", i+1, "error", err)
			s.Fail(StepPackages, i, err)
			continue
		}
		s.TravelPackages = append(s.TravelPackages, pkg)
	}
}

func (p *Pipeline) buildPackageSafely(id int, flights []models.FlightOffer, hotels []models.RankedHotel, st stay) (pkg models.Package, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("build package %d: %v", id, r)
		}
	}()
	return BuildPackage(id, flights, hotels, st.checkIn, st.checkOut, p.currency)
}

// BuildPackage prices the cheapest flight of a day against the cheapest
// available hotel for the matching stay.
func BuildPackage(id int, flights []models.FlightOffer, hotels []models.RankedHotel, checkIn, checkOut, defaultCurrency string) (models.Package, error) {
	if len(flights) == 0 {
		return models.Package{}, errNoFlight
	}
	if checkIn == "" || checkOut == "" {
		return models.Package{}, errors.New("stay dates missing")
	}

	flight := flights[0]
	flightPrice, err := parsePrice(flight.Price.Total)
	if err != nil {
		return models.Package{}, fmt.Errorf("flight price: %w", err)
	}
	flightCurrency := flight.Price.Currency
	if flightCurrency == "" {
		flightCurrency = defaultCurrency
	}

	nights, err := timezone.Nights(checkIn, checkOut)
	if err != nil {
		return models.Package{}, fmt.Errorf("stay dates: %w", err)
	}

	available := filter.Available(hotels)
	minHotel := 0.0
	if len(available) > 0 {
		minHotel, err = parsePrice(available[0].BestOffers[0].Offer.Price.Total)
		if err != nil {
			return models.Package{}, fmt.Errorf("hotel price: %w", err)
		}
	}

	searchDate := flight.SearchDate
	if searchDate == "" {
		searchDate = "unknown"
	}

	return models.Package{
		PackageID:   id,
		SearchDate:  searchDate,
		TravelDates: models.TravelDates{CheckIn: checkIn, CheckOut: checkOut, Nights: nights},
		Flight: models.PackageFlight{
			Offer:    flight,
			Price:    flightPrice,
			Currency: flightCurrency,
			Summary:  flight.Summarize(),
		},
		Hotels: models.PackageHotels{
			TotalFound:     len(hotels),
			AvailableCount: len(available),
			TopOptions:     filter.Top(available, topHotelOptions),
			MinPrice:       minHotel,
			Currency:       defaultCurrency,
		},
		Pricing: models.PackagePricing{
			FlightPrice:   flightPrice,
			MinHotelPrice: minHotel,
			TotalMinPrice: flightPrice + minHotel,
			Currency:      flightCurrency,
		},
		PackageSummary: fmt.Sprintf("Package %d: %d nights, %d hotels available from %s",
			id, nights, len(available), currency.Format(minHotel, defaultCurrency)),
	}, nil
}

// parsePrice reads a provider price string; an absent price counts as zero.
func parsePrice(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}
