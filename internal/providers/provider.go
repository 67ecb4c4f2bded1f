package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dharmasatrya/tripassistant/internal/models"
)

// Operation names, used for rate limiting and error context.
const (
	OpToken        = "token"
	OpFlightOffers = "flight-offers"
	OpHotelList    = "hotel-list"
	OpHotelOffers  = "hotel-offers"
)

type Credentials struct {
	ClientID     string
	ClientSecret string
}

type Token struct {
	Value  string
	Expiry time.Time
}

// TravelProvider is the external flight and hotel inventory.
type TravelProvider interface {
	Token(ctx context.Context, creds Credentials) (Token, error)
	SearchFlightOffers(ctx context.Context, token string, req *models.FlightSearchRequest) ([]models.FlightOffer, error)
	LookupHotelIDs(ctx context.Context, token, cityCode string) ([]string, error)
	SearchHotelOffers(ctx context.Context, token string, hotelIDs []string, checkIn, checkOut, currency string) ([]models.HotelOfferGroup, error)
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrNoCredentials  = errors.New("provider credentials not configured")
	ErrUnexpectedBody = errors.New("unexpected response body")
)

type ProviderError struct {
	Provider   string
	Op         string
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: status %d: %v", e.Provider, e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func NewProviderError(provider, op string, status int, err error) *ProviderError {
	if status == http.StatusUnauthorized && !errors.Is(err, ErrUnauthorized) {
		err = fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	return &ProviderError{
		Provider:   provider,
		Op:         op,
		StatusCode: status,
		Err:        err,
	}
}

// IsUnauthorized reports whether err came from a 401 response.
func IsUnauthorized(err error) bool {
	var pe *ProviderError
	if errors.As(err, &pe) && pe.StatusCode == http.StatusUnauthorized {
		return true
	}
	return errors.Is(err, ErrUnauthorized)
}
