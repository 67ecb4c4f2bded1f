package providers

import (
	"context"
	"log/slog"

	"github.com/dharmasatrya/tripassistant/internal/cache"
	"github.com/dharmasatrya/tripassistant/internal/models"
)

// CachedProvider memoizes flight-offer searches and hotel-id lookups.
// Tokens and hotel availability always go to the inner provider.
type CachedProvider struct {
	inner  TravelProvider
	cache  cache.Cache
	logger *slog.Logger
}

func NewCachedProvider(inner TravelProvider, c cache.Cache, logger *slog.Logger) *CachedProvider {
	return &CachedProvider{inner: inner, cache: c, logger: logger}
}

func (p *CachedProvider) Token(ctx context.Context, creds Credentials) (Token, error) {
	return p.inner.Token(ctx, creds)
}

func (p *CachedProvider) SearchFlightOffers(ctx context.Context, token string, req *models.FlightSearchRequest) ([]models.FlightOffer, error) {
	key := cache.Key(OpFlightOffers, req)

	var offers []models.FlightOffer
	if p.cache.Get(ctx, key, &offers) {
		return offers, nil
	}

	offers, err := p.inner.SearchFlightOffers(ctx, token, req)
	if err != nil {
		return nil, err
	}
	if len(offers) > 0 {
		if err := p.cache.Set(ctx, key, offers); err != nil {
			p.logger.Warn("cache flight offers", "error", err)
		}
	}
	return offers, nil
}

func (p *CachedProvider) LookupHotelIDs(ctx context.Context, token, cityCode string) ([]string, error) {
	key := cache.Key(OpHotelList, cityCode)

	var ids []string
	if p.cache.Get(ctx, key, &ids) {
		return ids, nil
	}

	ids, err := p.inner.LookupHotelIDs(ctx, token, cityCode)
	if err != nil {
		return nil, err
	}
	if len(ids) > 0 {
		if err := p.cache.Set(ctx, key, ids); err != nil {
			p.logger.Warn("cache hotel ids", "city", cityCode, "error", err)
		}
	}
	return ids, nil
}

func (p *CachedProvider) SearchHotelOffers(ctx context.Context, token string, hotelIDs []string, checkIn, checkOut, currency string) ([]models.HotelOfferGroup, error) {
	return p.inner.SearchHotelOffers(ctx, token, hotelIDs, checkIn, checkOut, currency)
}
