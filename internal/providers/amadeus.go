package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/dharmasatrya/tripassistant/internal/models"
	"github.com/dharmasatrya/tripassistant/internal/ratelimit"
)

const amadeusName = "amadeus"

const (
	tokenPath        = "/v1/security/oauth2/token"
	flightOffersPath = "/v2/shopping/flight-offers"
	hotelsByCityPath = "/v1/reference-data/locations/hotels/by-city"
	hotelOffersPath  = "/v3/shopping/hotel-offers"
)

type amadeusFlightResponse struct {
	Data []models.FlightOffer `json:"data"`
}

type amadeusHotelListResponse struct {
	Data []struct {
		HotelID string `json:"hotelId"`
		Name    string `json:"name"`
	} `json:"data"`
}

type amadeusHotelOffersResponse struct {
	Data []models.HotelOfferGroup `json:"data"`
}

type AmadeusConfig struct {
	BaseURL    string
	Timeout    time.Duration
	Limiter    *ratelimit.OperationLimiter
	HTTPClient *http.Client
}

// AmadeusClient talks to the Amadeus self-service REST API.
type AmadeusClient struct {
	baseURL string
	http    *http.Client
	limiter *ratelimit.OperationLimiter
}

func NewAmadeusClient(cfg AmadeusConfig) *AmadeusClient {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &AmadeusClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    client,
		limiter: cfg.Limiter,
	}
}

func (c *AmadeusClient) Token(ctx context.Context, creds Credentials) (Token, error) {
	if creds.ClientID == "" || creds.ClientSecret == "" {
		return Token{}, NewProviderError(amadeusName, OpToken, 0, ErrNoCredentials)
	}
	if err := c.limiter.Wait(ctx, OpToken); err != nil {
		return Token{}, NewProviderError(amadeusName, OpToken, 0, err)
	}

	cc := clientcredentials.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		TokenURL:     c.baseURL + tokenPath,
		AuthStyle:    oauth2.AuthStyleInParams,
	}

	tok, err := cc.Token(context.WithValue(ctx, oauth2.HTTPClient, c.http))
	if err != nil {
		status := 0
		var re *oauth2.RetrieveError
		if errors.As(err, &re) && re.Response != nil {
			status = re.Response.StatusCode
		}
		return Token{}, NewProviderError(amadeusName, OpToken, status, err)
	}

	return Token{Value: tok.AccessToken, Expiry: tok.Expiry}, nil
}

func (c *AmadeusClient) SearchFlightOffers(ctx context.Context, token string, req *models.FlightSearchRequest) ([]models.FlightOffer, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, NewProviderError(amadeusName, OpFlightOffers, 0, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+flightOffersPath, bytes.NewReader(payload))
	if err != nil {
		return nil, NewProviderError(amadeusName, OpFlightOffers, 0, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	var resp amadeusFlightResponse
	if err := c.do(ctx, OpFlightOffers, token, httpReq, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *AmadeusClient) LookupHotelIDs(ctx context.Context, token, cityCode string) ([]string, error) {
	q := url.Values{}
	q.Set("cityCode", cityCode)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+hotelsByCityPath+"?"+q.Encode(), nil)
	if err != nil {
		return nil, NewProviderError(amadeusName, OpHotelList, 0, err)
	}

	var resp amadeusHotelListResponse
	if err := c.do(ctx, OpHotelList, token, httpReq, &resp); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(resp.Data))
	for _, h := range resp.Data {
		if h.HotelID != "" {
			ids = append(ids, h.HotelID)
		}
	}
	return ids, nil
}

func (c *AmadeusClient) SearchHotelOffers(ctx context.Context, token string, hotelIDs []string, checkIn, checkOut, currency string) ([]models.HotelOfferGroup, error) {
	q := url.Values{}
	q.Set("hotelIds", strings.Join(hotelIDs, ","))
	q.Set("checkInDate", checkIn)
	q.Set("checkOutDate", checkOut)
	q.Set("currencyCode", currency)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+hotelOffersPath+"?"+q.Encode(), nil)
	if err != nil {
		return nil, NewProviderError(amadeusName, OpHotelOffers, 0, err)
	}

	var resp amadeusHotelOffersResponse
	if err := c.do(ctx, OpHotelOffers, token, httpReq, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (c *AmadeusClient) do(ctx context.Context, op, token string, req *http.Request, dest any) error {
	if err := c.limiter.Wait(ctx, op); err != nil {
		return NewProviderError(amadeusName, op, 0, err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return NewProviderError(amadeusName, op, 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return NewProviderError(amadeusName, op, resp.StatusCode, fmt.Errorf("%s", strings.TrimSpace(string(body))))
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return NewProviderError(amadeusName, op, resp.StatusCode, fmt.Errorf("%w: %v", ErrUnexpectedBody, err))
	}
	return nil
}
