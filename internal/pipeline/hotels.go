package pipeline

import (
	"context"

	"github.com/dharmasatrya/tripassistant/internal/aggregator"
	"github.com/dharmasatrya/tripassistant/internal/models"
	"github.com/dharmasatrya/tripassistant/internal/providers"
	"github.com/dharmasatrya/tripassistant/internal/ranking"
)

// LocateHotels looks up hotels in the destination city and keeps the first
// MaxHotelIDs. A failed lookup leaves HotelIDs empty and sets an apology as
// FollowupQuestion without ending the turn.
//
// Reads DestinationCode and AccessToken. Writes HotelIDs, AccessToken and,
// on failure, FollowupQuestion.
func (p *Pipeline) LocateHotels(ctx context.Context, s *models.SearchState) {
	s.HotelIDs = []string{}

	keeper := p.keeper(s)
	ids, err := withAuth(ctx, keeper, func(ctx context.Context, token string) ([]string, error) {
		return p.provider.LookupHotelIDs(ctx, token, s.DestinationCode)
	})
	s.AccessToken = keeper.current()
	p.metrics.ProviderCall(providers.OpHotelList, err)

	if err != nil {
		p.logger.Warn("hotel lookup failed", "thread", s.ThreadID, "city", s.DestinationCode, "error", err)
		s.Fail(StepHotelLocation, 0, err)
		s.FollowupQuestion = models.StringPtr(msgHotelLookup)
		return
	}

	if len(ids) > MaxHotelIDs {
		ids = ids[:MaxHotelIDs]
	}
	s.HotelIDs = ids
}

type stay struct {
	checkIn  string
	checkOut string
}

// stayWindows pairs up to three check-in/check-out dates, padding with the
// last pair. It returns nil when the dates are missing or mismatched.
func stayWindows(checkIns, checkOuts []string) []stay {
	if len(checkIns) == 0 || len(checkIns) != len(checkOuts) {
		return nil
	}
	stays := make([]stay, 0, models.SearchDays)
	for i := 0; i < len(checkIns) && i < models.SearchDays; i++ {
		stays = append(stays, stay{checkIn: checkIns[i], checkOut: checkOuts[i]})
	}
	for len(stays) < models.SearchDays {
		stays = append(stays, stays[len(stays)-1])
	}
	return stays
}

// SearchHotels prices the located hotels for each stay window in parallel and
// ranks the results. Without hotels or consistent dates every slot is empty
// and no provider call is made.
//
// Reads HotelIDs, CheckinDates, CheckoutDates and AccessToken. Writes
// HotelOffers, HotelSearch and AccessToken.
func (p *Pipeline) SearchHotels(ctx context.Context, s *models.SearchState) {
	s.HotelOffers = [models.SearchDays][]models.RankedHotel{}
	for i := range s.HotelOffers {
		s.HotelOffers[i] = []models.RankedHotel{}
	}
	s.HotelSearch = models.SearchStats{}

	if len(s.HotelIDs) == 0 {
		p.logger.Debug("skipping hotel search without hotels", "thread", s.ThreadID)
		return
	}
	stays := stayWindows(s.CheckinDates, s.CheckoutDates)
	if stays == nil {
		p.logger.Debug("skipping hotel search without stay dates", "thread", s.ThreadID)
		return
	}

	keeper := p.keeper(s)
	hotelIDs := append([]string(nil), s.HotelIDs...)
	tasks := make([]aggregator.Task[[]models.RankedHotel], len(stays))
	for i, st := range stays {
		tasks[i] = func(ctx context.Context) ([]models.RankedHotel, error) {
			groups, err := withAuth(ctx, keeper, func(ctx context.Context, token string) ([]models.HotelOfferGroup, error) {
				return p.provider.SearchHotelOffers(ctx, token, hotelIDs, st.checkIn, st.checkOut, p.currency)
			})
			p.metrics.ProviderCall(providers.OpHotelOffers, err)
			if err != nil {
				return nil, err
			}
			return ranking.RankHotels(groups), nil
		}
	}

	results := aggregator.FanOut(ctx, p.fanout, tasks)
	s.AccessToken = keeper.current()
	s.HotelSearch = searchStats(aggregator.Summarize(results))

	for _, r := range results {
		if !r.OK() {
			p.logger.Warn("hotel search failed", "thread", s.ThreadID, "slot", r.Slot, "error", r.Err)
			s.Fail(StepHotels, r.Slot, r.Err)
			continue
		}
		s.HotelOffers[r.Slot] = r.Value
	}
}
