package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/dharmasatrya/tripassistant/internal/models"
	"github.com/dharmasatrya/tripassistant/internal/providers"
)

// FetchToken obtains a bearer token. On failure AccessToken stays empty and
// later calls try once more through the 401 path.
func (p *Pipeline) FetchToken(ctx context.Context, s *models.SearchState) {
	tok, err := p.provider.Token(ctx, p.credentials)
	p.metrics.ProviderCall(providers.OpToken, err)
	if err != nil {
		p.logger.Warn("token request failed", "thread", s.ThreadID, "error", err)
		s.Fail(StepToken, 0, err)
		s.AccessToken = ""
		return
	}
	s.AccessToken = tok.Value
}

// tokenKeeper shares one token between concurrent tasks so that parallel
// 401s trigger a single refresh.
type tokenKeeper struct {
	mu    sync.Mutex
	token string
	p     *Pipeline
}

func (p *Pipeline) keeper(s *models.SearchState) *tokenKeeper {
	return &tokenKeeper{token: s.AccessToken, p: p}
}

func (k *tokenKeeper) current() string {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.token
}

// refresh replaces stale with a new token unless another task already did.
func (k *tokenKeeper) refresh(ctx context.Context, stale string) (string, error) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.token != stale {
		return k.token, nil
	}

	tok, err := k.p.provider.Token(ctx, k.p.credentials)
	k.p.metrics.ProviderCall(providers.OpToken, err)
	if err != nil {
		return "", err
	}
	k.token = tok.Value
	return k.token, nil
}

// withAuth runs call with the current token and retries exactly once with a
// refreshed token when the provider answers 401.
func withAuth[T any](ctx context.Context, k *tokenKeeper, call func(ctx context.Context, token string) (T, error)) (T, error) {
	token := k.current()
	v, err := call(ctx, token)
	if err == nil || !providers.IsUnauthorized(err) {
		return v, err
	}

	fresh, rerr := k.refresh(ctx, token)
	if rerr != nil {
		var zero T
		return zero, fmt.Errorf("refresh token after 401: %w", rerr)
	}
	return call(ctx, fresh)
}
