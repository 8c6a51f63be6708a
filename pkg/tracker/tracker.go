// Package tracker orchestrates the wallet-tracking workflow: registering
// addresses, refreshing their cached analyses from the Data and Gamma APIs,
// and building ghost portfolios. It owns the single-flight guarantee that no
// two computations for the same wallet ever overlap.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/walletscope/walletscope-go/pkg/analytics"
	"github.com/walletscope/walletscope-go/pkg/data"
	"github.com/walletscope/walletscope-go/pkg/gamma"
	"github.com/walletscope/walletscope-go/pkg/store"
)

// ErrInvalidAddress is returned when an address is not a valid hex address.
var ErrInvalidAddress = errors.New("invalid wallet address")

// ProxyResolver maps an externally owned account to the proxy wallet its
// Polymarket activity is recorded under. Without one, addresses are queried
// as given.
type ProxyResolver interface {
	Resolve(ctx context.Context, address string) (string, error)
}

// Service coordinates the store and the upstream API clients.
type Service struct {
	store *store.Store
	data  data.Client
	gamma gamma.Client
	log   zerolog.Logger

	inflight *inflightGroup
	resolver ProxyResolver
	now      func() time.Time
}

// New creates a tracker service.
func New(st *store.Store, d data.Client, g gamma.Client, log zerolog.Logger) *Service {
	return &Service{
		store:    st,
		data:     d,
		gamma:    g,
		log:      log.With().Str("component", "tracker").Logger(),
		inflight: newInflightGroup(),
		now:      time.Now,
	}
}

// SetProxyResolver installs a resolver for wallets that trade through a
// proxy contract.
func (s *Service) SetProxyResolver(r ProxyResolver) { s.resolver = r }

// queryAddress returns the address upstream APIs should be queried with.
func (s *Service) queryAddress(ctx context.Context, addr string) string {
	if s.resolver == nil {
		return addr
	}
	resolved, err := s.resolver.Resolve(ctx, addr)
	if err != nil || resolved == "" {
		s.log.Warn().Err(err).Str("wallet", addr).Msg("proxy resolution failed")
		return addr
	}
	return strings.ToLower(resolved)
}

// NormalizeAddress validates and lowercases a wallet address.
func NormalizeAddress(address string) (string, error) {
	if !common.IsHexAddress(address) {
		return "", fmt.Errorf("%w: %q", ErrInvalidAddress, address)
	}
	return strings.ToLower(address), nil
}

// Track registers a wallet for tracking.
func (s *Service) Track(ctx context.Context, address string) error {
	addr, err := NormalizeAddress(address)
	if err != nil {
		return err
	}
	if err := s.store.Track(ctx, addr); err != nil {
		return err
	}
	s.log.Info().Str("wallet", addr).Msg("wallet tracked")
	return nil
}

// Untrack removes a wallet and its cached analysis.
func (s *Service) Untrack(ctx context.Context, address string) error {
	addr, err := NormalizeAddress(address)
	if err != nil {
		return err
	}
	if err := s.store.Untrack(ctx, addr); err != nil {
		return err
	}
	s.log.Info().Str("wallet", addr).Msg("wallet untracked")
	return nil
}

// Wallets lists tracked wallets.
func (s *Service) Wallets(ctx context.Context) ([]analytics.Wallet, error) {
	return s.store.Wallets(ctx)
}

// Stats returns the analysis for a tracked wallet, serving the cached entry
// when it is fresh and recomputing otherwise.
func (s *Service) Stats(ctx context.Context, address string) (analytics.TraderStats, error) {
	addr, err := NormalizeAddress(address)
	if err != nil {
		return analytics.TraderStats{}, err
	}
	cached, ok, err := s.store.Stats(ctx, addr)
	if err != nil {
		return analytics.TraderStats{}, err
	}
	if ok && store.Fresh(cached, s.now()) {
		return cached, nil
	}
	return s.Refresh(ctx, addr)
}

// Refresh recomputes and caches the analysis for a tracked wallet. Concurrent
// calls for the same wallet coalesce into a single computation.
func (s *Service) Refresh(ctx context.Context, address string) (analytics.TraderStats, error) {
	addr, err := NormalizeAddress(address)
	if err != nil {
		return analytics.TraderStats{}, err
	}

	leader, wait := s.inflight.acquire(addr)
	if !leader {
		if err := wait(ctx); err != nil {
			return analytics.TraderStats{}, err
		}
		stats, ok, err := s.store.Stats(ctx, addr)
		if err != nil {
			return analytics.TraderStats{}, err
		}
		if !ok {
			return analytics.TraderStats{}, fmt.Errorf("refresh for %s produced no stats", addr)
		}
		return stats, nil
	}
	defer s.inflight.release(addr)

	return s.refresh(ctx, addr)
}

func (s *Service) refresh(ctx context.Context, addr string) (analytics.TraderStats, error) {
	if _, err := s.store.Wallet(ctx, addr); err != nil {
		return analytics.TraderStats{}, err
	}

	started := s.now()
	raw, err := s.data.TradesAll(ctx, &data.TradesRequest{User: s.queryAddress(ctx, addr)})
	if err != nil {
		return analytics.TraderStats{}, fmt.Errorf("failed to fetch trades for %s: %w", addr, err)
	}

	fills, dropped := analytics.SanitizeTrades(data.ToAnalyticsTrades(raw), s.now())
	if dropped > 0 {
		s.log.Warn().Str("wallet", addr).Int("dropped", dropped).Msg("malformed fills dropped")
	}

	resolutions, err := s.resolutions(ctx, fills)
	if err != nil {
		// Analysis degrades gracefully without resolution facts: held
		// positions simply stay out of the win/loss tallies.
		s.log.Warn().Err(err).Str("wallet", addr).Msg("resolution lookup failed")
		resolutions = nil
	}

	analysis := analytics.AnalyzeAt(fills, resolutions, s.now())
	stats := analytics.TraderStats{
		Wallet:      addr,
		LastUpdated: s.now().UnixMilli(),
		Analysis:    analysis,
		Badges:      analytics.AssignBadges(analysis),
	}
	if err := s.store.PutStats(ctx, stats); err != nil {
		return analytics.TraderStats{}, err
	}

	s.log.Info().
		Str("wallet", addr).
		Int("fills", len(fills)).
		Dur("took", time.Since(started)).
		Msg("analysis refreshed")
	return stats, nil
}

// resolutions fetches market outcomes for every condition the wallet traded.
func (s *Service) resolutions(ctx context.Context, fills []analytics.Trade) (map[string]analytics.MarketResolutionInfo, error) {
	seen := make(map[string]struct{}, len(fills))
	var ids []string
	for _, f := range fills {
		if f.ConditionID == "" {
			continue
		}
		if _, ok := seen[f.ConditionID]; ok {
			continue
		}
		seen[f.ConditionID] = struct{}{}
		ids = append(ids, f.ConditionID)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	markets, err := s.gamma.MarketsByConditionIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return gamma.ResolutionMap(markets), nil
}

// RefreshAll refreshes every tracked wallet sequentially. The Data-API client
// already batches and paces its fetches; running wallets one at a time on top
// of that keeps the refresh loop inside the rate-limit budget.
func (s *Service) RefreshAll(ctx context.Context) error {
	wallets, err := s.store.Wallets(ctx)
	if err != nil {
		return err
	}
	var failed int
	for _, w := range wallets {
		if _, err := s.Refresh(ctx, w.Address); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			failed++
			s.log.Error().Err(err).Str("wallet", w.Address).Msg("refresh failed")
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d wallet refreshes failed", failed, len(wallets))
	}
	return nil
}

// EnableGhostMode starts the copy-trading simulation for a tracked wallet.
// The start time is stamped at the moment of the call; only fills at or after
// it enter the ghost ledger.
func (s *Service) EnableGhostMode(ctx context.Context, address string) error {
	addr, err := NormalizeAddress(address)
	if err != nil {
		return err
	}
	if err := s.store.SetGhostMode(ctx, addr, true, s.now()); err != nil {
		return err
	}
	s.log.Info().Str("wallet", addr).Msg("ghost mode enabled")
	return nil
}

// DisableGhostMode stops the simulation. The historical start stamp is kept.
func (s *Service) DisableGhostMode(ctx context.Context, address string) error {
	addr, err := NormalizeAddress(address)
	if err != nil {
		return err
	}
	if err := s.store.SetGhostMode(ctx, addr, false, time.Time{}); err != nil {
		return err
	}
	s.log.Info().Str("wallet", addr).Msg("ghost mode disabled")
	return nil
}

// GhostSummary builds the current ghost portfolio for a wallet, pricing open
// positions from the wallet's live Data-API positions.
func (s *Service) GhostSummary(ctx context.Context, address string) (analytics.GhostPortfolioSummary, error) {
	addr, err := NormalizeAddress(address)
	if err != nil {
		return analytics.GhostPortfolioSummary{}, err
	}
	wallet, err := s.store.Wallet(ctx, addr)
	if err != nil {
		return analytics.GhostPortfolioSummary{}, err
	}

	queryAddr := s.queryAddress(ctx, addr)
	raw, err := s.data.TradesAll(ctx, &data.TradesRequest{User: queryAddr})
	if err != nil {
		return analytics.GhostPortfolioSummary{}, fmt.Errorf("failed to fetch trades for %s: %w", addr, err)
	}
	fills, dropped := analytics.SanitizeTrades(data.ToAnalyticsTrades(raw), s.now())
	if dropped > 0 {
		s.log.Warn().Str("wallet", addr).Int("dropped", dropped).Msg("malformed fills dropped")
	}

	prices, err := s.currentPrices(ctx, queryAddr)
	if err != nil {
		// Pricing falls back to average entry inside the builder.
		s.log.Warn().Err(err).Str("wallet", addr).Msg("live position lookup failed")
		prices = nil
	}

	return analytics.BuildGhostPortfolio(wallet, fills, prices), nil
}

func (s *Service) currentPrices(ctx context.Context, addr string) (map[string]decimal.Decimal, error) {
	positions, err := s.data.Positions(ctx, &data.PositionsRequest{User: addr})
	if err != nil {
		return nil, err
	}
	prices := make(map[string]decimal.Decimal, len(positions))
	for _, p := range positions {
		prices[p.PositionKey()] = decimal.NewFromFloat(p.CurPrice)
	}
	return prices, nil
}
