// Package server
package server

import (
	"context"
	"sync"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/walletscope/walletscope-backend/types"
)

// RefreshWatchedPortfolios warms history and balances for every address any
// portfolio watches, then rebuilds the portfolio snapshots from the warmed
// data. The watcher binary runs this on a ticker so dashboard loads hit
// fresh caches.
func (s *Server) RefreshWatchedPortfolios(ctx context.Context) error {
	lgr := s.logger.With(zap.String("method", "RefreshWatchedPortfolios"))

	portfolios, err := s.listAllPortfolios(ctx)
	if err != nil {
		return err
	}

	seen := make(map[string]bool)
	var addresses []string
	for _, p := range portfolios {
		for _, a := range p.Addresses {
			if seen[a] {
				continue
			}
			seen[a] = true
			addresses = append(addresses, a)
		}
	}
	lgr.Info("refreshing watched addresses",
		zap.Int("portfolios", len(portfolios)),
		zap.Int("addresses", len(addresses)))

	var wg sync.WaitGroup
	pool, err := ants.NewPoolWithFunc(s.refreshWorkers, func(i interface{}) {
		defer wg.Done()
		s.refreshAddress(ctx, i.(string))
	}, ants.WithPreAlloc(true))
	if err != nil {
		return err
	}
	defer pool.Release()

	for _, address := range addresses {
		wg.Add(1)
		if err := pool.Invoke(address); err != nil {
			wg.Done()
			lgr.Warn("cannot submit refresh task", zap.String("address", address), zap.Error(err))
		}
	}
	wg.Wait()

	for _, p := range portfolios {
		snapshot, err := s.snapshotPortfolio(ctx, p)
		if err != nil {
			lgr.Warn("cannot rebuild portfolio snapshot", zap.String("portfolio", p.ID), zap.Error(err))
			continue
		}
		if err := s.cache.UpdatePortfolioSnapshot(ctx, snapshot); err != nil {
			lgr.Warn("cannot cache portfolio snapshot", zap.String("portfolio", p.ID), zap.Error(err))
		}
	}
	return nil
}

func (s *Server) listAllPortfolios(ctx context.Context) ([]*types.Portfolio, error) {
	var all []*types.Portfolio
	pagination := &types.Pagination{Skip: 0, Limit: types.MaximumLimit}
	for {
		page, total, err := s.db.Portfolios(ctx, pagination)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) == 0 || int64(len(all)) >= total {
			return all, nil
		}
		pagination.Skip += len(page)
	}
}

// refreshAddress reloads one wallet's first history page and balances past
// the caches. Failures are logged only; the next tick retries.
func (s *Server) refreshAddress(ctx context.Context, address string) {
	q := &types.HistoryQuery{Address: address, Limit: s.pageSize}
	if _, err := s.loadHistoryPage(ctx, q, true); err != nil {
		s.logger.Warn("cannot refresh history", zap.String("address", address), zap.Error(err))
	}
	if _, _, err := s.addressTokens(ctx, address); err != nil {
		s.logger.Warn("cannot refresh balances", zap.String("address", address), zap.Error(err))
	}
}
