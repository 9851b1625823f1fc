// Package server
package server

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/walletscope/walletscope-backend/types"
	"github.com/walletscope/walletscope-backend/utils"
)

const maxPortfolioAddresses = 20

// CreatePortfolio validates the request, deduplicates its addresses and
// stores a new portfolio under a fresh id.
func (s *Server) CreatePortfolio(ctx context.Context, req *types.CreatePortfolioRequest) (*types.Portfolio, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, types.ErrInvalidName
	}

	seen := make(map[string]bool, len(req.Addresses))
	addresses := make([]string, 0, len(req.Addresses))
	for _, a := range req.Addresses {
		address, err := utils.ValidateAddress(a)
		if err != nil {
			return nil, err
		}
		if seen[address] {
			continue
		}
		seen[address] = true
		addresses = append(addresses, address)
	}
	if len(addresses) > maxPortfolioAddresses {
		return nil, types.ErrPortfolioFull
	}

	now := time.Now().Unix()
	portfolio := &types.Portfolio{
		ID:        uuid.NewString(),
		Name:      name,
		Addresses: addresses,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.db.InsertPortfolio(ctx, portfolio); err != nil {
		return nil, err
	}
	return portfolio, nil
}

func (s *Server) Portfolios(ctx context.Context, pagination *types.Pagination) ([]*types.Portfolio, int64, error) {
	return s.db.Portfolios(ctx, pagination)
}

func (s *Server) RemovePortfolio(ctx context.Context, id string) error {
	return s.db.RemovePortfolio(ctx, id)
}

// AddPortfolioAddress appends one address to a portfolio. Adding an address
// that is already a member is a no-op, not an error.
func (s *Server) AddPortfolioAddress(ctx context.Context, id, address string) (*types.Portfolio, error) {
	normalized, err := utils.ValidateAddress(address)
	if err != nil {
		return nil, err
	}
	portfolio, err := s.db.Portfolio(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, a := range portfolio.Addresses {
		if a == normalized {
			return portfolio, nil
		}
	}
	if len(portfolio.Addresses) >= maxPortfolioAddresses {
		return nil, types.ErrPortfolioFull
	}
	portfolio.Addresses = append(portfolio.Addresses, normalized)
	portfolio.UpdatedAt = time.Now().Unix()
	if err := s.db.UpdatePortfolio(ctx, portfolio); err != nil {
		return nil, err
	}
	return portfolio, nil
}

func (s *Server) RemovePortfolioAddress(ctx context.Context, id, address string) (*types.Portfolio, error) {
	normalized, err := utils.ValidateAddress(address)
	if err != nil {
		return nil, err
	}
	portfolio, err := s.db.Portfolio(ctx, id)
	if err != nil {
		return nil, err
	}
	kept := make([]string, 0, len(portfolio.Addresses))
	for _, a := range portfolio.Addresses {
		if a != normalized {
			kept = append(kept, a)
		}
	}
	if len(kept) == len(portfolio.Addresses) {
		return nil, types.ErrNotFound
	}
	portfolio.Addresses = kept
	portfolio.UpdatedAt = time.Now().Unix()
	if err := s.db.UpdatePortfolio(ctx, portfolio); err != nil {
		return nil, err
	}
	return portfolio, nil
}

// PortfolioSnapshot serves a portfolio with live balances for every member.
// Snapshots are cached briefly; membership changes show up once the cached
// copy expires.
func (s *Server) PortfolioSnapshot(ctx context.Context, id string) (*types.PortfolioSnapshot, error) {
	if snapshot, err := s.cache.PortfolioSnapshot(ctx, id); err == nil && snapshot != nil {
		return snapshot, nil
	}
	portfolio, err := s.db.Portfolio(ctx, id)
	if err != nil {
		return nil, err
	}
	snapshot, err := s.snapshotPortfolio(ctx, portfolio)
	if err != nil {
		return nil, err
	}
	if err := s.cache.UpdatePortfolioSnapshot(ctx, snapshot); err != nil {
		s.logger.Warn("cannot cache portfolio snapshot", zap.String("portfolio", id), zap.Error(err))
	}
	return snapshot, nil
}

// PortfolioSummary is the snapshot with token detail stripped: per-member
// totals and the portfolio total only.
func (s *Server) PortfolioSummary(ctx context.Context, id string) (*types.PortfolioSnapshot, error) {
	snapshot, err := s.PortfolioSnapshot(ctx, id)
	if err != nil {
		return nil, err
	}
	members := make([]*types.AddressSnapshot, len(snapshot.Members))
	for i, m := range snapshot.Members {
		members[i] = &types.AddressSnapshot{Address: m.Address, TotalUsd: m.TotalUsd}
	}
	return &types.PortfolioSnapshot{
		Portfolio: snapshot.Portfolio,
		Members:   members,
		TotalUsd:  snapshot.TotalUsd,
	}, nil
}

// snapshotPortfolio assembles member balances concurrently. A member whose
// upstream lookup fails degrades to an empty snapshot; only cancellation
// aborts the whole assembly.
func (s *Server) snapshotPortfolio(ctx context.Context, portfolio *types.Portfolio) (*types.PortfolioSnapshot, error) {
	members := make([]*types.AddressSnapshot, len(portfolio.Addresses))
	totals := make([]decimal.Decimal, len(portfolio.Addresses))

	g, gctx := errgroup.WithContext(ctx)
	for i, address := range portfolio.Addresses {
		i, address := i, address
		g.Go(func() error {
			tokens, total, err := s.addressTokens(gctx, address)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				s.logger.Warn("cannot snapshot address", zap.String("address", address), zap.Error(err))
				members[i] = &types.AddressSnapshot{Address: address}
				return nil
			}
			members[i] = &types.AddressSnapshot{
				Address:  address,
				Tokens:   tokens,
				TotalUsd: utils.FormatUsd(total),
			}
			totals[i] = total
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, t := range totals {
		total = total.Add(t)
	}
	return &types.PortfolioSnapshot{
		Portfolio: portfolio,
		Members:   members,
		TotalUsd:  utils.FormatUsd(total),
	}, nil
}
