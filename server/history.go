// Package server
package server

import (
	"context"

	"go.uber.org/zap"

	"github.com/walletscope/walletscope-backend/metrics"
	"github.com/walletscope/walletscope-backend/types"
	"github.com/walletscope/walletscope-backend/utils"
)

// AddressHistory serves one classified history page for a wallet. Pages come
// from the redis cache when fresh; on a miss the scanner page runs through
// the pipeline and the result is stored for the dashboard's next load. When
// the scanner is down the first page degrades to the last stored summaries.
func (s *Server) AddressHistory(ctx context.Context, q *types.HistoryQuery) (*types.HistoryPage, error) {
	address, err := utils.ValidateAddress(q.Address)
	if err != nil {
		return nil, err
	}
	q.Address = address
	q.Sanitize()
	return s.loadHistoryPage(ctx, q, false)
}

func (s *Server) loadHistoryPage(ctx context.Context, q *types.HistoryQuery, skipCache bool) (*types.HistoryPage, error) {
	lgr := s.logger.With(zap.String("method", "AddressHistory"), zap.String("address", q.Address))

	if !skipCache {
		if page, err := s.cache.HistoryPage(ctx, q.Address, q.Cursor, q.Limit); err == nil && page != nil {
			metrics.HistoryPages.WithLabelValues("cache").Inc()
			return page, nil
		}
	}

	raws, nextCursor, err := s.scanner.AddressTxs(ctx, q.Address, q.Cursor, q.Limit)
	if err != nil {
		lgr.Warn("cannot fetch history from scanner", zap.Error(err))
		if q.Cursor == "" {
			stored, dbErr := s.db.SummariesByWallet(ctx, q.Address, &types.Pagination{Limit: q.Limit})
			if dbErr == nil && len(stored) > 0 {
				metrics.HistoryPages.WithLabelValues("store").Inc()
				return &types.HistoryPage{Summaries: stored}, nil
			}
		}
		return nil, err
	}

	txs := make([]*types.Transaction, 0, len(raws))
	involved := make(map[string]struct{})
	for _, raw := range raws {
		tx := s.pipeline.NormalizeTransaction(raw, q.Address)
		txs = append(txs, tx)
		for _, flow := range s.pipeline.Aggregate(tx, q.Address) {
			involved[flow.TokenAddress] = struct{}{}
		}
	}

	tokens := make([]string, 0, len(involved))
	for token := range involved {
		tokens = append(tokens, token)
	}
	prices := s.resolvePrices(ctx, tokens)
	lookup := func(token string) *types.PriceResult {
		return prices[utils.NormalizeAddress(token)]
	}

	summaries := make([]*types.TxSummary, 0, len(txs))
	for _, tx := range txs {
		summary := s.pipeline.Summarize(tx, q.Address, lookup)
		metrics.RecordClassification(summary.Type)
		summaries = append(summaries, summary)
	}

	page := &types.HistoryPage{Summaries: summaries, NextCursor: nextCursor}
	if err := s.db.UpsertSummaries(ctx, summaries); err != nil {
		lgr.Warn("cannot store summaries", zap.Error(err))
	}
	if err := s.cache.UpdateHistoryPage(ctx, q.Address, q.Cursor, q.Limit, page); err != nil {
		lgr.Warn("cannot cache history page", zap.Error(err))
	}
	metrics.HistoryPages.WithLabelValues("pipeline").Inc()
	return page, nil
}
