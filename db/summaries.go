// Package db
package db

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/walletscope/walletscope-backend/types"
	"github.com/walletscope/walletscope-backend/utils"
)

func (m *mongoDB) UpsertSummaries(ctx context.Context, summaries []*types.TxSummary) error {
	if len(summaries) == 0 {
		return nil
	}
	models := make([]mongo.WriteModel, 0, len(summaries))
	for _, s := range summaries {
		if s == nil || s.Hash == "" {
			continue
		}
		s.Wallet = utils.NormalizeAddress(s.Wallet)
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"wallet": s.Wallet, "hash": s.Hash}).
			SetUpdate(bson.M{"$set": s}).
			SetUpsert(true))
	}
	if len(models) == 0 {
		return nil
	}
	if _, err := m.wrapper.C(cSummaries).BulkUpsert(ctx, models); err != nil {
		return err
	}
	return nil
}

func (m *mongoDB) SummariesByWallet(ctx context.Context, wallet string, pagination *types.Pagination) ([]*types.TxSummary, error) {
	wallet = utils.NormalizeAddress(wallet)
	opts := []*options.FindOptions{
		options.Find().SetSort(bson.M{"time": -1}),
	}
	if pagination != nil {
		pagination.Sanitize()
		opts = append(opts, options.Find().SetSkip(int64(pagination.Skip)), options.Find().SetLimit(int64(pagination.Limit)))
	}
	cursor, err := m.wrapper.C(cSummaries).Find(ctx, bson.M{"wallet": wallet}, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var summaries []*types.TxSummary
	for cursor.Next(ctx) {
		summary := &types.TxSummary{}
		if err := cursor.Decode(summary); err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}
