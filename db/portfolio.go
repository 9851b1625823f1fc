// Package db
package db

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/walletscope/walletscope-backend/types"
)

func (m *mongoDB) InsertPortfolio(ctx context.Context, portfolio *types.Portfolio) error {
	if portfolio == nil || portfolio.ID == "" {
		return errors.New("invalid portfolio")
	}
	if _, err := m.wrapper.C(cPortfolios).Insert(ctx, portfolio); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return types.ErrRecordExist
		}
		return err
	}
	return nil
}

func (m *mongoDB) Portfolio(ctx context.Context, id string) (*types.Portfolio, error) {
	var portfolio *types.Portfolio
	if err := m.wrapper.C(cPortfolios).FindOne(ctx, bson.M{"id": id}).Decode(&portfolio); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, types.ErrNotFound
		}
		return nil, err
	}
	return portfolio, nil
}

func (m *mongoDB) Portfolios(ctx context.Context, pagination *types.Pagination) ([]*types.Portfolio, int64, error) {
	opts := options.Find().SetSort(bson.M{"createdAt": -1})
	if pagination != nil {
		pagination.Sanitize()
		opts.SetSkip(int64(pagination.Skip)).SetLimit(int64(pagination.Limit))
	}

	cursor, err := m.wrapper.C(cPortfolios).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var portfolios []*types.Portfolio
	for cursor.Next(ctx) {
		portfolio := &types.Portfolio{}
		if err := cursor.Decode(portfolio); err != nil {
			return nil, 0, err
		}
		portfolios = append(portfolios, portfolio)
	}

	total, err := m.wrapper.C(cPortfolios).Count(ctx, bson.M{})
	if err != nil {
		return nil, 0, err
	}
	return portfolios, total, nil
}

func (m *mongoDB) UpdatePortfolio(ctx context.Context, portfolio *types.Portfolio) error {
	if portfolio == nil || portfolio.ID == "" {
		return errors.New("invalid portfolio")
	}
	update := bson.M{"$set": bson.M{
		"name":      portfolio.Name,
		"addresses": portfolio.Addresses,
		"updatedAt": portfolio.UpdatedAt,
	}}
	result, err := m.wrapper.C(cPortfolios).Update(ctx, bson.M{"id": portfolio.ID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return types.ErrNotFound
	}
	return nil
}

func (m *mongoDB) RemovePortfolio(ctx context.Context, id string) error {
	result, err := m.wrapper.C(cPortfolios).Remove(ctx, bson.M{"id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return types.ErrNotFound
	}
	return nil
}
