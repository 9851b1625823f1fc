// Package db
package db

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/walletscope/walletscope-backend/types"
	"github.com/walletscope/walletscope-backend/utils"
)

func (m *mongoDB) UpsertToken(ctx context.Context, token *types.Token) error {
	if token == nil || token.Address == "" {
		return types.ErrInvalidAddress
	}
	token.Address = utils.NormalizeAddress(token.Address)
	if _, err := m.wrapper.C(cTokens).Upsert(ctx, bson.M{"address": token.Address}, token); err != nil {
		return err
	}
	return nil
}

func (m *mongoDB) Token(ctx context.Context, address string) (*types.Token, error) {
	address = utils.NormalizeAddress(address)
	var token *types.Token
	if err := m.wrapper.C(cTokens).FindOne(ctx, bson.M{"address": address}).Decode(&token); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, types.ErrNotFound
		}
		return nil, err
	}
	return token, nil
}
