// Package db
package db

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/walletscope/walletscope-backend/types"
)

type Adapter string

const (
	MGO Adapter = "mgo"
)

type Config struct {
	DbAdapter Adapter
	DbName    string
	URL       string
	MinConn   int
	MaxConn   int
	FlushDB   bool

	Logger *zap.Logger
}

type IPortfolios interface {
	InsertPortfolio(ctx context.Context, portfolio *types.Portfolio) error
	Portfolio(ctx context.Context, id string) (*types.Portfolio, error)
	Portfolios(ctx context.Context, pagination *types.Pagination) ([]*types.Portfolio, int64, error)
	UpdatePortfolio(ctx context.Context, portfolio *types.Portfolio) error
	RemovePortfolio(ctx context.Context, id string) error
}

type ITokens interface {
	UpsertToken(ctx context.Context, token *types.Token) error
	Token(ctx context.Context, address string) (*types.Token, error)
}

type ISummaries interface {
	UpsertSummaries(ctx context.Context, summaries []*types.TxSummary) error
	SummariesByWallet(ctx context.Context, wallet string, pagination *types.Pagination) ([]*types.TxSummary, error)
}

type Client interface {
	Ping(ctx context.Context) error
	dropDatabase(ctx context.Context) error

	IPortfolios
	ITokens
	ISummaries
}

func NewClient(cfg Config) (Client, error) {
	switch cfg.DbAdapter {
	case MGO:
		return newMongoDB(cfg)
	default:
		return nil, errors.New("invalid db config")
	}
}
