// Package cache
package cache

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/walletscope/walletscope-backend/types"
)

type Adapter string

const (
	RedisAdapter Adapter = "redis"
)

type Config struct {
	Adapter  Adapter
	URL      string
	DB       int
	Password string

	IsFlush bool

	TokenInfoTTL time.Duration
	PriceTTL     time.Duration
	HistoryTTL   time.Duration

	Logger *zap.Logger
}

type Client interface {
	TokenInfo(ctx context.Context, tokenAddress string) (*types.Token, error)
	UpdateTokenInfo(ctx context.Context, token *types.Token) error

	TokenPrice(ctx context.Context, tokenAddress string) (*types.PriceResult, error)
	UpdateTokenPrice(ctx context.Context, price *types.PriceResult) error

	HistoryPage(ctx context.Context, wallet, cursor string, limit int) (*types.HistoryPage, error)
	UpdateHistoryPage(ctx context.Context, wallet, cursor string, limit int, page *types.HistoryPage) error

	PortfolioSnapshot(ctx context.Context, portfolioID string) (*types.PortfolioSnapshot, error)
	UpdatePortfolioSnapshot(ctx context.Context, snapshot *types.PortfolioSnapshot) error

	ServerStatus(ctx context.Context) (*types.ServerStatus, error)
	UpdateServerStatus(ctx context.Context, status *types.ServerStatus) error

	Ping(ctx context.Context) error
}

func New(cfg Config) (Client, error) {
	switch cfg.Adapter {
	case RedisAdapter:
		return newRedis(cfg)
	}
	return nil, errors.New("invalid cache config")
}
