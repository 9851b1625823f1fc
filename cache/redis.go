// Package cache
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/walletscope/walletscope-backend/metrics"
	"github.com/walletscope/walletscope-backend/types"
	"github.com/walletscope/walletscope-backend/utils"
)

const (
	KeyTokenInfo  = "#token#info#%s"
	KeyTokenPrice = "#token#price#%s"

	KeyHistoryPage = "#history#%s#%s#%d" // wallet, cursor, limit

	KeyPortfolioSnapshot = "#portfolio#snapshot#%s"

	KeyServerStatus = "#server#status"
)

type Redis struct {
	cfg    Config
	client *redis.Client

	logger *zap.Logger
}

func newRedis(cfg Config) (Client, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.URL,
		DB:       cfg.DB,
		Password: cfg.Password,
	})

	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		return nil, err
	}
	if cfg.IsFlush {
		msg, err := redisClient.FlushAll(context.Background()).Result()
		if err != nil || msg != "OK" {
			return nil, err
		}
	}

	if cfg.TokenInfoTTL <= 0 {
		cfg.TokenInfoTTL = time.Hour
	}
	if cfg.PriceTTL <= 0 {
		cfg.PriceTTL = 5 * time.Minute
	}
	if cfg.HistoryTTL <= 0 {
		cfg.HistoryTTL = 30 * time.Second
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	client := &Redis{
		cfg:    cfg,
		client: redisClient,
		logger: logger.With(zap.String("cache", "redis")),
	}
	return client, nil
}

func (c *Redis) Ping(ctx context.Context) error {
	_, err := c.client.Ping(ctx).Result()
	return err
}

func (c *Redis) get(ctx context.Context, key string, out interface{}) error {
	result, err := c.client.Get(ctx, key).Result()
	if err != nil {
		metrics.RecordCacheLookup("redis", false)
		return err
	}
	if err := json.Unmarshal([]byte(result), out); err != nil {
		metrics.RecordCacheLookup("redis", false)
		return err
	}
	metrics.RecordCacheLookup("redis", true)
	return nil
}

func (c *Redis) set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if _, err := c.client.Set(ctx, key, string(data), ttl).Result(); err != nil {
		return err
	}
	return nil
}

func (c *Redis) TokenInfo(ctx context.Context, tokenAddress string) (*types.Token, error) {
	key := fmt.Sprintf(KeyTokenInfo, utils.NormalizeAddress(tokenAddress))
	var token *types.Token
	if err := c.get(ctx, key, &token); err != nil {
		return nil, err
	}
	return token, nil
}

func (c *Redis) UpdateTokenInfo(ctx context.Context, token *types.Token) error {
	if token == nil || token.Address == "" {
		return errors.New("invalid token info")
	}
	// Stored value matches its key: one canonical address form everywhere.
	token.Address = utils.NormalizeAddress(token.Address)
	key := fmt.Sprintf(KeyTokenInfo, token.Address)
	return c.set(ctx, key, token, c.cfg.TokenInfoTTL)
}

func (c *Redis) TokenPrice(ctx context.Context, tokenAddress string) (*types.PriceResult, error) {
	key := fmt.Sprintf(KeyTokenPrice, utils.NormalizeAddress(tokenAddress))
	var price *types.PriceResult
	if err := c.get(ctx, key, &price); err != nil {
		return nil, err
	}
	return price, nil
}

func (c *Redis) UpdateTokenPrice(ctx context.Context, price *types.PriceResult) error {
	if price == nil || price.TokenAddress == "" {
		return errors.New("invalid price result")
	}
	key := fmt.Sprintf(KeyTokenPrice, utils.NormalizeAddress(price.TokenAddress))
	return c.set(ctx, key, price, c.cfg.PriceTTL)
}

func (c *Redis) HistoryPage(ctx context.Context, wallet, cursor string, limit int) (*types.HistoryPage, error) {
	key := fmt.Sprintf(KeyHistoryPage, utils.NormalizeAddress(wallet), cursor, limit)
	var page *types.HistoryPage
	if err := c.get(ctx, key, &page); err != nil {
		return nil, err
	}
	return page, nil
}

func (c *Redis) UpdateHistoryPage(ctx context.Context, wallet, cursor string, limit int, page *types.HistoryPage) error {
	if page == nil {
		return errors.New("invalid history page")
	}
	key := fmt.Sprintf(KeyHistoryPage, utils.NormalizeAddress(wallet), cursor, limit)
	return c.set(ctx, key, page, c.cfg.HistoryTTL)
}

func (c *Redis) PortfolioSnapshot(ctx context.Context, portfolioID string) (*types.PortfolioSnapshot, error) {
	key := fmt.Sprintf(KeyPortfolioSnapshot, portfolioID)
	var snapshot *types.PortfolioSnapshot
	if err := c.get(ctx, key, &snapshot); err != nil {
		return nil, err
	}
	return snapshot, nil
}

func (c *Redis) UpdatePortfolioSnapshot(ctx context.Context, snapshot *types.PortfolioSnapshot) error {
	if snapshot == nil || snapshot.Portfolio == nil || snapshot.Portfolio.ID == "" {
		return errors.New("invalid portfolio snapshot")
	}
	key := fmt.Sprintf(KeyPortfolioSnapshot, snapshot.Portfolio.ID)
	return c.set(ctx, key, snapshot, c.cfg.HistoryTTL)
}

func (c *Redis) ServerStatus(ctx context.Context) (*types.ServerStatus, error) {
	var status *types.ServerStatus
	if err := c.get(ctx, KeyServerStatus, &status); err != nil {
		return nil, err
	}
	return status, nil
}

func (c *Redis) UpdateServerStatus(ctx context.Context, status *types.ServerStatus) error {
	if status == nil {
		return errors.New("invalid server status")
	}
	// Status survives restarts; no expiry.
	return c.set(ctx, KeyServerStatus, status, 0)
}
