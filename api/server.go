// Package api
package api

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/walletscope/walletscope-backend/types"
)

const defaultRequestTimeout = 10 * time.Second

// Service is the slice of the wallet service the REST layer calls into.
type Service interface {
	AddressHistory(ctx context.Context, q *types.HistoryQuery) (*types.HistoryPage, error)
	AddressTokens(ctx context.Context, address string) ([]*types.TokenBalance, error)
	LPPositions(ctx context.Context, wallet string, pairs []string) ([]*types.LPPosition, error)
	StakingPositions(ctx context.Context, wallet string) ([]*types.StakingPosition, error)

	TokenPrice(ctx context.Context, token string) (*types.PriceResult, error)
	TokenPairs(ctx context.Context, token string) ([]*types.TradingPair, error)
	UpdateTokenLogo(ctx context.Context, address, logo string) (*types.Token, error)

	CreatePortfolio(ctx context.Context, req *types.CreatePortfolioRequest) (*types.Portfolio, error)
	Portfolios(ctx context.Context, pagination *types.Pagination) ([]*types.Portfolio, int64, error)
	PortfolioSnapshot(ctx context.Context, id string) (*types.PortfolioSnapshot, error)
	PortfolioSummary(ctx context.Context, id string) (*types.PortfolioSnapshot, error)
	AddPortfolioAddress(ctx context.Context, id, address string) (*types.Portfolio, error)
	RemovePortfolioAddress(ctx context.Context, id, address string) (*types.Portfolio, error)
	RemovePortfolio(ctx context.Context, id string) error

	Status(ctx context.Context) (*types.ServerStatus, error)
	UpdateStatus(ctx context.Context, status *types.ServerStatus) error
}

// FileStorage persists uploaded images and returns their public location.
type FileStorage interface {
	UploadLogo(base64Logo, name string) (string, error)
}

type Server struct {
	authorizationSecret string

	svc            Service
	fileStorage    FileStorage
	requestTimeout time.Duration

	logger *zap.Logger
}

func (s *Server) SetSecret(secret string) *Server {
	s.authorizationSecret = secret
	return s
}

func (s *Server) SetLogger(logger *zap.Logger) *Server {
	s.logger = logger
	return s
}

func (s *Server) SetService(svc Service) *Server {
	s.svc = svc
	return s
}

func (s *Server) SetFileStorage(fs FileStorage) *Server {
	s.fileStorage = fs
	return s
}

func (s *Server) SetRequestTimeout(timeout time.Duration) *Server {
	s.requestTimeout = timeout
	return s
}

// requestContext bounds one handler invocation. Handlers never ride the
// request's own context so a dropped connection cannot cancel a write that
// already started.
func (s *Server) requestContext() (context.Context, context.CancelFunc) {
	timeout := s.requestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return context.WithTimeout(context.Background(), timeout)
}
