// Package api
package api

import (
	"github.com/labstack/echo"
	"go.uber.org/zap"

	"github.com/walletscope/walletscope-backend/types"
)

type IPortfolio interface {
	CreatePortfolio(c echo.Context) error
	Portfolios(c echo.Context) error
	Portfolio(c echo.Context) error
	PortfolioSummary(c echo.Context) error
	AddPortfolioAddress(c echo.Context) error
	RemovePortfolioAddress(c echo.Context) error
	RemovePortfolio(c echo.Context) error
}

func (s *Server) CreatePortfolio(c echo.Context) error {
	lgr := s.logger.With(zap.String("method", "CreatePortfolio"))
	if c.Request().Header.Get("Authorization") != s.authorizationSecret {
		return Unauthorized.Build(c)
	}
	ctx, cancel := s.requestContext()
	defer cancel()
	var req types.CreatePortfolioRequest
	if err := c.Bind(&req); err != nil {
		lgr.Error("cannot bind portfolio payload", zap.Error(err))
		return Invalid.Build(c)
	}
	portfolio, err := s.svc.CreatePortfolio(ctx, &req)
	if err != nil {
		return Err(err, c)
	}
	return OK.SetData(portfolio).Build(c)
}

func (s *Server) Portfolios(c echo.Context) error {
	ctx, cancel := s.requestContext()
	defer cancel()
	pagination, page, limit := getPagingOption(c)
	portfolios, total, err := s.svc.Portfolios(ctx, pagination)
	if err != nil {
		s.logger.Warn("cannot list portfolios", zap.Error(err))
		return Err(err, c)
	}
	return OK.SetData(PagingResponse{
		Page:  page,
		Limit: limit,
		Total: total,
		Data:  portfolios,
	}).Build(c)
}

// Portfolio returns the full snapshot: membership plus live balances for
// every member address.
func (s *Server) Portfolio(c echo.Context) error {
	ctx, cancel := s.requestContext()
	defer cancel()
	id := c.Param("id")
	snapshot, err := s.svc.PortfolioSnapshot(ctx, id)
	if err != nil {
		s.logger.Warn("cannot load portfolio snapshot", zap.String("id", id), zap.Error(err))
		return Err(err, c)
	}
	return OK.SetData(snapshot).Build(c)
}

// PortfolioSummary is the snapshot with per-token detail stripped, one
// total per member.
func (s *Server) PortfolioSummary(c echo.Context) error {
	ctx, cancel := s.requestContext()
	defer cancel()
	id := c.Param("id")
	summary, err := s.svc.PortfolioSummary(ctx, id)
	if err != nil {
		s.logger.Warn("cannot load portfolio summary", zap.String("id", id), zap.Error(err))
		return Err(err, c)
	}
	return OK.SetData(summary).Build(c)
}

func (s *Server) AddPortfolioAddress(c echo.Context) error {
	lgr := s.logger.With(zap.String("method", "AddPortfolioAddress"))
	if c.Request().Header.Get("Authorization") != s.authorizationSecret {
		return Unauthorized.Build(c)
	}
	ctx, cancel := s.requestContext()
	defer cancel()
	var req types.AddAddressRequest
	if err := c.Bind(&req); err != nil {
		lgr.Error("cannot bind address payload", zap.Error(err))
		return Invalid.Build(c)
	}
	portfolio, err := s.svc.AddPortfolioAddress(ctx, c.Param("id"), req.Address)
	if err != nil {
		return Err(err, c)
	}
	return OK.SetData(portfolio).Build(c)
}

func (s *Server) RemovePortfolioAddress(c echo.Context) error {
	if c.Request().Header.Get("Authorization") != s.authorizationSecret {
		return Unauthorized.Build(c)
	}
	ctx, cancel := s.requestContext()
	defer cancel()
	portfolio, err := s.svc.RemovePortfolioAddress(ctx, c.Param("id"), c.Param("address"))
	if err != nil {
		return Err(err, c)
	}
	return OK.SetData(portfolio).Build(c)
}

func (s *Server) RemovePortfolio(c echo.Context) error {
	if c.Request().Header.Get("Authorization") != s.authorizationSecret {
		return Unauthorized.Build(c)
	}
	ctx, cancel := s.requestContext()
	defer cancel()
	if err := s.svc.RemovePortfolio(ctx, c.Param("id")); err != nil {
		return Err(err, c)
	}
	return OK.Build(c)
}
