// Package api
package api

import (
	"strconv"
	"strings"

	"github.com/labstack/echo"
	"go.uber.org/zap"

	"github.com/walletscope/walletscope-backend/types"
	"github.com/walletscope/walletscope-backend/utils"
)

type IAddress interface {
	AddressTxs(c echo.Context) error
	AddressTokens(c echo.Context) error
	AddressLPPositions(c echo.Context) error
	AddressStaking(c echo.Context) error
}

// AddressTxs returns one classified history page. Paging is cursor-driven:
// clients echo back nextCursor from the previous page.
func (s *Server) AddressTxs(c echo.Context) error {
	ctx, cancel := s.requestContext()
	defer cancel()
	q := &types.HistoryQuery{
		Address: c.Param("address"),
		Cursor:  c.QueryParam("cursor"),
	}
	if limitParam := c.QueryParam("limit"); limitParam != "" {
		limit, err := strconv.Atoi(limitParam)
		if err != nil {
			return Invalid.Build(c)
		}
		q.Limit = limit
	}
	page, err := s.svc.AddressHistory(ctx, q)
	if err != nil {
		s.logger.Warn("cannot load address history", zap.String("address", q.Address), zap.Error(err))
		return Err(err, c)
	}
	return OK.SetData(page).Build(c)
}

func (s *Server) AddressTokens(c echo.Context) error {
	ctx, cancel := s.requestContext()
	defer cancel()
	address := c.Param("address")
	balances, err := s.svc.AddressTokens(ctx, address)
	if err != nil {
		s.logger.Warn("cannot load address tokens", zap.String("address", address), zap.Error(err))
		return Err(err, c)
	}
	return OK.SetData(balances).Build(c)
}

// AddressLPPositions reads the pair contracts to probe from the ?pairs=
// query param, comma separated.
func (s *Server) AddressLPPositions(c echo.Context) error {
	ctx, cancel := s.requestContext()
	defer cancel()
	address := c.Param("address")
	var pairs []string
	for _, pair := range strings.Split(c.QueryParam("pairs"), ",") {
		pairs = utils.AppendNotEmpty(pairs, strings.TrimSpace(pair))
	}
	positions, err := s.svc.LPPositions(ctx, address, pairs)
	if err != nil {
		s.logger.Warn("cannot load lp positions", zap.String("address", address), zap.Error(err))
		return Err(err, c)
	}
	return OK.SetData(positions).Build(c)
}

func (s *Server) AddressStaking(c echo.Context) error {
	ctx, cancel := s.requestContext()
	defer cancel()
	address := c.Param("address")
	positions, err := s.svc.StakingPositions(ctx, address)
	if err != nil {
		s.logger.Warn("cannot load staking positions", zap.String("address", address), zap.Error(err))
		return Err(err, c)
	}
	return OK.SetData(positions).Build(c)
}
