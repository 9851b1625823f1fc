// Package api
package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo"
	"github.com/labstack/echo/middleware"

	"github.com/walletscope/walletscope-backend/cfg"
	"github.com/walletscope/walletscope-backend/metrics"
	"github.com/walletscope/walletscope-backend/types"
)

type restDefinition struct {
	method      string
	path        string
	fn          func(c echo.Context) error
	middlewares []echo.MiddlewareFunc
}

func bind(gr *echo.Group, srv RestServer) {
	apis := []restDefinition{
		{
			method:      echo.GET,
			path:        "/ping",
			fn:          srv.Ping,
			middlewares: nil,
		},
		{
			method:      echo.GET,
			path:        "/status",
			fn:          srv.ServerStatus,
			middlewares: nil,
		},
		{
			method:      echo.PUT,
			path:        "/status",
			fn:          srv.UpdateServerStatus,
			middlewares: nil,
		},
		// Addresses
		{
			method: echo.GET,
			// Query params: ?cursor=abc&limit=25
			path:        "/addresses/:address/txs",
			fn:          srv.AddressTxs,
			middlewares: []echo.MiddlewareFunc{checkPagination()},
		},
		{
			method: echo.GET,
			path:   "/addresses/:address/tokens",
			fn:     srv.AddressTokens,
		},
		{
			method: echo.GET,
			// Query params: ?pairs=0x..,0x..
			path: "/addresses/:address/positions",
			fn:   srv.AddressLPPositions,
		},
		{
			method: echo.GET,
			path:   "/addresses/:address/staking",
			fn:     srv.AddressStaking,
		},
		// Tokens
		{
			method: echo.GET,
			path:   "/tokens/:address/price",
			fn:     srv.TokenPrice,
		},
		{
			method: echo.GET,
			path:   "/tokens/:address/pairs",
			fn:     srv.TokenPairs,
		},
		{
			method: echo.POST,
			path:   "/tokens/:address/logo",
			fn:     srv.UploadTokenLogo,
		},
		// Portfolios
		{
			method: echo.POST,
			path:   "/portfolios",
			fn:     srv.CreatePortfolio,
		},
		{
			method: echo.GET,
			// Query params: ?page=1&limit=25
			path:        "/portfolios",
			fn:          srv.Portfolios,
			middlewares: []echo.MiddlewareFunc{checkPagination()},
		},
		{
			method: echo.GET,
			path:   "/portfolios/:id",
			fn:     srv.Portfolio,
		},
		{
			method: echo.GET,
			path:   "/portfolios/:id/summary",
			fn:     srv.PortfolioSummary,
		},
		{
			method: echo.PUT,
			path:   "/portfolios/:id/addresses",
			fn:     srv.AddPortfolioAddress,
		},
		{
			method: echo.DELETE,
			path:   "/portfolios/:id/addresses/:address",
			fn:     srv.RemovePortfolioAddress,
		},
		{
			method: echo.DELETE,
			path:   "/portfolios/:id",
			fn:     srv.RemovePortfolio,
		},
	}
	for _, api := range apis {
		gr.Add(api.method, api.path, api.fn, api.middlewares...)
	}
}

// checkPagination rejects malformed page/limit query params before the
// handler runs. Clamping oversized values stays with Pagination.Sanitize;
// this only turns away garbage.
func checkPagination() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if pageParam := c.QueryParam("page"); pageParam != "" {
				if page, err := strconv.Atoi(pageParam); err != nil || page < 1 {
					return Invalid.Build(c)
				}
			}
			if limitParam := c.QueryParam("limit"); limitParam != "" {
				if limit, err := strconv.Atoi(limitParam); err != nil || limit < 1 || limit > types.MaximumLimit {
					return Invalid.Build(c)
				}
			}
			return next(c)
		}
	}
}

// Start blocks serving the REST API until the listener fails or the caller
// shuts e down.
func Start(e *echo.Echo, srv RestServer, cfg cfg.ServiceConfig) {
	e.Use(middleware.CORS())
	e.Use(middleware.Logger())
	e.Use(middleware.Gzip())

	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	v1Gr := e.Group("/api/v1")
	bind(v1Gr, srv)
	if err := e.Start(cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
		fmt.Println("cannot start echo server", err.Error())
		panic(err)
	}
}
