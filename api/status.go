// Package api
package api

import (
	"github.com/labstack/echo"
	"go.uber.org/zap"

	"github.com/walletscope/walletscope-backend/cfg"
	"github.com/walletscope/walletscope-backend/types"
)

func (s *Server) Ping(c echo.Context) error {
	type pingStat struct {
		Version string `json:"version"`
	}
	stats := &pingStat{Version: cfg.ServerVersion}
	return OK.SetData(stats).Build(c)
}

func (s *Server) ServerStatus(c echo.Context) error {
	ctx, cancel := s.requestContext()
	defer cancel()
	status, err := s.svc.Status(ctx)
	if err != nil {
		s.logger.Warn("cannot load server status", zap.Error(err))
		return Err(err, c)
	}
	return OK.SetData(status).Build(c)
}

func (s *Server) UpdateServerStatus(c echo.Context) error {
	lgr := s.logger.With(zap.String("method", "UpdateServerStatus"))
	if c.Request().Header.Get("Authorization") != s.authorizationSecret {
		return Unauthorized.Build(c)
	}
	ctx, cancel := s.requestContext()
	defer cancel()
	var status types.ServerStatus
	if err := c.Bind(&status); err != nil {
		lgr.Error("cannot bind status payload", zap.Error(err))
		return Invalid.Build(c)
	}
	if err := s.svc.UpdateStatus(ctx, &status); err != nil {
		lgr.Error("cannot update server status", zap.Error(err))
		return Err(err, c)
	}
	return OK.Build(c)
}
