// Package server
package server

import (
	"context"
	"fmt"

	"github.com/walletscope/walletscope-backend/types"
)

// Status serves the operator-set server status, falling back to a default
// when none was ever stored.
func (s *Server) Status(ctx context.Context) (*types.ServerStatus, error) {
	if status, err := s.cache.ServerStatus(ctx); err == nil && status != nil {
		return status, nil
	}
	return &types.ServerStatus{
		Status:     "online",
		AppVersion: s.appVersion,
		ChainName:  s.chainName,
	}, nil
}

func (s *Server) UpdateStatus(ctx context.Context, status *types.ServerStatus) error {
	if status.AppVersion == "" {
		status.AppVersion = s.appVersion
	}
	if status.ChainName == "" {
		status.ChainName = s.chainName
	}
	return s.cache.UpdateServerStatus(ctx, status)
}

// Ping checks the storage and cache connections the service depends on.
func (s *Server) Ping(ctx context.Context) error {
	if err := s.db.Ping(ctx); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := s.cache.Ping(ctx); err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	return nil
}
