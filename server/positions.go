// Package server
package server

import (
	"context"

	"go.uber.org/zap"

	"github.com/walletscope/walletscope-backend/types"
	"github.com/walletscope/walletscope-backend/utils"
)

// LPPositions reads a wallet's stake in each of the given AMM pairs. Pools
// the wallet holds no LP tokens in are omitted; a pool that cannot be read
// is logged and skipped so one bad pair does not hide the rest.
func (s *Server) LPPositions(ctx context.Context, wallet string, pairs []string) ([]*types.LPPosition, error) {
	address, err := utils.ValidateAddress(wallet)
	if err != nil {
		return nil, err
	}
	lgr := s.logger.With(zap.String("method", "LPPositions"), zap.String("address", address))

	positions := make([]*types.LPPosition, 0, len(pairs))
	for _, pair := range pairs {
		pairAddress, err := utils.ValidateAddress(pair)
		if err != nil {
			return nil, err
		}
		position, err := s.chain.LPPosition(ctx, pairAddress, address)
		if err != nil {
			lgr.Warn("cannot read lp position", zap.String("pair", pairAddress), zap.Error(err))
			continue
		}
		if position == nil {
			continue
		}
		positions = append(positions, position)
	}
	return positions, nil
}

// StakingPositions reads the wallet's stake in the configured staking
// contract. No configured contract or an empty stake yields an empty list.
func (s *Server) StakingPositions(ctx context.Context, wallet string) ([]*types.StakingPosition, error) {
	if s.stakingContract == "" {
		return []*types.StakingPosition{}, nil
	}
	address, err := utils.ValidateAddress(wallet)
	if err != nil {
		return nil, err
	}
	staked, rewards, err := s.chain.StakedBalance(ctx, s.stakingContract, address)
	if err != nil {
		return nil, err
	}
	if staked.Sign() == 0 && rewards.Sign() == 0 {
		return []*types.StakingPosition{}, nil
	}
	return []*types.StakingPosition{{
		Contract:       s.stakingContract,
		Staked:         staked.String(),
		StakedDisplay:  utils.DisplayAmount(staked, s.nativeDecimals),
		Rewards:        rewards.String(),
		RewardsDisplay: utils.DisplayAmount(rewards, s.nativeDecimals),
	}}, nil
}
