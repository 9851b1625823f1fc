// Package txflow turns raw wallet history into classified, reconciled
// activity: normalized transfers, a signed net flow per token, a semantic
// transaction type and a display summary. Everything here is a pure function
// over its inputs; fetching, caching and price lookups stay with the caller.
package txflow

import (
	"strings"

	"go.uber.org/zap"

	"github.com/walletscope/walletscope-backend/cfg"
	"github.com/walletscope/walletscope-backend/utils"
)

// Ruleset is the chain-specific vocabulary the pipeline classifies against.
// Built once from config; never mutated afterwards.
type Ruleset struct {
	SwapMethodWords []string
	Routers         map[string]bool
	WrappedNative   string
	WrappedSymbol   string
	NativeSymbol    string
	NativeDecimals  int64
}

func NewRuleset(c cfg.ServiceConfig) Ruleset {
	routers := make(map[string]bool, len(c.SwapRouters))
	for _, r := range c.SwapRouters {
		routers[utils.NormalizeAddress(r)] = true
	}
	words := make([]string, 0, len(c.SwapMethodWords))
	for _, w := range c.SwapMethodWords {
		words = append(words, strings.ToLower(w))
	}
	return Ruleset{
		SwapMethodWords: words,
		Routers:         routers,
		WrappedNative:   utils.NormalizeAddress(c.WrappedNativeAddress),
		WrappedSymbol:   c.WrappedNativeSymbol,
		NativeSymbol:    c.NativeSymbol,
		NativeDecimals:  c.NativeDecimals,
	}
}

type Pipeline struct {
	rules  Ruleset
	logger *zap.Logger
}

func NewPipeline(rules Ruleset, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	if rules.NativeDecimals == 0 {
		rules.NativeDecimals = utils.DefaultDecimals
	}
	return &Pipeline{
		rules:  rules,
		logger: logger,
	}
}

func (p *Pipeline) Rules() Ruleset {
	return p.rules
}
