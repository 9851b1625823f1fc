// Package utils
package utils

import (
	"math/big"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

const DefaultDecimals = 18

// ParseAmount reads a provider amount string, decimal or 0x-prefixed hex,
// into a big.Int. The result is never nil. ok is false only for non-empty
// strings that do not parse; missing values count as a clean zero.
func ParseAmount(s string) (*big.Int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return new(big.Int), true
	}
	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
		base = 16
		if s == "" {
			return new(big.Int), true
		}
	}
	n, ok := new(big.Int).SetString(s, base)
	if !ok {
		return new(big.Int), false
	}
	return n, true
}

// ParseDecimals reads a provider decimals string. Missing or unusable values
// fall back to the ERC20 default of 18.
func ParseDecimals(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultDecimals
	}
	n, ok := new(big.Int).SetString(s, 10)
	if !ok || !n.IsInt64() {
		return DefaultDecimals
	}
	d := n.Int64()
	if d < 0 || d > 77 {
		return DefaultDecimals
	}
	return d
}

// DisplayAmount renders a raw integer amount shifted by decimals as an exact
// decimal string. Pure string slicing, no floating point anywhere.
func DisplayAmount(raw *big.Int, decimals int64) string {
	if raw == nil || raw.Sign() == 0 {
		return "0"
	}
	digits := new(big.Int).Abs(raw).String()
	var out string
	if decimals <= 0 {
		out = digits
	} else {
		if int64(len(digits)) <= decimals {
			digits = strings.Repeat("0", int(decimals)-len(digits)+1) + digits
		}
		cut := len(digits) - int(decimals)
		intPart := digits[:cut]
		fracPart := strings.TrimRight(digits[cut:], "0")
		out = intPart
		if fracPart != "" {
			out += "." + fracPart
		}
	}
	if raw.Sign() < 0 {
		out = "-" + out
	}
	return out
}

// HumanAmount is DisplayAmount for UI lines: thousands-grouped integer part,
// fraction truncated to six places.
func HumanAmount(raw *big.Int, decimals int64) string {
	s := DisplayAmount(raw, decimals)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart := s
	fracPart := ""
	if i := strings.Index(s, "."); i >= 0 {
		intPart = s[:i]
		fracPart = s[i+1:]
	}
	if n, ok := new(big.Int).SetString(intPart, 10); ok {
		intPart = humanize.BigComma(n)
	}
	if len(fracPart) > 6 {
		fracPart = strings.TrimRight(fracPart[:6], "0")
	}

	out := intPart
	if fracPart != "" {
		out += "." + fracPart
	}
	if neg {
		out = "-" + out
	}
	return out
}

// AmountUsd converts a raw integer amount into its USD value at the given
// unit price. Fixed-point throughout.
func AmountUsd(raw *big.Int, decimals int64, priceUsd decimal.Decimal) decimal.Decimal {
	if raw == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(raw, -int32(decimals)).Mul(priceUsd)
}

// FormatUsd renders a USD value as "$1,234.56". Negative values keep the
// sign ahead of the dollar mark.
func FormatUsd(v decimal.Decimal) string {
	fixed := v.Abs().StringFixed(2)
	intPart := fixed
	fracPart := ""
	if i := strings.Index(fixed, "."); i >= 0 {
		intPart = fixed[:i]
		fracPart = fixed[i:]
	}
	if n, ok := new(big.Int).SetString(intPart, 10); ok {
		intPart = humanize.BigComma(n)
	}
	out := "$" + intPart + fracPart
	if v.Sign() < 0 {
		out = "-" + out
	}
	return out
}
