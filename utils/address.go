// Package utils
package utils

import (
	"strings"

	"github.com/walletscope/walletscope-backend/types"
)

func CleanUpHex(s string) string {
	s = strings.Replace(strings.TrimPrefix(s, "0x"), " ", "", -1)

	return strings.ToLower(s)
}

// NormalizeAddress lower-cases an address and guarantees the 0x prefix.
// Every address comparison in the pipeline goes through this first.
func NormalizeAddress(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return ""
	}
	if !strings.HasPrefix(s, "0x") {
		s = "0x" + s
	}
	return s
}

func ValidateAddress(address string) (string, error) {
	cleaned := CleanUpHex(address)
	if !IsValidAddress("0x" + cleaned) {
		return "", types.ErrInvalidAddress
	}
	return "0x" + cleaned, nil
}

func AppendNotEmpty(slice []string, str string) []string {
	if str != "" {
		return append(slice, str)
	}

	return slice
}
