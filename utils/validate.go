// Package utils
package utils

import (
	"encoding/base64"
	"regexp"
	"strings"
)

var addressRe = regexp.MustCompile("^0x[0-9a-fA-F]{40}$")

func IsValidAddress(v string) bool {
	return addressRe.MatchString(v)
}

func CheckBase64Logo(logo string) bool {
	if strings.Contains(logo, "data:image/jpeg;base64,") || strings.Contains(logo, "data:image/png;base64,") || strings.Contains(logo, "data:image/webp;base64,") {
		if _, err := base64.StdEncoding.DecodeString(strings.Split(logo, ",")[1]); err == nil {
			return true
		}
	} else if _, err := base64.StdEncoding.DecodeString(logo); err == nil {
		return true
	}
	return false
}
