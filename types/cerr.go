// Package types
package types

import (
	"errors"
)

var ErrRecordExist = errors.New("record exist")
var ErrNotFound = errors.New("record not found")
var ErrInvalidAddress = errors.New("invalid address")
var ErrInvalidName = errors.New("invalid name")
var ErrPortfolioFull = errors.New("portfolio address limit reached")
