// Package api
package api

import (
	"strconv"

	"github.com/labstack/echo"

	"github.com/walletscope/walletscope-backend/types"
)

// getPagingOption reads ?page=&limit= into a sanitized pagination. Pages
// are 1-based on the wire; absent or garbled params fall back to the first
// default-sized page.
func getPagingOption(c echo.Context) (*types.Pagination, int, int) {
	page, err := strconv.Atoi(c.QueryParam("page"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil {
		limit = 25
	}
	pagination := &types.Pagination{
		Skip:  (page - 1) * limit,
		Limit: limit,
	}
	pagination.Sanitize()
	return pagination, page, pagination.Limit
}
