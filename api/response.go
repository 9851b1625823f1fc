// Package api
package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo"

	"github.com/walletscope/walletscope-backend/types"
)

var (
	OK             = EchoResponse{StatusCode: http.StatusOK, Code: 1000, Msg: "Success"}
	InternalServer = EchoResponse{StatusCode: http.StatusInternalServerError, Code: 1100, Msg: "Server busy..."}
	Invalid        = EchoResponse{StatusCode: http.StatusBadRequest, Code: 1101, Msg: "Bad request"}
	NotFound       = EchoResponse{StatusCode: http.StatusNotFound, Code: 1102, Msg: "Not found"}
	Unauthorized   = EchoResponse{StatusCode: http.StatusUnauthorized, Code: 401, Msg: "Unauthorized"}
)

// EchoResponse is the envelope every endpoint answers with. Methods take
// value receivers so the package-level templates stay immutable under
// concurrent handlers.
type EchoResponse struct {
	StatusCode int         `json:"-"`
	Code       int         `json:"code"`
	Msg        string      `json:"msg"`
	Data       interface{} `json:"data,omitempty"`
}

func (r EchoResponse) SetData(data interface{}) EchoResponse {
	r.Data = data
	return r
}

func (r EchoResponse) Build(c echo.Context) error {
	return c.JSON(r.StatusCode, r)
}

// PagingResponse wraps offset-paged list data.
type PagingResponse struct {
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
	Total int64       `json:"total"`
	Data  interface{} `json:"data"`
}

// Err translates service errors into responses. Validation sentinels come
// back as 400 with the sentinel text, missing records as 404, anything else
// as a plain 500 so upstream failures never leak detail to clients.
func Err(err error, c echo.Context) error {
	switch {
	case errors.Is(err, types.ErrInvalidAddress),
		errors.Is(err, types.ErrInvalidName),
		errors.Is(err, types.ErrPortfolioFull),
		errors.Is(err, types.ErrRecordExist):
		resp := Invalid
		resp.Msg = err.Error()
		return resp.Build(c)
	case errors.Is(err, types.ErrNotFound):
		return NotFound.Build(c)
	default:
		return InternalServer.Build(c)
	}
}
