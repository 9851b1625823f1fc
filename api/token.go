// Package api
package api

import (
	"strings"

	"github.com/labstack/echo"
	"go.uber.org/zap"

	"github.com/walletscope/walletscope-backend/types"
	"github.com/walletscope/walletscope-backend/utils"
)

type IToken interface {
	TokenPrice(c echo.Context) error
	TokenPairs(c echo.Context) error
	UploadTokenLogo(c echo.Context) error
}

// TokenPrice answers with the resolved quote, or empty data when no pair
// qualifies. No price is an answer, not an error.
func (s *Server) TokenPrice(c echo.Context) error {
	ctx, cancel := s.requestContext()
	defer cancel()
	token := c.Param("address")
	price, err := s.svc.TokenPrice(ctx, token)
	if err != nil {
		s.logger.Warn("cannot resolve token price", zap.String("token", token), zap.Error(err))
		return Err(err, c)
	}
	return OK.SetData(price).Build(c)
}

func (s *Server) TokenPairs(c echo.Context) error {
	ctx, cancel := s.requestContext()
	defer cancel()
	token := c.Param("address")
	pairs, err := s.svc.TokenPairs(ctx, token)
	if err != nil {
		s.logger.Warn("cannot load token pairs", zap.String("token", token), zap.Error(err))
		return Err(err, c)
	}
	return OK.SetData(pairs).Build(c)
}

// UploadTokenLogo stores a base64 image for a token and points its registry
// entry at the uploaded file. The object key is the bare address hash so
// re-uploads overwrite in place.
func (s *Server) UploadTokenLogo(c echo.Context) error {
	lgr := s.logger.With(zap.String("method", "UploadTokenLogo"))
	if c.Request().Header.Get("Authorization") != s.authorizationSecret {
		return Unauthorized.Build(c)
	}
	ctx, cancel := s.requestContext()
	defer cancel()

	var req types.UploadLogoRequest
	if err := c.Bind(&req); err != nil {
		lgr.Error("cannot bind logo payload", zap.Error(err))
		return Invalid.Build(c)
	}
	if !utils.CheckBase64Logo(req.Logo) {
		return Invalid.Build(c)
	}
	if s.fileStorage == nil {
		lgr.Error("logo storage is not configured")
		return InternalServer.Build(c)
	}

	address, err := utils.ValidateAddress(c.Param("address"))
	if err != nil {
		return Err(err, c)
	}
	fileName, err := s.fileStorage.UploadLogo(req.Logo, strings.TrimPrefix(address, "0x"))
	if err != nil {
		lgr.Error("cannot upload logo", zap.String("token", address), zap.Error(err))
		return InternalServer.Build(c)
	}
	token, err := s.svc.UpdateTokenLogo(ctx, address, fileName)
	if err != nil {
		lgr.Error("cannot update token logo", zap.String("token", address), zap.Error(err))
		return Err(err, c)
	}
	return OK.SetData(token).Build(c)
}
