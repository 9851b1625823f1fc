package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/walletscope/walletscope-backend/types"
)

const testSecret = "test-secret"

// fakeService records what the handlers pass down and answers with canned
// data, so routing, binding and auth can be tested without any backend.
type fakeService struct {
	historyQuery *types.HistoryQuery
	historyPage  *types.HistoryPage
	historyErr   error

	tokensAddress string
	tokens        []*types.TokenBalance
	tokensErr     error

	positions []*types.LPPosition
	staking   []*types.StakingPosition

	price    *types.PriceResult
	priceErr error
	pairs    []*types.TradingPair

	logoAddress string
	logoURL     string
	logoToken   *types.Token

	createReq  *types.CreatePortfolioRequest
	pagination *types.Pagination
	portfolios []*types.Portfolio
	total      int64
	snapshot   *types.PortfolioSnapshot
	removedID  string

	status *types.ServerStatus
}

func (f *fakeService) AddressHistory(_ context.Context, q *types.HistoryQuery) (*types.HistoryPage, error) {
	f.historyQuery = q
	return f.historyPage, f.historyErr
}

func (f *fakeService) AddressTokens(_ context.Context, address string) ([]*types.TokenBalance, error) {
	f.tokensAddress = address
	return f.tokens, f.tokensErr
}

func (f *fakeService) LPPositions(_ context.Context, _ string, _ []string) ([]*types.LPPosition, error) {
	return f.positions, nil
}

func (f *fakeService) StakingPositions(_ context.Context, _ string) ([]*types.StakingPosition, error) {
	return f.staking, nil
}

func (f *fakeService) TokenPrice(_ context.Context, _ string) (*types.PriceResult, error) {
	return f.price, f.priceErr
}

func (f *fakeService) TokenPairs(_ context.Context, _ string) ([]*types.TradingPair, error) {
	return f.pairs, nil
}

func (f *fakeService) UpdateTokenLogo(_ context.Context, address, logo string) (*types.Token, error) {
	f.logoAddress = address
	f.logoURL = logo
	if f.logoToken != nil {
		return f.logoToken, nil
	}
	return &types.Token{Address: address, Logo: logo}, nil
}

func (f *fakeService) CreatePortfolio(_ context.Context, req *types.CreatePortfolioRequest) (*types.Portfolio, error) {
	f.createReq = req
	return &types.Portfolio{ID: "p-1", Name: req.Name, Addresses: req.Addresses}, nil
}

func (f *fakeService) Portfolios(_ context.Context, pagination *types.Pagination) ([]*types.Portfolio, int64, error) {
	f.pagination = pagination
	return f.portfolios, f.total, nil
}

func (f *fakeService) PortfolioSnapshot(_ context.Context, id string) (*types.PortfolioSnapshot, error) {
	if f.snapshot == nil {
		return nil, types.ErrNotFound
	}
	return f.snapshot, nil
}

func (f *fakeService) PortfolioSummary(_ context.Context, id string) (*types.PortfolioSnapshot, error) {
	return f.PortfolioSnapshot(nil, id)
}

func (f *fakeService) AddPortfolioAddress(_ context.Context, id, address string) (*types.Portfolio, error) {
	return &types.Portfolio{ID: id, Addresses: []string{address}}, nil
}

func (f *fakeService) RemovePortfolioAddress(_ context.Context, id, address string) (*types.Portfolio, error) {
	return &types.Portfolio{ID: id}, nil
}

func (f *fakeService) RemovePortfolio(_ context.Context, id string) error {
	f.removedID = id
	return nil
}

func (f *fakeService) Status(_ context.Context) (*types.ServerStatus, error) {
	return f.status, nil
}

func (f *fakeService) UpdateStatus(_ context.Context, status *types.ServerStatus) error {
	f.status = status
	return nil
}

type fakeStorage struct {
	name string
	logo string
	err  error
}

func (f *fakeStorage) UploadLogo(base64Logo, name string) (string, error) {
	f.logo = base64Logo
	f.name = name
	if f.err != nil {
		return "", f.err
	}
	return "https://cdn.example/logos/" + name + ".png", nil
}

func newTestRouter(svc Service, fs FileStorage) *echo.Echo {
	srv := &Server{}
	srv.SetService(svc).
		SetSecret(testSecret).
		SetFileStorage(fs).
		SetRequestTimeout(time.Second).
		SetLogger(zap.NewNop())
	e := echo.New()
	bind(e.Group("/api/v1"), srv)
	return e
}

func doRequest(e *echo.Echo, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) EchoResponse {
	t.Helper()
	var resp EchoResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func authHeader() map[string]string {
	return map[string]string{"Authorization": testSecret}
}

func TestPing(t *testing.T) {
	svc := &fakeService{}
	e := newTestRouter(svc, nil)

	rec := doRequest(e, http.MethodGet, "/api/v1/ping", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Code int `json:"code"`
		Data struct {
			Version string `json:"version"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1000, resp.Code)
	assert.NotEmpty(t, resp.Data.Version)
}

func TestAddressTxs(t *testing.T) {
	svc := &fakeService{
		historyPage: &types.HistoryPage{
			Summaries:  []*types.TxSummary{{Hash: "0xh1", Line: "Sent 5 ABC"}},
			NextCursor: "cursor-2",
		},
	}
	e := newTestRouter(svc, nil)

	rec := doRequest(e, http.MethodGet, "/api/v1/addresses/0xabc/txs?cursor=c1&limit=10", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	require.NotNil(t, svc.historyQuery)
	assert.Equal(t, "0xabc", svc.historyQuery.Address)
	assert.Equal(t, "c1", svc.historyQuery.Cursor)
	assert.Equal(t, 10, svc.historyQuery.Limit)

	var resp struct {
		Code int                `json:"code"`
		Data *types.HistoryPage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Data)
	require.Len(t, resp.Data.Summaries, 1)
	assert.Equal(t, "Sent 5 ABC", resp.Data.Summaries[0].Line)
	assert.Equal(t, "cursor-2", resp.Data.NextCursor)
}

func TestAddressTxs_BadLimitRejected(t *testing.T) {
	svc := &fakeService{}
	e := newTestRouter(svc, nil)

	for _, target := range []string{
		"/api/v1/addresses/0xabc/txs?limit=abc",
		"/api/v1/addresses/0xabc/txs?limit=0",
		"/api/v1/addresses/0xabc/txs?limit=101",
		"/api/v1/addresses/0xabc/txs?page=0",
	} {
		rec := doRequest(e, http.MethodGet, target, "", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
	assert.Nil(t, svc.historyQuery)
}

func TestAddressTxs_InvalidAddress(t *testing.T) {
	svc := &fakeService{historyErr: types.ErrInvalidAddress}
	e := newTestRouter(svc, nil)

	rec := doRequest(e, http.MethodGet, "/api/v1/addresses/nonsense/txs", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, types.ErrInvalidAddress.Error(), decodeEnvelope(t, rec).Msg)
}

func TestTokenPrice_NoPriceIsEmptyAnswer(t *testing.T) {
	svc := &fakeService{}
	e := newTestRouter(svc, nil)

	rec := doRequest(e, http.MethodGet, "/api/v1/tokens/0xabc/price", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeEnvelope(t, rec)
	assert.Equal(t, 1000, resp.Code)
	assert.Nil(t, resp.Data)
}

func TestCreatePortfolio_RequiresAuth(t *testing.T) {
	svc := &fakeService{}
	e := newTestRouter(svc, nil)
	body := `{"name":"main","addresses":["0xa1"]}`

	rec := doRequest(e, http.MethodPost, "/api/v1/portfolios", body, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(e, http.MethodPost, "/api/v1/portfolios", body, map[string]string{"Authorization": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, svc.createReq)

	rec = doRequest(e, http.MethodPost, "/api/v1/portfolios", body, authHeader())
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.createReq)
	assert.Equal(t, "main", svc.createReq.Name)
	assert.Equal(t, []string{"0xa1"}, svc.createReq.Addresses)
}

func TestPortfolios_Paging(t *testing.T) {
	svc := &fakeService{
		portfolios: []*types.Portfolio{{ID: "p-1"}, {ID: "p-2"}},
		total:      7,
	}
	e := newTestRouter(svc, nil)

	rec := doRequest(e, http.MethodGet, "/api/v1/portfolios?page=2&limit=3", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	require.NotNil(t, svc.pagination)
	assert.Equal(t, 3, svc.pagination.Skip)
	assert.Equal(t, 3, svc.pagination.Limit)

	var resp struct {
		Data PagingResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Data.Page)
	assert.Equal(t, 3, resp.Data.Limit)
	assert.Equal(t, int64(7), resp.Data.Total)
}

func TestPortfolio_NotFound(t *testing.T) {
	svc := &fakeService{}
	e := newTestRouter(svc, nil)

	rec := doRequest(e, http.MethodGet, "/api/v1/portfolios/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPortfolioMutations_RequireAuth(t *testing.T) {
	svc := &fakeService{}
	e := newTestRouter(svc, nil)

	rec := doRequest(e, http.MethodPut, "/api/v1/portfolios/p-1/addresses", `{"address":"0xa1"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(e, http.MethodPut, "/api/v1/portfolios/p-1/addresses", `{"address":"0xa1"}`, authHeader())
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(e, http.MethodDelete, "/api/v1/portfolios/p-1/addresses/0xa1", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(e, http.MethodDelete, "/api/v1/portfolios/p-1/addresses/0xa1", "", authHeader())
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(e, http.MethodDelete, "/api/v1/portfolios/p-1", "", authHeader())
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "p-1", svc.removedID)
}

func TestUploadTokenLogo(t *testing.T) {
	token := "0xA1B2C3D4E5F6A7B8C9D0E1F2A3B4C5D6E7F8A9B0"
	svc := &fakeService{}
	fs := &fakeStorage{}
	e := newTestRouter(svc, fs)

	rec := doRequest(e, http.MethodPost, "/api/v1/tokens/"+token+"/logo", `{"logo":"data:image/png;base64,aGVsbG8="}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(e, http.MethodPost, "/api/v1/tokens/"+token+"/logo", `{"logo":"###not-base64###"}`, authHeader())
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(e, http.MethodPost, "/api/v1/tokens/"+token+"/logo", `{"logo":"data:image/png;base64,aGVsbG8="}`, authHeader())
	require.Equal(t, http.StatusOK, rec.Code)

	// Object key is the lowercased hash without the 0x prefix.
	assert.Equal(t, "a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6e7f8a9b0", fs.name)
	assert.Equal(t, "0xa1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6e7f8a9b0", svc.logoAddress)
	assert.Equal(t, "https://cdn.example/logos/a1b2c3d4e5f6a7b8c9d0e1f2a3b4c5d6e7f8a9b0.png", svc.logoURL)
}

func TestServerStatus(t *testing.T) {
	svc := &fakeService{status: &types.ServerStatus{Status: "online", AppVersion: "1.0.0", ChainName: "testnet"}}
	e := newTestRouter(svc, nil)

	rec := doRequest(e, http.MethodGet, "/api/v1/status", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data *types.ServerStatus `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Data)
	assert.Equal(t, "online", resp.Data.Status)

	rec = doRequest(e, http.MethodPut, "/api/v1/status", `{"status":"maintenance"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(e, http.MethodPut, "/api/v1/status", `{"status":"maintenance"}`, authHeader())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "maintenance", svc.status.Status)
}
