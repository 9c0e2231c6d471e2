package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"batched-savings-ledger/internal/adapter/http/dto"
	"batched-savings-ledger/internal/adapter/http/middleware"
	"batched-savings-ledger/internal/core/domain"
	"batched-savings-ledger/internal/core/ports"
	"batched-savings-ledger/internal/core/ports/mocks"
	"batched-savings-ledger/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const (
	testOperatorAddr = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	testSourceAddr   = "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	testReceiverAddr = "0xcccccccccccccccccccccccccccccccccccccccc"
)

// postJSON builds a test context carrying an authenticated operator.
func postJSON(t *testing.T, w *httptest.ResponseRecorder, body interface{}, authed bool) *gin.Context {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(raw))
	c.Request.Header.Set("Content-Type", "application/json")
	if authed {
		c.Set(middleware.CtxOperatorKey, &domain.Operator{
			ID:      uuid.New(),
			Address: testOperatorAddr,
			Status:  domain.OperatorStatusActive,
		})
	}
	return c
}

func responseData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, ok := resp["data"].(map[string]interface{})
	require.True(t, ok, "response has no data object: %s", w.Body.String())
	return data
}

// --- Auth Handler Tests ---

func TestRegister_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	operatorID := uuid.New()
	mockAuth.EXPECT().Register(gomock.Any(), ports.RegisterRequest{
		Username: "testuser",
		Password: "password123",
		Name:     "Ops Desk",
		Address:  testOperatorAddr,
	}).Return(&ports.RegisterResponse{
		OperatorID: operatorID,
		AccessKey:  "ak_test",
		SecretKey:  "sk_test",
	}, nil)

	w := httptest.NewRecorder()
	c := postJSON(t, w, dto.RegisterRequest{
		Username: "testuser",
		Password: "password123",
		Name:     "Ops Desk",
		Address:  testOperatorAddr,
	}, false)

	h.Register(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := responseData(t, w)
	assert.Equal(t, operatorID.String(), data["operator_id"])
	assert.Equal(t, "ak_test", data["access_key"])
	assert.Equal(t, "sk_test", data["secret_key"])
}

func TestRegister_ValidationError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	// Empty body => binding error
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte("{}")))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Register(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegister_MalformedAddress(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	w := httptest.NewRecorder()
	c := postJSON(t, w, dto.RegisterRequest{
		Username: "testuser",
		Password: "password123",
		Name:     "Ops Desk",
		Address:  "not-an-address",
	}, false)

	h.Register(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	expiry := time.Now().Add(24 * time.Hour)
	mockAuth.EXPECT().Login(gomock.Any(), "testuser", "password123").Return("jwt-token-123", expiry, nil)

	w := httptest.NewRecorder()
	c := postJSON(t, w, dto.LoginRequest{
		Username: "testuser",
		Password: "password123",
	}, false)

	h.Login(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := responseData(t, w)
	assert.Equal(t, "jwt-token-123", data["token"])
}

func TestLogin_InvalidCredentials(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := mocks.NewMockAuthService(ctrl)
	h := NewAuthHandler(mockAuth)

	mockAuth.EXPECT().Login(gomock.Any(), "bad", "badpssword").Return("", time.Time{}, apperror.ErrInvalidCredentials())

	w := httptest.NewRecorder()
	c := postJSON(t, w, dto.LoginRequest{
		Username: "bad",
		Password: "badpssword",
	}, false)

	h.Login(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// --- Ledger Handler Tests ---

func TestCreateBatch_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLedger := mocks.NewMockLedgerService(ctrl)
	h := NewLedgerHandler(mockLedger)

	id1 := domain.DepositIDFromReference("customer-001")
	id2 := domain.DepositIDFromReference("customer-002")
	now := time.Now().UTC().Truncate(time.Second)

	mockLedger.EXPECT().CreateDeposits(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ interface{}, req ports.CreateBatchRequest) (*ports.BatchCreateResult, error) {
			assert.Equal(t, testOperatorAddr, req.OperatorAddress)
			assert.Equal(t, testSourceAddr, req.Source)
			require.Len(t, req.IDs, 2)
			assert.Equal(t, id1, req.IDs[0])
			assert.Equal(t, id2, req.IDs[1])
			require.Len(t, req.Amounts, 2)
			assert.Equal(t, "100000000000000000000", req.Amounts[0].String())
			assert.Equal(t, "5000", req.Amounts[1].String())

			return &ports.BatchCreateResult{
				Total:          new(big.Int).Add(req.Amounts[0], req.Amounts[1]),
				CreatedAt:      now,
				TicksAtDeposit: big.NewInt(987654),
				Count:          2,
			}, nil
		},
	)

	w := httptest.NewRecorder()
	c := postJSON(t, w, dto.BatchCreateRequest{
		Source:  testSourceAddr,
		IDs:     []string{id1.String(), id2.String()},
		Amounts: []string{"100000000000000000000", "5000"},
	}, true)

	h.CreateBatch(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	data := responseData(t, w)
	assert.Equal(t, "100000000000000005000", data["total"])
	assert.Equal(t, "987654", data["ticks_at_deposit"])
	assert.Equal(t, float64(2), data["count"])
}

func TestCreateBatch_Unauthenticated(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLedger := mocks.NewMockLedgerService(ctrl)
	h := NewLedgerHandler(mockLedger)

	w := httptest.NewRecorder()
	c := postJSON(t, w, dto.BatchCreateRequest{
		Source:  testSourceAddr,
		IDs:     []string{domain.DepositIDFromReference("x").String()},
		Amounts: []string{"1"},
	}, false)

	h.CreateBatch(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateBatch_MalformedID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLedger := mocks.NewMockLedgerService(ctrl)
	h := NewLedgerHandler(mockLedger)

	w := httptest.NewRecorder()
	c := postJSON(t, w, dto.BatchCreateRequest{
		Source:  testSourceAddr,
		IDs:     []string{"zz"},
		Amounts: []string{"1"},
	}, true)

	h.CreateBatch(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateBatch_DuplicateIDConflict(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLedger := mocks.NewMockLedgerService(ctrl)
	h := NewLedgerHandler(mockLedger)

	id := domain.DepositIDFromReference("dup")
	mockLedger.EXPECT().CreateDeposits(gomock.Any(), gomock.Any()).
		Return(nil, apperror.ErrDepositExists(id.String()))

	w := httptest.NewRecorder()
	c := postJSON(t, w, dto.BatchCreateRequest{
		Source:  testSourceAddr,
		IDs:     []string{id.String()},
		Amounts: []string{"1000"},
	}, true)

	h.CreateBatch(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRedeemBatch_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLedger := mocks.NewMockLedgerService(ctrl)
	h := NewLedgerHandler(mockLedger)

	id := domain.DepositIDFromReference("customer-001")
	now := time.Now().UTC().Truncate(time.Second)

	mockLedger.EXPECT().RedeemDeposits(gomock.Any(), ports.RedeemBatchRequest{
		OperatorAddress: testOperatorAddr,
		Receiver:        testReceiverAddr,
		IDs:             []domain.DepositID{id},
	}).Return(&ports.BatchRedeemResult{
		Total:      big.NewInt(1_050_000),
		RedeemedAt: now,
		Count:      1,
	}, nil)

	w := httptest.NewRecorder()
	c := postJSON(t, w, dto.BatchRedeemRequest{
		Receiver: testReceiverAddr,
		IDs:      []string{id.String()},
	}, true)

	h.RedeemBatch(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := responseData(t, w)
	assert.Equal(t, "1050000", data["total"])
	assert.Equal(t, float64(1), data["count"])
}

func TestRedeemBatch_UnknownDeposit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLedger := mocks.NewMockLedgerService(ctrl)
	h := NewLedgerHandler(mockLedger)

	id := domain.DepositIDFromReference("ghost")
	mockLedger.EXPECT().RedeemDeposits(gomock.Any(), gomock.Any()).
		Return(nil, apperror.ErrDepositNotFound(id.String()))

	w := httptest.NewRecorder()
	c := postJSON(t, w, dto.BatchRedeemRequest{
		Receiver: testReceiverAddr,
		IDs:      []string{id.String()},
	}, true)

	h.RedeemBatch(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetDeposit_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLedger := mocks.NewMockLedgerService(ctrl)
	h := NewLedgerHandler(mockLedger)

	id := domain.DepositIDFromReference("customer-001")
	now := time.Now().UTC().Truncate(time.Second)

	mockLedger.EXPECT().GetDeposit(gomock.Any(), id).Return(&ports.DepositInfo{
		ID:             id,
		Principal:      big.NewInt(1_000_000),
		NetInterest:    big.NewInt(12_345),
		CreatedAt:      now,
		TicksAtDeposit: big.NewInt(777),
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.GetDeposit(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := responseData(t, w)
	assert.Equal(t, id.String(), data["id"])
	assert.Equal(t, "1000000", data["principal"])
	assert.Equal(t, "12345", data["net_interest"])
}

func TestGetDeposit_MalformedID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLedger := mocks.NewMockLedgerService(ctrl)
	h := NewLedgerHandler(mockLedger)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Params = gin.Params{{Key: "id", Value: "nothex"}}

	h.GetDeposit(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- Treasury Handler Tests ---

func TestAddFunds_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTreasury := mocks.NewMockTreasuryService(ctrl)
	h := NewTreasuryHandler(mockTreasury)

	mockTreasury.EXPECT().AddFunds(gomock.Any(), ports.AddFundsRequest{
		OperatorAddress: testOperatorAddr,
		Source:          testSourceAddr,
		Amount:          big.NewInt(500_000),
	}).Return(nil)

	w := httptest.NewRecorder()
	c := postJSON(t, w, dto.AddFundsRequest{
		Source: testSourceAddr,
		Amount: "500000",
	}, true)

	h.AddFunds(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMoveFunds_ReturnsPaid(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTreasury := mocks.NewMockTreasuryService(ctrl)
	h := NewTreasuryHandler(mockTreasury)

	// Underfunded reserve: paid < requested, surfaced as-is.
	mockTreasury.EXPECT().MoveFunds(gomock.Any(), ports.MoveFundsRequest{
		OperatorAddress: testOperatorAddr,
		Receiver:        testReceiverAddr,
		Amount:          big.NewInt(50_000),
	}).Return(big.NewInt(30_000), nil)

	w := httptest.NewRecorder()
	c := postJSON(t, w, dto.MoveFundsRequest{
		Receiver: testReceiverAddr,
		Amount:   "50000",
	}, true)

	h.MoveFunds(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := responseData(t, w)
	assert.Equal(t, "30000", data["paid"])
}

func TestRescueTokens_EmptyTokenAllowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTreasury := mocks.NewMockTreasuryService(ctrl)
	h := NewTreasuryHandler(mockTreasury)

	mockTreasury.EXPECT().RescueTokens(gomock.Any(), ports.RescueRequest{
		OperatorAddress: testOperatorAddr,
		Token:           "",
		Receiver:        testReceiverAddr,
		Amount:          big.NewInt(99),
	}).Return(nil)

	w := httptest.NewRecorder()
	c := postJSON(t, w, dto.RescueRequest{
		Receiver: testReceiverAddr,
		Amount:   "99",
	}, true)

	h.RescueTokens(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRescueTokens_NotOperator(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockTreasury := mocks.NewMockTreasuryService(ctrl)
	h := NewTreasuryHandler(mockTreasury)

	mockTreasury.EXPECT().RescueTokens(gomock.Any(), gomock.Any()).
		Return(apperror.ErrNotOperator(testOperatorAddr))

	w := httptest.NewRecorder()
	c := postJSON(t, w, dto.RescueRequest{
		Token:    testSourceAddr,
		Receiver: testReceiverAddr,
		Amount:   "99",
	}, true)

	h.RescueTokens(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

// --- Dashboard Handler Tests ---

func TestGetSummary_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReporting := mocks.NewMockReportingService(ctrl)
	h := NewDashboardHandler(mockReporting)

	mockReporting.EXPECT().GetLedgerSummary(gomock.Any()).Return(&ports.LedgerSummary{
		LiveDeposits:   7,
		TotalPrincipal: "12345000000",
		ReserveRatePPM: 50_000,
		ReserveTicks:   "987654",
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	h.GetSummary(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := responseData(t, w)
	assert.Equal(t, float64(7), data["live_deposits"])
	assert.Equal(t, "12345000000", data["total_principal"])
}

func TestListEvents_ParsesFilters(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReporting := mocks.NewMockReportingService(ctrl)
	h := NewDashboardHandler(mockReporting)

	mockReporting.EXPECT().ListEvents(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ interface{}, params ports.EventListParams) ([]domain.LedgerEvent, int64, error) {
			require.NotNil(t, params.Kind)
			assert.Equal(t, domain.EventDepositCreated, *params.Kind)
			require.NotNil(t, params.From)
			assert.Equal(t, int64(1700000000), *params.From)
			assert.Equal(t, 2, params.Page)
			assert.Equal(t, 50, params.PageSize)
			return []domain.LedgerEvent{}, 0, nil
		},
	)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet,
		"/?kind=DEPOSIT_CREATED&from=1700000000&page=2&page_size=50", nil)

	h.ListEvents(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestListEvents_ClampsPagination(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReporting := mocks.NewMockReportingService(ctrl)
	h := NewDashboardHandler(mockReporting)

	mockReporting.EXPECT().ListEvents(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ interface{}, params ports.EventListParams) ([]domain.LedgerEvent, int64, error) {
			assert.Equal(t, 1, params.Page)
			assert.Equal(t, 20, params.PageSize)
			return []domain.LedgerEvent{}, 0, nil
		},
	)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/?page=0&page_size=9999", nil)

	h.ListEvents(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDepositHistory_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReporting := mocks.NewMockReportingService(ctrl)
	h := NewDashboardHandler(mockReporting)

	id := domain.DepositIDFromReference("customer-001")
	now := time.Now()
	mockReporting.EXPECT().DepositHistory(gomock.Any(), id).Return([]domain.LedgerEvent{
		{ID: uuid.New(), Kind: domain.EventDepositCreated, DepositID: id, Amount: big.NewInt(1000), CreatedAt: now},
		{ID: uuid.New(), Kind: domain.EventDepositRedeemed, DepositID: id, Amount: big.NewInt(1100), CreatedAt: now},
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Params = gin.Params{{Key: "id", Value: id.String()}}

	h.DepositHistory(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	items, ok := resp["data"].([]interface{})
	require.True(t, ok)
	assert.Len(t, items, 2)
}

// --- Health Check ---

type fakeChecker struct {
	name string
	err  error
}

func (f fakeChecker) Name() string                 { return f.name }
func (f fakeChecker) Ping(_ context.Context) error { return f.err }

func TestHealthCheck_Healthy(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	HealthCheck(fakeChecker{name: "postgres"}, fakeChecker{name: "redis"})(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), `"status":"healthy"`))
}

func TestHealthCheck_Degraded(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	HealthCheck(fakeChecker{name: "postgres", err: errors.New("down")})(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), `"status":"degraded"`))
}
