package transactiondelivery

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/go-paybank/paybank/internal/domain"
	"github.com/go-paybank/paybank/internal/middleware"
	"github.com/go-paybank/paybank/pkg/errorspkg"
	"github.com/go-paybank/paybank/pkg/randompkg"
	"github.com/go-paybank/paybank/pkg/tokenpkg"
)

func newTestServer(t *testing.T) (*gin.Engine, tokenpkg.Maker, *MockService) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	service := NewMockService(ctrl)
	handler := NewHandler(service)

	tokenMaker, err := tokenpkg.NewPasetoMaker(randompkg.String(32))
	require.NoError(t, err)

	server := gin.New()

	authGroup := server.Group("/").Use(middleware.AuthMiddleware(tokenMaker))
	authGroup.POST("/transactions/send", handler.Send)
	authGroup.POST("/transactions/withdraw", handler.Withdraw)
	authGroup.GET("/transactions/payment-history", handler.PaymentHistory)

	return server, tokenMaker, service
}

func TestSendAPI(t *testing.T) {
	testUserID := randompkg.Intn(1000) + 1
	testUsername := randompkg.Owner()
	testFrom := randompkg.AccountNumber()
	testTo := randompkg.AccountNumber()
	testAmount := "1000000"

	testTransaction := domain.Transaction{
		ID:        uuid.New(),
		Amount:    testAmount,
		ToAddress: testTo,
		Status:    domain.StatusSuccess,
		CreatedAt: time.Now().Truncate(time.Second).UTC(),
	}

	testCases := []struct {
		name          string
		requestBody   gin.H
		setupAuth     func(t *testing.T, request *http.Request, tokenMaker tokenpkg.Maker)
		buildStubs    func(service *MockService)
		checkResponse func(recorder *httptest.ResponseRecorder)
	}{
		{
			name: "NoAuthorization",
			requestBody: gin.H{
				"from":   testFrom,
				"to":     testTo,
				"amount": testAmount,
			},
			setupAuth: func(t *testing.T, request *http.Request, tokenMaker tokenpkg.Maker) {
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().Send(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusUnauthorized, recorder.Code)
			},
		},
		{
			name:        "MissingRequiredField",
			requestBody: gin.H{"from": testFrom, "to": testTo},
			setupAuth: func(t *testing.T, request *http.Request, tokenMaker tokenpkg.Maker) {
				err := middleware.AddAuthorization(request, tokenMaker,
					middleware.AuthTypeBearer, testUserID, testUsername, time.Minute)
				require.NoError(t, err)
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().Send(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name: "ValidationError",
			requestBody: gin.H{
				"from":   testFrom,
				"to":     testTo,
				"amount": "100",
			},
			setupAuth: func(t *testing.T, request *http.Request, tokenMaker tokenpkg.Maker) {
				err := middleware.AddAuthorization(request, tokenMaker,
					middleware.AuthTypeBearer, testUserID, testUsername, time.Minute)
				require.NoError(t, err)
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().Send(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.Transaction{}, &domain.ValidationError{
						Violations: []domain.FieldViolation{
							{Field: "amount", Message: "amount must be greater than 100,000 for sending"},
						},
					})
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
				require.Contains(t, recorder.Body.String(), "amount must be greater than 100,000 for sending")
			},
		},
		{
			name: "AccountNotFound",
			requestBody: gin.H{
				"from":   testFrom,
				"to":     testTo,
				"amount": testAmount,
			},
			setupAuth: func(t *testing.T, request *http.Request, tokenMaker tokenpkg.Maker) {
				err := middleware.AddAuthorization(request, tokenMaker,
					middleware.AuthTypeBearer, testUserID, testUsername, time.Minute)
				require.NoError(t, err)
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().Send(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.Transaction{}, domain.ErrAccountNotFound)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusNotFound, recorder.Code)
				require.Contains(t, recorder.Body.String(), domain.ErrAccountNotFound.Error())
			},
		},
		{
			name: "RecipientNotFound",
			requestBody: gin.H{
				"from":   testFrom,
				"to":     testTo,
				"amount": testAmount,
			},
			setupAuth: func(t *testing.T, request *http.Request, tokenMaker tokenpkg.Maker) {
				err := middleware.AddAuthorization(request, tokenMaker,
					middleware.AuthTypeBearer, testUserID, testUsername, time.Minute)
				require.NoError(t, err)
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().Send(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.Transaction{}, domain.ErrRecipientNotFound)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusNotFound, recorder.Code)
				require.Contains(t, recorder.Body.String(), domain.ErrRecipientNotFound.Error())
			},
		},
		{
			name: "InsufficientBalance",
			requestBody: gin.H{
				"from":   testFrom,
				"to":     testTo,
				"amount": testAmount,
			},
			setupAuth: func(t *testing.T, request *http.Request, tokenMaker tokenpkg.Maker) {
				err := middleware.AddAuthorization(request, tokenMaker,
					middleware.AuthTypeBearer, testUserID, testUsername, time.Minute)
				require.NoError(t, err)
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().Send(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.Transaction{}, &domain.InsufficientBalanceError{
						AccountNumber: testFrom,
						Amount:        testAmount,
					})
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
				require.Contains(t, recorder.Body.String(), "doesn't have enough to send")
			},
		},
		{
			name: "InternalError",
			requestBody: gin.H{
				"from":   testFrom,
				"to":     testTo,
				"amount": testAmount,
			},
			setupAuth: func(t *testing.T, request *http.Request, tokenMaker tokenpkg.Maker) {
				err := middleware.AddAuthorization(request, tokenMaker,
					middleware.AuthTypeBearer, testUserID, testUsername, time.Minute)
				require.NoError(t, err)
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().Send(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.Transaction{}, errorspkg.ErrInternal)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusInternalServerError, recorder.Code)
				require.Contains(t, recorder.Body.String(), errorspkg.ErrInternal.Error())
			},
		},
		{
			name: "OK",
			requestBody: gin.H{
				"from":   testFrom,
				"to":     testTo,
				"amount": testAmount,
			},
			setupAuth: func(t *testing.T, request *http.Request, tokenMaker tokenpkg.Maker) {
				err := middleware.AddAuthorization(request, tokenMaker,
					middleware.AuthTypeBearer, testUserID, testUsername, time.Minute)
				require.NoError(t, err)
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Send(gomock.Any(), gomock.Eq(domain.SendParams{
						UserID:            testUserID,
						FromAccountNumber: testFrom,
						ToAccountNumber:   testTo,
						Amount:            testAmount,
					})).
					Times(1).
					Return(testTransaction, nil)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)

				body, err := io.ReadAll(recorder.Body)
				require.NoError(t, err)

				var res transactionResponse
				require.NoError(t, json.Unmarshal(body, &res))
				require.Equal(t, testTransaction, res.Data.Transaction)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			server, tokenMaker, service := newTestServer(t)

			tc.buildStubs(service)

			payload, err := json.Marshal(tc.requestBody)
			require.NoError(t, err)

			request, err := http.NewRequest(http.MethodPost, "/transactions/send", bytes.NewReader(payload))
			require.NoError(t, err)

			tc.setupAuth(t, request, tokenMaker)

			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, request)

			tc.checkResponse(recorder)
		})
	}
}

func TestWithdrawAPI(t *testing.T) {
	testUserID := randompkg.Intn(1000) + 1
	testUsername := randompkg.Owner()
	testFrom := randompkg.AccountNumber()
	testAmount := "500000"

	testTransaction := domain.Transaction{
		ID:        uuid.New(),
		Amount:    testAmount,
		ToAddress: testFrom,
		Status:    domain.StatusSuccess,
		CreatedAt: time.Now().Truncate(time.Second).UTC(),
	}

	testCases := []struct {
		name          string
		requestBody   gin.H
		setupAuth     func(t *testing.T, request *http.Request, tokenMaker tokenpkg.Maker)
		buildStubs    func(service *MockService)
		checkResponse func(recorder *httptest.ResponseRecorder)
	}{
		{
			name:        "NoAuthorization",
			requestBody: gin.H{"from": testFrom, "amount": testAmount},
			setupAuth: func(t *testing.T, request *http.Request, tokenMaker tokenpkg.Maker) {
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().Withdraw(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusUnauthorized, recorder.Code)
			},
		},
		{
			name:        "MissingRequiredField",
			requestBody: gin.H{"from": testFrom},
			setupAuth: func(t *testing.T, request *http.Request, tokenMaker tokenpkg.Maker) {
				err := middleware.AddAuthorization(request, tokenMaker,
					middleware.AuthTypeBearer, testUserID, testUsername, time.Minute)
				require.NoError(t, err)
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().Withdraw(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name:        "InsufficientBalance",
			requestBody: gin.H{"from": testFrom, "amount": testAmount},
			setupAuth: func(t *testing.T, request *http.Request, tokenMaker tokenpkg.Maker) {
				err := middleware.AddAuthorization(request, tokenMaker,
					middleware.AuthTypeBearer, testUserID, testUsername, time.Minute)
				require.NoError(t, err)
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().Withdraw(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.Transaction{}, &domain.InsufficientBalanceError{
						AccountNumber: testFrom,
						Amount:        testAmount,
					})
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
				require.Contains(t, recorder.Body.String(), "doesn't have enough to send")
			},
		},
		{
			name:        "AccountNotFound",
			requestBody: gin.H{"from": testFrom, "amount": testAmount},
			setupAuth: func(t *testing.T, request *http.Request, tokenMaker tokenpkg.Maker) {
				err := middleware.AddAuthorization(request, tokenMaker,
					middleware.AuthTypeBearer, testUserID, testUsername, time.Minute)
				require.NoError(t, err)
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().Withdraw(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.Transaction{}, domain.ErrAccountNotFound)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusNotFound, recorder.Code)
				require.Contains(t, recorder.Body.String(), domain.ErrAccountNotFound.Error())
			},
		},
		{
			name:        "OK",
			requestBody: gin.H{"from": testFrom, "amount": testAmount},
			setupAuth: func(t *testing.T, request *http.Request, tokenMaker tokenpkg.Maker) {
				err := middleware.AddAuthorization(request, tokenMaker,
					middleware.AuthTypeBearer, testUserID, testUsername, time.Minute)
				require.NoError(t, err)
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Withdraw(gomock.Any(), gomock.Eq(domain.WithdrawParams{
						UserID:        testUserID,
						AccountNumber: testFrom,
						Amount:        testAmount,
					})).
					Times(1).
					Return(testTransaction, nil)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)

				var res transactionResponse
				require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &res))
				require.Equal(t, testTransaction, res.Data.Transaction)
				require.Equal(t, testFrom, res.Data.Transaction.ToAddress)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			server, tokenMaker, service := newTestServer(t)

			tc.buildStubs(service)

			payload, err := json.Marshal(tc.requestBody)
			require.NoError(t, err)

			request, err := http.NewRequest(http.MethodPost, "/transactions/withdraw", bytes.NewReader(payload))
			require.NoError(t, err)

			tc.setupAuth(t, request, tokenMaker)

			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, request)

			tc.checkResponse(recorder)
		})
	}
}

func TestPaymentHistoryAPI(t *testing.T) {
	testUserID := randompkg.Intn(1000) + 1
	testUsername := randompkg.Owner()
	testAccountNumber := randompkg.AccountNumber()

	testHistory := []domain.HistoryEntry{
		{
			ID:            1,
			AccountNumber: testAccountNumber,
			TransactionID: uuid.New(),
			Transaction: domain.Transaction{
				Amount:    "1000000",
				ToAddress: randompkg.AccountNumber(),
				Status:    domain.StatusSuccess,
			},
		},
		{
			ID:            2,
			AccountNumber: testAccountNumber,
			TransactionID: uuid.New(),
			Transaction: domain.Transaction{
				Amount:    "500000",
				ToAddress: testAccountNumber,
				Status:    domain.StatusSuccess,
			},
		},
	}

	testCases := []struct {
		name          string
		setupAuth     func(t *testing.T, request *http.Request, tokenMaker tokenpkg.Maker)
		buildStubs    func(service *MockService)
		checkResponse func(recorder *httptest.ResponseRecorder)
	}{
		{
			name: "NoAuthorization",
			setupAuth: func(t *testing.T, request *http.Request, tokenMaker tokenpkg.Maker) {
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().PaymentHistory(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusUnauthorized, recorder.Code)
			},
		},
		{
			name: "UserNotFound",
			setupAuth: func(t *testing.T, request *http.Request, tokenMaker tokenpkg.Maker) {
				err := middleware.AddAuthorization(request, tokenMaker,
					middleware.AuthTypeBearer, testUserID, testUsername, time.Minute)
				require.NoError(t, err)
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().PaymentHistory(gomock.Any(), gomock.Eq(testUserID)).
					Times(1).
					Return(nil, domain.ErrUserNotFound)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusNotFound, recorder.Code)
				require.Contains(t, recorder.Body.String(), domain.ErrUserNotFound.Error())
			},
		},
		{
			name: "InternalError",
			setupAuth: func(t *testing.T, request *http.Request, tokenMaker tokenpkg.Maker) {
				err := middleware.AddAuthorization(request, tokenMaker,
					middleware.AuthTypeBearer, testUserID, testUsername, time.Minute)
				require.NoError(t, err)
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().PaymentHistory(gomock.Any(), gomock.Eq(testUserID)).
					Times(1).
					Return(nil, errorspkg.ErrInternal)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusInternalServerError, recorder.Code)
			},
		},
		{
			name: "OK",
			setupAuth: func(t *testing.T, request *http.Request, tokenMaker tokenpkg.Maker) {
				err := middleware.AddAuthorization(request, tokenMaker,
					middleware.AuthTypeBearer, testUserID, testUsername, time.Minute)
				require.NoError(t, err)
			},
			buildStubs: func(service *MockService) {
				service.EXPECT().PaymentHistory(gomock.Any(), gomock.Eq(testUserID)).
					Times(1).
					Return(testHistory, nil)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)

				var res historyResponse
				require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &res))
				require.Equal(t, testHistory, res.Data.PaymentHistory)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			server, tokenMaker, service := newTestServer(t)

			tc.buildStubs(service)

			request, err := http.NewRequest(http.MethodGet, "/transactions/payment-history", nil)
			require.NoError(t, err)

			tc.setupAuth(t, request, tokenMaker)

			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, request)

			tc.checkResponse(recorder)
		})
	}
}
