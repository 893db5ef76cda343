// Package accountdelivery manages delivery layer of payment accounts.
package accountdelivery

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/go-paybank/paybank/internal/domain"
	"github.com/go-paybank/paybank/internal/middleware"
	"github.com/go-paybank/paybank/pkg/errorspkg"
	"github.com/go-paybank/paybank/pkg/jsonresponse"
	"github.com/go-paybank/paybank/pkg/tokenpkg"
)

// Service provides service layer interface needed by account delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package accountdelivery
type Service interface {
	Create(ctx context.Context, arg domain.CreateAccountParams) (domain.PaymentAccount, error)
	Get(ctx context.Context, accountNumber string, userID int64) (domain.PaymentAccount, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.PaymentAccount, error)
}

// Handler facilitates account delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns account handler.
func NewHandler(as Service) *Handler {
	return &Handler{service: as}
}

type data struct {
	Account domain.PaymentAccount `json:"payment_account"`
}

type response struct {
	Data data `json:"data"`
}

type createRequest struct {
	AccountNumber string `json:"account_number" binding:"required,min=8"`
	Type          string `json:"type" binding:"required,accounttype"`
	Balance       string `json:"balance" binding:"omitempty"`
}

// Create handles http request to create a payment account.
func (h *Handler) Create(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req createRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, jsonresponse.Error(err))

		return
	}

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	arg := domain.CreateAccountParams{
		AccountNumber: req.AccountNumber,
		UserID:        authPayload.UserID,
		Type:          req.Type,
		Balance:       req.Balance,
	}

	account, err := h.service.Create(ctx, arg)
	if err != nil {
		switch err {
		case domain.ErrAccountNumberExists:
			gctx.JSON(http.StatusConflict, jsonresponse.Error(err))
			return
		case domain.ErrUserNotFound:
			gctx.JSON(http.StatusNotFound, jsonresponse.Error(err))
			return
		case domain.ErrUnsupportedAccountType, domain.ErrNegativeBalance:
			gctx.JSON(http.StatusBadRequest, jsonresponse.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, jsonresponse.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, response{Data: data{account}})
}

type getRequest struct {
	AccountNumber string `uri:"account_number" binding:"required,min=8"`
}

// Get handles http request to get one payment account.
func (h *Handler) Get(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req getRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, jsonresponse.Error(err))

		return
	}

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	account, err := h.service.Get(ctx, req.AccountNumber, authPayload.UserID)
	if err != nil {
		if err == domain.ErrAccountNotFound {
			gctx.JSON(http.StatusNotFound, jsonresponse.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, jsonresponse.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, response{Data: data{account}})
}

type dataAccounts struct {
	Accounts []domain.PaymentAccount `json:"payment_accounts"`
}

type responseAccounts struct {
	Data dataAccounts `json:"data"`
}

// List handles http request to list the user's payment accounts.
func (h *Handler) List(gctx *gin.Context) {
	ctx := gctx.Request.Context()

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	accounts, err := h.service.ListByUser(ctx, authPayload.UserID)
	if err != nil {
		gctx.JSON(http.StatusInternalServerError, jsonresponse.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, responseAccounts{Data: dataAccounts{accounts}})
}
