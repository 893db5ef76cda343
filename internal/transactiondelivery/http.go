// Package transactiondelivery manages delivery layer of balance movements.
package transactiondelivery

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/go-paybank/paybank/internal/domain"
	"github.com/go-paybank/paybank/internal/middleware"
	"github.com/go-paybank/paybank/pkg/errorspkg"
	"github.com/go-paybank/paybank/pkg/jsonresponse"
	"github.com/go-paybank/paybank/pkg/tokenpkg"
)

// Service provides service layer interface needed by movement delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package transactiondelivery
type Service interface {
	Send(ctx context.Context, arg domain.SendParams) (domain.Transaction, error)
	Withdraw(ctx context.Context, arg domain.WithdrawParams) (domain.Transaction, error)
	PaymentHistory(ctx context.Context, userID int64) ([]domain.HistoryEntry, error)
}

// Handler facilitates movement delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns movement handler.
func NewHandler(ts Service) *Handler {
	return &Handler{
		service: ts,
	}
}

type transactionData struct {
	Transaction domain.Transaction `json:"transaction"`
}

type transactionResponse struct {
	Data transactionData `json:"data"`
}

func writeError(gctx *gin.Context, err error) {
	var (
		ve  *domain.ValidationError
		ibe *domain.InsufficientBalanceError
	)

	switch {
	case errors.As(err, &ve), errors.As(err, &ibe), errors.Is(err, domain.ErrInvalidAmount):
		gctx.JSON(http.StatusBadRequest, jsonresponse.Error(err))
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrRecipientNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		gctx.JSON(http.StatusNotFound, jsonresponse.Error(err))
	default:
		gctx.JSON(http.StatusInternalServerError, jsonresponse.Error(errorspkg.ErrInternal))
	}
}

type sendRequest struct {
	From   string `json:"from" binding:"required"`
	To     string `json:"to" binding:"required"`
	Amount string `json:"amount" binding:"required"`
}

// Send handles http request to transfer balance between two accounts.
func (h *Handler) Send(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req sendRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, jsonresponse.Error(err))

		return
	}

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	arg := domain.SendParams{
		UserID:            authPayload.UserID,
		FromAccountNumber: req.From,
		ToAccountNumber:   req.To,
		Amount:            req.Amount,
	}

	transaction, err := h.service.Send(ctx, arg)
	if err != nil {
		l.Info().Err(err).Send()
		writeError(gctx, err)

		return
	}

	gctx.JSON(http.StatusOK, transactionResponse{Data: transactionData{transaction}})
}

type withdrawRequest struct {
	From   string `json:"from" binding:"required"`
	Amount string `json:"amount" binding:"required"`
}

// Withdraw handles http request to withdraw balance from an account.
func (h *Handler) Withdraw(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req withdrawRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, jsonresponse.Error(err))

		return
	}

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	arg := domain.WithdrawParams{
		UserID:        authPayload.UserID,
		AccountNumber: req.From,
		Amount:        req.Amount,
	}

	transaction, err := h.service.Withdraw(ctx, arg)
	if err != nil {
		l.Info().Err(err).Send()
		writeError(gctx, err)

		return
	}

	gctx.JSON(http.StatusOK, transactionResponse{Data: transactionData{transaction}})
}

type historyData struct {
	PaymentHistory []domain.HistoryEntry `json:"payment_history"`
}

type historyResponse struct {
	Data historyData `json:"data"`
}

// PaymentHistory handles http request to list the user's payment history.
func (h *Handler) PaymentHistory(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	authPayload := gctx.MustGet(middleware.AuthPayloadKey).(*tokenpkg.Payload)

	history, err := h.service.PaymentHistory(ctx, authPayload.UserID)
	if err != nil {
		l.Info().Err(err).Send()
		writeError(gctx, err)

		return
	}

	gctx.JSON(http.StatusOK, historyResponse{Data: historyData{history}})
}
