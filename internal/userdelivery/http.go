// Package userdelivery manages delivery layer of users.
package userdelivery

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-paybank/paybank/internal/domain"
	"github.com/go-paybank/paybank/pkg/errorspkg"
	"github.com/go-paybank/paybank/pkg/jsonresponse"
	"github.com/go-paybank/paybank/pkg/tokenpkg"
	"github.com/rs/zerolog"
)

// Service provides service layer interface needed by user delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package userdelivery
type Service interface {
	Create(ctx context.Context, username, password string, account *domain.CreateAccountParams) (domain.UserWithAccounts, error)
	CheckPassword(ctx context.Context, username, password string) (domain.User, error)
}

// Handler facilitates user delivery layer logic.
type Handler struct {
	service             Service
	tokenMaker          tokenpkg.Maker
	accessTokenDuration time.Duration
}

// NewHandler returns user handler.
func NewHandler(us Service, tm tokenpkg.Maker, accessTokenDuration time.Duration) *Handler {
	return &Handler{
		service:             us,
		tokenMaker:          tm,
		accessTokenDuration: accessTokenDuration,
	}
}

type initialAccount struct {
	AccountNumber string `json:"account_number" binding:"required,min=8"`
	Type          string `json:"type" binding:"required,accounttype"`
	Balance       string `json:"balance" binding:"omitempty"`
}

type createRequest struct {
	Username       string          `json:"username" binding:"required,min=3,max=255"`
	Password       string          `json:"password" binding:"required,min=8,max=255"`
	PaymentAccount *initialAccount `json:"payment_account" binding:"omitempty"`
}

type createData struct {
	User domain.UserWithAccounts `json:"user"`
}

type createResponse struct {
	Data createData `json:"data"`
}

// Create handles http request to register a user with an optional initial
// payment account.
func (h *Handler) Create(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req createRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, jsonresponse.Error(err))

		return
	}

	var account *domain.CreateAccountParams
	if req.PaymentAccount != nil {
		account = &domain.CreateAccountParams{
			AccountNumber: req.PaymentAccount.AccountNumber,
			Type:          req.PaymentAccount.Type,
			Balance:       req.PaymentAccount.Balance,
		}

		if account.Balance == "" {
			account.Balance = "0"
		}
	}

	user, err := h.service.Create(ctx, req.Username, req.Password, account)
	if err != nil {
		switch err {
		case domain.ErrUsernameAlreadyExists, domain.ErrAccountNumberExists:
			gctx.JSON(http.StatusConflict, jsonresponse.Error(err))
			return
		case domain.ErrUnsupportedAccountType, domain.ErrNegativeBalance:
			gctx.JSON(http.StatusBadRequest, jsonresponse.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, jsonresponse.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, createResponse{Data: createData{user}})
}

type loginRequest struct {
	Username string `json:"username" binding:"required,max=255"`
	Password string `json:"password" binding:"required,max=255"`
}

type loginData struct {
	AccessToken          string      `json:"access_token"`
	AccessTokenExpiresAt time.Time   `json:"access_token_expires_at"`
	User                 domain.User `json:"user"`
}

type loginResponse struct {
	Data loginData `json:"data"`
}

// Login handles http login request and returns the user with an access token.
func (h *Handler) Login(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req loginRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, jsonresponse.Error(err))

		return
	}

	user, err := h.service.CheckPassword(ctx, req.Username, req.Password)
	if err != nil {
		switch err {
		case domain.ErrUserNotFound:
			gctx.JSON(http.StatusNotFound, jsonresponse.Error(err))
			return
		case domain.ErrWrongPassword:
			gctx.JSON(http.StatusUnauthorized, jsonresponse.Error(err))
			return
		}

		gctx.JSON(http.StatusInternalServerError, jsonresponse.Error(errorspkg.ErrInternal))

		return
	}

	accessToken, payload, err := h.tokenMaker.CreateToken(user.ID, user.Username, h.accessTokenDuration)
	if err != nil {
		l.Error().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, jsonresponse.Error(errorspkg.ErrInternal))

		return
	}

	res := loginResponse{
		Data: loginData{
			AccessToken:          accessToken,
			AccessTokenExpiresAt: payload.ExpiredAt,
			User:                 user,
		},
	}

	gctx.JSON(http.StatusOK, res)
}
