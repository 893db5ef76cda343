package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-paybank/paybank/pkg/jsonresponse"
	"github.com/go-paybank/paybank/pkg/tokenpkg"
)

// Authorization header constants and the gin context key for the verified payload.
const (
	AuthHeaderKey  = "authorization"
	AuthTypeBearer = "bearer"
	AuthPayloadKey = "authorization_payload"
)

// AddAuthorization sets the authorization header of the request with a fresh token.
func AddAuthorization(
	request *http.Request,
	tokenMaker tokenpkg.Maker,
	authType string,
	userID int64,
	username string,
	duration time.Duration,
) error {
	token, _, err := tokenMaker.CreateToken(userID, username, duration)
	if err != nil {
		return err
	}

	authHeader := fmt.Sprintf("%s %s", authType, token)
	request.Header.Set(AuthHeaderKey, authHeader)

	return nil
}

// AuthMiddleware verifies the bearer token and stores its payload in the gin context.
func AuthMiddleware(tokenMaker tokenpkg.Maker) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader(AuthHeaderKey)
		if len(authHeader) == 0 {
			err := errors.New("authorization header is not provided")
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, jsonresponse.Error(err))

			return
		}

		fields := strings.Fields(authHeader)
		if len(fields) < 2 {
			err := errors.New("invalid authorization header format")
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, jsonresponse.Error(err))

			return
		}

		authType := strings.ToLower(fields[0])
		if authType != AuthTypeBearer {
			err := fmt.Errorf("unsupported authorization type %s", authType)
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, jsonresponse.Error(err))

			return
		}

		accessToken := fields[1]

		payload, err := tokenMaker.VerifyToken(accessToken)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, jsonresponse.Error(err))
			return
		}

		ctx.Set(AuthPayloadKey, payload)
		ctx.Next()
	}
}
