// Package httpserver manages server creation and api routing.
package httpserver

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/go-paybank/paybank/internal/accountdelivery"
	"github.com/go-paybank/paybank/internal/accountrepo"
	"github.com/go-paybank/paybank/internal/accountservice"
	"github.com/go-paybank/paybank/internal/historyrepo"
	"github.com/go-paybank/paybank/internal/middleware"
	"github.com/go-paybank/paybank/internal/movementrepo"
	"github.com/go-paybank/paybank/internal/transactiondelivery"
	"github.com/go-paybank/paybank/internal/transactionservice"
	"github.com/go-paybank/paybank/internal/userdelivery"
	"github.com/go-paybank/paybank/internal/userrepo"
	"github.com/go-paybank/paybank/internal/userservice"
	"github.com/go-paybank/paybank/pkg/accounttypepkg"
	"github.com/go-paybank/paybank/pkg/configpkg"
	"github.com/go-paybank/paybank/pkg/tokenpkg"
)

// Server holds db connection, handlers router and configuration.
type Server struct {
	DB     *sql.DB
	Engine *gin.Engine
	Config configpkg.Config
}

// ServeHTTP implements the http.Handler interface for the Server type.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Engine.ServeHTTP(w, r)
}

func newTokenMaker(config configpkg.Config) (tokenpkg.Maker, error) {
	if config.TokenMaker == "jwt" {
		return tokenpkg.NewJWTMaker(config.TokenSymmetricKey)
	}

	return tokenpkg.NewPasetoMaker(config.TokenSymmetricKey)
}

// New creates Server type with instantiated domains and routes.
func New(conn *sql.DB, logger zerolog.Logger, config configpkg.Config) (*Server, error) {
	userRepo := userrepo.NewRepoPGS(conn)
	accountRepo := accountrepo.NewRepoPGS(conn)
	historyRepo := historyrepo.NewRepoPGS(conn)
	movementRepo := movementrepo.NewRepoPGS(conn)

	tokenMaker, err := newTokenMaker(config)
	if err != nil {
		return nil, errors.New("cannot create token maker")
	}

	userService := userservice.New(userRepo)
	accountService := accountservice.New(accountRepo)
	transactionService := transactionservice.New(movementRepo, historyRepo, accountRepo, userRepo)

	userHandler := userdelivery.NewHandler(userService, tokenMaker, config.AccessTokenDuration)
	accountHandler := accountdelivery.NewHandler(accountService)
	transactionHandler := transactiondelivery.NewHandler(transactionService)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gin.Recovery())

	engine.POST("/users", userHandler.Create)
	engine.POST("/users/login", userHandler.Login)

	authRoutes := engine.Group("/").Use(middleware.AuthMiddleware(tokenMaker))

	authRoutes.POST("/accounts", accountHandler.Create)
	authRoutes.GET("/accounts/:account_number", accountHandler.Get)
	authRoutes.GET("/accounts", accountHandler.List)

	authRoutes.POST("/transactions/send", transactionHandler.Send)
	authRoutes.POST("/transactions/withdraw", transactionHandler.Withdraw)
	authRoutes.GET("/transactions/payment-history", transactionHandler.PaymentHistory)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		err := v.RegisterValidation("accounttype", accounttypepkg.ValidAccountType)
		if err != nil {
			return nil, errors.New("cannot register account type validator")
		}
	}

	server := &Server{
		DB:     conn,
		Engine: engine,
		Config: config,
	}

	return server, nil
}
