package app

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/WilliamDu1981/angular2club/internal/account"
	"github.com/WilliamDu1981/angular2club/internal/config"
	"github.com/WilliamDu1981/angular2club/internal/credentials"
	"github.com/WilliamDu1981/angular2club/internal/federation"
	"github.com/WilliamDu1981/angular2club/internal/handler"
	"github.com/WilliamDu1981/angular2club/internal/mail"
	"github.com/WilliamDu1981/angular2club/internal/middleware"
	"github.com/WilliamDu1981/angular2club/internal/provider"
	"github.com/WilliamDu1981/angular2club/internal/provider/connect"
	"github.com/WilliamDu1981/angular2club/internal/session"
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	mailService, err := mail.New(mail.Config{
		Host:        cfg.SMTPHost,
		Port:        cfg.SMTPPort,
		Username:    cfg.SMTPUser,
		Password:    cfg.SMTPPassword,
		From:        cfg.MailFrom,
		SiteBaseURL: cfg.SiteBaseURL,
	})
	if err != nil {
		return nil, nil, err
	}

	hasher := credentials.NewHasher(cfg.PasswordPepper)
	accountStore := account.NewPGStore(infra.DB)
	accountService := account.NewService(accountStore, hasher, mailService)

	sessionStore := session.NewRedisStore(infra.Redis.Client)
	issuer := session.NewIssuer(sessionStore, cfg.SessionTTL)

	qqProvider, err := connect.New(
		cfg.QQAppID,
		cfg.QQAppSecret,
		cfg.QQRedirectURL,
		cfg.QQGraphURL,
	)
	if err != nil {
		return nil, nil, err
	}

	registry := provider.NewRegistry(qqProvider)
	flow := federation.New(registry, accountStore)

	authHandler := handler.NewHandler(
		accountService,
		registry,
		flow,
		issuer,
		sessionStore,
	)

	requireAuth := middleware.RequireSession(sessionStore)

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery())

	authHandler.RegisterRoutes(router, requireAuth)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return router, func() error {
		return infra.DB.Close()
	}, nil
}
