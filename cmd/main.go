package main

import (
	"log"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Anish-Karthik/OD-automation/config"
	"github.com/Anish-Karthik/OD-automation/core"
	"github.com/Anish-Karthik/OD-automation/database"
	"github.com/Anish-Karthik/OD-automation/routes"
	"github.com/Anish-Karthik/OD-automation/services/email"
)

func newLogger(env string) *zap.Logger {
	var cfg zap.Config
	if env == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.OutputPaths = []string{"stdout"}
	logger, err := cfg.Build()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	return logger
}

func main() {
	cfg := config.Load()

	logger := newLogger(cfg.AppEnv)
	defer logger.Sync()

	db := database.Connect(cfg)

	var mailer core.Mailer
	if cfg.SendgridAPIKey != "" {
		mailer = email.NewSendgridMailer(cfg.SendgridAPIKey, cfg.MailFromName, cfg.MailFromAddr)
	} else {
		logger.Info("no sendgrid api key set, emails go to the log")
		mailer = email.NewConsoleMailer(logger)
	}

	roster := database.NewRosterStore(db)
	forms := database.NewFormStore(db)
	approval := core.NewApprovalService(roster, forms, mailer, logger)
	assign := core.NewAssignmentService(roster, logger)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORS())

	routes.Register(e, routes.Deps{
		DB:       db,
		Cfg:      cfg,
		Logger:   logger,
		Mailer:   mailer,
		Approval: approval,
		Assign:   assign,
	})

	logger.Info("starting server", zap.String("port", cfg.AppPort), zap.String("env", cfg.AppEnv))
	if err := e.Start(":" + cfg.AppPort); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
