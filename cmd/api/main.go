package main

import (
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/undiescoverd/leave-tracker-app-sub003/internal/app"
	"github.com/undiescoverd/leave-tracker-app-sub003/internal/bootstrap"
	"github.com/undiescoverd/leave-tracker-app-sub003/internal/config"
	"github.com/undiescoverd/leave-tracker-app-sub003/internal/shared/apperror"
)

func main() {
	_ = godotenv.Load()
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	apperror.Init()
	cfg := config.Load()

	r := gin.Default()

	if err := app.BuildApp(r, cfg); err != nil {
		logger.Fatal("build app failed", zap.Error(err))
	}

	auditLogger := bootstrap.NewStdoutAuditLogger()
	bootstrap.StartHTTPServer(r, cfg.Server, auditLogger)
}
