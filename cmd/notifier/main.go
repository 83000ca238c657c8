package main

import (
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/undiescoverd/leave-tracker-app-sub003/internal/app"
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

	if err := app.RunNotifier(config.Load()); err != nil {
		logger.Fatal("run notifier failed", zap.Error(err))
	}
}
