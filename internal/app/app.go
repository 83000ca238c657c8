package app

import (
	"github.com/gin-gonic/gin"

	"github.com/undiescoverd/leave-tracker-app-sub003/internal/config"
	"github.com/undiescoverd/leave-tracker-app-sub003/internal/shared/connection"
)

// BuildApp connects infrastructure and registers every module's routes on the
// router. The returned error is fatal: the API cannot run degraded.
func BuildApp(router *gin.Engine, cfg *config.Config) error {
	gormDB, err := connection.ConnectGORMWithRetry(
		cfg.Database.Host,
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Name,
		cfg.Database.Port,
		cfg.Database.SSLMode,
		5,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}

	rdb, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, 5)
	if err != nil {
		return err
	}

	return registerModules(router, sqlDB, gormDB, rdb, cfg)
}
