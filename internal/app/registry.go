package app

import (
	"database/sql"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/undiescoverd/leave-tracker-app-sub003/internal/auth"
	"github.com/undiescoverd/leave-tracker-app-sub003/internal/bootstrap"
	"github.com/undiescoverd/leave-tracker-app-sub003/internal/config"
	"github.com/undiescoverd/leave-tracker-app-sub003/internal/leave"
	"github.com/undiescoverd/leave-tracker-app-sub003/internal/messaging/kafka"
	"github.com/undiescoverd/leave-tracker-app-sub003/internal/middleware"
	"github.com/undiescoverd/leave-tracker-app-sub003/internal/rbac"
	"github.com/undiescoverd/leave-tracker-app-sub003/internal/toil"
	"github.com/undiescoverd/leave-tracker-app-sub003/internal/user"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	cfg *config.Config,
) error {
	// --- Repositories ---
	userRepo := user.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	toilRepo := toil.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	rbacService, err := rbac.NewService()
	if err != nil {
		return err
	}

	auditLogger := bootstrap.NewStdoutAuditLogger()

	// --- Services ---
	authService := auth.NewService(userRepo, cfg.JWTSecret, cfg.JWTTTL)
	userService := user.NewService(userRepo, auditLogger)
	leaveService := leave.NewService(db, leaveRepo, userRepo, outboxRepo, rdb, cfg, auditLogger)
	toilService := toil.NewService(db, toilRepo, userRepo, outboxRepo, rdb, cfg.Features, auditLogger)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	userHandler := user.NewHandler(userService)
	leaveHandler := leave.NewHandler(leaveService)
	toilHandler := toil.NewHandler(toilService)

	// --- Global middleware ---
	router.Use(middleware.RequestID(zap.L()))
	router.Use(middleware.RateLimitByIP(rate.Limit(20), 40))
	router.Use(middleware.RateLimitByUser(rate.Limit(10), 20))

	idempotency := middleware.Idempotency(rdb)

	// --- Routes ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler)
		user.RegisterRoutes(api, userHandler, rbacService, cfg.JWTSecret)
		leave.RegisterRoutes(api, leaveHandler, rbacService, cfg.JWTSecret, idempotency)
		toil.RegisterRoutes(api, toilHandler, rbacService, cfg.JWTSecret)
	}

	return nil
}
