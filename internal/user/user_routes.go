package user

import (
	"github.com/gin-gonic/gin"

	"github.com/undiescoverd/leave-tracker-app-sub003/internal/middleware"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.Authorizer,
	jwtSecret string,
) {
	me := r.Group("/me")
	me.Use(middleware.AuthMiddleware(jwtSecret))
	{
		me.GET("", handler.Me)
	}

	users := r.Group("/users")
	users.Use(middleware.AuthMiddleware(jwtSecret))
	{
		users.GET("", middleware.RBACAuthorize(rbacService, "user", "manage"), handler.GetAll)
		users.POST("", middleware.RBACAuthorize(rbacService, "user", "manage"), handler.Create)
		users.GET("/:id", middleware.RBACAuthorize(rbacService, "user", "manage"), handler.GetById)
		users.PUT("/:id/balance", middleware.RBACAuthorize(rbacService, "balance", "adjust"), handler.AdjustBalance)
	}
}
