package toil

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
	toil := r.Group("/toil")
	toil.Use(middleware.AuthMiddleware(jwtSecret))
	{
		toil.GET("", middleware.RBACAuthorize(rbacService, "toil", "read"), handler.GetAll)
		toil.POST("", middleware.RBACAuthorize(rbacService, "toil", "create"), handler.Create)
		toil.GET("/:id", middleware.RBACAuthorize(rbacService, "toil", "read"), handler.GetById)
		toil.PUT("/:id/approve", middleware.RBACAuthorize(rbacService, "toil", "approve"), handler.Approve)
		toil.PUT("/:id/reject", middleware.RBACAuthorize(rbacService, "toil", "approve"), handler.Reject)
	}
}
