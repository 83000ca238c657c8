package leave

import (
	"github.com/gin-gonic/gin"

	"github.com/undiescoverd/leave-tracker-app-sub003/internal/middleware"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.Authorizer,
	jwtSecret string,
	idempotency gin.HandlerFunc,
) {
	leave := r.Group("/leave")
	leave.Use(middleware.AuthMiddleware(jwtSecret))
	{
		leave.GET("", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetAll)
		leave.POST("", middleware.RBACAuthorize(rbacService, "leave", "create"), idempotency, handler.Create)
		leave.GET("/balances", middleware.RBACAuthorize(rbacService, "balance", "read"), handler.Balances)
		leave.GET("/:id", middleware.RBACAuthorize(rbacService, "leave", "read"), handler.GetById)
		leave.PUT("/:id/approve", middleware.RBACAuthorize(rbacService, "leave", "approve"), handler.Approve)
		leave.PUT("/:id/reject", middleware.RBACAuthorize(rbacService, "leave", "approve"), handler.Reject)
		leave.PUT("/:id/cancel", middleware.RBACAuthorize(rbacService, "leave", "cancel"), handler.Cancel)
		leave.POST("/reject-all", middleware.RBACAuthorize(rbacService, "leave", "approve"), handler.BulkReject)
	}
}
