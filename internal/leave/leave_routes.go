package leave

import (
	"go-leave/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the request lifecycle. extra runs after auth on
// every route, typically rate limiting and idempotency.
func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
	auth gin.HandlerFunc,
	extra ...gin.HandlerFunc,
) {
	requests := r.Group("/leaves/requests")
	requests.Use(auth, middleware.ExtractEmployeeID())
	requests.Use(extra...)
	{
		requests.POST("", middleware.RBACAuthorize(rbacService, "leave_request", "create"), handler.Submit)
		requests.GET("", middleware.RBACAuthorize(rbacService, "leave_request", "read"), handler.GetMine)
		requests.GET("/:id", middleware.RBACAuthorize(rbacService, "leave_request", "read"), handler.GetByID)
		requests.PUT("/:id", middleware.RBACAuthorize(rbacService, "leave_request", "approve"), handler.UpdateStatus)
		requests.POST("/:id/cancel", middleware.RBACAuthorize(rbacService, "leave_request", "cancel"), handler.Cancel)
	}

	approvals := r.Group("/leaves/approvals")
	approvals.Use(auth, middleware.ExtractEmployeeID())
	{
		approvals.GET("", middleware.RBACAuthorize(rbacService, "leave_request", "approve"), handler.GetPendingApprovals)
	}
}
