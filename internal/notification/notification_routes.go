package notification

import (
	"go-leave/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService, auth gin.HandlerFunc) {
	notifications := r.Group("/notifications")
	notifications.Use(auth)
	{
		notifications.GET("", middleware.RBACAuthorize(rbacService, "notification", "read"), handler.List)
		notifications.PUT("/:id/read", middleware.RBACAuthorize(rbacService, "notification", "update"), handler.MarkRead)
	}
}
