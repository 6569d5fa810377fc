package rbac

import (
	"go-leave/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, service Service, auth gin.HandlerFunc) {
	group := r.Group("/rbac")
	group.Use(auth)
	{
		group.POST("/enforce", handler.Enforce)
		group.GET("/permissions", middleware.RBACAuthorize(service, "rbac", "manage"), handler.ListPermissions)
	}
}
