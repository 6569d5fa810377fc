package balance

import (
	"go-leave/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService, auth gin.HandlerFunc) {
	balances := r.Group("/leaves/balances")
	balances.Use(auth)
	{
		balances.GET("", middleware.RBACAuthorize(rbacService, "leave_balance", "read"), handler.GetBalances)
		balances.POST("/adjust", middleware.RBACAuthorize(rbacService, "leave_balance", "adjust"), handler.Adjust)
	}
}
