package teamcalendar

import (
	"go-leave/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService, auth gin.HandlerFunc) {
	calendar := r.Group("/calendar")
	calendar.Use(auth)
	{
		calendar.GET("/events", middleware.RBACAuthorize(rbacService, "calendar", "read"), handler.GetEvents)
		calendar.GET("/team/:departmentId", middleware.RBACAuthorize(rbacService, "team_calendar", "read"), handler.GetTeamCalendar)
	}
}
