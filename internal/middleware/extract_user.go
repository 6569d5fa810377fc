package middleware

import (
	"net/http"

	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ExtractEmployeeID guarantees handlers a parsed employee id under
// "employee_id_validated".
func ExtractEmployeeID() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetString(string(ContextEmployeeID))
		if raw == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Employee is not authenticated", nil)
			c.Abort()
			return
		}

		id, err := uuid.Parse(raw)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "INVALID_EMPLOYEE_ID", "Employee id has an invalid format", nil)
			c.Abort()
			return
		}

		c.Set("employee_id_validated", id.String())
		c.Next()
	}
}
