package rbac

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-leave/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct{}

func (f *fakeService) LoadPolicy(ctx context.Context) error { return nil }

func (f *fakeService) Enforce(req domain.EnforceRequest) (bool, error) {
	return req.Role == domain.RoleManager && req.Action == "approve", nil
}

func (f *fakeService) ListPermissions(ctx context.Context) ([]domain.PermissionResponse, error) {
	return nil, nil
}

func TestHandler_Enforce(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewHandler(&fakeService{})

	newRouter := func(role string) *gin.Engine {
		r := gin.New()
		r.POST("/rbac/enforce", func(c *gin.Context) {
			c.Set("employee_id", "emp-1")
			c.Set("role", role)
		}, handler.Enforce)
		return r
	}

	send := func(r *gin.Engine, body any) *httptest.ResponseRecorder {
		raw, _ := json.Marshal(body)
		req := httptest.NewRequest(http.MethodPost, "/rbac/enforce", bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("success uses caller role", func(t *testing.T) {
		w := send(newRouter(domain.RoleManager), map[string]string{"resource": "leave_request", "action": "approve", "role": domain.RoleEmployee})

		require.Equal(t, http.StatusOK, w.Code)
		var body struct {
			Data domain.EnforceResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.True(t, body.Data.Allowed)
	})

	t.Run("negative missing action", func(t *testing.T) {
		w := send(newRouter(domain.RoleManager), map[string]string{"resource": "leave_request"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
