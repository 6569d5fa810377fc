package leave_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	balanceerrors "go-leave/internal/balance/errors"
	"go-leave/internal/domain"
	"go-leave/internal/leave"
	leaveerrors "go-leave/internal/leave/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Meta  json.RawMessage `json:"meta"`
	Error *apiError       `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	require.NoError(t, json.Unmarshal(body, &env))
	return env
}

type fakeLeaveService struct {
	submitFn       func(ctx context.Context, employeeID string, req leave.SubmitLeaveRequest) (leave.LeaveResponse, error)
	updateStatusFn func(ctx context.Context, actorID, requestID string, req leave.UpdateStatusRequest) (leave.LeaveResponse, error)
	cancelFn       func(ctx context.Context, employeeID, requestID string) (leave.LeaveResponse, error)
	getByIDFn      func(ctx context.Context, actorID, requestID string, canReadAll bool) (leave.LeaveResponse, error)
	getMineFn      func(ctx context.Context, employeeID string) ([]leave.LeaveResponse, error)
	pendingFn      func(ctx context.Context, managerID string) ([]leave.LeaveResponse, error)
}

func (f *fakeLeaveService) Submit(ctx context.Context, employeeID string, req leave.SubmitLeaveRequest) (leave.LeaveResponse, error) {
	return f.submitFn(ctx, employeeID, req)
}
func (f *fakeLeaveService) UpdateStatus(ctx context.Context, actorID, requestID string, req leave.UpdateStatusRequest) (leave.LeaveResponse, error) {
	return f.updateStatusFn(ctx, actorID, requestID, req)
}
func (f *fakeLeaveService) Cancel(ctx context.Context, employeeID, requestID string) (leave.LeaveResponse, error) {
	return f.cancelFn(ctx, employeeID, requestID)
}
func (f *fakeLeaveService) GetByID(ctx context.Context, actorID, requestID string, canReadAll bool) (leave.LeaveResponse, error) {
	return f.getByIDFn(ctx, actorID, requestID, canReadAll)
}
func (f *fakeLeaveService) GetMine(ctx context.Context, employeeID string) ([]leave.LeaveResponse, error) {
	return f.getMineFn(ctx, employeeID)
}
func (f *fakeLeaveService) GetPendingApprovals(ctx context.Context, managerID string) ([]leave.LeaveResponse, error) {
	return f.pendingFn(ctx, managerID)
}

func newTestContext(method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func TestLeaveHandler_Submit(t *testing.T) {
	leaveTypeID := uuid.NewString()

	t.Run("success uses employee_id_validated", func(t *testing.T) {
		employeeID := uuid.NewString()
		svc := &fakeLeaveService{
			submitFn: func(ctx context.Context, eid string, req leave.SubmitLeaveRequest) (leave.LeaveResponse, error) {
				assert.Equal(t, employeeID, eid)
				assert.Equal(t, leaveTypeID, req.LeaveTypeID)
				assert.Equal(t, "2026-03-02", req.StartDate)
				return leave.LeaveResponse{ID: uuid.NewString(), EmployeeID: eid, TotalDays: d("5"), Status: leave.StatusPending}, nil
			},
		}
		h := leave.NewHandler(svc, zap.NewNop())
		c, w := newTestContext(http.MethodPost, "/leaves/requests",
			`{"leave_type_id":"`+leaveTypeID+`","start_date":"2026-03-02","end_date":"2026-03-06"}`)
		c.Set("employee_id", uuid.NewString())
		c.Set("employee_id_validated", employeeID)

		h.Submit(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got leave.LeaveResponse
		require.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, leave.StatusPending, got.Status)
		assertDays(t, "5", got.TotalDays, "total_days")
	})

	t.Run("negative missing fields", func(t *testing.T) {
		h := leave.NewHandler(&fakeLeaveService{}, zap.NewNop())
		c, w := newTestContext(http.MethodPost, "/leaves/requests", `{"start_date":"2026-03-02"}`)
		c.Set("employee_id", uuid.NewString())

		h.Submit(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
	})

	t.Run("negative insufficient balance maps to 422", func(t *testing.T) {
		svc := &fakeLeaveService{
			submitFn: func(ctx context.Context, eid string, req leave.SubmitLeaveRequest) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, balanceerrors.ErrInsufficientBalance
			},
		}
		h := leave.NewHandler(svc, zap.NewNop())
		c, w := newTestContext(http.MethodPost, "/leaves/requests",
			`{"leave_type_id":"`+leaveTypeID+`","start_date":"2026-03-02","end_date":"2026-03-27"}`)
		c.Set("employee_id", uuid.NewString())

		h.Submit(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		require.NotNil(t, env.Error)
		assert.Equal(t, balanceerrors.ErrInsufficientBalance.Code, env.Error.Code)
	})
}

func TestLeaveHandler_UpdateStatus(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		actorID := uuid.NewString()
		requestID := uuid.NewString()
		svc := &fakeLeaveService{
			updateStatusFn: func(ctx context.Context, aid, rid string, req leave.UpdateStatusRequest) (leave.LeaveResponse, error) {
				assert.Equal(t, actorID, aid)
				assert.Equal(t, requestID, rid)
				assert.Equal(t, "APPROVED", req.Status)
				return leave.LeaveResponse{ID: rid, Status: leave.StatusApproved}, nil
			},
		}
		h := leave.NewHandler(svc, zap.NewNop())
		c, w := newTestContext(http.MethodPut, "/leaves/requests/"+requestID, `{"status":"APPROVED"}`)
		c.Params = gin.Params{{Key: "id", Value: requestID}}
		c.Set("employee_id", actorID)

		h.UpdateStatus(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("negative invalid transition maps to 409", func(t *testing.T) {
		svc := &fakeLeaveService{
			updateStatusFn: func(ctx context.Context, aid, rid string, req leave.UpdateStatusRequest) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrInvalidTransition
			},
		}
		h := leave.NewHandler(svc, zap.NewNop())
		c, w := newTestContext(http.MethodPut, "/leaves/requests/x", `{"status":"REJECTED"}`)
		c.Params = gin.Params{{Key: "id", Value: uuid.NewString()}}
		c.Set("employee_id", uuid.NewString())

		h.UpdateStatus(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		require.NotNil(t, env.Error)
		assert.Equal(t, leaveerrors.ErrInvalidTransition.Code, env.Error.Code)
	})

	t.Run("negative self review maps to 403", func(t *testing.T) {
		svc := &fakeLeaveService{
			updateStatusFn: func(ctx context.Context, aid, rid string, req leave.UpdateStatusRequest) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrSelfReview
			},
		}
		h := leave.NewHandler(svc, zap.NewNop())
		c, w := newTestContext(http.MethodPut, "/leaves/requests/x", `{"status":"APPROVED"}`)
		c.Params = gin.Params{{Key: "id", Value: uuid.NewString()}}
		c.Set("employee_id", uuid.NewString())

		h.UpdateStatus(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestLeaveHandler_GetByID(t *testing.T) {
	for _, tc := range []struct {
		role string
		want bool
	}{
		{domain.RoleEmployee, false},
		{domain.RoleManager, true},
		{domain.RoleAdmin, true},
	} {
		t.Run(tc.role, func(t *testing.T) {
			svc := &fakeLeaveService{
				getByIDFn: func(ctx context.Context, aid, rid string, canReadAll bool) (leave.LeaveResponse, error) {
					assert.Equal(t, tc.want, canReadAll)
					return leave.LeaveResponse{ID: rid}, nil
				},
			}
			h := leave.NewHandler(svc, zap.NewNop())
			c, w := newTestContext(http.MethodGet, "/leaves/requests/x", "")
			c.Params = gin.Params{{Key: "id", Value: uuid.NewString()}}
			c.Set("employee_id", uuid.NewString())
			c.Set("role", tc.role)

			h.GetByID(c)

			assert.Equal(t, http.StatusOK, w.Code)
		})
	}

	t.Run("negative not found", func(t *testing.T) {
		svc := &fakeLeaveService{
			getByIDFn: func(ctx context.Context, aid, rid string, canReadAll bool) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrLeaveNotFound
			},
		}
		h := leave.NewHandler(svc, zap.NewNop())
		c, w := newTestContext(http.MethodGet, "/leaves/requests/x", "")
		c.Params = gin.Params{{Key: "id", Value: uuid.NewString()}}
		c.Set("employee_id", uuid.NewString())

		h.GetByID(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestLeaveHandler_GetMine(t *testing.T) {
	t.Run("paginates in memory", func(t *testing.T) {
		items := make([]leave.LeaveResponse, 3)
		for i := range items {
			items[i] = leave.LeaveResponse{ID: uuid.NewString()}
		}
		svc := &fakeLeaveService{
			getMineFn: func(ctx context.Context, eid string) ([]leave.LeaveResponse, error) {
				return items, nil
			},
		}
		h := leave.NewHandler(svc, zap.NewNop())
		c, w := newTestContext(http.MethodGet, "/leaves/requests?page=2&page_size=2", "")
		c.Set("employee_id", uuid.NewString())

		h.GetMine(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		var got []leave.LeaveResponse
		require.NoError(t, json.Unmarshal(env.Data, &got))
		require.Len(t, got, 1)
		assert.Equal(t, items[2].ID, got[0].ID)
		assert.JSONEq(t, `{"total":3,"totalPages":2,"page":2,"pageSize":2}`, string(env.Meta))
	})
}

func TestLeaveHandler_Cancel(t *testing.T) {
	t.Run("negative not owner", func(t *testing.T) {
		svc := &fakeLeaveService{
			cancelFn: func(ctx context.Context, eid, rid string) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrNotRequestOwner
			},
		}
		h := leave.NewHandler(svc, zap.NewNop())
		c, w := newTestContext(http.MethodPost, "/leaves/requests/x/cancel", "")
		c.Params = gin.Params{{Key: "id", Value: uuid.NewString()}}
		c.Set("employee_id", uuid.NewString())

		h.Cancel(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
