package teamcalendar

import (
	"net/http"
	"time"

	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/response"
	"go-leave/internal/workcalendar"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	now     func() time.Time
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("teamcalendar.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("teamcalendar.handler")
	}
	return &Handler{service: service, now: time.Now, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("calendar request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Fail(c, httpErr)
}

// monthRange defaults to the current month.
func (h *Handler) monthRange(c *gin.Context) (string, string) {
	now := h.now().UTC()
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return c.DefaultQuery("start_date", workcalendar.FormatDate(first)),
		c.DefaultQuery("end_date", workcalendar.FormatDate(last))
}

func (h *Handler) GetEvents(c *gin.Context) {
	start, end := h.monthRange(c)
	resp, err := h.service.Events(c.Request.Context(), start, end)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetTeamCalendar(c *gin.Context) {
	start, end := h.monthRange(c)
	resp, err := h.service.TeamCalendar(c.Request.Context(), c.Param("departmentId"), start, end)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
