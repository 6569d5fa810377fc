package holiday

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
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("holiday.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("holiday.handler")
	}
	return &Handler{service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("holiday request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
	)
	response.Fail(c, httpErr)
}

// GetAll lists holidays in range; defaults to the current calendar year.
func (h *Handler) GetAll(c *gin.Context) {
	year := time.Now().UTC().Year()
	start := c.DefaultQuery("start_date", workcalendar.FormatDate(time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)))
	end := c.DefaultQuery("end_date", workcalendar.FormatDate(time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)))

	resp, err := h.service.GetHolidays(c.Request.Context(), start, end)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateHolidayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}
