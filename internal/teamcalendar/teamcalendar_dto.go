package teamcalendar

import (
	"time"

	"go-leave/internal/holiday"
)

type EventResponse struct {
	ID           string    `json:"id"`
	ReferenceID  string    `json:"reference_id"`
	EmployeeID   string    `json:"employee_id"`
	DepartmentID *string   `json:"department_id,omitempty"`
	EventType    string    `json:"event_type"`
	Title        string    `json:"title"`
	Status       string    `json:"status"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
}

type TeamCalendarResponse struct {
	DepartmentID string                    `json:"department_id"`
	StartDate    string                    `json:"start_date"`
	EndDate      string                    `json:"end_date"`
	Leaves       []EventResponse           `json:"leaves"`
	Holidays     []holiday.HolidayResponse `json:"holidays"`
}

func mapToResponse(e CalendarEvent) EventResponse {
	resp := EventResponse{
		ID:          e.ID.String(),
		ReferenceID: e.ReferenceID.String(),
		EmployeeID:  e.EmployeeID.String(),
		EventType:   e.EventType,
		Title:       e.Title,
		Status:      e.Status,
		Start:       e.StartAt,
		End:         e.EndAt,
	}
	if e.DepartmentID != nil {
		v := e.DepartmentID.String()
		resp.DepartmentID = &v
	}
	return resp
}

func mapToResponses(items []CalendarEvent) []EventResponse {
	resp := make([]EventResponse, len(items))
	for i, e := range items {
		resp[i] = mapToResponse(e)
	}
	return resp
}
