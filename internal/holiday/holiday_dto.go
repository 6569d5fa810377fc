package holiday

type CreateHolidayRequest struct {
	Date        string `json:"date" binding:"required"`
	Name        string `json:"name" binding:"required,max=120"`
	IsRecurring bool   `json:"is_recurring"`
	CountryCode string `json:"country_code" binding:"omitempty,len=2"`
}

type HolidayResponse struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	Name        string `json:"name"`
	IsRecurring bool   `json:"is_recurring"`
	CountryCode string `json:"country_code,omitempty"`
}
