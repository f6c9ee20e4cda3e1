package dto

type CalendarLinkRequest struct {
	Title       string `json:"title" validate:"required"`
	Date        string `json:"date" validate:"required"`
	Description string `json:"description"`
}

type CalendarLinkResponse struct {
	Url string `json:"url"`
}
