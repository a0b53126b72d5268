package domain

// ContactRequest is the inbound contact form.
type ContactRequest struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   *string `json:"phone,omitempty"`
	Message string  `json:"message"`
	Source  string  `json:"source"`
}

// BookingRequest is the inbound booking form.
type BookingRequest struct {
	TourSlug string  `json:"tourSlug"`
	Date     string  `json:"date"` // YYYY-MM-DD
	Adults   int     `json:"adults"`
	Children int     `json:"children"`
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Phone    *string `json:"phone,omitempty"`
	Message  string  `json:"message,omitempty"`
}

// ContactPayload is handed to the email-sending collaborator as-is.
type ContactPayload struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   *string `json:"phone,omitempty"`
	Message string  `json:"message"`
	Source  string  `json:"source"`
	Locale  Locale  `json:"locale"`
}

// BookingPayload is the structured booking notification.
type BookingPayload struct {
	RequestID    string   `json:"requestId"`
	TourID       string   `json:"tourId"`
	TourSlug     string   `json:"tourSlug"`
	TourTitle    string   `json:"tourTitle"`
	Date         string   `json:"date"`
	Adults       int      `json:"adults"`
	Children     int      `json:"children"`
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	Phone        *string  `json:"phone,omitempty"`
	Message      string   `json:"message,omitempty"`
	Locale       Locale   `json:"locale"`
	Currency     Currency `json:"currency"`
	TotalTHB     float64  `json:"totalThb"`
	DisplayTotal string   `json:"displayTotal"`
}
