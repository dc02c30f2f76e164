package models

// Booking is a persisted, confirmed purchase record. Created only by a
// successful confirmation, never mutated, destroyed only by an explicit
// cancel.
type Booking struct {
	BookingID   string      `json:"bookingId"`
	Email       string      `json:"email"`
	TrainName   string      `json:"trainName"`
	TrainNumber string      `json:"trainNumber"`
	Class       FareClass   `json:"class"`
	Passengers  []Passenger `json:"passengers"`
	TotalFare   int         `json:"totalFare"`
}

// ConfirmTicketRequest is the body of POST /trains/confirm-ticket.
type ConfirmTicketRequest struct {
	TrainNumber string      `json:"train_number" binding:"required"`
	Class       FareClass   `json:"class" binding:"required"`
	Passengers  []Passenger `json:"passengers" binding:"required,min=1"`
}

// ConfirmTicketResponse is the body returned on a successful confirmation.
type ConfirmTicketResponse struct {
	BookingID string   `json:"bookingId"`
	Booking   *Booking `json:"booking,omitempty"`
}
