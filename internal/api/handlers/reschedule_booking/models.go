package reschedule_booking

import (
	"time"

	rescheduleBooking "github.com/edspace/lesson-booking-service/internal/usecase/reschedule_booking"
)

// RescheduleBookingRequest HTTP request model
type RescheduleBookingRequest struct {
	NewSlotID int64  `json:"newSlotId"`
	Reason    string `json:"reason"`
}

// RescheduleBookingResponse HTTP response model
type RescheduleBookingResponse struct {
	ID           int64  `json:"id"`
	OldBookingID int64  `json:"oldBookingId"`
	StudentID    int64  `json:"studentId"`
	OldSlotID    int64  `json:"oldSlotId"`
	NewSlotID    int64  `json:"newSlotId"`
	Status       string `json:"status"`
	CreatedAt    string `json:"createdAt"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *rescheduleBooking.Response) *RescheduleBookingResponse {
	return &RescheduleBookingResponse{
		ID:           resp.BookingID,
		OldBookingID: resp.OldBookingID,
		StudentID:    resp.StudentID,
		OldSlotID:    resp.OldSlotID,
		NewSlotID:    resp.NewSlotID,
		Status:       resp.Status,
		CreatedAt:    resp.CreatedAt.Format(time.RFC3339),
	}
}
