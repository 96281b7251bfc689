package cancel_booking

import (
	"time"

	cancelBooking "github.com/edspace/lesson-booking-service/internal/usecase/cancel_booking"
)

// CancelBookingRequest HTTP request model
type CancelBookingRequest struct {
	Reason string `json:"reason"`
}

// CancelBookingResponse HTTP response model
type CancelBookingResponse struct {
	ID                 int64  `json:"id"`
	StudentID          int64  `json:"studentId"`
	SlotID             int64  `json:"slotId"`
	Status             string `json:"status"`
	CancellationReason string `json:"cancellationReason"`
	CancelledAt        string `json:"cancelledAt"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *cancelBooking.Response) *CancelBookingResponse {
	return &CancelBookingResponse{
		ID:                 resp.BookingID,
		StudentID:          resp.StudentID,
		SlotID:             resp.SlotID,
		Status:             resp.Status,
		CancellationReason: resp.CancellationReason,
		CancelledAt:        resp.CancelledAt.Format(time.RFC3339),
	}
}
