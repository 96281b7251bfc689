package create_booking

import (
	"time"

	createBooking "github.com/edspace/lesson-booking-service/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	SlotID int64 `json:"slotId"`
}

// BookingResponse HTTP response model для созданного бронирования
type BookingResponse struct {
	ID        int64  `json:"id"`
	StudentID int64  `json:"studentId"`
	SlotID    int64  `json:"slotId"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
}

// SlotFullResponse HTTP response model для заполненного слота
type SlotFullResponse struct {
	SlotID            int64  `json:"slotId"`
	Message           string `json:"message"`
	WaitlistAvailable bool   `json:"waitlistAvailable"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:        resp.BookingID,
		StudentID: resp.StudentID,
		SlotID:    resp.SlotID,
		Status:    resp.Status,
		CreatedAt: resp.CreatedAt.Format(time.RFC3339),
	}
}
