package get_user_bookings

import (
	"context"

	"github.com/edspace/lesson-booking-service/internal/service/bookings/models"
)

type BookingService interface {
	GetStudentBookings(ctx context.Context, req *models.GetStudentBookingsRequest) (*models.BookingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
