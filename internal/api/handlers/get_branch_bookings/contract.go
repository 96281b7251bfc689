package get_branch_bookings

import (
	"context"

	"github.com/edspace/lesson-booking-service/internal/service/bookings/models"
)

type BookingService interface {
	GetBranchBookings(ctx context.Context, req *models.GetBranchBookingsRequest) (*models.BookingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
