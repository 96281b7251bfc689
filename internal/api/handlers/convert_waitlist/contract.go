package convert_waitlist

import (
	"context"

	"github.com/edspace/lesson-booking-service/internal/usecase/waitlist"
)

type WaitlistUseCase interface {
	ConvertToBooking(ctx context.Context, req *waitlist.ConvertRequest) (*waitlist.ConvertResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
