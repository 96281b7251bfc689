package remove_waitlist

import (
	"context"

	"github.com/edspace/lesson-booking-service/internal/usecase/waitlist"
)

type WaitlistUseCase interface {
	Remove(ctx context.Context, req *waitlist.RemoveRequest) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
