package enqueue_waitlist

import (
	"context"

	"github.com/edspace/lesson-booking-service/internal/usecase/waitlist"
)

type WaitlistUseCase interface {
	Enqueue(ctx context.Context, req *waitlist.EnqueueRequest) (*waitlist.EnqueueResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
