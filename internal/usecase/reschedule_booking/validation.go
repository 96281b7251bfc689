package reschedule_booking

import (
	"fmt"

	"github.com/edspace/lesson-booking-service/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.BookingID <= 0 {
		return fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}

	if req.CallerID <= 0 {
		return fmt.Errorf("%w: callerID must be positive", ErrInvalidInput)
	}

	if req.NewSlotID <= 0 {
		return fmt.Errorf("%w: newSlotID must be positive", ErrInvalidInput)
	}

	if req.Reason == "" {
		return fmt.Errorf("%w: reason is required", ErrInvalidInput)
	}

	if len(req.Reason) > domain.MaxCancellationReasonLength {
		return fmt.Errorf("%w: reason exceeds %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	return nil
}
