package waitlist

import (
	"fmt"

	"github.com/edspace/lesson-booking-service/internal/domain"
)

// validateEnqueueRequest валидирует запрос на постановку в очередь
func validateEnqueueRequest(req *EnqueueRequest) error {
	if req.StudentID <= 0 {
		return fmt.Errorf("%w: studentID must be positive", ErrInvalidInput)
	}

	if req.SlotID <= 0 {
		return fmt.Errorf("%w: slotID must be positive", ErrInvalidInput)
	}

	if req.Priority < domain.MinWaitlistPriority || req.Priority > domain.MaxWaitlistPriority {
		return fmt.Errorf("%w: priority must be between %d and %d",
			ErrInvalidInput, domain.MinWaitlistPriority, domain.MaxWaitlistPriority)
	}

	return nil
}

// validateConvertRequest валидирует запрос на конвертацию
func validateConvertRequest(req *ConvertRequest) error {
	if req.CallerID <= 0 {
		return fmt.Errorf("%w: callerID must be positive", ErrInvalidInput)
	}

	if req.StudentID <= 0 {
		return fmt.Errorf("%w: studentID must be positive", ErrInvalidInput)
	}

	if req.SlotID <= 0 {
		return fmt.Errorf("%w: slotID must be positive", ErrInvalidInput)
	}

	return nil
}
