package update_assessment

import (
	"context"

	"github.com/edspace/lesson-booking-service/internal/service/assessments/models"
)

type AssessmentService interface {
	Update(ctx context.Context, req *models.UpdateAssessmentRequest) (*models.AssessmentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
