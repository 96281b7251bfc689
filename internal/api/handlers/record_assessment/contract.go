package record_assessment

import (
	"context"

	"github.com/edspace/lesson-booking-service/internal/service/assessments/models"
)

type AssessmentService interface {
	Record(ctx context.Context, req *models.RecordAssessmentRequest) (*models.AssessmentResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
