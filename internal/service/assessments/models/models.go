package models

import (
	"time"

	"github.com/edspace/lesson-booking-service/internal/domain"
)

// Request модели

// RecordAssessmentRequest запрос на выставление оценки за занятие
type RecordAssessmentRequest struct {
	BookingID int64   `json:"bookingId"`
	Score     float64 `json:"score"`
	Remarks   string  `json:"remarks"`

	TeacherID int64 `json:"-"`
}

// UpdateAssessmentRequest запрос на изменение оценки.
// Nil-поля остаются без изменений.
type UpdateAssessmentRequest struct {
	AssessmentID int64    `json:"-"`
	Score        *float64 `json:"score,omitempty"`
	Remarks      *string  `json:"remarks,omitempty"`

	TeacherID int64 `json:"-"`
}

// Response модели

// AssessmentResponse оценка в ответе сервиса
type AssessmentResponse struct {
	ID        int64     `json:"id"`
	BookingID int64     `json:"bookingId"`
	StudentID int64     `json:"studentId"`
	TeacherID int64     `json:"teacherId"`
	Score     float64   `json:"score"`
	Remarks   string    `json:"remarks"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FromDomainAssessment конвертирует domain.Assessment в response
func FromDomainAssessment(a *domain.Assessment) *AssessmentResponse {
	return &AssessmentResponse{
		ID:        a.ID,
		BookingID: a.BookingID,
		StudentID: a.StudentID,
		TeacherID: a.TeacherID,
		Score:     a.Score,
		Remarks:   a.Remarks,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}
