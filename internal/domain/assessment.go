package domain

import "time"

// Assessment represents a teacher's scored evaluation of a completed lesson.
// Exactly one assessment may exist per booking, authored by the slot's teacher.
type Assessment struct {
	ID        int64
	BookingID int64
	StudentID int64
	TeacherID int64
	Score     float64 // multiple of 0.5 in [0, 9]
	Remarks   string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsValidScore reports whether score is a multiple of 0.5 within [0, 9]
func IsValidScore(score float64) bool {
	if score < MinAssessmentScore || score > MaxAssessmentScore {
		return false
	}
	doubled := score * 2
	return doubled == float64(int64(doubled))
}
