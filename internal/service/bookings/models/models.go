package models

import (
	"errors"
	"time"

	"github.com/edspace/lesson-booking-service/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// GetStudentBookingsRequest запрос на получение бронирований студента
type GetStudentBookingsRequest struct {
	StudentID int64   `json:"studentId"`
	CallerID  int64   `json:"-"`
	Status    *string `json:"status,omitempty"`
}

// GetBranchBookingsRequest запрос на получение бронирований филиала
type GetBranchBookingsRequest struct {
	BranchID        int64      `json:"branchId"`
	CallerID        int64      `json:"-"`
	StartDate       *time.Time `json:"startDate,omitempty"`
	EndDate         *time.Time `json:"endDate,omitempty"`
	Status          *string    `json:"status,omitempty"`
	IncludeInactive bool       `json:"includeInactive,omitempty"`
}

// ToDomainFilter конвертирует request в domain-фильтр
func (r *GetBranchBookingsRequest) ToDomainFilter() (domain.BranchBookingsFilter, error) {
	filter := domain.BranchBookingsFilter{
		BranchID:        r.BranchID,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		IncludeInactive: r.IncludeInactive,
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return domain.BranchBookingsFilter{}, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// BookingResponse бронирование в ответе сервиса
type BookingResponse struct {
	ID                 int64      `json:"id"`
	StudentID          int64      `json:"studentId"`
	SlotID             int64      `json:"slotId"`
	Status             string     `json:"status"`
	CancellationReason *string    `json:"cancellationReason,omitempty"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// BookingListResponse список бронирований
type BookingListResponse struct {
	Bookings []*BookingResponse `json:"bookings"`
	Total    int                `json:"total"`
}

// FromDomainBooking конвертирует domain.Booking в response
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	return &BookingResponse{
		ID:                 b.ID,
		StudentID:          b.StudentID,
		SlotID:             b.SlotID,
		Status:             string(b.Status),
		CancellationReason: b.CancellationReason,
		CancelledAt:        b.CancelledAt,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}

// FromDomainBookingList конвертирует список domain.Booking в response
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	result := make([]*BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		result = append(result, FromDomainBooking(b))
	}
	return &BookingListResponse{
		Bookings: result,
		Total:    len(result),
	}
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus
func ToDomainBookingStatus(s string) (domain.BookingStatus, error) {
	switch domain.BookingStatus(s) {
	case domain.StatusConfirmed, domain.StatusCancelled, domain.StatusCompleted, domain.StatusNoShow:
		return domain.BookingStatus(s), nil
	default:
		return "", ErrInvalidStatus
	}
}
