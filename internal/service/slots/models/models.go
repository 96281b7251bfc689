package models

import (
	"time"

	"github.com/edspace/lesson-booking-service/internal/domain"
	"github.com/edspace/lesson-booking-service/pkg/types"
)

// Request модели

// CreateSlotRequest запрос на создание слота
type CreateSlotRequest struct {
	BranchID      int64  `json:"branchId"`
	TeacherID     int64  `json:"teacherId"`
	RoomID        *int64 `json:"roomId,omitempty"`
	ServiceTypeID *int64 `json:"serviceTypeId,omitempty"`
	SlotDate      string `json:"slotDate"`
	StartTime     string `json:"startTime"`
	EndTime       string `json:"endTime"`
	Capacity      int    `json:"capacity"`

	CallerID int64 `json:"-"`
}

// GetAvailableSlotsRequest запрос свободных слотов филиала на дату
type GetAvailableSlotsRequest struct {
	BranchID int64
	Date     time.Time
}

// Response модели

// SlotResponse слот в ответе сервиса
type SlotResponse struct {
	ID             int64  `json:"id"`
	BranchID       int64  `json:"branchId"`
	TeacherID      int64  `json:"teacherId"`
	RoomID         *int64 `json:"roomId,omitempty"`
	ServiceTypeID  *int64 `json:"serviceTypeId,omitempty"`
	SlotDate       string `json:"slotDate"`
	StartTime      string `json:"startTime"`
	EndTime        string `json:"endTime"`
	Capacity       int    `json:"capacity"`
	BookedCount    int    `json:"bookedCount"`
	AvailableSeats int    `json:"availableSeats"`
	IsActive       bool   `json:"isActive"`
}

// SlotListResponse список слотов
type SlotListResponse struct {
	Slots []*SlotResponse `json:"slots"`
	Total int             `json:"total"`
}

// FromDomainSlot конвертирует domain.Slot в response
func FromDomainSlot(s *domain.Slot) *SlotResponse {
	return &SlotResponse{
		ID:             s.ID,
		BranchID:       s.BranchID,
		TeacherID:      s.TeacherID,
		RoomID:         s.RoomID,
		ServiceTypeID:  s.ServiceTypeID,
		SlotDate:       s.SlotDate.Format(domain.DateFormat),
		StartTime:      string(s.StartTime),
		EndTime:        string(s.EndTime),
		Capacity:       s.Capacity,
		BookedCount:    s.BookedCount,
		AvailableSeats: s.AvailableSeats(),
		IsActive:       s.IsActive,
	}
}

// FromDomainSlotList конвертирует список domain.Slot в response
func FromDomainSlotList(slots []*domain.Slot) *SlotListResponse {
	result := make([]*SlotResponse, 0, len(slots))
	for _, s := range slots {
		result = append(result, FromDomainSlot(s))
	}
	return &SlotListResponse{
		Slots: result,
		Total: len(result),
	}
}

// ToDomainSlot конвертирует request в domain.Slot
func (r *CreateSlotRequest) ToDomainSlot() (*domain.Slot, error) {
	slotDate, err := time.Parse(domain.DateFormat, r.SlotDate)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	endTime, err := types.NewTimeStringFromString(r.EndTime)
	if err != nil {
		return nil, err
	}

	return &domain.Slot{
		BranchID:      r.BranchID,
		TeacherID:     r.TeacherID,
		RoomID:        r.RoomID,
		ServiceTypeID: r.ServiceTypeID,
		SlotDate:      slotDate,
		StartTime:     startTime,
		EndTime:       endTime,
		Capacity:      r.Capacity,
		BookedCount:   0,
		IsActive:      true,
	}, nil
}
