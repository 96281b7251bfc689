package cancel_booking

import "time"

// Request модель запроса на отмену бронирования
type Request struct {
	BookingID int64  // ID бронирования
	CallerID  int64  // ID пользователя, выполняющего отмену
	Reason    string // Причина отмены
}

// Response модель ответа с отмененным бронированием
type Response struct {
	BookingID          int64
	StudentID          int64
	SlotID             int64
	Status             string
	CancellationReason string
	CancelledAt        time.Time

	// ID студентов, продвинутых из очереди ожидания
	// на освободившееся место
	PromotedStudentIDs []int64
}
