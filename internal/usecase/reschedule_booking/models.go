package reschedule_booking

import "time"

// Request модель запроса на перенос бронирования
type Request struct {
	BookingID int64  // ID переносимого бронирования
	CallerID  int64  // ID пользователя, выполняющего перенос
	NewSlotID int64  // ID нового слота
	Reason    string // Причина переноса
}

// Response модель ответа с новым бронированием
type Response struct {
	BookingID    int64 // ID нового бронирования
	OldBookingID int64 // ID отмененного бронирования
	StudentID    int64
	OldSlotID    int64
	NewSlotID    int64
	Status       string
	CreatedAt    time.Time

	// ID студентов, продвинутых из очереди ожидания
	// на место в старом слоте
	PromotedStudentIDs []int64
}
