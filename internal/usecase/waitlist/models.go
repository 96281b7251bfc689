package waitlist

import "time"

// EnqueueRequest модель запроса на постановку в очередь ожидания
type EnqueueRequest struct {
	StudentID int64 // ID студента
	SlotID    int64 // ID заполненного слота
	Priority  int   // Приоритет 1-10, больше = раньше
}

// EnqueueResponse модель ответа с созданной записью очереди
type EnqueueResponse struct {
	EntryID   int64
	StudentID int64
	SlotID    int64
	Priority  int
	CreatedAt time.Time
	ExpiresAt time.Time
}

// RemoveRequest модель запроса на выход из очереди
type RemoveRequest struct {
	StudentID int64
	SlotID    int64
}

// ConvertRequest модель запроса на принудительную конвертацию
// записи очереди в бронирование
type ConvertRequest struct {
	CallerID  int64 // ID сотрудника филиала
	StudentID int64 // ID студента из очереди
	SlotID    int64
}

// ConvertResponse модель ответа с созданным бронированием
type ConvertResponse struct {
	BookingID int64
	StudentID int64
	SlotID    int64
	Status    string
	CreatedAt time.Time
}
