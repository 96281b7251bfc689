package create_booking

import "time"

// Outcome результат попытки бронирования
type Outcome string

const (
	// OutcomeConfirmed место занято, бронирование создано
	OutcomeConfirmed Outcome = "confirmed"

	// OutcomeSlotFull мест нет, бронирование не создано -
	// студенту доступна очередь ожидания
	OutcomeSlotFull Outcome = "slot_full"
)

// Request модель запроса на создание бронирования
type Request struct {
	StudentID int64 // ID студента (из заголовка аутентификации)
	SlotID    int64 // ID слота
}

// Response модель ответа с результатом бронирования
type Response struct {
	Outcome Outcome // confirmed | slot_full

	// Заполнено только при Outcome == confirmed
	BookingID int64
	StudentID int64
	SlotID    int64
	Status    string
	CreatedAt time.Time

	// true при Outcome == slot_full: студент может встать в очередь
	WaitlistAvailable bool
}
