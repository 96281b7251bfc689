package mark_attendance

// Request модель запроса на отметку посещения занятия
type Request struct {
	BookingID int64 // ID бронирования
	TeacherID int64 // ID преподавателя (из заголовка аутентификации)
	Attended  bool  // true = студент присутствовал
}

// Response модель ответа с итоговым статусом
type Response struct {
	BookingID int64
	StudentID int64
	SlotID    int64
	Status    string // completed | no_show
}
