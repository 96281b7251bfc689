package policy

import (
	"errors"
	"fmt"
	"time"

	"github.com/edspace/lesson-booking-service/internal/domain"
)

var (
	// ErrCancellationWindow возвращается при нарушении правила 24 часов:
	// отмена и перенос разрешены только до (начало слота - 24ч)
	ErrCancellationWindow = errors.New("policy: cancellation window violated")

	// ErrInternal возвращается при внутренних ошибках (некорректные данные слота)
	ErrInternal = errors.New("policy: internal error")
)

// WindowViolationError нарушение окна отмены с оставшимся временем до начала.
// Часы до начала нужны для сообщения пользователю.
type WindowViolationError struct {
	RemainingHours float64
}

// Error реализует интерфейс error
func (e *WindowViolationError) Error() string {
	return fmt.Sprintf("policy: cancellation window violated, %.1f hours before start (need %d)",
		e.RemainingHours, domain.CancellationNoticeHours)
}

// Is позволяет errors.Is(err, ErrCancellationWindow)
func (e *WindowViolationError) Is(target error) bool {
	return target == ErrCancellationWindow
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// Engine применяет правило окна отмены: отмена или перенос бронирования
// допустимы строго раньше, чем за 24 часа до начала слота.
// Одно и то же правило действует для отмены и для "старого" слота при переносе.
type Engine struct {
	timeProvider TimeProvider
}

// NewEngine создает движок политики отмены
func NewEngine() *Engine {
	return &Engine{timeProvider: &RealTimeProvider{}}
}

// NewEngineWithTimeProvider создает движок с подменяемым временем (для тестов)
func NewEngineWithTimeProvider(tp TimeProvider) *Engine {
	return &Engine{timeProvider: tp}
}

// CanCancelOrReschedule возвращает true, если до начала слота осталось
// не меньше domain.CancellationNoticeHours часов
func (e *Engine) CanCancelOrReschedule(slot *domain.Slot) (bool, error) {
	start, err := slot.StartDateTime()
	if err != nil {
		return false, fmt.Errorf("%w: invalid slot start time: %w", ErrInternal, err)
	}

	deadline := start.Add(-domain.CancellationNoticeHours * time.Hour)
	return e.timeProvider.Now().Before(deadline), nil
}

// Check проверяет окно отмены и возвращает WindowViolationError
// с оставшимися часами при нарушении
func (e *Engine) Check(slot *domain.Slot) error {
	start, err := slot.StartDateTime()
	if err != nil {
		return fmt.Errorf("%w: invalid slot start time: %w", ErrInternal, err)
	}

	now := e.timeProvider.Now()
	deadline := start.Add(-domain.CancellationNoticeHours * time.Hour)

	if now.Before(deadline) {
		return nil
	}

	remaining := start.Sub(now).Hours()
	if remaining < 0 {
		remaining = 0
	}
	return &WindowViolationError{RemainingHours: remaining}
}
