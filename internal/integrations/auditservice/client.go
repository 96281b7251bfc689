package auditservice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Типы сущностей аудита
const (
	EntityBooking    = "booking"
	EntitySlot       = "slot"
	EntityWaitlist   = "waiting_list_entry"
	EntityAssessment = "assessment"
)

// Действия аудита
const (
	ActionCreate     = "create"
	ActionCancel     = "cancel"
	ActionReschedule = "reschedule"
	ActionComplete   = "complete"
	ActionNoShow     = "no_show"
	ActionEnqueue    = "enqueue"
	ActionPromote    = "promote"
	ActionRemove     = "remove"
	ActionUpdate     = "update"
)

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("auditservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("auditservice client: invalid response")
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент для записи аудит-событий в AuditService.
//
// События эмитятся явно на каждом переходе состояния бронирования,
// а не перехватом HTTP-ответов: аудит не зависит от транспортного слоя.
// Запись fire-and-forget - сбой логируется и не откатывает операцию.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента AuditService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

type auditEvent struct {
	EventID    string                 `json:"event_id"`
	UserID     int64                  `json:"user_id"`
	EntityType string                 `json:"entity_type"`
	EntityID   int64                  `json:"entity_id"`
	Action     string                 `json:"action"`
	OldValues  map[string]interface{} `json:"old_values,omitempty"`
	NewValues  map[string]interface{} `json:"new_values,omitempty"`
	OccurredAt time.Time              `json:"occurred_at"`
}

// Record записывает аудит-событие
func (c *Client) Record(ctx context.Context, userID int64, entityType string, entityID int64, action string, oldValues, newValues map[string]interface{}) error {
	body, err := json.Marshal(auditEvent{
		EventID:    uuid.NewString(),
		UserID:     userID,
		EntityType: entityType,
		EntityID:   entityID,
		Action:     action,
		OldValues:  oldValues,
		NewValues:  newValues,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("%w: failed to marshal audit event: %w", ErrInternal, err)
	}

	url := fmt.Sprintf("%s/internal/audit-events", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %w", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %w", ErrInternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(respBody))
	}

	return nil
}

// RecordAsync записывает аудит-событие в отдельной горутине.
// Ошибка записи логируется и не влияет на вызывающую операцию.
func (c *Client) RecordAsync(userID int64, entityType string, entityID int64, action string, oldValues, newValues map[string]interface{}) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), c.httpClient.Timeout)
		defer cancel()

		if err := c.Record(ctx, userID, entityType, entityID, action, oldValues, newValues); err != nil {
			c.log.Error("auditservice: failed to record %s/%s id=%d: %v", entityType, action, entityID, err)
		}
	}()
}
