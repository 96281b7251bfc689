package notifyservice

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

// Типы уведомлений
const (
	TypeBookingConfirmed   = "booking_confirmed"
	TypeBookingCancelled   = "booking_cancelled"
	TypeBookingRescheduled = "booking_rescheduled"
	TypeWaitlistEnqueued   = "waitlist_enqueued"
	TypeWaitlistPromoted   = "waitlist_promoted"
)

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("notifyservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("notifyservice client: invalid response")
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент для отправки уведомлений через NotifyService.
//
// Отправка уведомлений - fire-and-forget: сбой доставки логируется,
// но никогда не откатывает бизнес-операцию, которая его породила.
// Вызывающий код использует SendAsync и не проверяет результат.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента NotifyService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

type notificationRequest struct {
	EventID string                 `json:"event_id"`
	UserID  int64                  `json:"user_id"`
	Type    string                 `json:"type"`
	Payload map[string]interface{} `json:"payload"`
}

// Send отправляет уведомление пользователю
func (c *Client) Send(ctx context.Context, userID int64, notifType string, payload map[string]interface{}) error {
	body, err := json.Marshal(notificationRequest{
		EventID: uuid.NewString(),
		UserID:  userID,
		Type:    notifType,
		Payload: payload,
	})
	if err != nil {
		return fmt.Errorf("%w: failed to marshal notification: %w", ErrInternal, err)
	}

	url := fmt.Sprintf("%s/internal/notifications", c.baseURL)

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

// SendAsync отправляет уведомление в отдельной горутине.
// Ошибка доставки логируется и не влияет на вызывающую операцию.
func (c *Client) SendAsync(userID int64, notifType string, payload map[string]interface{}) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), c.httpClient.Timeout)
		defer cancel()

		if err := c.Send(ctx, userID, notifType, payload); err != nil {
			c.log.Error("notifyservice: failed to send %s to user=%d: %v", notifType, userID, err)
			return
		}
		c.log.Info("notifyservice: sent %s to user=%d", notifType, userID)
	}()
}
