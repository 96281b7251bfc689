package catalogservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент для работы с CatalogService (филиалы, преподаватели, типы занятий).
// Каталог ресурсов принадлежит внешнему сервису, здесь он только читается.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента CatalogService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetBranch получает филиал по ID
func (c *Client) GetBranch(ctx context.Context, branchID int64) (*Branch, error) {
	url := fmt.Sprintf("%s/internal/branches/%d", c.baseURL, branchID)

	var branch Branch
	if err := c.getJSON(ctx, url, &branch, ErrBranchNotFound); err != nil {
		return nil, err
	}
	return &branch, nil
}

// GetTeacher получает преподавателя по ID
func (c *Client) GetTeacher(ctx context.Context, teacherID int64) (*Teacher, error) {
	url := fmt.Sprintf("%s/internal/teachers/%d", c.baseURL, teacherID)

	var teacher Teacher
	if err := c.getJSON(ctx, url, &teacher, ErrTeacherNotFound); err != nil {
		return nil, err
	}
	return &teacher, nil
}

// GetServiceType получает тип занятия по ID
func (c *Client) GetServiceType(ctx context.Context, serviceTypeID int64) (*ServiceType, error) {
	url := fmt.Sprintf("%s/internal/service-types/%d", c.baseURL, serviceTypeID)

	var serviceType ServiceType
	if err := c.getJSON(ctx, url, &serviceType, ErrServiceTypeNotFound); err != nil {
		return nil, err
	}
	return &serviceType, nil
}

func (c *Client) getJSON(ctx context.Context, url string, dst interface{}, notFoundErr error) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %w", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %w", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusNotFound:
		return notFoundErr
	default:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: failed to decode response: %w", ErrInvalidResponse, err)
	}

	return nil
}
