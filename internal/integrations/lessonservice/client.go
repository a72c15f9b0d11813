package lessonservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/dgervalla-ship-it/viamentor-sub004/internal/domain"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент для работы с LessonService (планирование уроков)
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента LessonService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// CheckAvailability проверяет, свободны ли инструктор и автомобиль в слоте
func (c *Client) CheckAvailability(ctx context.Context, slot domain.SlotRequest) (bool, error) {
	var result AvailabilityResponse
	status, err := c.do(ctx, http.MethodPost, "/internal/availability/check", slot.TenantID, "", FromDomainSlot(slot), &result)
	if err != nil {
		return false, err
	}

	switch status {
	case http.StatusOK:
		if !result.Available {
			c.log.Info("Slot %s for instructor=%s is not available: %s",
				slot.StartTime.Format(domain.DateTimeFormat), slot.InstructorID, result.Reason)
		}
		return result.Available, nil
	case http.StatusBadRequest:
		return false, fmt.Errorf("%w: slot rejected by lesson service", ErrInvalidResponse)
	default:
		return false, fmt.Errorf("%w: unexpected status code %d", ErrInvalidResponse, status)
	}
}

// CreateLesson создает урок-отработку
// Повтор с тем же idempotencyKey возвращает уже созданный урок
func (c *Client) CreateLesson(ctx context.Context, slot domain.SlotRequest, creditID uuid.UUID, idempotencyKey string) (*domain.Lesson, error) {
	payload := CreateLessonRequest{SlotPayload: FromDomainSlot(slot), MakeupCreditID: creditID}

	var lesson Lesson
	status, err := c.do(ctx, http.MethodPost, "/internal/lessons", slot.TenantID, idempotencyKey, payload, &lesson)
	if err != nil {
		return nil, err
	}

	switch status {
	case http.StatusOK, http.StatusCreated:
		c.log.Info("Created makeup lesson id=%s for credit=%s", lesson.ID, creditID)
		return lesson.ToDomain(), nil
	case http.StatusConflict:
		return nil, ErrSlotTaken
	default:
		return nil, fmt.Errorf("%w: unexpected status code %d", ErrInvalidResponse, status)
	}
}

// CancelLesson отменяет урок, созданный для кредита
func (c *Client) CancelLesson(ctx context.Context, tenantID, lessonID, reason string) error {
	path := fmt.Sprintf("/internal/lessons/%s/cancel", url.PathEscape(lessonID))
	status, err := c.do(ctx, http.MethodPost, path, tenantID, "", CancelLessonRequest{Reason: reason}, nil)
	if err != nil {
		return err
	}

	switch status {
	case http.StatusOK, http.StatusNoContent:
		c.log.Info("Cancelled lesson id=%s: %s", lessonID, reason)
		return nil
	case http.StatusNotFound:
		return ErrLessonNotFound
	default:
		return fmt.Errorf("%w: unexpected status code %d", ErrInvalidResponse, status)
	}
}

// do выполняет запрос и декодирует ответ в out при статусе 2xx
func (c *Client) do(ctx context.Context, method, path, tenantID, idempotencyKey string, body, out interface{}) (int, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to encode request: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Tenant-ID", tenantID)
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		respBody, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(respBody))
	}

	if out != nil && resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
		}
	}

	return resp.StatusCode, nil
}
