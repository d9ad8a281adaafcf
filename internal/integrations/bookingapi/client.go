package bookingapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// APIKeyHeader заголовок со статическим ключом доступа
const APIKeyHeader = "x-api-key"

// maxErrorBody сколько байт тела ошибки сохраняем для логов
const maxErrorBody = 512

// Client клиент внешнего сервиса бронирования дорожек
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента
func NewClient(baseURL, apiKey string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Submit отправляет бронирование одним запросом, без повторов.
// Любая ошибка сопоставима с ErrSubmission через errors.Is.
func (c *Client) Submit(ctx context.Context, bookingReq *Request) (*BookingDetails, error) {
	url := c.baseURL + "/booking"

	payload := *bookingReq
	if payload.Shoes == nil {
		payload.Shoes = []string{}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: failed to encode request: %v", ErrSubmission, ErrInternal, err)
	}

	c.log.Info("Sending booking request: when=%s, lanes=%d, people=%d, shoes=%d",
		payload.When, payload.Lanes, payload.People, len(payload.Shoes))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %w: failed to create request: %v", ErrSubmission, ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(APIKeyHeader, c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: failed to execute request: %v", ErrSubmission, ErrInternal, err)
	}
	defer resp.Body.Close()

	// Любой не-2xx статус - неуспех
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.log.Warn("Booking request failed: status=%d", resp.StatusCode)
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	// Парсим ответ
	var bookingResp Response
	if err := json.NewDecoder(resp.Body).Decode(&bookingResp); err != nil {
		return nil, fmt.Errorf("%w: %w: failed to decode response: %v", ErrSubmission, ErrInvalidResponse, err)
	}

	if bookingResp.BookingDetails == nil {
		return nil, fmt.Errorf("%w: %w: bookingDetails is missing", ErrSubmission, ErrInvalidResponse)
	}

	c.log.Info("Booking response received: booking_id=%s, price=%d",
		bookingResp.BookingDetails.BookingID, bookingResp.BookingDetails.Price)
	return bookingResp.BookingDetails, nil
}
