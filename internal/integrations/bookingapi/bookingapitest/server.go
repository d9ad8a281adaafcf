// Package bookingapitest provides an in-process fake of the remote booking endpoint.
package bookingapitest

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"time"

	"github.com/m04kA/strike-booking/internal/integrations/bookingapi"
)

// Тарифы внешнего сервиса (наблюдаемый контракт, клиент цену не считает)
const (
	PricePerPerson = 120
	PricePerLane   = 100
)

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// DefaultRecordLimit сколько последних запросов хранит обработчик
const DefaultRecordLimit = 100

// Price цена бронирования по контракту внешнего сервиса
func Price(people, lanes int) int {
	return people*PricePerPerson + lanes*PricePerLane
}

// Handler фейковый обработчик POST /booking
type Handler struct {
	APIKey string // Пусто - ключ не проверяется

	mu          sync.Mutex
	requests    []bookingapi.Request
	recordLimit int
	status      int
	raw         string
}

// NewHandler создает обработчик, требующий указанный ключ
func NewHandler(apiKey string) *Handler {
	return &Handler{APIKey: apiKey, recordLimit: DefaultRecordLimit}
}

// SetRecordLimit задаёт, сколько последних запросов хранить; 0 отключает запись
func (h *Handler) SetRecordLimit(n int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.recordLimit = max(n, 0)
	h.trim()
}

// trim оставляет последние recordLimit запросов, вызывается под mu
func (h *Handler) trim() {
	if extra := len(h.requests) - h.recordLimit; extra > 0 {
		h.requests = append(h.requests[:0:0], h.requests[extra:]...)
	}
}

// FailWith заставляет обработчик отвечать указанным статусом
func (h *Handler) FailWith(status int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.status = status
}

// RespondRaw заставляет обработчик отвечать произвольным телом со статусом 200
func (h *Handler) RespondRaw(body string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.raw = body
}

// Requests возвращает полученные запросы
func (h *Handler) Requests() []bookingapi.Request {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]bookingapi.Request, len(h.requests))
	copy(out, h.requests)
	return out
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost || r.URL.Path != "/booking" {
		http.NotFound(w, r)
		return
	}

	if h.APIKey != "" && r.Header.Get(bookingapi.APIKeyHeader) != h.APIKey {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"Forbidden"}`))
		return
	}

	var req bookingapi.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	h.mu.Lock()
	if h.recordLimit > 0 {
		h.requests = append(h.requests, req)
		h.trim()
	}
	status, raw := h.status, h.raw
	h.mu.Unlock()

	if status != 0 {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if raw != "" {
		_, _ = w.Write([]byte(raw))
		return
	}

	shoes := req.Shoes
	if shoes == nil {
		shoes = []string{}
	}

	_ = json.NewEncoder(w).Encode(bookingapi.Response{
		BookingDetails: &bookingapi.BookingDetails{
			BookingID: NewBookingID(time.Now()),
			When:      req.When,
			People:    req.People,
			Lanes:     req.Lanes,
			Shoes:     shoes,
			Price:     Price(req.People, req.Lanes),
		},
	})
}

// NewBookingID формирует идентификатор вида BK-<unix-millis>-<9 символов base36>
func NewBookingID(now time.Time) string {
	suffix := make([]byte, 9)
	for i := range suffix {
		suffix[i] = idAlphabet[rand.Intn(len(idAlphabet))]
	}
	return fmt.Sprintf("BK-%s-%s", strconv.FormatInt(now.UnixMilli(), 10), suffix)
}

// NewServer запускает httptest-сервер с фейковым обработчиком
func NewServer(apiKey string) (*httptest.Server, *Handler) {
	h := NewHandler(apiKey)
	return httptest.NewServer(h), h
}
