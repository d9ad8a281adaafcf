package submit_booking

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/strike-booking/internal/domain"
	"github.com/m04kA/strike-booking/internal/integrations/bookingapi"
	"github.com/m04kA/strike-booking/internal/integrations/bookingapi/bookingapitest"
	"github.com/m04kA/strike-booking/internal/service/drafts"
	"github.com/m04kA/strike-booking/pkg/logger"
	"github.com/m04kA/strike-booking/pkg/metrics"
)

const (
	testSession = "session-1"
	testAPIKey  = "test-key"
)

type fakeStore struct {
	mu    sync.Mutex
	data  map[string]*domain.Confirmation
	err   error
	saves int
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string]*domain.Confirmation)}
}

func (s *fakeStore) Save(_ context.Context, sessionID string, c *domain.Confirmation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if s.err != nil {
		return s.err
	}
	s.data[sessionID] = c.Clone()
	return nil
}

func (s *fakeStore) get(sessionID string) *domain.Confirmation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data[sessionID]
}

type fakePublisher struct {
	mu     sync.Mutex
	keys   []string
	events []*BookingConfirmedEvent
	err    error
}

func (p *fakePublisher) PublishJSON(_ context.Context, key string, v any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, key)
	if event, ok := v.(*BookingConfirmedEvent); ok {
		p.events = append(p.events, event)
	}
	return p.err
}

type fakeMetrics struct {
	mu       sync.Mutex
	outcomes []string
	rules    []string
}

func (m *fakeMetrics) IncSubmission(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes = append(m.outcomes, outcome)
}

func (m *fakeMetrics) IncValidationFailure(rule string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules = append(m.rules, rule)
}

// blockingClient держит запрос, пока тест не закроет release
type blockingClient struct {
	started chan struct{}
	release chan struct{}
}

func (c *blockingClient) Submit(_ context.Context, req *bookingapi.Request) (*bookingapi.BookingDetails, error) {
	close(c.started)
	<-c.release
	return &bookingapi.BookingDetails{
		BookingID: "BK-1",
		When:      req.When,
		People:    req.People,
		Lanes:     req.Lanes,
		Shoes:     req.Shoes,
		Price:     bookingapitest.Price(req.People, req.Lanes),
	}, nil
}

type fixture struct {
	drafts    *drafts.Service
	store     *fakeStore
	publisher *fakePublisher
	metrics   *fakeMetrics
	api       *bookingapitest.Handler
	uc        *UseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := logger.NewWithWriter(io.Discard, logger.LevelError)

	server, api := bookingapitest.NewServer(testAPIKey)
	t.Cleanup(server.Close)

	f := &fixture{
		drafts:    drafts.NewService(log),
		store:     newFakeStore(),
		publisher: &fakePublisher{},
		metrics:   &fakeMetrics{},
		api:       api,
	}
	client := bookingapi.NewClient(server.URL, testAPIKey, 5*time.Second, log)
	f.uc = NewUseCase(f.drafts, client, f.store, f.publisher, f.metrics, log)
	return f
}

// fillDraft заполняет черновик через операции формы
func fillDraft(t *testing.T, svc *drafts.Service, date, tm, lanes, people string, sizes ...string) {
	t.Helper()
	_, err := svc.Open(testSession)
	require.NoError(t, err)

	for name, value := range map[string]string{
		domain.FieldDate:   date,
		domain.FieldTime:   tm,
		domain.FieldLanes:  lanes,
		domain.FieldPeople: people,
	} {
		_, err := svc.UpdateField(testSession, name, value)
		require.NoError(t, err)
	}

	for _, size := range sizes {
		id, _, err := svc.AddShoe(testSession)
		require.NoError(t, err)
		_, err = svc.SetShoeSize(testSession, id, size)
		require.NoError(t, err)
	}
}

func TestExecute_Success(t *testing.T) {
	f := newFixture(t)
	fillDraft(t, f.drafts, "2024-06-01", "18:00", "1", "2", "42", "38")

	resp, err := f.uc.Execute(context.Background(), &Request{SessionID: testSession})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.BookingID)
	assert.Equal(t, "2024-06-01T18:00", resp.When)
	assert.Equal(t, 2, resp.People)
	assert.Equal(t, 1, resp.Lanes)
	assert.Equal(t, []string{"42", "38"}, resp.Shoes)
	assert.Equal(t, 340, resp.Price)

	// Внешний сервис получил данные черновика
	requests := f.api.Requests()
	require.Len(t, requests, 1)
	assert.Equal(t, bookingapi.Request{When: "2024-06-01T18:00", Lanes: 1, People: 2, Shoes: []string{"42", "38"}}, requests[0])

	// Подтверждение сохранено до возврата
	stored := f.store.get(testSession)
	require.NotNil(t, stored)
	assert.Equal(t, resp.BookingID, stored.BookingID)
	assert.Equal(t, 340, stored.Price)

	// Черновик закрыт
	_, err = f.drafts.Get(testSession)
	assert.ErrorIs(t, err, drafts.ErrDraftNotFound)

	require.Len(t, f.publisher.events, 1)
	assert.Equal(t, EventBookingConfirmed, f.publisher.keys[0])
	assert.Equal(t, resp.BookingID, f.publisher.events[0].BookingID)
	assert.Equal(t, testSession, f.publisher.events[0].SessionID)

	assert.Equal(t, []string{metrics.OutcomeConfirmed}, f.metrics.outcomes)
}

func TestExecute_ValidationFailure(t *testing.T) {
	f := newFixture(t)
	fillDraft(t, f.drafts, "2024-06-01", "18:00", "1", "2", "42")

	resp, err := f.uc.Execute(context.Background(), &Request{SessionID: testSession})
	require.Error(t, err)
	assert.Nil(t, resp)

	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, domain.MsgShoeCountMismatch, validationErr.Message)

	// Запрос не отправлялся, подтверждение не сохранялось
	assert.Empty(t, f.api.Requests())
	assert.Zero(t, f.store.saves)

	draft, err := f.drafts.Get(testSession)
	require.NoError(t, err)
	assert.Equal(t, domain.MsgShoeCountMismatch, draft.Error)
	assert.Equal(t, string(domain.StateEditing), draft.State)

	assert.Equal(t, []string{metrics.OutcomeInvalid}, f.metrics.outcomes)
	assert.Equal(t, []string{string(domain.RuleShoeCount)}, f.metrics.rules)
}

func TestExecute_LaneCapacity(t *testing.T) {
	f := newFixture(t)
	fillDraft(t, f.drafts, "2024-06-01", "18:00", "1", "5", "42", "42", "42", "42", "42")

	_, err := f.uc.Execute(context.Background(), &Request{SessionID: testSession})

	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, domain.MsgTooManyPlayersPerLane, validationErr.Message)
	assert.Empty(t, f.api.Requests())
}

func TestExecute_RemoteFailure(t *testing.T) {
	f := newFixture(t)
	f.api.FailWith(http.StatusInternalServerError)
	fillDraft(t, f.drafts, "2024-06-01", "18:00", "1", "1", "42")

	resp, err := f.uc.Execute(context.Background(), &Request{SessionID: testSession})
	assert.Nil(t, resp)
	assert.ErrorIs(t, err, ErrSubmission)
	assert.ErrorIs(t, err, bookingapi.ErrSubmission)

	var statusErr *bookingapi.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)

	// Черновик снова доступен для редактирования с общим сообщением
	draft, err := f.drafts.Get(testSession)
	require.NoError(t, err)
	assert.Equal(t, domain.MsgBookingFailed, draft.Error)
	assert.Equal(t, string(domain.StateEditing), draft.State)

	assert.Zero(t, f.store.saves)
	assert.Empty(t, f.publisher.events)
	assert.Equal(t, []string{metrics.OutcomeFailed}, f.metrics.outcomes)
}

func TestExecute_RetryAfterFailure(t *testing.T) {
	f := newFixture(t)
	f.api.FailWith(http.StatusBadGateway)
	fillDraft(t, f.drafts, "2024-06-01", "18:00", "1", "1", "42")

	_, err := f.uc.Execute(context.Background(), &Request{SessionID: testSession})
	require.ErrorIs(t, err, ErrSubmission)

	f.api.FailWith(0)
	resp, err := f.uc.Execute(context.Background(), &Request{SessionID: testSession})
	require.NoError(t, err)
	assert.Equal(t, 220, resp.Price)
	assert.Len(t, f.api.Requests(), 2)
}

func TestExecute_StoreFailure(t *testing.T) {
	f := newFixture(t)
	f.store.err = errors.New("connection refused")
	fillDraft(t, f.drafts, "2024-06-01", "18:00", "1", "1", "42")

	_, err := f.uc.Execute(context.Background(), &Request{SessionID: testSession})
	assert.ErrorIs(t, err, ErrSubmission)

	draft, err := f.drafts.Get(testSession)
	require.NoError(t, err)
	assert.Equal(t, domain.MsgBookingFailed, draft.Error)
	assert.Empty(t, f.publisher.events)
}

func TestExecute_PublishFailureIgnored(t *testing.T) {
	f := newFixture(t)
	f.publisher.err = errors.New("channel closed")
	fillDraft(t, f.drafts, "2024-06-01", "18:00", "1", "1", "42")

	resp, err := f.uc.Execute(context.Background(), &Request{SessionID: testSession})
	require.NoError(t, err)
	assert.NotNil(t, f.store.get(testSession))
	assert.Equal(t, resp.BookingID, f.store.get(testSession).BookingID)
}

func TestExecute_WithoutOptionalDependencies(t *testing.T) {
	log := logger.NewWithWriter(io.Discard, logger.LevelError)
	server, _ := bookingapitest.NewServer(testAPIKey)
	defer server.Close()

	draftService := drafts.NewService(log)
	store := newFakeStore()
	client := bookingapi.NewClient(server.URL, testAPIKey, 5*time.Second, log)
	uc := NewUseCase(draftService, client, store, nil, nil, log)

	fillDraft(t, draftService, "2024-06-01", "18:00", "1", "1", "42")
	_, err := uc.Execute(context.Background(), &Request{SessionID: testSession})
	require.NoError(t, err)
}

func TestExecute_DraftNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Execute(context.Background(), &Request{SessionID: "missing"})
	assert.ErrorIs(t, err, ErrDraftNotFound)

	_, err = f.uc.Execute(context.Background(), &Request{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestExecute_ConcurrentSubmitRejected(t *testing.T) {
	log := logger.NewWithWriter(io.Discard, logger.LevelError)
	draftService := drafts.NewService(log)
	store := newFakeStore()
	m := &fakeMetrics{}
	client := &blockingClient{started: make(chan struct{}), release: make(chan struct{})}
	uc := NewUseCase(draftService, client, store, nil, m, log)

	fillDraft(t, draftService, "2024-06-01", "18:00", "1", "1", "42")

	done := make(chan error, 1)
	go func() {
		_, err := uc.Execute(context.Background(), &Request{SessionID: testSession})
		done <- err
	}()

	<-client.started

	// Пока первая отправка идёт, вторая отклоняется
	_, err := uc.Execute(context.Background(), &Request{SessionID: testSession})
	assert.ErrorIs(t, err, ErrSubmissionInProgress)

	// Редактирование тоже недоступно
	_, err = draftService.UpdateField(testSession, domain.FieldPeople, "2")
	assert.ErrorIs(t, err, drafts.ErrSubmissionInProgress)

	close(client.release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, store.saves)
	assert.ElementsMatch(t, []string{metrics.OutcomeRejected, metrics.OutcomeConfirmed}, m.outcomes)
}

func TestExecute_CancelledContextDoesNotAbortSubmission(t *testing.T) {
	f := newFixture(t)
	fillDraft(t, f.drafts, "2024-06-01", "18:00", "1", "1", "42")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.uc.Execute(ctx, &Request{SessionID: testSession})
	require.NoError(t, err)
	assert.NotNil(t, f.store.get(testSession))
}
