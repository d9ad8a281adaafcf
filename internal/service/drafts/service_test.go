package drafts

import (
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/strike-booking/internal/domain"
	"github.com/m04kA/strike-booking/pkg/logger"
)

const session = "sess-1"

func newTestService(t *testing.T) *Service {
	t.Helper()

	var (
		mu      sync.Mutex
		counter int
	)
	seqID := func() string {
		mu.Lock()
		defer mu.Unlock()
		counter++
		return fmt.Sprintf("shoe-%d", counter)
	}

	svc := NewServiceWithIDGenerator(seqID, logger.NewWithWriter(io.Discard, logger.LevelError))
	_, err := svc.Open(session)
	require.NoError(t, err)
	return svc
}

func failingValidation(d domain.BookingDraft) error {
	return &domain.ValidationError{Rule: domain.RuleRequiredFields, Message: domain.MsgFieldsRequired}
}

func passingValidation(d domain.BookingDraft) error {
	return nil
}

func TestService_OpenDefaults(t *testing.T) {
	svc := newTestService(t)

	draft, err := svc.Get(session)
	require.NoError(t, err)

	assert.Empty(t, draft.When)
	assert.Empty(t, draft.Time)
	assert.Zero(t, draft.Lanes)
	assert.Zero(t, draft.People)
	assert.Empty(t, draft.Shoes)
	assert.Empty(t, draft.Error)
	assert.Equal(t, string(domain.StateEditing), draft.State)
}

func TestService_OpenReplacesPreviousDraft(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.UpdateField(session, domain.FieldPeople, "3")
	require.NoError(t, err)

	_, err = svc.Open(session)
	require.NoError(t, err)

	draft, err := svc.Get(session)
	require.NoError(t, err)
	assert.Zero(t, draft.People)
}

func TestService_OpenRequiresSession(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Open("")

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_GetUnknownSession(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Get("other")

	assert.ErrorIs(t, err, ErrDraftNotFound)
}

func TestService_UpdateField(t *testing.T) {
	tests := []struct {
		name   string
		field  string
		value  string
		expect func(t *testing.T, when, tm string, lanes, people int)
	}{
		{
			name: "when", field: "when", value: "2024-12-25",
			expect: func(t *testing.T, when, _ string, _, _ int) { assert.Equal(t, "2024-12-25", when) },
		},
		{
			name: "date alias", field: "date", value: "2024-12-24",
			expect: func(t *testing.T, when, _ string, _, _ int) { assert.Equal(t, "2024-12-24", when) },
		},
		{
			name: "time", field: "time", value: "18:00",
			expect: func(t *testing.T, _, tm string, _, _ int) { assert.Equal(t, "18:00", tm) },
		},
		{
			name: "lanes", field: "lanes", value: "2",
			expect: func(t *testing.T, _, _ string, lanes, _ int) { assert.Equal(t, 2, lanes) },
		},
		{
			name: "negative people kept", field: "people", value: "-3",
			expect: func(t *testing.T, _, _ string, _, people int) { assert.Equal(t, -3, people) },
		},
		{
			name: "non numeric becomes zero", field: "people", value: "abc",
			expect: func(t *testing.T, _, _ string, _, people int) { assert.Zero(t, people) },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t)

			draft, err := svc.UpdateField(session, tt.field, tt.value)

			require.NoError(t, err)
			tt.expect(t, draft.When, draft.Time, draft.Lanes, draft.People)
		})
	}
}

func TestService_UpdateFieldUnknown(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.UpdateField(session, "color", "red")

	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestService_EveryEditClearsError(t *testing.T) {
	edits := map[string]func(svc *Service, shoeID string) error{
		"field edit": func(svc *Service, _ string) error {
			_, err := svc.UpdateField(session, domain.FieldTime, "19:00")
			return err
		},
		"unknown field": func(svc *Service, _ string) error {
			_, err := svc.UpdateField(session, "color", "red")
			if err == ErrUnknownField {
				return nil
			}
			return err
		},
		"add shoe": func(svc *Service, _ string) error {
			_, _, err := svc.AddShoe(session)
			return err
		},
		"remove shoe": func(svc *Service, shoeID string) error {
			_, err := svc.RemoveShoe(session, shoeID)
			return err
		},
		"rejected size edit": func(svc *Service, shoeID string) error {
			_, err := svc.SetShoeSize(session, shoeID, "4")
			return err
		},
	}

	for name, edit := range edits {
		t.Run(name, func(t *testing.T) {
			svc := newTestService(t)
			shoeID, _, err := svc.AddShoe(session)
			require.NoError(t, err)

			_, err = svc.BeginSubmit(session, failingValidation)
			require.Error(t, err)
			draft, err := svc.Get(session)
			require.NoError(t, err)
			require.Equal(t, domain.MsgFieldsRequired, draft.Error)

			require.NoError(t, edit(svc, shoeID))

			draft, err = svc.Get(session)
			require.NoError(t, err)
			assert.Empty(t, draft.Error)
		})
	}
}

func TestService_ShoeLifecycle(t *testing.T) {
	svc := newTestService(t)

	a, _, err := svc.AddShoe(session)
	require.NoError(t, err)
	b, _, err := svc.AddShoe(session)
	require.NoError(t, err)
	c, _, err := svc.AddShoe(session)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, b, c)

	_, err = svc.SetShoeSize(session, a, "42")
	require.NoError(t, err)
	_, err = svc.SetShoeSize(session, b, "38")
	require.NoError(t, err)
	_, err = svc.SetShoeSize(session, c, "40")
	require.NoError(t, err)

	draft, err := svc.RemoveShoe(session, b)
	require.NoError(t, err)

	require.Len(t, draft.Shoes, 2)
	assert.Equal(t, a, draft.Shoes[0].ID)
	assert.Equal(t, "42", draft.Shoes[0].Size)
	assert.Equal(t, c, draft.Shoes[1].ID)
	assert.Equal(t, "40", draft.Shoes[1].Size)
}

func TestService_SetShoeSizeGate(t *testing.T) {
	svc := newTestService(t)
	id, _, err := svc.AddShoe(session)
	require.NoError(t, err)
	_, err = svc.SetShoeSize(session, id, "42")
	require.NoError(t, err)

	draft, err := svc.SetShoeSize(session, id, "421")

	require.NoError(t, err)
	assert.Equal(t, "42", draft.Shoes[0].Size)
}

func TestService_NewServiceUsesUUIDs(t *testing.T) {
	svc := NewService(logger.NewWithWriter(io.Discard, logger.LevelError))
	_, err := svc.Open(session)
	require.NoError(t, err)

	a, _, err := svc.AddShoe(session)
	require.NoError(t, err)
	b, _, err := svc.AddShoe(session)
	require.NoError(t, err)

	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}

func TestService_BeginSubmitValidationFailure(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.BeginSubmit(session, failingValidation)

	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)
	draft, err := svc.Get(session)
	require.NoError(t, err)
	assert.Equal(t, domain.MsgFieldsRequired, draft.Error)
	assert.Equal(t, string(domain.StateEditing), draft.State)
}

func TestService_BeginSubmitRejectsConcurrentSubmit(t *testing.T) {
	svc := newTestService(t)

	sub, err := svc.BeginSubmit(session, passingValidation)
	require.NoError(t, err)
	require.NotNil(t, sub)

	_, err = svc.BeginSubmit(session, passingValidation)
	assert.ErrorIs(t, err, ErrSubmissionInProgress)

	_, err = svc.UpdateField(session, domain.FieldPeople, "2")
	assert.ErrorIs(t, err, ErrSubmissionInProgress)
	_, _, err = svc.AddShoe(session)
	assert.ErrorIs(t, err, ErrSubmissionInProgress)
}

func TestService_BeginSubmitOnlyOneWinsUnderRace(t *testing.T) {
	svc := newTestService(t)

	const attempts = 20
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		started int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.BeginSubmit(session, passingValidation); err == nil {
				mu.Lock()
				started++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, started)
}

func TestService_FailSubmit(t *testing.T) {
	svc := newTestService(t)
	sub, err := svc.BeginSubmit(session, passingValidation)
	require.NoError(t, err)

	require.NoError(t, svc.FailSubmit(sub, domain.MsgBookingFailed))

	draft, err := svc.Get(session)
	require.NoError(t, err)
	assert.Equal(t, domain.MsgBookingFailed, draft.Error)
	assert.Equal(t, string(domain.StateEditing), draft.State)

	_, err = svc.BeginSubmit(session, passingValidation)
	assert.NoError(t, err, "draft must be submittable again")
}

func TestService_CompleteSubmitDiscardsDraft(t *testing.T) {
	svc := newTestService(t)
	sub, err := svc.BeginSubmit(session, passingValidation)
	require.NoError(t, err)

	require.NoError(t, svc.CompleteSubmit(sub))

	_, err = svc.Get(session)
	assert.ErrorIs(t, err, ErrDraftNotFound)
}

func TestService_FinishSubmitAfterDraftReplaced(t *testing.T) {
	svc := newTestService(t)
	sub, err := svc.BeginSubmit(session, passingValidation)
	require.NoError(t, err)

	_, err = svc.Open(session)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.CompleteSubmit(sub), ErrSubmissionStale)
	assert.ErrorIs(t, svc.FailSubmit(sub, domain.MsgBookingFailed), ErrSubmissionStale)

	draft, err := svc.Get(session)
	require.NoError(t, err)
	assert.Empty(t, draft.Error)
	assert.Equal(t, string(domain.StateEditing), draft.State)
}

func TestService_Discard(t *testing.T) {
	svc := newTestService(t)

	svc.Discard(session)

	_, err := svc.Get(session)
	assert.ErrorIs(t, err, ErrDraftNotFound)
}

// fakeClock управляемые часы для проверки TTL
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestExpireIdle_RemovesOnlyStaleDrafts(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC)}
	svc := NewService(logger.NewWithWriter(io.Discard, logger.LevelError))
	svc.now = clock.Now

	_, err := svc.Open("stale")
	require.NoError(t, err)
	_, err = svc.Open("active")
	require.NoError(t, err)

	clock.Advance(20 * time.Minute)

	// Обращение продлевает жизнь черновика
	_, err = svc.UpdateField("active", domain.FieldLanes, "1")
	require.NoError(t, err)
	_, err = svc.Open("fresh")
	require.NoError(t, err)

	clock.Advance(15 * time.Minute)

	assert.Equal(t, 1, svc.ExpireIdle(30*time.Minute))
	assert.Equal(t, 2, svc.Len())

	_, err = svc.Get("stale")
	assert.ErrorIs(t, err, ErrDraftNotFound)
	_, err = svc.Get("active")
	assert.NoError(t, err)
	_, err = svc.Get("fresh")
	assert.NoError(t, err)
}

func TestExpireIdle_KeepsSubmittingDraft(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC)}
	svc := NewService(logger.NewWithWriter(io.Discard, logger.LevelError))
	svc.now = clock.Now

	_, err := svc.Open(session)
	require.NoError(t, err)
	sub, err := svc.BeginSubmit(session, passingValidation)
	require.NoError(t, err)

	clock.Advance(time.Hour)
	assert.Zero(t, svc.ExpireIdle(30*time.Minute))

	require.NoError(t, svc.CompleteSubmit(sub))
	assert.Zero(t, svc.Len())
}

func TestStartExpiry_StopsOnClose(t *testing.T) {
	svc := NewService(logger.NewWithWriter(io.Discard, logger.LevelError))
	_, err := svc.Open(session)
	require.NoError(t, err)

	stopCh := make(chan struct{})
	svc.StartExpiry(time.Nanosecond, time.Millisecond, stopCh)
	defer close(stopCh)

	assert.Eventually(t, func() bool { return svc.Len() == 0 }, time.Second, 5*time.Millisecond)
}
