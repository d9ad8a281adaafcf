package drafts

import (
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/strike-booking/internal/domain"
	"github.com/m04kA/strike-booking/internal/service/drafts/models"
)

// draftEntry черновик сессии со своей блокировкой
type draftEntry struct {
	mu         sync.Mutex
	draft      *domain.BookingDraft
	generation uint64
	touchedAt  time.Time // Последнее обращение, под mu
}

// Submission отправка, начатая для конкретного экземпляра черновика
type Submission struct {
	SessionID  string
	Draft      domain.BookingDraft // Снимок на момент начала отправки
	generation uint64
}

// Service реестр черновиков бронирования: по одному на сессию
type Service struct {
	mu         sync.Mutex
	drafts     map[string]*draftEntry
	generation uint64

	newID  IDGenerator
	now    func() time.Time
	logger Logger
}

// NewService создает реестр черновиков; идентификаторы обуви - UUID
func NewService(logger Logger) *Service {
	return NewServiceWithIDGenerator(uuid.NewString, logger)
}

// NewServiceWithIDGenerator создает реестр с заданным генератором идентификаторов
func NewServiceWithIDGenerator(newID IDGenerator, logger Logger) *Service {
	return &Service{
		drafts: make(map[string]*draftEntry),
		newID:  newID,
		now:    time.Now,
		logger: logger,
	}
}

// Open открывает новый черновик сессии со значениями по умолчанию.
// Предыдущий неотправленный черновик отбрасывается.
func (s *Service) Open(sessionID string) (*models.DraftResponse, error) {
	if sessionID == "" {
		return nil, ErrInvalidInput
	}

	s.mu.Lock()
	s.generation++
	entry := &draftEntry{
		draft:      domain.NewBookingDraft(),
		generation: s.generation,
		touchedAt:  s.now(),
	}
	_, replaced := s.drafts[sessionID]
	s.drafts[sessionID] = entry
	s.mu.Unlock()

	if replaced {
		s.logger.Info("Open: previous draft of session=%s discarded", sessionID)
	}
	s.logger.Info("Open: new draft for session=%s", sessionID)

	return models.FromDomainDraft(entry.draft), nil
}

// Get возвращает текущее состояние черновика
func (s *Service) Get(sessionID string) (*models.DraftResponse, error) {
	var resp *models.DraftResponse
	err := s.withDraft(sessionID, func(d *domain.BookingDraft) error {
		resp = models.FromDomainDraft(d)
		return nil
	})
	return resp, err
}

// UpdateField изменяет поле формы по имени. Ошибка формы сбрасывается всегда.
// Числовые поля, не являющиеся целым числом, сохраняются как 0.
func (s *Service) UpdateField(sessionID, name, value string) (*models.DraftResponse, error) {
	var resp *models.DraftResponse
	err := s.withEditableDraft(sessionID, func(d *domain.BookingDraft) error {
		d.ClearError()

		switch name {
		case domain.FieldWhen, domain.FieldDate:
			d.Date = value
		case domain.FieldTime:
			d.Time = value
		case domain.FieldLanes:
			d.Lanes = parseCount(value)
		case domain.FieldPeople:
			d.People = parseCount(value)
		default:
			s.logger.Warn("UpdateField: unknown field %q for session=%s", name, sessionID)
			return ErrUnknownField
		}

		s.logger.Info("UpdateField: session=%s %s=%q", sessionID, name, value)
		resp = models.FromDomainDraft(d)
		return nil
	})
	return resp, err
}

// AddShoe добавляет запись обуви с новым уникальным идентификатором
func (s *Service) AddShoe(sessionID string) (string, *models.DraftResponse, error) {
	var (
		id   string
		resp *models.DraftResponse
	)
	err := s.withEditableDraft(sessionID, func(d *domain.BookingDraft) error {
		d.ClearError()

		id = s.newID()
		d.Shoes.Add(id)

		s.logger.Info("AddShoe: session=%s id=%s, total shoes=%d", sessionID, id, d.Shoes.Count())
		resp = models.FromDomainDraft(d)
		return nil
	})
	return id, resp, err
}

// RemoveShoe удаляет запись обуви по идентификатору; неизвестный идентификатор - не ошибка
func (s *Service) RemoveShoe(sessionID, shoeID string) (*models.DraftResponse, error) {
	var resp *models.DraftResponse
	err := s.withEditableDraft(sessionID, func(d *domain.BookingDraft) error {
		d.ClearError()

		if !d.Shoes.Remove(shoeID) {
			s.logger.Warn("RemoveShoe: session=%s id=%s not found, list unchanged", sessionID, shoeID)
		} else {
			s.logger.Info("RemoveShoe: session=%s id=%s, remaining shoes=%d", sessionID, shoeID, d.Shoes.Count())
		}

		resp = models.FromDomainDraft(d)
		return nil
	})
	return resp, err
}

// SetShoeSize изменяет размер обуви. Значения длиной не 0 и не 2 молча отбрасываются.
func (s *Service) SetShoeSize(sessionID, shoeID, size string) (*models.DraftResponse, error) {
	var resp *models.DraftResponse
	err := s.withEditableDraft(sessionID, func(d *domain.BookingDraft) error {
		d.ClearError()

		if !d.Shoes.SetSize(shoeID, size) {
			s.logger.Info("SetShoeSize: session=%s id=%s edit %q dropped", sessionID, shoeID, size)
		}

		resp = models.FromDomainDraft(d)
		return nil
	})
	return resp, err
}

// Discard отбрасывает черновик сессии
func (s *Service) Discard(sessionID string) {
	s.mu.Lock()
	delete(s.drafts, sessionID)
	s.mu.Unlock()
}

// BeginSubmit проверяет черновик и переводит его в состояние Submitting.
// Повторный вызов до завершения отправки возвращает ErrSubmissionInProgress.
// Если validate вернул *domain.ValidationError, его сообщение становится ошибкой формы.
func (s *Service) BeginSubmit(sessionID string, validate func(domain.BookingDraft) error) (*Submission, error) {
	entry, err := s.entry(sessionID)
	if err != nil {
		return nil, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	entry.touchedAt = s.now()

	d := entry.draft
	switch d.State {
	case domain.StateSubmitting:
		return nil, ErrSubmissionInProgress
	case domain.StateEditing:
	default:
		return nil, ErrDraftNotFound
	}

	snapshot := d.Snapshot()
	if err := validate(snapshot); err != nil {
		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) {
			d.Error = validationErr.Message
		}
		return nil, err
	}

	d.State = domain.StateSubmitting
	return &Submission{
		SessionID:  sessionID,
		Draft:      snapshot,
		generation: entry.generation,
	}, nil
}

// FailSubmit возвращает черновик к редактированию с сообщением об ошибке
func (s *Service) FailSubmit(sub *Submission, message string) error {
	return s.finishSubmit(sub, func(entry *draftEntry) {
		entry.draft.State = domain.StateEditing
		entry.draft.Error = message
	})
}

// CompleteSubmit отмечает черновик подтверждённым и отбрасывает его
func (s *Service) CompleteSubmit(sub *Submission) error {
	return s.finishSubmit(sub, func(entry *draftEntry) {
		entry.draft.State = domain.StateConfirmed
		s.mu.Lock()
		if current, ok := s.drafts[sub.SessionID]; ok && current == entry {
			delete(s.drafts, sub.SessionID)
		}
		s.mu.Unlock()
	})
}

func (s *Service) finishSubmit(sub *Submission, apply func(entry *draftEntry)) error {
	entry, err := s.entry(sub.SessionID)
	if err != nil {
		return ErrSubmissionStale
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.generation != sub.generation || entry.draft.State != domain.StateSubmitting {
		return ErrSubmissionStale
	}

	apply(entry)
	return nil
}

func (s *Service) entry(sessionID string) (*draftEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.drafts[sessionID]
	if !ok {
		return nil, ErrDraftNotFound
	}
	return entry, nil
}

func (s *Service) withDraft(sessionID string, fn func(d *domain.BookingDraft) error) error {
	entry, err := s.entry(sessionID)
	if err != nil {
		return err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	entry.touchedAt = s.now()
	return fn(entry.draft)
}

// withEditableDraft как withDraft, но отклоняет изменения во время отправки
func (s *Service) withEditableDraft(sessionID string, fn func(d *domain.BookingDraft) error) error {
	return s.withDraft(sessionID, func(d *domain.BookingDraft) error {
		if d.IsSubmitting() {
			return ErrSubmissionInProgress
		}
		if !d.IsEditable() {
			return ErrDraftNotFound
		}
		return fn(d)
	})
}

// StartExpiry запускает периодическое удаление черновиков, к которым не обращались дольше ttl.
// Останавливается при закрытии stopCh.
func (s *Service) StartExpiry(ttl, interval time.Duration, stopCh <-chan struct{}) {
	go s.expireLoop(ttl, interval, stopCh)
}

func (s *Service) expireLoop(ttl, interval time.Duration, stopCh <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			if n := s.ExpireIdle(ttl); n > 0 {
				s.logger.Info("ExpireIdle: %d abandoned drafts removed", n)
			}
		}
	}
}

// ExpireIdle удаляет черновики без обращений дольше ttl и возвращает их количество.
// Черновики в состоянии отправки не удаляются.
func (s *Service) ExpireIdle(ttl time.Duration) int {
	s.mu.Lock()
	candidates := make(map[string]*draftEntry, len(s.drafts))
	for sessionID, entry := range s.drafts {
		candidates[sessionID] = entry
	}
	s.mu.Unlock()

	deadline := s.now().Add(-ttl)
	removed := 0

	// Порядок блокировок: entry.mu, затем s.mu
	for sessionID, entry := range candidates {
		entry.mu.Lock()
		if entry.touchedAt.Before(deadline) && !entry.draft.IsSubmitting() {
			s.mu.Lock()
			if current, ok := s.drafts[sessionID]; ok && current == entry {
				delete(s.drafts, sessionID)
				removed++
			}
			s.mu.Unlock()
		}
		entry.mu.Unlock()
	}

	return removed
}

// Len количество открытых черновиков
func (s *Service) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.drafts)
}

func parseCount(value string) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return n
}
