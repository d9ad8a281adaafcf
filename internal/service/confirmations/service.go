package confirmations

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/m04kA/strike-booking/internal/domain"
	confirmationRepo "github.com/m04kA/strike-booking/internal/infra/storage/confirmation"
)

// Source откуда получено подтверждение
type Source string

const (
	SourceNone       Source = ""
	SourceNavigation Source = "navigation"
	SourceStorage    Source = "storage"
)

// Service передаёт подтверждение через границу навигации по двум каналам:
// одноразовое состояние навигации в памяти и долговременный слот сессии.
type Service struct {
	repo   ConfirmationRepository
	logger Logger

	now func() time.Time

	mu         sync.Mutex
	navigation map[string]handoff
}

// handoff состояние навигации, ещё не забранное страницей подтверждения
type handoff struct {
	confirmation *domain.Confirmation
	savedAt      time.Time
}

// NewService создает новый экземпляр сервиса подтверждений
func NewService(repo ConfirmationRepository, logger Logger) *Service {
	return &Service{
		repo:       repo,
		logger:     logger,
		now:        time.Now,
		navigation: make(map[string]handoff),
	}
}

// Save сохраняет подтверждение в слот сессии и кладёт его в состояние навигации
// для ближайшего перехода. Запись в хранилище завершается до возврата.
func (s *Service) Save(ctx context.Context, sessionID string, c *domain.Confirmation) error {
	if sessionID == "" || c == nil {
		return ErrInvalidInput
	}

	if err := s.repo.Save(ctx, sessionID, c); err != nil {
		s.logger.Error("Save: failed to persist confirmation booking_id=%s for session=%s: %v",
			c.BookingID, sessionID, err)
		return fmt.Errorf("%w: Save - repository error: %v", ErrInternal, err)
	}

	s.mu.Lock()
	s.navigation[sessionID] = handoff{confirmation: c.Clone(), savedAt: s.now()}
	s.mu.Unlock()

	s.logger.Info("Save: confirmation booking_id=%s saved for session=%s", c.BookingID, sessionID)
	return nil
}

// Load возвращает подтверждение для страницы подтверждения.
// Состояние навигации забирается (одноразово) и имеет приоритет над хранилищем.
// Отсутствие данных - не ошибка: возвращается nil и SourceNone.
func (s *Service) Load(ctx context.Context, sessionID string) (*domain.Confirmation, Source, error) {
	nav := s.takeNavigation(sessionID)

	stored, err := s.repo.Get(ctx, sessionID)
	if err != nil && !errors.Is(err, confirmationRepo.ErrConfirmationNotFound) {
		if nav == nil {
			s.logger.Error("Load: failed to read confirmation for session=%s: %v", sessionID, err)
			return nil, SourceNone, fmt.Errorf("%w: Load - repository error: %v", ErrInternal, err)
		}
		s.logger.Warn("Load: storage read failed for session=%s, using navigation state: %v", sessionID, err)
		stored = nil
	}

	c := Resolve(nav, stored)
	source := sourceOf(c, nav)

	if c == nil {
		s.logger.Info("Load: no booking found for session=%s", sessionID)
	} else {
		s.logger.Info("Load: confirmation booking_id=%s for session=%s from %s", c.BookingID, sessionID, source)
	}

	return c.Clone(), source, nil
}

// Resolve применяет порядок приоритета: состояние навигации, затем хранилище
func Resolve(nav, stored *domain.Confirmation) *domain.Confirmation {
	if nav != nil {
		return nav
	}
	return stored
}

func sourceOf(resolved, nav *domain.Confirmation) Source {
	switch {
	case resolved == nil:
		return SourceNone
	case resolved == nav:
		return SourceNavigation
	default:
		return SourceStorage
	}
}

func (s *Service) takeNavigation(sessionID string) *domain.Confirmation {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.navigation[sessionID]
	if !ok {
		return nil
	}
	delete(s.navigation, sessionID)
	return h.confirmation
}

// StartExpiry запускает периодическое удаление незабранных состояний навигации старше ttl.
// Долговременное хранилище не затрагивается. Останавливается при закрытии stopCh.
func (s *Service) StartExpiry(ttl, interval time.Duration, stopCh <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-stopCh:
				return
			case <-ticker.C:
				if n := s.ExpireHandoffs(ttl); n > 0 {
					s.logger.Info("ExpireHandoffs: %d unread navigation states removed", n)
				}
			}
		}
	}()
}

// ExpireHandoffs удаляет состояния навигации старше ttl и возвращает их количество
func (s *Service) ExpireHandoffs(ttl time.Duration) int {
	deadline := s.now().Add(-ttl)

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for sessionID, h := range s.navigation {
		if h.savedAt.Before(deadline) {
			delete(s.navigation, sessionID)
			removed++
		}
	}
	return removed
}
