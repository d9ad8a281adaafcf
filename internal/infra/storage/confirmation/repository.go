package confirmation

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/strike-booking/internal/domain"
	"github.com/m04kA/strike-booking/pkg/psqlbuilder"
)

const tableName = "session_confirmations"

// storedConfirmation JSON-представление подтверждения в слоте сессии
type storedConfirmation struct {
	BookingID string   `json:"bookingId"`
	When      string   `json:"when"`
	People    int      `json:"people"`
	Lanes     int      `json:"lanes"`
	Shoes     []string `json:"shoes"`
	Price     int      `json:"price"`
}

// Repository долговременное хранилище подтверждений, привязанное к сессии
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория подтверждений
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Save записывает подтверждение в слот сессии.
// Предыдущее значение перезаписывается (последняя запись побеждает).
func (r *Repository) Save(ctx context.Context, sessionID string, c *domain.Confirmation) error {
	payload, err := json.Marshal(storedConfirmation{
		BookingID: c.BookingID,
		When:      c.When,
		People:    c.People,
		Lanes:     c.Lanes,
		Shoes:     c.Shoes,
		Price:     c.Price,
	})
	if err != nil {
		return fmt.Errorf("%w: Save - marshal: %v", ErrPayload, err)
	}

	query, args, err := psqlbuilder.Insert(tableName).
		Columns("session_id", "slot", "payload").
		Values(sessionID, domain.ConfirmationSlot, string(payload)).
		Suffix("ON CONFLICT (session_id, slot) DO UPDATE SET payload = EXCLUDED.payload, updated_at = NOW()").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Save - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Save - execute upsert: %v", ErrExecQuery, err)
	}

	return nil
}

// Get читает подтверждение из слота сессии
func (r *Repository) Get(ctx context.Context, sessionID string) (*domain.Confirmation, error) {
	query, args, err := psqlbuilder.Select("payload").
		From(tableName).
		Where(squirrel.Eq{"session_id": sessionID, "slot": domain.ConfirmationSlot}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	var payload []byte
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrConfirmationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan payload: %v", ErrScanRow, err)
	}

	var stored storedConfirmation
	if err := json.Unmarshal(payload, &stored); err != nil {
		return nil, fmt.Errorf("%w: Get - unmarshal: %v", ErrPayload, err)
	}

	return &domain.Confirmation{
		BookingID: stored.BookingID,
		When:      stored.When,
		People:    stored.People,
		Lanes:     stored.Lanes,
		Shoes:     stored.Shoes,
		Price:     stored.Price,
	}, nil
}
