package open_draft

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/strike-booking/internal/api/middleware"
	"github.com/m04kA/strike-booking/internal/domain"
	"github.com/m04kA/strike-booking/internal/service/drafts"
	"github.com/m04kA/strike-booking/internal/service/drafts/models"
	"github.com/m04kA/strike-booking/pkg/logger"
)

func TestHandle_OpensEmptyDraft(t *testing.T) {
	log := logger.NewWithWriter(io.Discard, logger.LevelError)
	svc := drafts.NewService(log)
	h := NewHandler(svc, log)

	_, err := svc.Open("s1")
	require.NoError(t, err)
	_, err = svc.UpdateField("s1", domain.FieldLanes, "3")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/booking", nil)
	req = req.WithContext(middleware.WithSessionID(req.Context(), "s1"))
	rec := httptest.NewRecorder()
	h.Handle(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var draft models.DraftResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &draft))
	assert.Equal(t, "", draft.When)
	assert.Equal(t, "", draft.Time)
	assert.Zero(t, draft.Lanes)
	assert.Zero(t, draft.People)
	assert.Empty(t, draft.Shoes)
	assert.Equal(t, "", draft.Error)
	assert.Equal(t, string(domain.StateEditing), draft.State)
}

func TestHandle_MissingSession(t *testing.T) {
	log := logger.NewWithWriter(io.Discard, logger.LevelError)
	h := NewHandler(drafts.NewService(log), log)

	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodPost, "/api/v1/booking", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
