package ingest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atelier-obra/editorial-engine/internal/models"
)

type fakeStore struct {
	created []models.ContentItem
	err     error
}

func (s *fakeStore) CreateItems(ctx context.Context, items []models.ContentItem) error {
	if s.err != nil {
		return s.err
	}
	s.created = append(s.created, items...)
	return nil
}

func postRecords(t *testing.T, handler *Handler, recs []ItemRecord) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(recs)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/items/import", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestImportMixedBatch(t *testing.T) {
	store := &fakeStore{}
	handler := NewHandler(store)

	good := validRecord()
	second := validRecord()
	second.ID = "item-2"
	bad := validRecord()
	bad.ID = "item-3"
	bad.Channel = "tiktok"

	rec := postRecords(t, handler, []ItemRecord{good, second, bad})
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Imported int      `json:"imported"`
		Rejected []string `json:"rejected"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Imported)
	require.Len(t, resp.Rejected, 1)
	assert.Contains(t, resp.Rejected[0], "item-3")

	// only the normalized valid records reached the store
	require.Len(t, store.created, 2)
	assert.Equal(t, models.ChannelFeed, store.created[0].Channel)
	assert.False(t, store.created[0].CreatedAt.IsZero())
}

func TestImportAllInvalid(t *testing.T) {
	store := &fakeStore{}
	handler := NewHandler(store)

	bad := validRecord()
	bad.Status = "drafted"

	rec := postRecords(t, handler, []ItemRecord{bad})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, store.created)
}

func TestImportRejectsNonPost(t *testing.T) {
	handler := NewHandler(&fakeStore{})
	req := httptest.NewRequest(http.MethodGet, "/items/import", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestImportMalformedBody(t *testing.T) {
	handler := NewHandler(&fakeStore{})
	req := httptest.NewRequest(http.MethodPost, "/items/import", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
