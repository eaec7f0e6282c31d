package ingest

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/atelier-obra/editorial-engine/internal/models"
)

// Store persists normalized items
type Store interface {
	CreateItems(ctx context.Context, items []models.ContentItem) error
}

// Handler accepts batches of raw item records from collaborators over
// HTTP, normalizes them and persists the valid ones. Invalid records
// are reported back, never stored.
type Handler struct {
	store Store
	log   *logrus.Entry
}

func NewHandler(store Store) *Handler {
	return &Handler{
		store: store,
		log:   logrus.WithField("component", "ingest"),
	}
}

type importResponse struct {
	Imported int      `json:"imported"`
	Rejected []string `json:"rejected,omitempty"`
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var recs []ItemRecord
	if err := json.NewDecoder(r.Body).Decode(&recs); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	items, errs := NormalizeAll(recs)
	rejected := make([]string, 0, len(errs))
	for _, err := range errs {
		rejected = append(rejected, err.Error())
	}

	if len(items) > 0 {
		if err := h.store.CreateItems(r.Context(), items); err != nil {
			h.log.WithError(err).Error("❌ Failed to persist imported items")
			http.Error(w, "failed to persist items", http.StatusInternalServerError)
			return
		}
	}

	h.log.WithFields(logrus.Fields{
		"imported": len(items),
		"rejected": len(rejected),
	}).Info("📥 Item import processed")

	w.Header().Set("Content-Type", "application/json")
	if len(items) == 0 && len(rejected) > 0 {
		w.WriteHeader(http.StatusBadRequest)
	}
	json.NewEncoder(w).Encode(importResponse{Imported: len(items), Rejected: rejected})
}
