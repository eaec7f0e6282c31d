package slack

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/slack-go/slack/slackevents"

	"github.com/atelier-obra/editorial-engine/internal/engine"
	"github.com/atelier-obra/editorial-engine/internal/models"
)

// Messenger posts approval outcomes back to the channel
type Messenger interface {
	SendMessage(channelID, message string) error
}

// ItemStore is the slice of the repository the approval flow needs
type ItemStore interface {
	GetByID(ctx context.Context, id string) (*models.ContentItem, error)
	GetAll(ctx context.Context) ([]models.ContentItem, error)
	ApplyUpdates(ctx context.Context, updates []engine.ItemUpdate) error
}

// ApprovalHandler turns reactions on batch review messages into
// lifecycle transitions. The transition machine decides what is legal;
// this handler only guards and reports.
type ApprovalHandler struct {
	client     Messenger
	items      ItemStore
	batchCache map[string][]string // messageTS -> item IDs under review
}

func NewApprovalHandler(client Messenger, items ItemStore) *ApprovalHandler {
	return &ApprovalHandler{
		client:     client,
		items:      items,
		batchCache: make(map[string][]string),
	}
}

// StoreBatchMessage remembers which items a review message covers
func (h *ApprovalHandler) StoreBatchMessage(messageTS string, itemIDs []string) {
	h.batchCache[messageTS] = itemIDs
	logrus.WithFields(logrus.Fields{"ts": messageTS, "items": len(itemIDs)}).Info("📌 Stored review message mapping")
}

// HandleReaction processes reactions added to review messages
func (h *ApprovalHandler) HandleReaction(ctx context.Context, event *slackevents.ReactionAddedEvent) error {
	itemIDs, exists := h.batchCache[event.Item.Timestamp]
	if !exists {
		return nil
	}

	switch event.Reaction {
	case "white_check_mark", "heavy_check_mark":
		return h.approveItems(ctx, event.Item.Channel, itemIDs)
	case "x":
		return h.rejectItems(ctx, event.Item.Channel, itemIDs, "rejected in review")
	case "one":
		return h.approveOnly(ctx, event.Item.Channel, itemIDs, 0)
	case "two":
		return h.approveOnly(ctx, event.Item.Channel, itemIDs, 1)
	case "three":
		return h.approveOnly(ctx, event.Item.Channel, itemIDs, 2)
	}
	return nil
}

// approveItems moves every item in the batch from review to approved
func (h *ApprovalHandler) approveItems(ctx context.Context, channelID string, itemIDs []string) error {
	approved := 0
	for _, id := range itemIDs {
		if ok, _ := h.transition(ctx, id, models.StatusApproved, ""); ok {
			approved++
		}
	}
	message := fmt.Sprintf("✅ Approved %d item(s). They join the next plan run.", approved)
	return h.client.SendMessage(channelID, message)
}

// approveOnly approves one item of the batch and rejects the rest
func (h *ApprovalHandler) approveOnly(ctx context.Context, channelID string, itemIDs []string, index int) error {
	if index >= len(itemIDs) {
		return h.client.SendMessage(channelID, "❌ No such item in this batch")
	}
	if ok, _ := h.transition(ctx, itemIDs[index], models.StatusApproved, ""); !ok {
		return h.client.SendMessage(channelID, "⚠️ That item can no longer be approved")
	}

	var warnings []string
	for i, id := range itemIDs {
		if i == index {
			continue
		}
		_, warns := h.transition(ctx, id, models.StatusRejected, "another variant was chosen")
		warnings = append(warnings, warns...)
	}

	message := fmt.Sprintf("✅ Approved item %d, rejected the rest of the batch.", index+1)
	return h.client.SendMessage(channelID, withWarnings(message, warnings))
}

// rejectItems rejects the whole batch, surfacing cascade warnings
func (h *ApprovalHandler) rejectItems(ctx context.Context, channelID string, itemIDs []string, reason string) error {
	rejected := 0
	var warnings []string
	for _, id := range itemIDs {
		ok, warns := h.transition(ctx, id, models.StatusRejected, reason)
		if ok {
			rejected++
		}
		warnings = append(warnings, warns...)
	}

	message := fmt.Sprintf("🗑️ Rejected %d item(s).", rejected)
	return h.client.SendMessage(channelID, withWarnings(message, warnings))
}

// transition guards and applies a single-item move. Core rejections run
// against the full snapshot so the cascade reaches the derivatives;
// cascade warnings are returned for the caller to report.
func (h *ApprovalHandler) transition(ctx context.Context, itemID string, target models.Status, reason string) (bool, []string) {
	item, err := h.items.GetByID(ctx, itemID)
	if err != nil {
		logrus.WithError(err).WithField("item", itemID).Warn("⚠️ Failed to load item")
		return false, nil
	}
	if !engine.Allowed(item.Status, target) {
		logrus.WithFields(logrus.Fields{"item": itemID, "from": item.Status, "to": target}).Warn("⚠️ Illegal transition skipped")
		return false, nil
	}

	var snapshot []models.ContentItem
	if target == models.StatusRejected && item.IsCore {
		snapshot, err = h.items.GetAll(ctx)
		if err != nil {
			logrus.WithError(err).Warn("⚠️ Failed to load snapshot for rejection cascade")
			return false, nil
		}
	}

	updates, warnings := engine.Apply(item, target, snapshot, time.Now(), reason)
	if err := h.items.ApplyUpdates(ctx, updates); err != nil {
		logrus.WithError(err).WithField("item", itemID).Warn("⚠️ Failed to apply transition")
		return false, nil
	}
	return true, warnings
}

func withWarnings(message string, warnings []string) string {
	if len(warnings) == 0 {
		return message
	}
	return message + "\n⚠️ " + strings.Join(warnings, "\n⚠️ ")
}
