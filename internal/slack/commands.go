package slack

import (
	"context"
	"fmt"
	"strings"

	"github.com/slack-go/slack/slackevents"

	"github.com/atelier-obra/editorial-engine/internal/database"
	"github.com/atelier-obra/editorial-engine/internal/engine"
	"github.com/atelier-obra/editorial-engine/internal/models"
)

// Planner is the slice of the worker the command surface needs
type Planner interface {
	Plan(ctx context.Context) (int, error)
	Audit(ctx context.Context) ([]engine.Conflict, error)
	BufferStatus(ctx context.Context) (engine.BufferReport, error)
	Stats(ctx context.Context) (engine.Stats, error)
}

type CommandHandler struct {
	client   *Client
	items    *database.ItemRepository
	assets   *database.AssetRepository
	planner  Planner
	approval *ApprovalHandler
	language string
}

func NewCommandHandler(client *Client, items *database.ItemRepository, assets *database.AssetRepository, planner Planner, approval *ApprovalHandler, language string) *CommandHandler {
	if language == "" {
		language = engine.DefaultLanguage
	}
	return &CommandHandler{
		client:   client,
		items:    items,
		assets:   assets,
		planner:  planner,
		approval: approval,
		language: language,
	}
}

// HandleAppMention routes a bot mention to the matching command
func (h *CommandHandler) HandleAppMention(ctx context.Context, event *slackevents.AppMentionEvent) error {
	text := strings.TrimSpace(strings.Replace(event.Text, "<@"+h.client.GetBotID()+">", "", 1))
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return h.sendHelpMessage(event.Channel)
	}
	command := strings.ToLower(fields[0])

	switch command {
	case "batch":
		if len(fields) < 2 {
			return h.client.SendMessage(event.Channel, "Usage: `batch <asset-id>`")
		}
		return h.HandleBatch(ctx, event.Channel, fields[1])
	case "plan":
		return h.HandlePlan(ctx, event.Channel)
	case "audit":
		return h.HandleAudit(ctx, event.Channel)
	case "buffer":
		return h.HandleBuffer(ctx, event.Channel)
	case "stats":
		return h.HandleStats(ctx, event.Channel)
	case "queue":
		return h.HandleQueue(ctx, event.Channel)
	default:
		return h.sendHelpMessage(event.Channel)
	}
}

// HandleBatch expands an asset's content package into a review batch,
// persists it and posts the batch for reaction-based approval.
func (h *CommandHandler) HandleBatch(ctx context.Context, channelID, assetID string) error {
	asset, err := h.assets.GetAsset(ctx, assetID)
	if err != nil {
		return h.client.SendMessage(channelID, fmt.Sprintf("❌ Asset `%s` not found", assetID))
	}
	pkg, err := h.assets.GetPackageForAsset(ctx, assetID)
	if err != nil {
		return h.client.SendMessage(channelID, fmt.Sprintf("❌ No content package generated for asset `%s` yet", assetID))
	}

	batch := engine.GenerateBatch(asset, pkg, engine.BatchOptions{Language: h.language})
	if err := h.items.CreateBatch(ctx, batch); err != nil {
		return h.client.SendMessage(channelID, "❌ Failed to save the batch. Check the logs.")
	}

	message := fmt.Sprintf("📦 *New batch for asset `%s`* — %d item(s) in review\n\n", assetID, len(batch.Items()))
	ids := make([]string, 0, len(batch.Items()))
	for i, item := range batch.Items() {
		kind := "derivative"
		if item.IsCore {
			kind = "core"
		}
		preview := item.Copy
		if preview == "" {
			preview = "(no copy for this channel)"
		} else if len(preview) > 80 {
			preview = preview[:80] + "..."
		}
		message += fmt.Sprintf("%d. [%s] %s/%s (%s)\n  _%s_\n", i+1, kind, item.Channel, item.Format, item.Weight, preview)
		ids = append(ids, item.ID)
	}
	message += "\nReact ✅ to approve all, ❌ to reject all, 1️⃣/2️⃣/3️⃣ to keep one."

	ts, err := h.client.PostReviewMessage(channelID, message)
	if err != nil {
		return err
	}
	h.approval.StoreBatchMessage(ts, ids)
	return nil
}

// HandlePlan runs the auto-scheduler on demand
func (h *CommandHandler) HandlePlan(ctx context.Context, channelID string) error {
	h.client.SendMessage(channelID, "📅 Planning the calendar...")

	count, err := h.planner.Plan(ctx)
	if err != nil {
		return h.client.SendMessage(channelID, "❌ Plan run failed. Check the logs.")
	}
	if count == 0 {
		return h.client.SendMessage(channelID, "📭 Nothing to place: no approved items fit the calendar.")
	}

	scheduled, err := h.items.GetByStatus(ctx, models.StatusScheduled)
	if err != nil {
		return h.client.SendMessage(channelID, fmt.Sprintf("✅ Placed %d item(s) on the calendar.", count))
	}

	message := fmt.Sprintf("✅ *Placed %d item(s) on the calendar.*\n\n*Upcoming:*\n", count)
	shown := 0
	for i := range scheduled {
		item := &scheduled[i]
		if item.ScheduledAt == nil || !item.IsCore {
			continue
		}
		if shown >= 10 {
			message += "_...and more_\n"
			break
		}
		preview := item.Copy
		if len(preview) > 80 {
			preview = preview[:80] + "..."
		}
		message += fmt.Sprintf("• %s — %s/%s\n  _%s_\n", item.ScheduledAt.Format("Mon Jan 02"), item.Channel, item.Format, preview)
		shown++
	}
	return h.client.SendMessage(channelID, message)
}

// HandleAudit reports calendar conflicts
func (h *CommandHandler) HandleAudit(ctx context.Context, channelID string) error {
	conflicts, err := h.planner.Audit(ctx)
	if err != nil {
		return h.client.SendMessage(channelID, "❌ Audit failed. Check the logs.")
	}
	if len(conflicts) == 0 {
		return h.client.SendMessage(channelID, "✨ Calendar is clean: no conflicts in the horizon.")
	}

	message := fmt.Sprintf("🔍 *Calendar audit* — %d conflict(s)\n\n", len(conflicts))
	for _, c := range conflicts {
		message += fmt.Sprintf("• `%s` %s\n", c.Kind, c.Message)
	}
	return h.client.SendMessage(channelID, message)
}

// HandleBuffer reports the emergency reserve
func (h *CommandHandler) HandleBuffer(ctx context.Context, channelID string) error {
	report, err := h.planner.BufferStatus(ctx)
	if err != nil {
		return h.client.SendMessage(channelID, "❌ Buffer check failed. Check the logs.")
	}
	if report.Sufficient {
		return h.client.SendMessage(channelID,
			fmt.Sprintf("🧯 Buffer is healthy: %d of %d item(s) ready.", report.Count, report.Target))
	}
	return h.client.SendMessage(channelID,
		fmt.Sprintf("🧯 *Buffer reserve low:* %d of %d item(s) ready. Approve a few light items as buffer.", report.Count, report.Target))
}

// HandleStats posts the aggregate collection report
func (h *CommandHandler) HandleStats(ctx context.Context, channelID string) error {
	stats, err := h.planner.Stats(ctx)
	if err != nil {
		return h.client.SendMessage(channelID, "❌ Stats failed. Check the logs.")
	}

	message := "📊 *Editorial stats*\n\n"
	for _, status := range models.AllStatuses {
		if n := stats.ByStatus[status]; n > 0 {
			message += fmt.Sprintf("• %s: %d\n", status, n)
		}
	}
	message += fmt.Sprintf("\nScheduled heavy/light: %d/%d\n", stats.HeavyScheduled, stats.LightScheduled)
	message += fmt.Sprintf("Core items: %d\n", stats.CoreCount)
	message += fmt.Sprintf("Buffer: %d of %d", stats.Buffer.Count, stats.Buffer.Target)
	return h.client.SendMessage(channelID, message)
}

// HandleQueue lists items waiting in review
func (h *CommandHandler) HandleQueue(ctx context.Context, channelID string) error {
	pending, err := h.items.GetByStatus(ctx, models.StatusReview)
	if err != nil {
		return h.client.SendMessage(channelID, "❌ Failed to fetch the review queue")
	}
	if len(pending) == 0 {
		return h.client.SendMessage(channelID, "📭 Review queue is empty.")
	}

	message := fmt.Sprintf("📝 *Review queue* (%d)\n\n", len(pending))
	for i := range pending {
		item := &pending[i]
		preview := item.Copy
		if len(preview) > 100 {
			preview = preview[:100] + "..."
		}
		kind := "derivative"
		if item.IsCore {
			kind = "core"
		}
		message += fmt.Sprintf("• [%s] %s/%s score %d\n  _%s_\n", kind, item.Channel, item.Format, item.Score, preview)
		if i >= 4 {
			message += fmt.Sprintf("_...and %d more_\n", len(pending)-5)
			break
		}
	}
	return h.client.SendMessage(channelID, message)
}

func (h *CommandHandler) sendHelpMessage(channelID string) error {
	message := "👋 *Editorial bot commands*\n\n"
	message += "• `batch <asset-id>` — expand an asset into a review batch\n"
	message += "• `plan` — place approved items on the calendar\n"
	message += "• `audit` — check the calendar for conflicts\n"
	message += "• `queue` — list items waiting in review\n"
	message += "• `buffer` — check the emergency reserve\n"
	message += "• `stats` — aggregate collection report\n\n"
	message += "React to a review message: ✅ approve all, ❌ reject all, 1️⃣/2️⃣/3️⃣ keep one."
	return h.client.SendMessage(channelID, message)
}
