// Package worker drives the engine on a clock: re-scoring, planning,
// auditing and the publish tick all run here, with the engine kept pure
// and this package owning all I/O sequencing.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/atelier-obra/editorial-engine/internal/database"
	"github.com/atelier-obra/editorial-engine/internal/engine"
	"github.com/atelier-obra/editorial-engine/internal/models"
)

// Notifier posts human-readable run summaries somewhere visible
type Notifier interface {
	SendMessage(channelID, message string) error
}

type Planner struct {
	items  *database.ItemRepository
	assets *database.AssetRepository
	cfg    models.Constraints
	dna    *models.EditorialDNA
	slots  []models.PublicationSlot
	log    *logrus.Entry
}

func NewPlanner(items *database.ItemRepository, assets *database.AssetRepository, cfg models.Constraints, dna *models.EditorialDNA, slots []models.PublicationSlot) *Planner {
	return &Planner{
		items:  items,
		assets: assets,
		cfg:    cfg,
		dna:    dna,
		slots:  slots,
		log:    logrus.WithField("component", "planner"),
	}
}

// Rescore re-annotates weight and priority on every item still moving
// through review and approval, and persists the changed scores.
func (p *Planner) Rescore(ctx context.Context) (int, error) {
	snapshot, err := p.items.GetAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load items: %w", err)
	}
	assets, err := p.assets.GetAllAssets(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load assets: %w", err)
	}

	now := time.Now()
	changed := 0
	for i := range snapshot {
		item := &snapshot[i]
		switch item.Status {
		case models.StatusReview, models.StatusApproved:
		default:
			continue
		}
		score := engine.Score(item, assets[item.AssetID], snapshot, p.dna, now)
		if score == item.Score {
			continue
		}
		if err := p.items.UpdateScore(ctx, item.ID, score); err != nil {
			return changed, err
		}
		changed++
	}
	p.log.WithField("rescored", changed).Info("📊 Priority scores refreshed")
	return changed, nil
}

// Plan runs the auto-scheduler over the current snapshot and persists
// the resulting assignment batch.
func (p *Planner) Plan(ctx context.Context) (int, error) {
	if _, err := p.Rescore(ctx); err != nil {
		return 0, err
	}

	snapshot, err := p.items.GetAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load items: %w", err)
	}
	assets, err := p.assets.GetAllAssets(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load assets: %w", err)
	}

	assignments := engine.Schedule(snapshot, assets, p.slots, p.cfg, time.Now())
	if err := p.items.ApplyAssignments(ctx, assignments); err != nil {
		return 0, fmt.Errorf("failed to apply assignments: %w", err)
	}

	p.log.WithField("assignments", len(assignments)).Info("📅 Plan run complete")
	return len(assignments), nil
}

// Audit runs the calendar validator over the current snapshot
func (p *Planner) Audit(ctx context.Context) ([]engine.Conflict, error) {
	snapshot, err := p.items.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load items: %w", err)
	}
	conflicts := engine.Validate(snapshot, p.cfg, time.Now())
	p.log.WithField("conflicts", len(conflicts)).Info("🔍 Calendar audit complete")
	return conflicts, nil
}

// BufferStatus reports the emergency reserve
func (p *Planner) BufferStatus(ctx context.Context) (engine.BufferReport, error) {
	snapshot, err := p.items.GetAll(ctx)
	if err != nil {
		return engine.BufferReport{}, fmt.Errorf("failed to load items: %w", err)
	}
	return engine.Buffer(snapshot, p.cfg.BufferTarget), nil
}

// Stats aggregates the collection for reporting
func (p *Planner) Stats(ctx context.Context) (engine.Stats, error) {
	snapshot, err := p.items.GetAll(ctx)
	if err != nil {
		return engine.Stats{}, fmt.Errorf("failed to load items: %w", err)
	}
	return engine.Summarize(snapshot, p.cfg), nil
}

// PublishDue pushes every scheduled item whose date has arrived through
// the transition machine. Items already carrying metrics land directly
// in measured.
func (p *Planner) PublishDue(ctx context.Context) (int, error) {
	due, err := p.items.GetDueForPublish(ctx, time.Now())
	if err != nil {
		return 0, err
	}
	if len(due) == 0 {
		return 0, nil
	}

	snapshot, err := p.items.GetAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load items: %w", err)
	}

	published := 0
	now := time.Now()
	for i := range due {
		item := &due[i]
		if !engine.Allowed(item.Status, models.StatusPublished) {
			continue
		}
		updates, _ := engine.Apply(item, models.StatusPublished, snapshot, now, "")
		if err := p.items.ApplyUpdates(ctx, updates); err != nil {
			return published, err
		}
		published++
	}
	p.log.WithField("published", published).Info("🚀 Publish tick complete")
	return published, nil
}

// Runner wires the planner to a cron schedule and a notifier
type Runner struct {
	planner   *Planner
	notifier  Notifier
	channelID string
	cron      *cron.Cron
	log       *logrus.Entry
}

func NewRunner(planner *Planner, notifier Notifier, channelID string) *Runner {
	return &Runner{
		planner:   planner,
		notifier:  notifier,
		channelID: channelID,
		cron:      cron.New(),
		log:       logrus.WithField("component", "runner"),
	}
}

// Start registers the recurring jobs and starts the cron loop:
// a morning plan run, a calendar audit shortly after, a buffer check,
// and a publish tick every fifteen minutes.
func (r *Runner) Start() error {
	jobs := []struct {
		spec string
		run  func()
	}{
		{"0 7 * * *", r.runPlan},
		{"30 7 * * *", r.runAudit},
		{"0 8 * * *", r.runBufferCheck},
		{"*/15 * * * *", r.runPublishTick},
	}
	for _, job := range jobs {
		if _, err := r.cron.AddFunc(job.spec, job.run); err != nil {
			return fmt.Errorf("failed to register cron job %q: %w", job.spec, err)
		}
	}
	r.cron.Start()
	r.log.Info("⏰ Editorial cron started")
	return nil
}

// Stop halts the cron loop, waiting for running jobs
func (r *Runner) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
}

func (r *Runner) runPlan() {
	ctx := context.Background()
	count, err := r.planner.Plan(ctx)
	if err != nil {
		r.log.WithError(err).Error("❌ Plan run failed")
		return
	}
	if count > 0 {
		r.notify(fmt.Sprintf("📅 Morning plan: %d item(s) placed on the calendar.", count))
	}
}

func (r *Runner) runAudit() {
	ctx := context.Background()
	conflicts, err := r.planner.Audit(ctx)
	if err != nil {
		r.log.WithError(err).Error("❌ Audit run failed")
		return
	}
	if len(conflicts) == 0 {
		return
	}
	message := fmt.Sprintf("🔍 *Calendar audit:* %d conflict(s)\n", len(conflicts))
	for _, c := range conflicts {
		message += fmt.Sprintf("• [%s] %s\n", c.Kind, c.Message)
	}
	r.notify(message)
}

func (r *Runner) runBufferCheck() {
	ctx := context.Background()
	report, err := r.planner.BufferStatus(ctx)
	if err != nil {
		r.log.WithError(err).Error("❌ Buffer check failed")
		return
	}
	if report.Sufficient {
		return
	}
	r.notify(fmt.Sprintf("🧯 Buffer reserve low: %d of %d approved buffer item(s) ready.", report.Count, report.Target))
}

func (r *Runner) runPublishTick() {
	ctx := context.Background()
	if _, err := r.planner.PublishDue(ctx); err != nil {
		r.log.WithError(err).Error("❌ Publish tick failed")
	}
}

func (r *Runner) notify(message string) {
	if r.notifier == nil || r.channelID == "" {
		return
	}
	if err := r.notifier.SendMessage(r.channelID, message); err != nil {
		r.log.WithError(err).Warn("⚠️ Failed to post notification")
	}
}
