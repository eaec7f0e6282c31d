package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/atelier-obra/editorial-engine/internal/engine"
	"github.com/atelier-obra/editorial-engine/internal/models"
)

type ItemRepository struct {
	db *DB
}

func NewItemRepository(db *DB) *ItemRepository {
	return &ItemRepository{db: db}
}

const itemColumns = `id, asset_id, package_id, channel, format, copy_text, language, hashtags,
	       cta, objective, status, weight, weight_override, score, is_core, pillar,
	       project_id, parent_id, derivative_ids, scheduled_at, published_at,
	       measured_at, created_at, metrics, rejection_reason, is_buffer`

// execer covers pgxpool.Pool and pgx.Tx for writes
type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Create inserts a new content item into the database
func (r *ItemRepository) Create(ctx context.Context, item *models.ContentItem) error {
	return r.insert(ctx, r.db.Pool, item)
}

func (r *ItemRepository) insert(ctx context.Context, exec execer, item *models.ContentItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}

	metricsJSON, err := marshalMetrics(item.Metrics)
	if err != nil {
		return fmt.Errorf("failed to marshal metrics: %w", err)
	}

	query := `
		INSERT INTO content_items (id, asset_id, package_id, channel, format, copy_text,
		                           language, hashtags, cta, objective, status, weight,
		                           weight_override, score, is_core, pillar, project_id,
		                           parent_id, derivative_ids, scheduled_at, published_at,
		                           measured_at, created_at, metrics, rejection_reason, is_buffer)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
		        $17, $18, $19, $20, $21, $22, $23, $24, $25, $26)
	`

	_, err = exec.Exec(ctx, query,
		item.ID,
		nullIfEmpty(item.AssetID),
		nullIfEmpty(item.PackageID),
		string(item.Channel),
		string(item.Format),
		item.Copy,
		item.Language,
		item.Hashtags,
		item.CTA,
		item.Objective,
		string(item.Status),
		string(item.Weight),
		weightPtr(item.WeightOverride),
		item.Score,
		item.IsCore,
		item.Pillar,
		item.ProjectID,
		item.ParentID,
		item.DerivativeIDs,
		item.ScheduledAt,
		item.PublishedAt,
		item.MeasuredAt,
		item.CreatedAt,
		metricsJSON,
		item.RejectionReason,
		item.IsBuffer,
	)
	if err != nil {
		return fmt.Errorf("failed to create content item: %w", err)
	}

	return nil
}

// CreateBatch persists a generated batch in one transaction
func (r *ItemRepository) CreateBatch(ctx context.Context, batch *engine.Batch) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, item := range batch.Items() {
		if err := r.insert(ctx, tx, item); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit batch: %w", err)
	}
	return nil
}

// CreateItems persists a set of normalized items in one transaction
func (r *ItemRepository) CreateItems(ctx context.Context, items []models.ContentItem) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for i := range items {
		if err := r.insert(ctx, tx, &items[i]); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit items: %w", err)
	}
	return nil
}

// GetByID retrieves a content item by its ID
func (r *ItemRepository) GetByID(ctx context.Context, id string) (*models.ContentItem, error) {
	query := fmt.Sprintf(`SELECT %s FROM content_items WHERE id = $1`, itemColumns)

	item, err := scanItem(r.db.Pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("content item not found: %w", err)
	}
	return item, nil
}

// GetAll loads the full item collection as one snapshot for the engine
func (r *ItemRepository) GetAll(ctx context.Context) ([]models.ContentItem, error) {
	query := fmt.Sprintf(`SELECT %s FROM content_items ORDER BY created_at`, itemColumns)

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query content items: %w", err)
	}
	defer rows.Close()

	var items []models.ContentItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan content item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// GetByStatus retrieves content items by status
func (r *ItemRepository) GetByStatus(ctx context.Context, status models.Status) ([]models.ContentItem, error) {
	query := fmt.Sprintf(`SELECT %s FROM content_items WHERE status = $1 ORDER BY score DESC, created_at`, itemColumns)

	rows, err := r.db.Pool.Query(ctx, query, string(status))
	if err != nil {
		return nil, fmt.Errorf("failed to query content items: %w", err)
	}
	defer rows.Close()

	var items []models.ContentItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan content item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// GetDueForPublish retrieves scheduled items whose date has arrived
func (r *ItemRepository) GetDueForPublish(ctx context.Context, now time.Time) ([]models.ContentItem, error) {
	query := fmt.Sprintf(`SELECT %s FROM content_items
		WHERE status = 'scheduled' AND scheduled_at <= $1
		ORDER BY scheduled_at ASC`, itemColumns)

	rows, err := r.db.Pool.Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to query due items: %w", err)
	}
	defer rows.Close()

	var items []models.ContentItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan content item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// Update rewrites a content item
func (r *ItemRepository) Update(ctx context.Context, item *models.ContentItem) error {
	metricsJSON, err := marshalMetrics(item.Metrics)
	if err != nil {
		return fmt.Errorf("failed to marshal metrics: %w", err)
	}

	query := `
		UPDATE content_items
		SET channel = $2, format = $3, copy_text = $4, language = $5, hashtags = $6,
		    cta = $7, objective = $8, status = $9, weight = $10, weight_override = $11,
		    score = $12, is_core = $13, pillar = $14, project_id = $15, parent_id = $16,
		    derivative_ids = $17, scheduled_at = $18, published_at = $19, measured_at = $20,
		    metrics = $21, rejection_reason = $22, is_buffer = $23
		WHERE id = $1
	`

	result, err := r.db.Pool.Exec(ctx, query,
		item.ID,
		string(item.Channel),
		string(item.Format),
		item.Copy,
		item.Language,
		item.Hashtags,
		item.CTA,
		item.Objective,
		string(item.Status),
		string(item.Weight),
		weightPtr(item.WeightOverride),
		item.Score,
		item.IsCore,
		item.Pillar,
		item.ProjectID,
		item.ParentID,
		item.DerivativeIDs,
		item.ScheduledAt,
		item.PublishedAt,
		item.MeasuredAt,
		metricsJSON,
		item.RejectionReason,
		item.IsBuffer,
	)
	if err != nil {
		return fmt.Errorf("failed to update content item: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("content item not found")
	}
	return nil
}

// UpdateScore updates only the priority score of an item
func (r *ItemRepository) UpdateScore(ctx context.Context, id string, score int) error {
	result, err := r.db.Pool.Exec(ctx, `UPDATE content_items SET score = $2 WHERE id = $1`, id, score)
	if err != nil {
		return fmt.Errorf("failed to update score: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("content item not found")
	}
	return nil
}

// ApplyAssignments writes a scheduler batch in one transaction
func (r *ItemRepository) ApplyAssignments(ctx context.Context, assignments []engine.Assignment) error {
	if len(assignments) == 0 {
		return nil
	}

	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `UPDATE content_items SET status = $2, scheduled_at = $3 WHERE id = $1`
	for _, a := range assignments {
		if _, err := tx.Exec(ctx, query, a.ItemID, string(a.Status), a.Date); err != nil {
			return fmt.Errorf("failed to apply assignment for %s: %w", a.ItemID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit assignments: %w", err)
	}
	return nil
}

// ApplyUpdates writes a transition-machine batch in one transaction
func (r *ItemRepository) ApplyUpdates(ctx context.Context, updates []engine.ItemUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		UPDATE content_items
		SET status = $2,
		    published_at = COALESCE($3, published_at),
		    measured_at = COALESCE($4, measured_at),
		    rejection_reason = COALESCE($5, rejection_reason)
		WHERE id = $1
	`
	for _, u := range updates {
		if _, err := tx.Exec(ctx, query, u.ItemID, string(u.Status), u.PublishedAt, u.MeasuredAt, u.RejectionReason); err != nil {
			return fmt.Errorf("failed to apply update for %s: %w", u.ItemID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit updates: %w", err)
	}
	return nil
}

// rowScanner covers pgx.Row and pgx.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*models.ContentItem, error) {
	item := &models.ContentItem{}
	var (
		assetID, packageID      *string
		channel, format, status string
		weight                  string
		weightOverride          *string
		metricsJSON             []byte
	)

	err := row.Scan(
		&item.ID,
		&assetID,
		&packageID,
		&channel,
		&format,
		&item.Copy,
		&item.Language,
		&item.Hashtags,
		&item.CTA,
		&item.Objective,
		&status,
		&weight,
		&weightOverride,
		&item.Score,
		&item.IsCore,
		&item.Pillar,
		&item.ProjectID,
		&item.ParentID,
		&item.DerivativeIDs,
		&item.ScheduledAt,
		&item.PublishedAt,
		&item.MeasuredAt,
		&item.CreatedAt,
		&metricsJSON,
		&item.RejectionReason,
		&item.IsBuffer,
	)
	if err != nil {
		return nil, err
	}

	if assetID != nil {
		item.AssetID = *assetID
	}
	if packageID != nil {
		item.PackageID = *packageID
	}
	item.Channel = models.Channel(channel)
	item.Format = models.Format(format)
	item.Status = models.Status(status)
	item.Weight = models.Weight(weight)
	if weightOverride != nil {
		w := models.Weight(*weightOverride)
		item.WeightOverride = &w
	}
	if len(metricsJSON) > 0 {
		if err := json.Unmarshal(metricsJSON, &item.Metrics); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metrics: %w", err)
		}
	}
	return item, nil
}

func marshalMetrics(metrics map[string]int) ([]byte, error) {
	if metrics == nil {
		return nil, nil
	}
	return json.Marshal(metrics)
}

func weightPtr(w *models.Weight) *string {
	if w == nil {
		return nil
	}
	s := string(*w)
	return &s
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
