package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/atelier-obra/editorial-engine/internal/models"
)

type AssetRepository struct {
	db *DB
}

func NewAssetRepository(db *DB) *AssetRepository {
	return &AssetRepository{db: db}
}

// CreateAsset inserts a new media asset descriptor
func (r *AssetRepository) CreateAsset(ctx context.Context, asset *models.MediaAsset) error {
	if asset.ID == "" {
		asset.ID = uuid.New().String()
	}
	if asset.UploadedAt.IsZero() {
		asset.UploadedAt = time.Now()
	}

	query := `
		INSERT INTO media_assets (id, kind, quality, uploaded_at, tags, category)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Pool.Exec(ctx, query,
		asset.ID,
		string(asset.Kind),
		asset.Quality,
		asset.UploadedAt,
		asset.Tags,
		string(asset.Category),
	)
	if err != nil {
		return fmt.Errorf("failed to create media asset: %w", err)
	}
	return nil
}

// GetAsset retrieves a media asset by ID
func (r *AssetRepository) GetAsset(ctx context.Context, id string) (*models.MediaAsset, error) {
	query := `
		SELECT id, kind, quality, uploaded_at, tags, category
		FROM media_assets
		WHERE id = $1
	`

	asset := &models.MediaAsset{}
	var kind, category string
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&asset.ID,
		&kind,
		&asset.Quality,
		&asset.UploadedAt,
		&asset.Tags,
		&category,
	)
	if err != nil {
		return nil, fmt.Errorf("media asset not found: %w", err)
	}
	asset.Kind = models.AssetKind(kind)
	asset.Category = models.MediaCategory(category)
	return asset, nil
}

// GetAllAssets loads every asset keyed by ID, the shape the engine wants
func (r *AssetRepository) GetAllAssets(ctx context.Context) (map[string]*models.MediaAsset, error) {
	query := `
		SELECT id, kind, quality, uploaded_at, tags, category
		FROM media_assets
	`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query media assets: %w", err)
	}
	defer rows.Close()

	assets := make(map[string]*models.MediaAsset)
	for rows.Next() {
		asset := &models.MediaAsset{}
		var kind, category string
		if err := rows.Scan(&asset.ID, &kind, &asset.Quality, &asset.UploadedAt, &asset.Tags, &category); err != nil {
			return nil, fmt.Errorf("failed to scan media asset: %w", err)
		}
		asset.Kind = models.AssetKind(kind)
		asset.Category = models.MediaCategory(category)
		assets[asset.ID] = asset
	}
	return assets, rows.Err()
}

// CreatePackage inserts a generated content package
func (r *AssetRepository) CreatePackage(ctx context.Context, pkg *models.ContentPackage) error {
	if pkg.ID == "" {
		pkg.ID = uuid.New().String()
	}
	if pkg.CreatedAt.IsZero() {
		pkg.CreatedAt = time.Now()
	}

	copyJSON, err := json.Marshal(pkg.Copy)
	if err != nil {
		return fmt.Errorf("failed to marshal package copy: %w", err)
	}

	query := `
		INSERT INTO content_packages (id, asset_id, copy, hashtags, cta, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = r.db.Pool.Exec(ctx, query,
		pkg.ID,
		nullIfEmpty(pkg.AssetID),
		copyJSON,
		pkg.Hashtags,
		pkg.CTA,
		pkg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create content package: %w", err)
	}
	return nil
}

// GetPackage retrieves a content package by ID
func (r *AssetRepository) GetPackage(ctx context.Context, id string) (*models.ContentPackage, error) {
	return r.getPackage(ctx, `
		SELECT id, asset_id, copy, hashtags, cta, created_at
		FROM content_packages
		WHERE id = $1
	`, id)
}

// GetPackageForAsset retrieves the newest package generated for an asset
func (r *AssetRepository) GetPackageForAsset(ctx context.Context, assetID string) (*models.ContentPackage, error) {
	return r.getPackage(ctx, `
		SELECT id, asset_id, copy, hashtags, cta, created_at
		FROM content_packages
		WHERE asset_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, assetID)
}

func (r *AssetRepository) getPackage(ctx context.Context, query, arg string) (*models.ContentPackage, error) {
	pkg := &models.ContentPackage{}
	var assetID *string
	var copyJSON []byte
	err := r.db.Pool.QueryRow(ctx, query, arg).Scan(
		&pkg.ID,
		&assetID,
		&copyJSON,
		&pkg.Hashtags,
		&pkg.CTA,
		&pkg.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("content package not found: %w", err)
	}
	if assetID != nil {
		pkg.AssetID = *assetID
	}
	if len(copyJSON) > 0 {
		if err := json.Unmarshal(copyJSON, &pkg.Copy); err != nil {
			return nil, fmt.Errorf("failed to unmarshal package copy: %w", err)
		}
	}
	return pkg, nil
}
