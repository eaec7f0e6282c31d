package database

import (
	"context"

	"github.com/sirupsen/logrus"
)

// CreateTables creates all necessary database tables
func (db *DB) CreateTables(ctx context.Context) error {
	logrus.Info("Creating database tables...")

	// Media assets table
	assetsTable := `
	CREATE TABLE IF NOT EXISTS media_assets (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		kind VARCHAR(20) NOT NULL,
		quality INTEGER,
		uploaded_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		tags TEXT[],
		category VARCHAR(50)
	);
	CREATE INDEX IF NOT EXISTS idx_assets_kind ON media_assets(kind);
	CREATE INDEX IF NOT EXISTS idx_assets_uploaded ON media_assets(uploaded_at DESC);
	`

	// Content packages table
	packagesTable := `
	CREATE TABLE IF NOT EXISTS content_packages (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		asset_id UUID,
		copy JSONB DEFAULT '{}',
		hashtags TEXT[],
		cta TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (asset_id) REFERENCES media_assets(id) ON DELETE SET NULL
	);
	`

	// Content items table
	itemsTable := `
	CREATE TABLE IF NOT EXISTS content_items (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		asset_id UUID,
		package_id UUID,
		channel VARCHAR(50) NOT NULL,
		format VARCHAR(50),
		copy_text TEXT DEFAULT '',
		language VARCHAR(10) DEFAULT '',
		hashtags TEXT[],
		cta TEXT DEFAULT '',
		objective VARCHAR(50) DEFAULT '',
		status VARCHAR(50) DEFAULT 'inbox',
		weight VARCHAR(10) DEFAULT '',
		weight_override VARCHAR(10),
		score INTEGER DEFAULT 50,
		is_core BOOLEAN DEFAULT FALSE,
		pillar VARCHAR(100) DEFAULT '',
		project_id VARCHAR(100),
		parent_id UUID,
		derivative_ids UUID[],
		scheduled_at TIMESTAMP,
		published_at TIMESTAMP,
		measured_at TIMESTAMP,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		metrics JSONB,
		rejection_reason TEXT,
		is_buffer BOOLEAN DEFAULT FALSE
	);
	CREATE INDEX IF NOT EXISTS idx_items_status ON content_items(status);
	CREATE INDEX IF NOT EXISTS idx_items_scheduled ON content_items(scheduled_at);
	CREATE INDEX IF NOT EXISTS idx_items_parent ON content_items(parent_id);
	CREATE INDEX IF NOT EXISTS idx_items_project ON content_items(project_id);
	`

	tables := []string{assetsTable, packagesTable, itemsTable}

	for _, table := range tables {
		if _, err := db.Pool.Exec(ctx, table); err != nil {
			return err
		}
	}

	logrus.Info("✅ All tables created successfully")
	return nil
}
