package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/matchday/league-api/internal/domain/schemaversion"
)

type schemaVersionRow struct {
	Major       int    `db:"major"`
	Minor       int    `db:"minor"`
	Patch       int    `db:"patch"`
	Description string `db:"description"`
}

// SchemaVersionRepository reads the highest applied row from the
// migration-tracking table maintained by the migration tool.
type SchemaVersionRepository struct {
	db *sqlx.DB
}

func NewSchemaVersionRepository(db *sqlx.DB) *SchemaVersionRepository {
	return &SchemaVersionRepository{db: db}
}

func (r *SchemaVersionRepository) Current(ctx context.Context) (schemaversion.Version, error) {
	const query = `
SELECT major, minor, patch, description
FROM schema_migrations
ORDER BY major DESC, minor DESC, patch DESC
LIMIT 1`

	var row schemaVersionRow
	if err := r.db.GetContext(ctx, &row, query); err != nil {
		if isNotFound(err) {
			return schemaversion.Version{}, nil
		}
		return schemaversion.Version{}, fmt.Errorf("get current schema version: %w", err)
	}

	return schemaversion.Version{
		Major:       row.Major,
		Minor:       row.Minor,
		Patch:       row.Patch,
		Description: row.Description,
	}, nil
}
