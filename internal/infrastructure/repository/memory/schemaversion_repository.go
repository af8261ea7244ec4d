package memory

import (
	"context"

	"github.com/matchday/league-api/internal/domain/schemaversion"
)

// SchemaVersionRepository reports a fixed version for the in-memory
// backend, which has no migration history of its own.
type SchemaVersionRepository struct {
	version schemaversion.Version
}

func NewSchemaVersionRepository(v schemaversion.Version) *SchemaVersionRepository {
	return &SchemaVersionRepository{version: v}
}

func (r *SchemaVersionRepository) Current(_ context.Context) (schemaversion.Version, error) {
	return r.version, nil
}
