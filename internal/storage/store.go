package storage

import (
	"context"

	"pyuml/internal/model"
)

// Store defines operations for persisting extracted class models between
// runs, so unchanged source units need not be re-parsed.
type Store interface {
	// SaveSnapshot replaces the stored state with the given units and
	// class models. Units maps source-unit paths to content hashes.
	SaveSnapshot(ctx context.Context, units map[string]string, classes []*model.ClassModel) error

	// SaveUnit upserts one source unit and its class models, removing any
	// models previously stored for that path.
	SaveUnit(ctx context.Context, path, contentHash string, classes []*model.ClassModel) error

	// DeleteUnit removes a source unit and its class models.
	DeleteUnit(ctx context.Context, path string) error

	// LoadClasses returns all stored class models ordered by source-unit
	// path and declaration line, the same global declaration order a fresh
	// scan produces.
	LoadClasses(ctx context.Context) ([]*model.ClassModel, error)

	// UnitHashes returns the stored path-to-content-hash map.
	UnitHashes(ctx context.Context) (map[string]string, error)

	Close() error
}
