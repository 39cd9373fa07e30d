package postgres

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schemaSQL string

// RenderSchema substitutes the prefixed table names into the embedded schema
func RenderSchema(tables *TableNames) string {
	return strings.NewReplacer(
		"{{folders}}", tables.Folders,
		"{{files}}", tables.Files,
		"{{file_versions}}", tables.FileVersions,
		"{{activities}}", tables.Activities,
		"{{access_controls}}", tables.AccessControls,
	).Replace(schemaSQL)
}

// ApplySchema creates missing tables and indexes. Safe to run repeatedly.
func ApplySchema(ctx context.Context, pool *pgxpool.Pool, tables *TableNames) error {
	if _, err := pool.Exec(ctx, RenderSchema(tables)); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
