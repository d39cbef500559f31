package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"docvault/internal/domain"
	"docvault/internal/domain/models/docsystem"
	"docvault/internal/domain/repositories"
)

const versionColumns = `id, document_id, version_number, file_hash, file_size, storage_key, user_id, change_summary, created_at`

// PostgresVersionRepository implements the VersionRepository interface.
// The table is append-only: no UPDATE or DELETE statements exist here.
type PostgresVersionRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewVersionRepository creates a new version repository
func NewVersionRepository(config *RepositoryConfig) repositories.VersionRepository {
	return &PostgresVersionRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

func scanVersion(row interface{ Scan(...interface{}) error }) (*docsystem.DocumentVersion, error) {
	var v docsystem.DocumentVersion
	err := row.Scan(
		&v.ID,
		&v.DocumentID,
		&v.VersionNumber,
		&v.FileHash,
		&v.FileSize,
		&v.StorageKey,
		&v.UserID,
		&v.ChangeSummary,
		&v.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Create inserts a new version row
func (r *PostgresVersionRepository) Create(ctx context.Context, version *docsystem.DocumentVersion) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, r.tables.Versions, versionColumns)

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		version.ID,
		version.DocumentID,
		version.VersionNumber,
		version.FileHash,
		version.FileSize,
		version.StorageKey,
		version.UserID,
		version.ChangeSummary,
		version.CreatedAt,
	)

	if err != nil {
		if IsPgDuplicateError(err) {
			// (document_id, version_number) unique index
			return &domain.ConflictError{
				Message:      fmt.Sprintf("version %d already exists for document %s", version.VersionNumber, version.DocumentID),
				ResourceType: "document_version",
				ResourceID:   version.ID,
			}
		}
		if IsPgForeignKeyError(err) {
			return &domain.NotFoundError{Message: fmt.Sprintf("document %s not found", version.DocumentID)}
		}
		return fmt.Errorf("create version: %w", err)
	}

	return nil
}

// GetByID retrieves a version by its row ID
func (r *PostgresVersionRepository) GetByID(ctx context.Context, id string) (*docsystem.DocumentVersion, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1
	`, versionColumns, r.tables.Versions)

	executor := GetExecutor(ctx, r.pool)
	v, err := scanVersion(executor.QueryRow(ctx, query, id))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, &domain.NotFoundError{Message: fmt.Sprintf("version %s not found", id)}
		}
		return nil, fmt.Errorf("get version: %w", err)
	}

	return v, nil
}

// GetByNumber retrieves a version by (document, versionNumber)
func (r *PostgresVersionRepository) GetByNumber(ctx context.Context, documentID string, versionNumber int) (*docsystem.DocumentVersion, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE document_id = $1 AND version_number = $2
	`, versionColumns, r.tables.Versions)

	executor := GetExecutor(ctx, r.pool)
	v, err := scanVersion(executor.QueryRow(ctx, query, documentID, versionNumber))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, &domain.NotFoundError{
				Message: fmt.Sprintf("version %d of document %s not found", versionNumber, documentID),
			}
		}
		return nil, fmt.Errorf("get version by number: %w", err)
	}

	return v, nil
}

// ListByDocument lists all versions of a document ordered by version number
func (r *PostgresVersionRepository) ListByDocument(ctx context.Context, documentID string) ([]docsystem.DocumentVersion, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE document_id = $1
		ORDER BY version_number ASC
	`, versionColumns, r.tables.Versions)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, documentID)
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	defer rows.Close()

	var versions []docsystem.DocumentVersion
	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan version: %w", err)
		}
		versions = append(versions, *v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate versions: %w", err)
	}

	return versions, nil
}

// MaxVersionNumber returns the highest version number for a document, or 0
func (r *PostgresVersionRepository) MaxVersionNumber(ctx context.Context, documentID string) (int, error) {
	query := fmt.Sprintf(`
		SELECT COALESCE(MAX(version_number), 0)
		FROM %s
		WHERE document_id = $1
	`, r.tables.Versions)

	var max int
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, documentID).Scan(&max); err != nil {
		return 0, fmt.Errorf("max version number: %w", err)
	}

	return max, nil
}
