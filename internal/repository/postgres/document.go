package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"docvault/internal/domain"
	"docvault/internal/domain/models/docsystem"
	"docvault/internal/domain/repositories"
)

const documentColumns = `id, title, description, owner_id, project_id, folder_id, is_deleted, current_version_id, created_at, updated_at`

// PostgresDocumentRepository implements the DocumentRepository interface
type PostgresDocumentRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(config *RepositoryConfig) repositories.DocumentRepository {
	return &PostgresDocumentRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

func scanDocument(row interface{ Scan(...interface{}) error }) (*docsystem.Document, error) {
	var doc docsystem.Document
	err := row.Scan(
		&doc.ID,
		&doc.Title,
		&doc.Description,
		&doc.OwnerID,
		&doc.ProjectID,
		&doc.FolderID,
		&doc.IsDeleted,
		&doc.CurrentVersionID,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// Create creates a new document row
func (r *PostgresDocumentRepository) Create(ctx context.Context, doc *docsystem.Document) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, r.tables.Documents, documentColumns)

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		doc.ID,
		doc.Title,
		doc.Description,
		doc.OwnerID,
		doc.ProjectID,
		doc.FolderID,
		doc.IsDeleted,
		doc.CurrentVersionID,
		doc.CreatedAt,
		doc.UpdatedAt,
	)

	if err != nil {
		if IsPgForeignKeyError(err) {
			return &domain.NotFoundError{Message: "project or folder not found"}
		}
		return fmt.Errorf("create document: %w", err)
	}

	return nil
}

// GetByID retrieves a document by ID (including soft-deleted rows)
func (r *PostgresDocumentRepository) GetByID(ctx context.Context, id string) (*docsystem.Document, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1
	`, documentColumns, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	doc, err := scanDocument(executor.QueryRow(ctx, query, id))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, &domain.NotFoundError{Message: fmt.Sprintf("document %s not found", id)}
		}
		return nil, fmt.Errorf("get document: %w", err)
	}

	return doc, nil
}

// Update persists title, description, placement and updated_at
func (r *PostgresDocumentRepository) Update(ctx context.Context, doc *docsystem.Document) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET title = $1, description = $2, project_id = $3, folder_id = $4, updated_at = $5
		WHERE id = $6
	`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		doc.Title,
		doc.Description,
		doc.ProjectID,
		doc.FolderID,
		doc.UpdatedAt,
		doc.ID,
	)

	if err != nil {
		if IsPgForeignKeyError(err) {
			return &domain.NotFoundError{Message: "target project or folder not found"}
		}
		return fmt.Errorf("update document: %w", err)
	}

	if result.RowsAffected() == 0 {
		return &domain.NotFoundError{Message: fmt.Sprintf("document %s not found", doc.ID)}
	}

	return nil
}

// SetCurrentVersion atomically repoints the current-version pointer
func (r *PostgresDocumentRepository) SetCurrentVersion(ctx context.Context, docID, versionID string, updatedAt time.Time) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET current_version_id = $1, updated_at = $2
		WHERE id = $3
	`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, versionID, updatedAt, docID)
	if err != nil {
		return fmt.Errorf("set current version: %w", err)
	}

	if result.RowsAffected() == 0 {
		return &domain.NotFoundError{Message: fmt.Sprintf("document %s not found", docID)}
	}

	return nil
}

// SoftDelete marks a document deleted; versions and blobs are untouched
func (r *PostgresDocumentRepository) SoftDelete(ctx context.Context, id string, deletedAt time.Time) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET is_deleted = TRUE, updated_at = $1
		WHERE id = $2 AND is_deleted = FALSE
	`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, deletedAt, id)
	if err != nil {
		return fmt.Errorf("soft delete document: %w", err)
	}

	if result.RowsAffected() == 0 {
		return &domain.NotFoundError{Message: fmt.Sprintf("document %s not found or already deleted", id)}
	}

	return nil
}

// ListByFolder lists non-deleted documents in a folder (nil = project root)
func (r *PostgresDocumentRepository) ListByFolder(ctx context.Context, projectID string, folderID *string) ([]docsystem.Document, error) {
	var query string
	var args []interface{}

	if folderID == nil {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE project_id = $1 AND folder_id IS NULL AND is_deleted = FALSE
			ORDER BY title ASC
		`, documentColumns, r.tables.Documents)
		args = append(args, projectID)
	} else {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE project_id = $1 AND folder_id = $2 AND is_deleted = FALSE
			ORDER BY title ASC
		`, documentColumns, r.tables.Documents)
		args = append(args, projectID, *folderID)
	}

	return r.queryDocuments(ctx, query, args...)
}

// ListByProject lists all non-deleted documents in a project
func (r *PostgresDocumentRepository) ListByProject(ctx context.Context, projectID string) ([]docsystem.Document, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE project_id = $1 AND is_deleted = FALSE
		ORDER BY created_at ASC
	`, documentColumns, r.tables.Documents)

	return r.queryDocuments(ctx, query, projectID)
}

func (r *PostgresDocumentRepository) queryDocuments(ctx context.Context, query string, args ...interface{}) ([]docsystem.Document, error) {
	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []docsystem.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, *doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}

	return docs, nil
}
