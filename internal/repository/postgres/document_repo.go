package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"hrdocs/internal/domain"
	"hrdocs/internal/port"
)

const documentColumns = `id, tenant_id, document_type, file_name, mime_type,
	storage_bucket, storage_key, status, confidence,
	extracted_data, ai_analysis, metadata,
	processed_at, created_at, updated_at`

type documentRepo struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewDocumentRepo creates a new PostgreSQL-backed DocumentRepository.
func NewDocumentRepo(db *sqlx.DB) port.DocumentRepository {
	return &documentRepo{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func (r *documentRepo) GetByID(ctx context.Context, tenantID, docID uuid.UUID) (*domain.DocumentRecord, error) {
	var doc domain.DocumentRecord
	err := r.db.GetContext(ctx, &doc,
		"SELECT "+documentColumns+" FROM documents WHERE id = $1 AND tenant_id = $2", docID, tenantID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("documentRepo.GetByID: %w", err)
	}
	return &doc, nil
}

func (r *documentRepo) MarkProcessing(ctx context.Context, tenantID, docID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE documents SET status = $3, updated_at = $4
		 WHERE id = $1 AND tenant_id = $2`,
		docID, tenantID, domain.DocumentStatusProcessing, r.now())
	if err != nil {
		return fmt.Errorf("documentRepo.MarkProcessing: %w", err)
	}
	return requireRow(result, "documentRepo.MarkProcessing")
}

func (r *documentRepo) SaveAnalysis(ctx context.Context, tenantID, docID uuid.UUID, u *domain.DocumentAnalysisUpdate) error {
	extracted, err := json.Marshal(u.ExtractedData)
	if err != nil {
		return fmt.Errorf("documentRepo.SaveAnalysis marshal fields: %w", err)
	}
	analysis, err := json.Marshal(u.AIAnalysis)
	if err != nil {
		return fmt.Errorf("documentRepo.SaveAnalysis marshal analysis: %w", err)
	}
	metadata, err := json.Marshal(u.Metadata)
	if err != nil {
		return fmt.Errorf("documentRepo.SaveAnalysis marshal metadata: %w", err)
	}

	now := r.now()
	result, err := r.db.ExecContext(ctx,
		`UPDATE documents SET
			status = $3, confidence = $4,
			extracted_data = $5, extracted_text = $6, ai_analysis = $7, metadata = $8,
			document_number = $9, issuer = $10, holder_name = $11, holder_id = $12,
			amount = $13, issue_date = $14, expiry_date = $15,
			processed_at = $16, updated_at = $16
		 WHERE id = $1 AND tenant_id = $2`,
		docID, tenantID, u.Status, u.Confidence,
		json.RawMessage(extracted), u.ExtractedText, json.RawMessage(analysis), json.RawMessage(metadata),
		nullString(u.DocumentNumber), nullString(u.Issuer), nullString(u.HolderName), nullString(u.HolderID),
		u.Amount, nullDate(u.IssueDate), nullDate(u.ExpiryDate),
		now)
	if err != nil {
		return fmt.Errorf("documentRepo.SaveAnalysis: %w", err)
	}
	return requireRow(result, "documentRepo.SaveAnalysis")
}

func requireRow(result sql.Result, op string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", op, err)
	}
	if n == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// nullDate keeps only real calendar dates; the extractor accepts day 31 for
// any month, which the DATE column would reject.
func nullDate(s string) sql.NullString {
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
