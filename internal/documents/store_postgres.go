package documents

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"bhulekh/internal/domain"
)

// PostgresStore persists documents with their content inline. Listings omit
// the content column so index pages stay cheap.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const documentColumns = `id, claim_id, filename, original_filename, mime_type, size_bytes,
	ocr_status, ocr_text, extracted_fields, confidence, review_status,
	reviewed_by, uploaded_by, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, doc domain.Document) error {
	fields, err := encodeFields(doc.ExtractedFields)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO documents (` + documentColumns + `, content)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err = s.db.ExecContext(ctx, query,
		doc.ID,
		doc.ClaimID,
		doc.Filename,
		doc.OriginalFilename,
		doc.MimeType,
		doc.SizeBytes,
		string(doc.OCRStatus),
		doc.OCRText,
		fields,
		doc.Confidence,
		string(doc.ReviewStatus),
		doc.ReviewedBy,
		doc.UploadedBy,
		doc.CreatedAt,
		doc.UpdatedAt,
		doc.Content,
	)
	if err != nil {
		return fmt.Errorf("create document: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, id string) (domain.Document, error) {
	query := `SELECT ` + documentColumns + `, content FROM documents WHERE id = $1`
	row := s.db.QueryRowContext(ctx, query, id)

	var doc domain.Document
	var ocrStatus, reviewStatus string
	var ocrText sql.NullString
	var fields []byte
	err := row.Scan(
		&doc.ID,
		&doc.ClaimID,
		&doc.Filename,
		&doc.OriginalFilename,
		&doc.MimeType,
		&doc.SizeBytes,
		&ocrStatus,
		&ocrText,
		&fields,
		&doc.Confidence,
		&reviewStatus,
		&doc.ReviewedBy,
		&doc.UploadedBy,
		&doc.CreatedAt,
		&doc.UpdatedAt,
		&doc.Content,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Document{}, ErrNotFound
		}
		return domain.Document{}, fmt.Errorf("find document: %w", err)
	}
	doc.OCRStatus = domain.OCRStatus(ocrStatus)
	doc.ReviewStatus = domain.ReviewStatus(reviewStatus)
	doc.OCRText = ocrText.String
	if err := decodeFields(fields, &doc); err != nil {
		return domain.Document{}, err
	}
	return doc, nil
}

func (s *PostgresStore) Update(ctx context.Context, doc domain.Document) error {
	fields, err := encodeFields(doc.ExtractedFields)
	if err != nil {
		return err
	}
	query := `
		UPDATE documents SET
			claim_id = $2, ocr_status = $3, ocr_text = $4, extracted_fields = $5,
			confidence = $6, review_status = $7, reviewed_by = $8, updated_at = $9
		WHERE id = $1
	`
	res, err := s.db.ExecContext(ctx, query,
		doc.ID,
		doc.ClaimID,
		string(doc.OCRStatus),
		doc.OCRText,
		fields,
		doc.Confidence,
		string(doc.ReviewStatus),
		doc.ReviewedBy,
		doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context, f Filter) ([]domain.Document, error) {
	query := `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE ($1 = '' OR claim_id = $1)
		  AND ($2 = '' OR ocr_status = $2)
		ORDER BY created_at
	`
	return s.queryDocuments(ctx, query, f.ClaimID, string(f.OCRStatus))
}

func (s *PostgresStore) ListPendingReview(ctx context.Context) ([]domain.Document, error) {
	query := `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE ocr_status = 'completed' AND review_status = 'pending'
		ORDER BY created_at
	`
	return s.queryDocuments(ctx, query)
}

func (s *PostgresStore) queryDocuments(ctx context.Context, query string, args ...any) ([]domain.Document, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		var doc domain.Document
		var ocrStatus, reviewStatus string
		var ocrText sql.NullString
		var fields []byte
		err := rows.Scan(
			&doc.ID,
			&doc.ClaimID,
			&doc.Filename,
			&doc.OriginalFilename,
			&doc.MimeType,
			&doc.SizeBytes,
			&ocrStatus,
			&ocrText,
			&fields,
			&doc.Confidence,
			&reviewStatus,
			&doc.ReviewedBy,
			&doc.UploadedBy,
			&doc.CreatedAt,
			&doc.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		doc.OCRStatus = domain.OCRStatus(ocrStatus)
		doc.ReviewStatus = domain.ReviewStatus(reviewStatus)
		doc.OCRText = ocrText.String
		if err := decodeFields(fields, &doc); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

func encodeFields(fields map[string]string) ([]byte, error) {
	if len(fields) == 0 {
		return nil, nil
	}
	encoded, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("encode extracted fields: %w", err)
	}
	return encoded, nil
}

func decodeFields(raw []byte, doc *domain.Document) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, &doc.ExtractedFields); err != nil {
		return fmt.Errorf("decode extracted fields: %w", err)
	}
	return nil
}
