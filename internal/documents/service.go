// Package documents owns evidence uploads and their extraction pipeline:
// intake, asynchronous OCR, human review of extracted text, and retries.
package documents

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"bhulekh/internal/domain"
	"bhulekh/pkg/apperrors"
	"bhulekh/pkg/requestcontext"
)

// Auditor records authorized mutations. Recording never fails the caller.
type Auditor interface {
	Record(ctx context.Context, actorID, action, resourceType, resourceID string, changes map[string]domain.FieldChange)
}

// Enqueuer hands a stored document to the extraction pipeline.
type Enqueuer interface {
	Enqueue(id string) bool
}

// allowedMimeTypes is the upload allow-list. Anything else is rejected at
// intake, before any bytes are persisted.
var allowedMimeTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/tiff":      true,
	"application/pdf": true,
}

const maxUploadBytes = 16 << 20

type Service struct {
	store    Store
	pipeline Enqueuer
	audit    Auditor
}

func NewService(store Store, pipeline Enqueuer, audit Auditor) *Service {
	return &Service{store: store, pipeline: pipeline, audit: audit}
}

// IngestInput is an upload. Content has already been read from the request.
type IngestInput struct {
	ClaimID          *string
	OriginalFilename string
	MimeType         string
	Content          []byte
}

// Ingest stores an upload and queues it for extraction. The response always
// carries ocr_status pending; extraction is asynchronous.
func (s *Service) Ingest(ctx context.Context, in IngestInput) (domain.Document, error) {
	actor, ok := requestcontext.Actor(ctx)
	if !ok {
		return domain.Document{}, apperrors.New(apperrors.CodeUnauthenticated, "authentication required")
	}
	if strings.TrimSpace(in.OriginalFilename) == "" {
		return domain.Document{}, apperrors.New(apperrors.CodeValidation, "filename is required")
	}
	if !allowedMimeTypes[in.MimeType] {
		return domain.Document{}, apperrors.New(apperrors.CodeValidation,
			fmt.Sprintf("file type %s not allowed", in.MimeType))
	}
	if len(in.Content) == 0 {
		return domain.Document{}, apperrors.New(apperrors.CodeValidation, "file is empty")
	}
	if len(in.Content) > maxUploadBytes {
		return domain.Document{}, apperrors.New(apperrors.CodeValidation, "file exceeds maximum size")
	}

	now := requestcontext.Now(ctx)
	id := uuid.NewString()
	doc := domain.Document{
		ID:               id,
		ClaimID:          in.ClaimID,
		Filename:         id + strings.ToLower(filepath.Ext(in.OriginalFilename)),
		OriginalFilename: in.OriginalFilename,
		MimeType:         in.MimeType,
		SizeBytes:        int64(len(in.Content)),
		Content:          in.Content,
		OCRStatus:        domain.OCRPending,
		ReviewStatus:     domain.ReviewPending,
		UploadedBy:       actor.ID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.store.Create(ctx, doc); err != nil {
		return domain.Document{}, apperrors.Wrap(apperrors.CodeInternal, "store document", err)
	}

	s.audit.Record(ctx, actor.ID, "upload_document", "document", doc.ID, map[string]domain.FieldChange{
		"filename": {New: doc.OriginalFilename},
	})
	s.pipeline.Enqueue(doc.ID)
	return doc, nil
}

func (s *Service) Get(ctx context.Context, id string) (domain.Document, error) {
	return s.store.FindByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f Filter) ([]domain.Document, error) {
	docs, err := s.store.List(ctx, f)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "list documents", err)
	}
	return docs, nil
}

// Download returns the document with its stored bytes. Documents persisted
// without content report not found rather than serving an empty body.
func (s *Service) Download(ctx context.Context, id string) (domain.Document, error) {
	doc, err := s.store.FindByID(ctx, id)
	if err != nil {
		return domain.Document{}, err
	}
	if len(doc.Content) == 0 {
		return domain.Document{}, apperrors.New(apperrors.CodeNotFound, "document content not available")
	}
	return doc, nil
}

func (s *Service) ListPendingReview(ctx context.Context) ([]domain.Document, error) {
	docs, err := s.store.ListPendingReview(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "list pending review", err)
	}
	return docs, nil
}

// ReviewInput is a human correction of extracted data. Nil fields are left
// unchanged.
type ReviewInput struct {
	OCRText         *string
	ExtractedFields map[string]string
	Decision        domain.ReviewStatus
}

// Review applies a reviewer's corrections and decision. A document can only
// be reviewed once extraction has completed.
func (s *Service) Review(ctx context.Context, id string, in ReviewInput) (domain.Document, error) {
	actor, ok := requestcontext.Actor(ctx)
	if !ok {
		return domain.Document{}, apperrors.New(apperrors.CodeUnauthenticated, "authentication required")
	}
	if !domain.ValidReviewDecision(in.Decision) {
		return domain.Document{}, apperrors.New(apperrors.CodeValidation, "decision must be approved or rejected")
	}

	doc, err := s.store.FindByID(ctx, id)
	if err != nil {
		return domain.Document{}, err
	}
	if doc.OCRStatus != domain.OCRCompleted {
		return domain.Document{}, apperrors.New(apperrors.CodeConflict,
			fmt.Sprintf("document cannot be reviewed while ocr is %s", doc.OCRStatus))
	}

	changes := map[string]domain.FieldChange{
		"review_status": {Old: string(doc.ReviewStatus), New: string(in.Decision)},
	}
	if in.OCRText != nil && *in.OCRText != doc.OCRText {
		changes["ocr_text"] = domain.FieldChange{Old: doc.OCRText, New: *in.OCRText}
		doc.OCRText = *in.OCRText
	}
	if in.ExtractedFields != nil {
		changes["extracted_fields"] = domain.FieldChange{Old: doc.ExtractedFields, New: in.ExtractedFields}
		doc.ExtractedFields = in.ExtractedFields
	}
	doc.ReviewStatus = in.Decision
	doc.ReviewedBy = &actor.ID
	doc.UpdatedAt = requestcontext.Now(ctx)

	if err := s.store.Update(ctx, doc); err != nil {
		return domain.Document{}, apperrors.Wrap(apperrors.CodeInternal, "update document", err)
	}
	s.audit.Record(ctx, actor.ID, "correct_ocr", "document", doc.ID, changes)
	return doc, nil
}

// Retry re-queues extraction. A failed document transitions back to pending;
// a document stuck at pending (queue was full, or queued work was lost in a
// restart) is re-enqueued as-is. Nothing else re-enters the pipeline.
func (s *Service) Retry(ctx context.Context, id string) (domain.Document, error) {
	actor, ok := requestcontext.Actor(ctx)
	if !ok {
		return domain.Document{}, apperrors.New(apperrors.CodeUnauthenticated, "authentication required")
	}
	doc, err := s.store.FindByID(ctx, id)
	if err != nil {
		return domain.Document{}, err
	}
	if doc.OCRStatus == domain.OCRPending {
		s.audit.Record(ctx, actor.ID, "retry_ocr", "document", doc.ID, map[string]domain.FieldChange{
			"ocr_status": {Old: string(domain.OCRPending), New: string(domain.OCRPending)},
		})
		s.pipeline.Enqueue(doc.ID)
		return doc, nil
	}
	if !domain.CanTransitionOCR(doc.OCRStatus, domain.OCRPending) {
		return domain.Document{}, apperrors.New(apperrors.CodeConflict,
			fmt.Sprintf("only failed or pending documents can be retried, ocr status is %s", doc.OCRStatus))
	}

	doc.OCRStatus = domain.OCRPending
	doc.UpdatedAt = requestcontext.Now(ctx)
	if err := s.store.Update(ctx, doc); err != nil {
		return domain.Document{}, apperrors.Wrap(apperrors.CodeInternal, "update document", err)
	}
	s.audit.Record(ctx, actor.ID, "retry_ocr", "document", doc.ID, map[string]domain.FieldChange{
		"ocr_status": {Old: string(domain.OCRFailed), New: string(domain.OCRPending)},
	})
	s.pipeline.Enqueue(doc.ID)
	return doc, nil
}
