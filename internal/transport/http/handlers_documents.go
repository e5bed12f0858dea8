package httptransport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"bhulekh/internal/documents"
	"bhulekh/internal/domain"
	"bhulekh/pkg/apperrors"
)

type DocumentService interface {
	Ingest(ctx context.Context, in documents.IngestInput) (domain.Document, error)
	Get(ctx context.Context, id string) (domain.Document, error)
	List(ctx context.Context, f documents.Filter) ([]domain.Document, error)
	Download(ctx context.Context, id string) (domain.Document, error)
	ListPendingReview(ctx context.Context) ([]domain.Document, error)
	Review(ctx context.Context, id string, in documents.ReviewInput) (domain.Document, error)
	Retry(ctx context.Context, id string) (domain.Document, error)
}

type DocumentHandler struct {
	docs DocumentService
}

func NewDocumentHandler(service DocumentService) *DocumentHandler {
	return &DocumentHandler{docs: service}
}

func (h *DocumentHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, apperrors.New(apperrors.CodeValidation, "invalid multipart form"))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, apperrors.New(apperrors.CodeValidation, "file field is required"))
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		writeError(w, apperrors.Wrap(apperrors.CodeInternal, "read upload", err))
		return
	}

	var claimID *string
	if v := r.FormValue("claimId"); v != "" {
		claimID = &v
	}
	mimeType := header.Header.Get("Content-Type")

	doc, err := h.docs.Ingest(r.Context(), documents.IngestInput{
		ClaimID:          claimID,
		OriginalFilename: header.Filename,
		MimeType:         mimeType,
		Content:          content,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, documentResponse(doc))
}

func (h *DocumentHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	f := documents.Filter{
		ClaimID:   r.URL.Query().Get("claimId"),
		OCRStatus: domain.OCRStatus(r.URL.Query().Get("ocrStatus")),
	}
	docs, err := h.docs.List(r.Context(), f)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"documents": documentResponses(docs),
		"total":     len(docs),
	})
}

func (h *DocumentHandler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	doc, err := h.docs.Download(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", doc.MimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.OriginalFilename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(doc.Content)))
	_, _ = w.Write(doc.Content)
}

func (h *DocumentHandler) HandlePendingReview(w http.ResponseWriter, r *http.Request) {
	docs, err := h.docs.ListPendingReview(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"documents": documentResponses(docs),
		"total":     len(docs),
	})
}

type reviewRequest struct {
	OCRText         *string             `json:"ocrText"`
	ExtractedFields map[string]string   `json:"extractedFields"`
	Decision        domain.ReviewStatus `json:"decision"`
}

func (h *DocumentHandler) HandleReview(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.New(apperrors.CodeValidation, "invalid request body"))
		return
	}

	doc, err := h.docs.Review(r.Context(), chi.URLParam(r, "id"), documents.ReviewInput{
		OCRText:         req.OCRText,
		ExtractedFields: req.ExtractedFields,
		Decision:        req.Decision,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, documentResponse(doc))
}

func (h *DocumentHandler) HandleRetry(w http.ResponseWriter, r *http.Request) {
	doc, err := h.docs.Retry(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, documentResponse(doc))
}

func documentResponses(docs []domain.Document) []map[string]any {
	out := make([]map[string]any, 0, len(docs))
	for _, doc := range docs {
		out = append(out, documentResponse(doc))
	}
	return out
}

func documentResponse(doc domain.Document) map[string]any {
	out := map[string]any{
		"id":               doc.ID,
		"claimId":          doc.ClaimID,
		"filename":         doc.Filename,
		"originalFilename": doc.OriginalFilename,
		"mimeType":         doc.MimeType,
		"sizeBytes":        doc.SizeBytes,
		"ocrStatus":        string(doc.OCRStatus),
		"ocrText":          doc.OCRText,
		"extractedFields":  doc.ExtractedFields,
		"confidence":       doc.Confidence,
		"reviewStatus":     string(doc.ReviewStatus),
		"uploadedBy":       doc.UploadedBy,
		"createdAt":        doc.CreatedAt,
		"updatedAt":        doc.UpdatedAt,
	}
	if doc.ReviewedBy != nil {
		out["reviewedBy"] = *doc.ReviewedBy
	}
	return out
}
