package domain

import "time"

// OCRStatus tracks a document through text extraction. Legal transitions are
// pending→processing→{completed,failed}; a failed document may be re-queued
// back to pending, which is the only sanctioned re-entry.
type OCRStatus string

const (
	OCRPending    OCRStatus = "pending"
	OCRProcessing OCRStatus = "processing"
	OCRCompleted  OCRStatus = "completed"
	OCRFailed     OCRStatus = "failed"
)

// CanTransitionOCR reports whether moving from to next is legal.
func CanTransitionOCR(from, to OCRStatus) bool {
	switch from {
	case OCRPending:
		return to == OCRProcessing
	case OCRProcessing:
		return to == OCRCompleted || to == OCRFailed
	case OCRFailed:
		return to == OCRPending // explicit retry
	}
	return false
}

// ReviewStatus tracks the human correction step. It leaves pending only once
// extraction has completed.
type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "pending"
	ReviewApproved ReviewStatus = "approved"
	ReviewRejected ReviewStatus = "rejected"
)

// ValidReviewDecision reports whether s is an acceptable review outcome.
func ValidReviewDecision(s ReviewStatus) bool {
	return s == ReviewApproved || s == ReviewRejected
}

// Document is an uploaded evidence scan plus its extraction state. Content is
// stored inline; OCR fields are mutated only by the pipeline, review fields
// only by an authorized reviewer.
type Document struct {
	ID               string
	ClaimID          *string
	Filename         string
	OriginalFilename string
	MimeType         string
	SizeBytes        int64
	Content          []byte
	OCRStatus        OCRStatus
	OCRText          string
	ExtractedFields  map[string]string
	Confidence       float64
	ReviewStatus     ReviewStatus
	ReviewedBy       *string
	UploadedBy       string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
