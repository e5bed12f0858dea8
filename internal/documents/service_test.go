package documents

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bhulekh/internal/domain"
	"bhulekh/pkg/apperrors"
	"bhulekh/pkg/requestcontext"
)

type recordedAudit struct {
	ActorID    string
	Action     string
	ResourceID string
}

type fakeAuditor struct {
	entries []recordedAudit
}

func (f *fakeAuditor) Record(_ context.Context, actorID, action, _, resourceID string, _ map[string]domain.FieldChange) {
	f.entries = append(f.entries, recordedAudit{ActorID: actorID, Action: action, ResourceID: resourceID})
}

type fakeEnqueuer struct {
	ids []string
}

func (f *fakeEnqueuer) Enqueue(id string) bool {
	f.ids = append(f.ids, id)
	return true
}

var reviewer = domain.User{ID: "u-reviewer", Username: "district.officer", Role: domain.RoleDistrict, Active: true}

func newTestService(t *testing.T) (*Service, *InMemoryStore, *fakeEnqueuer, *fakeAuditor) {
	t.Helper()
	store := NewInMemoryStore()
	queue := &fakeEnqueuer{}
	auditor := &fakeAuditor{}
	return NewService(store, queue, auditor), store, queue, auditor
}

func actorCtx(actor domain.User) context.Context {
	ctx := requestcontext.WithActor(context.Background(), actor)
	return requestcontext.WithTime(ctx, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
}

func TestIngest_QueuesPendingDocument(t *testing.T) {
	svc, _, queue, auditor := newTestService(t)

	doc, err := svc.Ingest(actorCtx(reviewer), IngestInput{
		OriginalFilename: "patta.jpg",
		MimeType:         "image/jpeg",
		Content:          []byte("jpeg bytes"),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.OCRPending, doc.OCRStatus)
	assert.Equal(t, domain.ReviewPending, doc.ReviewStatus)
	assert.Equal(t, reviewer.ID, doc.UploadedBy)
	assert.Equal(t, doc.ID+".jpg", doc.Filename)
	assert.Equal(t, []string{doc.ID}, queue.ids)

	require.Len(t, auditor.entries, 1)
	assert.Equal(t, "upload_document", auditor.entries[0].Action)
}

func TestIngest_RejectsDisallowedType(t *testing.T) {
	svc, _, queue, _ := newTestService(t)

	_, err := svc.Ingest(actorCtx(reviewer), IngestInput{
		OriginalFilename: "macro.xlsm",
		MimeType:         "application/vnd.ms-excel",
		Content:          []byte("spreadsheet"),
	})
	assert.True(t, apperrors.Is(err, apperrors.CodeValidation))
	assert.Empty(t, queue.ids)
}

func TestIngest_RejectsEmptyFile(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.Ingest(actorCtx(reviewer), IngestInput{
		OriginalFilename: "empty.png",
		MimeType:         "image/png",
	})
	assert.True(t, apperrors.Is(err, apperrors.CodeValidation))
}

func TestReview_OnlyAfterCompletion(t *testing.T) {
	svc, store, _, _ := newTestService(t)
	ctx := actorCtx(reviewer)

	doc, err := svc.Ingest(ctx, IngestInput{
		OriginalFilename: "patta.jpg", MimeType: "image/jpeg", Content: []byte("x"),
	})
	require.NoError(t, err)

	_, err = svc.Review(ctx, doc.ID, ReviewInput{Decision: domain.ReviewApproved})
	assert.True(t, apperrors.Is(err, apperrors.CodeConflict))

	doc.OCRStatus = domain.OCRCompleted
	doc.OCRText = "FOREST LAND CLAIM"
	require.NoError(t, store.Update(ctx, doc))

	reviewed, err := svc.Review(ctx, doc.ID, ReviewInput{Decision: domain.ReviewApproved})
	require.NoError(t, err)
	assert.Equal(t, domain.ReviewApproved, reviewed.ReviewStatus)
	require.NotNil(t, reviewed.ReviewedBy)
	assert.Equal(t, reviewer.ID, *reviewed.ReviewedBy)
}

func TestReview_PartialUpdateSemantics(t *testing.T) {
	svc, store, _, auditor := newTestService(t)
	ctx := actorCtx(reviewer)

	doc, err := svc.Ingest(ctx, IngestInput{
		OriginalFilename: "patta.jpg", MimeType: "image/jpeg", Content: []byte("x"),
	})
	require.NoError(t, err)
	doc.OCRStatus = domain.OCRCompleted
	doc.OCRText = "original text"
	doc.ExtractedFields = map[string]string{"document_type": "claim_document"}
	require.NoError(t, store.Update(ctx, doc))

	// omitted text keeps prior value; fields are replaced
	reviewed, err := svc.Review(ctx, doc.ID, ReviewInput{
		ExtractedFields: map[string]string{"document_type": "patta"},
		Decision:        domain.ReviewApproved,
	})
	require.NoError(t, err)
	assert.Equal(t, "original text", reviewed.OCRText)
	assert.Equal(t, "patta", reviewed.ExtractedFields["document_type"])

	var actions []string
	for _, e := range auditor.entries {
		actions = append(actions, e.Action)
	}
	assert.Contains(t, actions, "correct_ocr")
}

func TestReview_InvalidDecision(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	_, err := svc.Review(actorCtx(reviewer), "whatever", ReviewInput{Decision: domain.ReviewStatus("maybe")})
	assert.True(t, apperrors.Is(err, apperrors.CodeValidation))
}

func TestListPendingReview_IsTheReviewerQueue(t *testing.T) {
	svc, store, _, _ := newTestService(t)
	ctx := actorCtx(reviewer)

	completed, err := svc.Ingest(ctx, IngestInput{OriginalFilename: "a.jpg", MimeType: "image/jpeg", Content: []byte("a")})
	require.NoError(t, err)
	completed.OCRStatus = domain.OCRCompleted
	require.NoError(t, store.Update(ctx, completed))

	pending, err := svc.Ingest(ctx, IngestInput{OriginalFilename: "b.jpg", MimeType: "image/jpeg", Content: []byte("b")})
	require.NoError(t, err)
	_ = pending

	queue, err := svc.ListPendingReview(ctx)
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.Equal(t, completed.ID, queue[0].ID)
}

func TestDownload_MissingContent(t *testing.T) {
	svc, store, _, _ := newTestService(t)
	ctx := actorCtx(reviewer)

	require.NoError(t, store.Create(ctx, domain.Document{ID: "no-content", OCRStatus: domain.OCRPending}))
	_, err := svc.Download(ctx, "no-content")
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))

	_, err = svc.Download(ctx, "missing")
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
}

func TestRetry_FromFailed(t *testing.T) {
	svc, store, queue, auditor := newTestService(t)
	ctx := actorCtx(reviewer)

	doc, err := svc.Ingest(ctx, IngestInput{OriginalFilename: "a.jpg", MimeType: "image/jpeg", Content: []byte("a")})
	require.NoError(t, err)

	doc.OCRStatus = domain.OCRFailed
	require.NoError(t, store.Update(ctx, doc))

	retried, err := svc.Retry(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OCRPending, retried.OCRStatus)
	assert.Equal(t, []string{doc.ID, doc.ID}, queue.ids)

	var actions []string
	for _, e := range auditor.entries {
		actions = append(actions, e.Action)
	}
	assert.Contains(t, actions, "retry_ocr")
}

func TestRetry_StuckPendingIsReenqueued(t *testing.T) {
	svc, store, queue, auditor := newTestService(t)
	ctx := actorCtx(reviewer)

	doc, err := svc.Ingest(ctx, IngestInput{OriginalFilename: "a.jpg", MimeType: "image/jpeg", Content: []byte("a")})
	require.NoError(t, err)

	// a full queue at upload time leaves the document pending with no worker
	// coming for it; retry must be able to schedule it again
	retried, err := svc.Retry(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OCRPending, retried.OCRStatus)
	assert.Equal(t, []string{doc.ID, doc.ID}, queue.ids)

	stored, err := store.FindByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OCRPending, stored.OCRStatus)

	var actions []string
	for _, e := range auditor.entries {
		actions = append(actions, e.Action)
	}
	assert.Contains(t, actions, "retry_ocr")
}

func TestRetry_CompletedConflicts(t *testing.T) {
	svc, store, queue, _ := newTestService(t)
	ctx := actorCtx(reviewer)

	doc, err := svc.Ingest(ctx, IngestInput{OriginalFilename: "a.jpg", MimeType: "image/jpeg", Content: []byte("a")})
	require.NoError(t, err)

	doc.OCRStatus = domain.OCRCompleted
	require.NoError(t, store.Update(ctx, doc))

	_, err = svc.Retry(ctx, doc.ID)
	assert.True(t, apperrors.Is(err, apperrors.CodeConflict))
	assert.Equal(t, []string{doc.ID}, queue.ids)
}
