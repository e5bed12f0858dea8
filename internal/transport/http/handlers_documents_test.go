package httptransport

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"bhulekh/internal/documents"
	"bhulekh/internal/domain"
	"bhulekh/internal/transport/http/mocks"
	"bhulekh/pkg/apperrors"
	"bhulekh/pkg/testutil"
)

//go:generate mockgen -source=handlers_documents.go -destination=mocks/documents-mocks.go -package=mocks DocumentService

func newDocumentRouter(t *testing.T) (*mocks.MockDocumentService, chi.Router) {
	ctrl := gomock.NewController(t)
	service := mocks.NewMockDocumentService(ctrl)
	handler := NewDocumentHandler(service)

	r := chi.NewRouter()
	r.Post("/documents/upload", handler.HandleUpload)
	r.Get("/documents", handler.HandleList)
	r.Get("/documents/{id}/download", handler.HandleDownload)
	r.Get("/ocr-review", handler.HandlePendingReview)
	r.Post("/documents/{id}/correct-ocr", handler.HandleReview)
	r.Post("/documents/{id}/retry-ocr", handler.HandleRetry)
	return service, r
}

func uploadRequest(t *testing.T, filename, mimeType string, content []byte, claimID string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if claimID != "" {
		require.NoError(t, mw.WriteField("claimId", claimID))
	}
	part, err := mw.CreatePart(map[string][]string{
		"Content-Disposition": {`form-data; name="file"; filename="` + filename + `"`},
		"Content-Type":        {mimeType},
	})
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/documents/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestHandleUpload(t *testing.T) {
	service, router := newDocumentRouter(t)

	service.EXPECT().
		Ingest(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, in documents.IngestInput) (domain.Document, error) {
			require.NotNil(t, in.ClaimID)
			assert.Equal(t, "c1", *in.ClaimID)
			assert.Equal(t, "patta.jpg", in.OriginalFilename)
			assert.Equal(t, "image/jpeg", in.MimeType)
			assert.Equal(t, []byte("jpeg-bytes"), in.Content)
			return domain.Document{ID: "d1", OCRStatus: domain.OCRPending}, nil
		})

	rr := testutil.DoRequest(router, uploadRequest(t, "patta.jpg", "image/jpeg", []byte("jpeg-bytes"), "c1"))

	testutil.AssertStatus(t, rr, http.StatusCreated)
	body := testutil.UnmarshalResponse[map[string]any](t, rr)
	assert.Equal(t, "d1", (*body)["id"])
	assert.Equal(t, "pending", (*body)["ocrStatus"])
}

func TestHandleUpload_MissingFile(t *testing.T) {
	service, router := newDocumentRouter(t)
	service.EXPECT().Ingest(gomock.Any(), gomock.Any()).Times(0)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("claimId", "c1"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/documents/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := testutil.DoRequest(router, req)

	testutil.AssertStatus(t, rr, http.StatusBadRequest)
	testutil.AssertErrorMessage(t, rr, "file field is required")
}

func TestHandleList_ForwardsFilters(t *testing.T) {
	service, router := newDocumentRouter(t)

	service.EXPECT().
		List(gomock.Any(), documents.Filter{ClaimID: "c1", OCRStatus: domain.OCRFailed}).
		Return([]domain.Document{{ID: "d1"}}, nil)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/documents?claimId=c1&ocrStatus=failed"))

	testutil.AssertStatus(t, rr, http.StatusOK)
	body := testutil.UnmarshalResponse[map[string]any](t, rr)
	assert.Equal(t, float64(1), (*body)["total"])
}

func TestHandleDownload(t *testing.T) {
	service, router := newDocumentRouter(t)

	service.EXPECT().Download(gomock.Any(), "d1").Return(domain.Document{
		ID:               "d1",
		OriginalFilename: "patta.jpg",
		MimeType:         "image/jpeg",
		Content:          []byte("jpeg-bytes"),
	}, nil)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/documents/d1/download"))

	testutil.AssertStatus(t, rr, http.StatusOK)
	assert.Equal(t, "image/jpeg", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Header().Get("Content-Disposition"), `"patta.jpg"`)
	assert.Equal(t, "jpeg-bytes", rr.Body.String())
}

func TestHandleReview(t *testing.T) {
	service, router := newDocumentRouter(t)

	corrected := "corrected text"
	service.EXPECT().
		Review(gomock.Any(), "d1", gomock.Any()).
		DoAndReturn(func(_ any, _ string, in documents.ReviewInput) (domain.Document, error) {
			require.NotNil(t, in.OCRText)
			assert.Equal(t, corrected, *in.OCRText)
			assert.Equal(t, domain.ReviewApproved, in.Decision)
			return domain.Document{ID: "d1", ReviewStatus: domain.ReviewApproved}, nil
		})

	req := testutil.NewJSONRequest(t, http.MethodPost, "/documents/d1/correct-ocr", map[string]any{
		"ocrText":  corrected,
		"decision": "approved",
	})
	rr := testutil.DoRequest(router, req)

	testutil.AssertStatus(t, rr, http.StatusOK)
	body := testutil.UnmarshalResponse[map[string]any](t, rr)
	assert.Equal(t, "approved", (*body)["reviewStatus"])
}

func TestHandleRetry_ConflictMapsTo409(t *testing.T) {
	service, router := newDocumentRouter(t)

	service.EXPECT().
		Retry(gomock.Any(), "d1").
		Return(domain.Document{}, apperrors.New(apperrors.CodeConflict, "only failed documents can be retried"))

	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/documents/d1/retry-ocr", nil))

	testutil.AssertStatus(t, rr, http.StatusConflict)
	testutil.AssertErrorMessage(t, rr, "only failed documents can be retried")
}
