package documents

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"bhulekh/internal/domain"
	"bhulekh/internal/platform/metrics"
)

const (
	pdfGuidanceText   = "PDF uploaded. Text extraction for PDFs requires conversion to images before OCR; upload page scans for automatic extraction."
	unsupportedText   = "Unsupported file type for automatic text extraction."
	defaultOCRTimeout = 60 * time.Second
)

// Pipeline runs text extraction asynchronously. Uploads enqueue a document ID;
// a fixed pool of workers drives each document through
// pending→processing→{completed,failed}.
type Pipeline struct {
	store     Store
	extractor Extractor
	metrics   *metrics.Metrics
	logger    *slog.Logger

	queue   chan string
	workers int
	timeout time.Duration
}

func NewPipeline(store Store, extractor Extractor, m *metrics.Metrics, logger *slog.Logger, workers, queueSize int, timeout time.Duration) *Pipeline {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}
	if timeout <= 0 {
		timeout = defaultOCRTimeout
	}
	return &Pipeline{
		store:     store,
		extractor: extractor,
		metrics:   m,
		logger:    logger,
		queue:     make(chan string, queueSize),
		workers:   workers,
		timeout:   timeout,
	}
}

// Enqueue schedules a document for extraction. It reports false when the
// queue is full; the document stays pending and can be retried.
func (p *Pipeline) Enqueue(id string) bool {
	select {
	case p.queue <- id:
		return true
	default:
		p.logger.Warn("ocr queue full, document left pending", "document_id", id)
		return false
	}
}

// Run blocks until ctx is canceled, processing queued documents with the
// configured worker count. Documents still pending from a previous process
// (queued work does not survive restarts) are re-enqueued first.
func (p *Pipeline) Run(ctx context.Context) error {
	p.recoverPending(ctx)

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < p.workers; i++ {
		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case id := <-p.queue:
					p.process(ctx, id)
				}
			}
		})
	}
	return g.Wait()
}

// recoverPending schedules every pending document. Anything beyond queue
// capacity stays pending and reachable through the retry endpoint.
func (p *Pipeline) recoverPending(ctx context.Context) {
	docs, err := p.store.List(ctx, Filter{OCRStatus: domain.OCRPending})
	if err != nil {
		p.logger.Error("ocr recovery scan failed", "error", err)
		return
	}
	for i, doc := range docs {
		if !p.Enqueue(doc.ID) {
			p.logger.Warn("ocr recovery stopped, queue full", "requeued", i, "pending", len(docs))
			return
		}
	}
	if len(docs) > 0 {
		p.logger.Info("ocr recovery requeued pending documents", "count", len(docs))
	}
}

func (p *Pipeline) process(ctx context.Context, id string) {
	doc, err := p.store.FindByID(ctx, id)
	if err != nil {
		p.logger.Error("ocr load failed", "document_id", id, "error", err)
		return
	}
	if !domain.CanTransitionOCR(doc.OCRStatus, domain.OCRProcessing) {
		p.logger.Warn("ocr skipped, document not pending", "document_id", id, "status", doc.OCRStatus)
		return
	}

	doc.OCRStatus = domain.OCRProcessing
	doc.UpdatedAt = time.Now().UTC()
	if err := p.store.Update(ctx, doc); err != nil {
		p.logger.Error("ocr transition failed", "document_id", id, "error", err)
		return
	}

	started := time.Now()
	text, confidence, err := p.extract(ctx, doc)
	if err != nil {
		doc.OCRStatus = domain.OCRFailed
		doc.OCRText = p.failureReason(err)
		doc.Confidence = 0
		doc.UpdatedAt = time.Now().UTC()
		if uerr := p.store.Update(ctx, doc); uerr != nil {
			p.logger.Error("ocr failure persist failed", "document_id", id, "error", uerr)
		}
		p.countJob("failed", started)
		p.logger.Error("ocr extraction failed", "document_id", id, "error", err)
		return
	}

	doc.OCRStatus = domain.OCRCompleted
	doc.OCRText = text
	doc.Confidence = confidence
	doc.ExtractedFields = heuristicFields(text)
	doc.UpdatedAt = time.Now().UTC()
	if err := p.store.Update(ctx, doc); err != nil {
		p.logger.Error("ocr result persist failed", "document_id", id, "error", err)
		return
	}
	p.countJob("completed", started)
	p.logger.Info("ocr completed", "document_id", id, "confidence", confidence, "chars", len(text))
}

func (p *Pipeline) extract(ctx context.Context, doc domain.Document) (string, float64, error) {
	switch doc.MimeType {
	case "image/jpeg", "image/png", "image/tiff":
		ctx, cancel := context.WithTimeout(ctx, p.timeout)
		defer cancel()
		return p.extractor.ExtractText(ctx, doc.Content, doc.MimeType)
	case "application/pdf":
		return pdfGuidanceText, 0, nil
	default:
		return unsupportedText, 0, nil
	}
}

// failureReason is what reviewers see in the text field of a failed
// document, in place of extracted text.
func (p *Pipeline) failureReason(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Sprintf("OCR processing failed: timed out after %s", p.timeout)
	}
	return "OCR processing failed: " + err.Error()
}

func (p *Pipeline) countJob(status string, started time.Time) {
	if p.metrics == nil {
		return
	}
	p.metrics.OCRJobs.WithLabelValues(status).Inc()
	p.metrics.OCRDuration.Observe(time.Since(started).Seconds())
}

// heuristicFields derives coarse classification hints from extracted text.
// Reviewers correct or extend these during verification.
func heuristicFields(text string) map[string]string {
	lower := strings.ToLower(text)
	fields := map[string]string{}
	if strings.Contains(lower, "claim") {
		fields["document_type"] = "claim_document"
	}
	if strings.Contains(lower, "forest") || strings.Contains(lower, "land") {
		fields["category"] = "forest_rights"
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}
