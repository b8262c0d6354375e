package analysis

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"signflow-backend/internal/compliance"
	"signflow-backend/internal/documents"
	"signflow-backend/internal/extract"
	"signflow-backend/internal/shared/storage/object/local"
)

func newTestService(t *testing.T) (*Service, *documents.MemoryRepo, string) {
	t.Helper()

	store := local.New(t.TempDir())
	docRepo := documents.NewMemoryRepo()
	classifier := mustClassifier(t, nil)
	engine, err := compliance.NewEngine(compliance.Config{})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	svc := NewService(NewMemoryRepo(), docRepo, store, classifier, engine)

	const ownerID = "owner-1"
	body := "This Service Agreement is made between the parties. The service provider shall deliver the services and deliverables described in the scope of work. Signed January 5, 2026."
	key, size, mime, err := store.Save(context.Background(), ownerID, "agreement.txt", strings.NewReader(body))
	if err != nil {
		t.Fatalf("store.Save: %v", err)
	}
	doc := documents.Document{
		ID:         uuid.NewString(),
		OwnerID:    ownerID,
		FileName:   "agreement.txt",
		MimeType:   mime,
		SizeBytes:  size,
		StorageKey: key,
		CreatedAt:  time.Now().UTC(),
	}
	if err := docRepo.Create(context.Background(), doc); err != nil {
		t.Fatalf("docRepo.Create: %v", err)
	}
	return svc, docRepo, doc.ID
}

func TestAnalyzeDocumentFullPipeline(t *testing.T) {
	svc, _, docID := newTestService(t)

	res, err := svc.AnalyzeDocument(context.Background(), "owner-1", docID)
	if err != nil {
		t.Fatalf("AnalyzeDocument: %v", err)
	}

	if res.ID == "" {
		t.Fatalf("expected analysis ID")
	}
	if res.DocumentID != docID {
		t.Fatalf("expected document ID %s, got %s", docID, res.DocumentID)
	}
	if !res.FallbackUsed {
		t.Fatalf("expected fallback classification with no knowledge client")
	}
	if res.Classification.Type != TypeServiceAgreement {
		t.Fatalf("expected service_agreement, got %s", res.Classification.Type)
	}
	if len(res.Compliance.Checks) == 0 {
		t.Fatalf("expected compliance checks to run")
	}
	if len(res.Fields) != 4 {
		t.Fatalf("expected multi-party field set, got %d fields", len(res.Fields))
	}
	if res.Summary == "" {
		t.Fatalf("expected a summary")
	}
	if res.EstimatedCompletionHours <= 0 {
		t.Fatalf("expected positive completion estimate, got %f", res.EstimatedCompletionHours)
	}

	// The snapshot must be retrievable afterwards.
	stored, err := svc.Get(context.Background(), res.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if stored.ID != res.ID {
		t.Fatalf("stored snapshot mismatch")
	}
}

func TestAnalyzeDocumentRecordsExtraction(t *testing.T) {
	svc, docRepo, docID := newTestService(t)

	if _, err := svc.AnalyzeDocument(context.Background(), "owner-1", docID); err != nil {
		t.Fatalf("AnalyzeDocument: %v", err)
	}

	doc, err := docRepo.GetByID(context.Background(), "owner-1", docID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if doc.ExtractedTextKey == "" {
		t.Fatalf("expected extracted text key to be recorded")
	}
	if !strings.HasSuffix(doc.ExtractedTextKey, ".extracted.txt") {
		t.Fatalf("unexpected extracted key %q", doc.ExtractedTextKey)
	}
}

func TestAnalyzeDocumentUnknownDocument(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.AnalyzeDocument(context.Background(), "owner-1", "missing")
	if !errors.Is(err, documents.ErrNotFound) {
		t.Fatalf("expected documents.ErrNotFound, got %v", err)
	}
}

func TestAnalyzeContentAlwaysValid(t *testing.T) {
	svc, _, _ := newTestService(t)

	res := svc.AnalyzeContent(context.Background(), extract.Content{}, Context{UserID: "owner-1"})
	if res.ID == "" {
		t.Fatalf("expected analysis ID for empty content")
	}
	if res.Classification.Type != TypeUnknown {
		t.Fatalf("expected unknown classification, got %s", res.Classification.Type)
	}
	if res.Compliance.Status == "" {
		t.Fatalf("expected a compliance status")
	}
	if len(res.Fields) == 0 {
		t.Fatalf("expected at least one proposed field")
	}
}

func TestEstimateCompletionHours(t *testing.T) {
	single := DetectFields(Classification{Type: TypeInvoice})
	multi := DetectFields(Classification{Type: TypePartnershipAgreement})

	invoice := estimateCompletionHours(Classification{Type: TypeInvoice}, single)
	if invoice != 12 {
		t.Fatalf("expected 12h for an invoice, got %f", invoice)
	}

	partnership := estimateCompletionHours(Classification{Type: TypePartnershipAgreement}, multi)
	if partnership != 72 {
		t.Fatalf("expected 72h for a partnership agreement, got %f", partnership)
	}

	unknown := estimateCompletionHours(Classification{Type: "mystery"}, nil)
	if unknown != 24 {
		t.Fatalf("expected 24h for an unrecognized type, got %f", unknown)
	}
}
