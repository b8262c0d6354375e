package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"signflow-backend/internal/compliance"
	"signflow-backend/internal/documents"
	"signflow-backend/internal/extract"
	"signflow-backend/internal/shared/metrics"
	"signflow-backend/internal/shared/storage/object"
	"signflow-backend/internal/shared/telemetry"
)

// typeComplexityHours scales the base 24h completion estimate by document type.
var typeComplexityHours = map[DocumentType]float64{
	TypeInvoice:              0.5,
	TypePurchaseOrder:        0.8,
	TypeNDA:                  1.0,
	TypeServiceAgreement:     1.2,
	TypeEmploymentContract:   1.5,
	TypePartnershipAgreement: 2.0,
	TypeLegalDocument:        2.5,
	TypeUnknown:              1.0,
}

// Service orchestrates the document intelligence pipeline. It holds fixed
// tables injected at startup and no per-request state.
type Service struct {
	Repo       Repo
	DocRepo    documents.Repo
	Store      object.ObjectStore
	Classifier *Classifier
	Compliance *compliance.Engine

	now func() time.Time
}

// NewService wires the pipeline components.
func NewService(repo Repo, docRepo documents.Repo, store object.ObjectStore, classifier *Classifier, comp *compliance.Engine) *Service {
	return &Service{
		Repo:       repo,
		DocRepo:    docRepo,
		Store:      store,
		Classifier: classifier,
		Compliance: comp,
		now:        time.Now,
	}
}

// AnalyzeDocument runs the full pipeline for a stored document and persists
// the resulting snapshot. Input errors (missing document, unreadable file) are
// surfaced; knowledge-service failures degrade to the deterministic fallback.
func (s *Service) AnalyzeDocument(ctx context.Context, ownerID, documentID string) (Result, error) {
	if documentID == "" || ownerID == "" {
		return Result{}, fmt.Errorf("documentID and ownerID are required")
	}

	doc, err := s.DocRepo.GetByID(ctx, ownerID, documentID)
	if err != nil {
		return Result{}, fmt.Errorf("document lookup id=%s: %w", documentID, err)
	}

	content, err := extract.FromStore(ctx, s.Store, doc.StorageKey, doc.MimeType, doc.FileName)
	if err != nil {
		return Result{}, fmt.Errorf("document %s mime %s: %w", doc.ID, doc.MimeType, err)
	}

	// Best effort; the analysis does not depend on the derived key being recorded.
	if err := s.DocRepo.UpdateExtraction(ctx, ownerID, documentID, doc.StorageKey+".extracted.txt", s.clock()().UTC()); err != nil {
		telemetry.Error("analysis.extraction_record", map[string]any{
			"document_id": documentID,
			"error":       err.Error(),
		})
	}

	actx := Context{UserID: ownerID, DocumentID: documentID}
	result := s.AnalyzeContent(ctx, content, actx)

	if s.Repo != nil {
		if err := s.Repo.Create(ctx, ownerID, result); err != nil {
			return Result{}, fmt.Errorf("persist analysis: %w", err)
		}
	}
	return result, nil
}

// AnalyzeContent is the pure pipeline core. It always returns a structurally
// valid Result: every dependency failure degrades to a deterministic fallback.
func (s *Service) AnalyzeContent(ctx context.Context, content extract.Content, actx Context) Result {
	started := s.clock()()
	metrics.IncAnalysisStarted()

	classification, fallbackUsed := s.Classifier.Classify(ctx, content.Text, actx)
	if fallbackUsed {
		metrics.IncAnalysisFallback()
	}

	fields := DetectFields(classification)

	comp := s.Compliance.Check(compliance.Input{
		Content:      content,
		DocumentType: string(classification.Type),
		UserRole:     actx.UserRole,
	})

	risks := GenerateRisks(classification, fields, comp, content.Text)
	recs := GenerateRecommendations(classification, fields, comp)

	finished := s.clock()()
	durationMS := finished.Sub(started).Milliseconds()
	metrics.IncAnalysisCompleted()
	metrics.ObserveAnalysisDurationMs(float64(durationMS))

	result := Result{
		ID:                       uuid.NewString(),
		DocumentID:               actx.DocumentID,
		Classification:           classification,
		Fields:                   fields,
		Summary:                  buildSummary(classification, comp, fields, risks),
		Compliance:               comp,
		RiskFactors:              risks,
		Recommendations:          recs,
		EstimatedCompletionHours: estimateCompletionHours(classification, fields),
		FallbackUsed:             fallbackUsed,
		AnalyzedAt:               finished.UTC(),
		DurationMS:               durationMS,
	}

	telemetry.Info("analysis.complete", map[string]any{
		"analysis_id":   result.ID,
		"document_id":   actx.DocumentID,
		"document_type": classification.Type,
		"confidence":    classification.Confidence,
		"compliance":    comp.Status,
		"score":         comp.Score,
		"fallback":      fallbackUsed,
		"duration_ms":   durationMS,
	})
	return result
}

// Get returns a persisted analysis by ID.
func (s *Service) Get(ctx context.Context, analysisID string) (Result, error) {
	if analysisID == "" {
		return Result{}, fmt.Errorf("analysisID is required")
	}
	return s.Repo.GetByID(ctx, analysisID)
}

// List returns analyses for an owner ordered newest-first.
func (s *Service) List(ctx context.Context, ownerID string, limit, offset int) ([]Result, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("ownerID is required")
	}
	return s.Repo.ListByOwner(ctx, ownerID, limit, offset)
}

func (s *Service) clock() func() time.Time {
	if s.now != nil {
		return s.now
	}
	return time.Now
}

func estimateCompletionHours(classification Classification, fields []DetectedField) float64 {
	factor, ok := typeComplexityHours[classification.Type]
	if !ok {
		factor = 1.0
	}
	signatures := 0
	for _, f := range fields {
		if f.Type == FieldSignature {
			signatures++
		}
	}
	if signatures < 1 {
		signatures = 1
	}
	return 24 * factor * (1 + 0.5*float64(signatures-1))
}

func buildSummary(classification Classification, comp compliance.Result, fields []DetectedField, risks []RiskFactor) string {
	return fmt.Sprintf(
		"Classified as %s (confidence %.0f%%). Compliance: %s, score %d/100. %d field placement(s) proposed, %d risk factor(s) identified.",
		classification.Type,
		classification.Confidence*100,
		comp.Status,
		comp.Score,
		len(fields),
		len(risks),
	)
}
