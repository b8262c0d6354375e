package analysis

import (
	"time"

	"signflow-backend/internal/compliance"
)

// DocumentType is the coarse category label driving downstream defaults.
type DocumentType string

const (
	TypeServiceAgreement     DocumentType = "service_agreement"
	TypeNDA                  DocumentType = "nda"
	TypePartnershipAgreement DocumentType = "partnership_agreement"
	TypeEmploymentContract   DocumentType = "employment_contract"
	TypePurchaseOrder        DocumentType = "purchase_order"
	TypeInvoice              DocumentType = "invoice"
	TypeLegalDocument        DocumentType = "legal_document"
	TypeUnknown              DocumentType = "unknown"
)

// AllDocumentTypes lists every classifiable label in fixed order. The order is
// the keyword-fallback tie-break.
var AllDocumentTypes = []DocumentType{
	TypeServiceAgreement,
	TypeNDA,
	TypePartnershipAgreement,
	TypeEmploymentContract,
	TypePurchaseOrder,
	TypeInvoice,
	TypeLegalDocument,
}

// IsMultiParty reports whether a document type conventionally carries two or
// more counter-signing parties.
func (t DocumentType) IsMultiParty() bool {
	return t == TypePartnershipAgreement || t == TypeServiceAgreement
}

// Context is the caller-owned, immutable per-request input.
type Context struct {
	UserID      string            `json:"userId"`
	DocumentID  string            `json:"documentId,omitempty"`
	UserRole    string            `json:"userRole,omitempty"`
	Preferences map[string]string `json:"preferences,omitempty"`
}

// Classification is a document-type label with a confidence in [0,1].
type Classification struct {
	Type       DocumentType `json:"type"`
	Confidence float64      `json:"confidence"`
}

// FieldType enumerates placeable signing-field kinds.
type FieldType string

const (
	FieldSignature FieldType = "signature"
	FieldInitial   FieldType = "initial"
	FieldDate      FieldType = "date"
	FieldText      FieldType = "text"
	FieldCheckbox  FieldType = "checkbox"
	FieldRadio     FieldType = "radio"
)

// DetectedField is a proposed field placement. Coordinates are normalized to
// the page (0..1). Confidence values are provisional hints, not verified
// placements.
type DetectedField struct {
	Page          int       `json:"page"`
	X             float64   `json:"x"`
	Y             float64   `json:"y"`
	Width         float64   `json:"width"`
	Height        float64   `json:"height"`
	Type          FieldType `json:"type"`
	Confidence    float64   `json:"confidence"`
	SuggestedRole string    `json:"suggestedRole"`
	SourceText    string    `json:"sourceText,omitempty"`
}

// RiskFactor flags a likelihood of trouble in one dimension.
type RiskFactor struct {
	Type        string `json:"type"` // legal, security, completion, compliance
	Severity    string `json:"severity"`
	Description string `json:"description"`
	Mitigation  string `json:"mitigation,omitempty"`
}

// Recommendation is an actionable suggestion derived from the analysis.
type Recommendation struct {
	Type            string `json:"type"` // optimization, compliance, security, workflow
	Priority        string `json:"priority"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	ActionRequired  bool   `json:"actionRequired"`
	SuggestedAction string `json:"suggestedAction,omitempty"`
}

// Result is the immutable aggregate of one document analysis. Re-analysis
// always produces a new Result.
type Result struct {
	ID                       string            `json:"id"`
	DocumentID               string            `json:"documentId,omitempty"`
	Classification           Classification    `json:"classification"`
	Fields                   []DetectedField   `json:"fields"`
	Summary                  string            `json:"summary"`
	Compliance               compliance.Result `json:"compliance"`
	RiskFactors              []RiskFactor      `json:"riskFactors"`
	Recommendations          []Recommendation  `json:"recommendations"`
	EstimatedCompletionHours float64           `json:"estimatedCompletionHours"`
	FallbackUsed             bool              `json:"fallbackUsed"`
	AnalyzedAt               time.Time         `json:"analyzedAt"`
	DurationMS               int64             `json:"durationMs"`
}
