package compliance

import "signflow-backend/internal/extract"

// Severity grades how much a rule contributes to the weighted score.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// CheckStatus is the outcome of a single rule evaluation.
type CheckStatus string

const (
	CheckPassed        CheckStatus = "passed"
	CheckFailed        CheckStatus = "failed"
	CheckWarning       CheckStatus = "warning"
	CheckNotApplicable CheckStatus = "not_applicable"
)

// Status is the aggregate compliance verdict for a document.
type Status string

const (
	StatusCompliant    Status = "compliant"
	StatusNonCompliant Status = "non_compliant"
	StatusNeedsReview  Status = "needs_review"
	StatusUnknown      Status = "unknown"
)

// Check is one evaluated rule. Immutable once produced.
type Check struct {
	ID             string      `json:"id"`
	Name           string      `json:"name"`
	Citation       string      `json:"citation"`
	Severity       Severity    `json:"severity"`
	Status         CheckStatus `json:"status"`
	Message        string      `json:"message"`
	Recommendation string      `json:"recommendation,omitempty"`
}

// Result aggregates every evaluated check into a score and verdict.
type Result struct {
	Status          Status   `json:"status"`
	Score           int      `json:"score"`
	Checks          []Check  `json:"checks"`
	Issues          []string `json:"issues"`
	Recommendations []string `json:"recommendations"`
}

// Input carries everything a rule may inspect. Rules must not mutate it.
type Input struct {
	Content      extract.Content
	DocumentType string
	UserRole     string
}
