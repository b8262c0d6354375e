package workflow

import (
	"time"

	"signflow-backend/internal/analysis"
)

// Type is the routing topology of a signing workflow.
type Type string

const (
	TypeSequential Type = "sequential"
	TypeParallel   Type = "parallel"
	TypeHybrid     Type = "hybrid"
)

// Urgency is the caller-declared time pressure for a workflow.
type Urgency string

const (
	UrgencyLow    Urgency = "low"
	UrgencyNormal Urgency = "normal"
	UrgencyHigh   Urgency = "high"
)

// Party is one signer or approver in a requested workflow.
type Party struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone,omitempty"`
	Role         string `json:"role"` // signer, approver, witness, cc
	SigningOrder int    `json:"signingOrder,omitempty"`
	Required     bool   `json:"required"`
}

// PartyAnalysis is the per-party scoring output. Priority and Risk are 0..100.
type PartyAnalysis struct {
	PartyID                string  `json:"partyId"`
	Priority               int     `json:"priority"`
	Risk                   int     `json:"risk"`
	EstimatedResponseHours float64 `json:"estimatedResponseHours"`
	PreferredChannel       string  `json:"preferredChannel"` // email or sms
}

// Reminder is a scheduled nudge for one party, offset from workflow start.
// Message is optional; unset means the sender's default template.
type Reminder struct {
	PartyID    string  `json:"partyId"`
	Channel    string  `json:"channel"`
	AfterHours float64 `json:"afterHours"`
	Urgency    string  `json:"urgency"`
	Message    string  `json:"message,omitempty"`
}

// Request is the input to workflow optimization. Analysis is optional; when
// present the optimizer folds document risk into party scoring. AnalysisID
// lets HTTP callers reference a stored snapshot instead of inlining one.
type Request struct {
	DocumentType string           `json:"documentType"`
	Urgency      Urgency          `json:"urgency"`
	Parties      []Party          `json:"parties"`
	AnalysisID   string           `json:"analysisId,omitempty"`
	Analysis     *analysis.Result `json:"analysis,omitempty"`
}

// Plan is the optimizer's output. It is always structurally valid; a plan
// produced by the degraded path is flagged with FallbackUsed.
type Plan struct {
	Type               Type            `json:"type"`
	Order              []string        `json:"order"` // party IDs in signing order
	Parties            []PartyAnalysis `json:"parties"`
	SuccessProbability float64         `json:"successProbability"`
	EstimatedHours     float64         `json:"estimatedHours"`
	Reasons            []string        `json:"reasons"`
	Reminders          []Reminder      `json:"reminders"`
	FallbackUsed       bool            `json:"fallbackUsed"`
	GeneratedAt        time.Time       `json:"generatedAt"`
}
