package assistant

import (
	"context"
	"strings"

	"signflow-backend/internal/knowledge"
	"signflow-backend/internal/shared/metrics"
	"signflow-backend/internal/shared/telemetry"
)

// Intent labels for routed questions.
const (
	IntentSigningHelp        = "signing_help"
	IntentComplianceQuestion = "compliance_question"
	IntentGeneralHelp        = "general_help"
)

// Response is the responder's output for one message.
type Response struct {
	Message                 string   `json:"message"`
	Intent                  string   `json:"intent"`
	Confidence              float64  `json:"confidence"`
	SuggestedActions        []string `json:"suggestedActions"`
	RequiresHumanEscalation bool     `json:"requiresHumanEscalation"`
}

// Responder answers free-text questions. The primary path delegates to the
// knowledge service; any failure degrades to keyword-matched canned answers.
type Responder struct {
	Knowledge knowledge.Client
}

// NewResponder constructs a Responder. A nil client means canned answers only.
func NewResponder(kn knowledge.Client) *Responder {
	return &Responder{Knowledge: kn}
}

// Respond never returns an error; dependency failures route to the canned
// fallback with a reduced confidence.
func (r *Responder) Respond(ctx context.Context, message string) Response {
	intent := detectIntent(message)
	escalate := needsEscalation(message)

	if r.Knowledge != nil {
		answer, err := r.Knowledge.Query(ctx, knowledge.BuildAssistantPrompt(message))
		if err == nil && strings.TrimSpace(answer) != "" {
			return Response{
				Message:                 strings.TrimSpace(answer),
				Intent:                  intent,
				Confidence:              0.9,
				SuggestedActions:        suggestedActions(intent),
				RequiresHumanEscalation: escalate,
			}
		}
		if err != nil {
			metrics.IncKnowledgeFailure()
			telemetry.Info("assistant.fallback", map[string]any{
				"intent": intent,
				"reason": err.Error(),
			})
		}
	}

	return Response{
		Message:                 cannedAnswer(intent),
		Intent:                  intent,
		Confidence:              fallbackConfidence(intent),
		SuggestedActions:        suggestedActions(intent),
		RequiresHumanEscalation: false,
	}
}

func detectIntent(message string) string {
	text := strings.ToLower(message)
	switch {
	// Compliance first: "esign" and "legal" also contain signing markers.
	case strings.Contains(text, "complian") || strings.Contains(text, "legal") || strings.Contains(text, "esign") || strings.Contains(text, "regulation"):
		return IntentComplianceQuestion
	case strings.Contains(text, "sign") || strings.Contains(text, "field"):
		return IntentSigningHelp
	default:
		return IntentGeneralHelp
	}
}

func needsEscalation(message string) bool {
	text := strings.ToLower(message)
	for _, marker := range []string{"lawyer", "attorney", "lawsuit", "dispute", "court", "legal advice"} {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

func cannedAnswer(intent string) string {
	switch intent {
	case IntentSigningHelp:
		return "To sign a document, open it from your inbox, review each highlighted field, and select Sign. You can draw, type, or upload your signature. Every signer gets an email copy once all parties have finished."
	case IntentComplianceQuestion:
		return "Documents are checked against common electronic-signature requirements before sending, including signature intent, party identification, and consent language. Run a compliance check on your document to see the full checklist and any flagged issues."
	default:
		return "I can help with signing documents, preparing them for other parties, and understanding compliance checks. Tell me what you are trying to do and I will point you to the right place."
	}
}

func fallbackConfidence(intent string) float64 {
	if intent == IntentGeneralHelp {
		return 0.5
	}
	return 0.8
}

func suggestedActions(intent string) []string {
	switch intent {
	case IntentSigningHelp:
		return []string{"Open the document", "Review proposed field placements"}
	case IntentComplianceQuestion:
		return []string{"Run a compliance check", "Review flagged checks"}
	default:
		return []string{"Upload a document", "Ask about signing or compliance"}
	}
}
