package analysis

import (
	"regexp"

	"signflow-backend/internal/compliance"
)

var (
	dateTokenRe = regexp.MustCompile(`(?i)\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b|\b(january|february|march|april|may|june|july|august|september|october|november|december)\s+\d{1,2},?\s+\d{4}\b`)

	currencyAmountRe = regexp.MustCompile(`(?i)[$€£]\s?\d[\d,]*(\.\d{2})?|\b\d[\d,]*(\.\d{2})?\s?(usd|eur|gbp|dollars|euros)\b`)
)

// GenerateRisks derives risk factors from the classification, detected fields,
// compliance outcome, and document text. Rules are declarative and additive.
func GenerateRisks(classification Classification, fields []DetectedField, comp compliance.Result, text string) []RiskFactor {
	var risks []RiskFactor

	if !dateTokenRe.MatchString(text) {
		risks = append(risks, RiskFactor{
			Type:        "legal",
			Severity:    "medium",
			Description: "Document contains no execution date, which can complicate enforceability",
			Mitigation:  "Add a date field next to each signature placement",
		})
	}

	if currencyAmountRe.MatchString(text) {
		risks = append(risks, RiskFactor{
			Type:        "security",
			Severity:    "high",
			Description: "Document references monetary amounts and is a higher-value fraud target",
			Mitigation:  "Require additional identity verification before signing",
		})
	}

	if classification.Type.IsMultiParty() {
		risks = append(risks, RiskFactor{
			Type:        "completion",
			Severity:    "medium",
			Description: "Multi-party document; workflows with 3+ signers see higher abandonment",
			Mitigation:  "Use an optimized signing order with targeted reminders",
		})
	}

	if comp.Status == compliance.StatusNonCompliant {
		risks = append(risks, RiskFactor{
			Type:        "compliance",
			Severity:    "high",
			Description: "Document failed a critical compliance check",
			Mitigation:  "Resolve the flagged compliance issues before sending",
		})
	}

	return risks
}

// GenerateRecommendations derives actionable suggestions. Rules are additive,
// not mutually exclusive.
func GenerateRecommendations(classification Classification, fields []DetectedField, comp compliance.Result) []Recommendation {
	var recs []Recommendation

	if len(fields) > 2 {
		recs = append(recs, Recommendation{
			Type:        "workflow",
			Priority:    "medium",
			Title:       "Optimize the signing order",
			Description: "Multiple signing fields detected; an optimized party order reduces total completion time",
			SuggestedAction: "Run workflow optimization before sending invitations",
		})
	}

	recs = append(recs, Recommendation{
		Type:        "security",
		Priority:    "high",
		Title:       "Enable a secondary verification channel",
		Description: "A second verification channel (SMS or phone) significantly reduces impersonation risk",
		SuggestedAction: "Collect a phone number for each signer and enable SMS verification",
	})

	if comp.Score < 90 {
		recs = append(recs, Recommendation{
			Type:           "compliance",
			Priority:       "high",
			Title:          "Resolve compliance findings",
			Description:    "The compliance score is below the recommended threshold for unattended sending",
			ActionRequired: true,
			SuggestedAction: "Review the compliance checklist and address failed or warned checks",
		})
	}

	return recs
}
