package compliance

import (
	"regexp"
	"strings"
	"unicode"
)

// evalFunc evaluates one rule against the input and returns the check status,
// a message, and an optional recommendation.
type evalFunc func(Input) (CheckStatus, string, string)

var (
	dateTokenRe = regexp.MustCompile(`(?i)\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b|\b(january|february|march|april|may|june|july|august|september|october|november|december)\s+\d{1,2},?\s+\d{4}\b`)

	crossBorderRe = regexp.MustCompile(`(?i)\b(international|cross-border|cross border|foreign|overseas|european union|eidas)\b`)

	personalDataRe = regexp.MustCompile(`(?i)\b(personal data|personal information|personally identifiable)\b`)
)

// defaultEvaluators maps rule ids from tables.yaml to their evaluation logic.
func defaultEvaluators() map[string]evalFunc {
	return map[string]evalFunc{
		"signature_intent":          evalSignatureIntent,
		"electronic_consent":        evalElectronicConsent,
		"party_identification":      evalPartyIdentification,
		"execution_date":            evalExecutionDate,
		"governing_law":             evalGoverningLaw,
		"record_retention":          evalRecordRetention,
		"document_substance":        evalDocumentSubstance,
		"language_support":          evalLanguageSupport,
		"cross_border_applicability": evalCrossBorderApplicability,
		"qualified_signature":       evalQualifiedSignature,
		"data_protection":           evalDataProtection,
		"integrity_hash":            evalIntegrityHash,
	}
}

// normalizedText lower-cases the document, strips punctuation, and pads with
// spaces so containsWord can do word-boundary containment checks.
func normalizedText(in Input) string {
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' {
			return r
		}
		return ' '
	}, strings.ToLower(in.Content.Text))
	return " " + strings.Join(strings.Fields(mapped), " ") + " "
}

func containsWord(text string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(text, " "+w+" ") {
			return true
		}
	}
	return false
}

func evalSignatureIntent(in Input) (CheckStatus, string, string) {
	text := normalizedText(in)
	if containsWord(text, "signature", "signed", "sign", "execute", "executed", "undersigned") {
		return CheckPassed, "Signature or execution language present", ""
	}
	return CheckFailed, "No signature or execution language found",
		"Add an explicit signature block stating the parties' intent to sign"
}

func evalElectronicConsent(in Input) (CheckStatus, string, string) {
	text := normalizedText(in)
	if strings.Contains(text, "electronic signature") || strings.Contains(text, "electronic record") ||
		containsWord(text, "consent") {
		return CheckPassed, "Electronic-consent language present", ""
	}
	return CheckWarning, "No consent-to-electronic-records language found",
		"Add a clause recording each party's consent to transact electronically"
}

func evalPartyIdentification(in Input) (CheckStatus, string, string) {
	text := normalizedText(in)
	if containsWord(text, "between", "party", "parties") {
		return CheckPassed, "Contracting parties are identified", ""
	}
	return CheckFailed, "Contracting parties are not identified",
		"Name every party and their role in the opening recitals"
}

func evalExecutionDate(in Input) (CheckStatus, string, string) {
	if dateTokenRe.MatchString(in.Content.Text) {
		return CheckPassed, "Execution date token present", ""
	}
	return CheckWarning, "No execution date found in the document",
		"Add a dated execution line or a date field for each signer"
}

func evalGoverningLaw(in Input) (CheckStatus, string, string) {
	text := normalizedText(in)
	if strings.Contains(text, "governing law") || strings.Contains(text, "governed by") ||
		containsWord(text, "jurisdiction") {
		return CheckPassed, "Governing law clause present", ""
	}
	return CheckWarning, "No governing law clause found",
		"Specify the governing jurisdiction to avoid conflict-of-laws disputes"
}

func evalRecordRetention(in Input) (CheckStatus, string, string) {
	text := normalizedText(in)
	if containsWord(text, "copy", "copies", "retain", "retained", "record", "records") {
		return CheckPassed, "Record retention language present", ""
	}
	return CheckWarning, "No record retention language found",
		"State that each party receives and may retain a copy of the signed record"
}

func evalDocumentSubstance(in Input) (CheckStatus, string, string) {
	if in.Content.WordCount >= 100 {
		return CheckPassed, "Document has substantive content", ""
	}
	return CheckWarning, "Document is very short for a binding agreement",
		"Verify the full document text was captured"
}

func evalLanguageSupport(in Input) (CheckStatus, string, string) {
	if in.Content.Language == "en" {
		return CheckPassed, "Document language is supported", ""
	}
	return CheckWarning, "Document language could not be confirmed as supported",
		"Confirm the document language before sending for signature"
}

func crossBorderSignal(in Input) bool {
	return crossBorderRe.MatchString(in.Content.Text) || in.DocumentType == "partnership_agreement"
}

func evalCrossBorderApplicability(in Input) (CheckStatus, string, string) {
	if !crossBorderSignal(in) {
		return CheckNotApplicable, "No cross-border signals detected", ""
	}
	return CheckWarning, "Document shows cross-border signals; regional rules may apply",
		"Review signer locations against the applicable regional framework"
}

func evalQualifiedSignature(in Input) (CheckStatus, string, string) {
	if !crossBorderSignal(in) {
		return CheckNotApplicable, "No cross-border signals detected", ""
	}
	if strings.Contains(normalizedText(in), "qualified electronic signature") {
		return CheckPassed, "Qualified electronic signature referenced", ""
	}
	return CheckWarning, "Cross-border document without qualified-signature language",
		"Consider a qualified electronic signature for EU enforceability"
}

func evalDataProtection(in Input) (CheckStatus, string, string) {
	if !personalDataRe.MatchString(in.Content.Text) {
		return CheckNotApplicable, "No personal data processing language detected", ""
	}
	text := normalizedText(in)
	if strings.Contains(text, "data protection") || containsWord(text, "gdpr") {
		return CheckPassed, "Data protection clause present", ""
	}
	return CheckWarning, "Personal data referenced without a data protection clause",
		"Add a data protection clause covering processing and transfers"
}

func evalIntegrityHash(in Input) (CheckStatus, string, string) {
	if in.Content.FileHash != "" {
		return CheckPassed, "Document integrity fingerprint recorded", ""
	}
	return CheckWarning, "No integrity fingerprint available for the document",
		"Re-upload the document so a content hash can be recorded"
}
