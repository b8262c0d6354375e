package knowledge

import (
	"fmt"
	"strings"
)

// maxClassificationChars bounds the document prefix sent for classification.
const maxClassificationChars = 6000

// BuildClassificationPrompt asks for a strict-JSON document classification.
func BuildClassificationPrompt(text string) string {
	excerpt := strings.TrimSpace(text)
	if len(excerpt) > maxClassificationChars {
		excerpt = excerpt[:maxClassificationChars]
	}
	return fmt.Sprintf(`You classify legal and business documents for an electronic signing platform.
Classify the document below into exactly one of: service_agreement, nda, partnership_agreement, employment_contract, purchase_order, invoice, legal_document, unknown.

Respond with a JSON object only, no prose:
{"type": "<one of the labels>", "confidence": <number between 0 and 1>, "reasoning": "<one sentence>"}

Document:
%s`, excerpt)
}

// BuildAssistantPrompt wraps a free-text question for the conversational responder.
func BuildAssistantPrompt(message string) string {
	return fmt.Sprintf(`You are a support assistant for an electronic document signing platform.
Answer the user's question in at most three sentences. If the question concerns
legal advice, recommend consulting counsel instead of answering definitively.

Question: %s`, strings.TrimSpace(message))
}
