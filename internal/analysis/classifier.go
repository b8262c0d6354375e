package analysis

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"signflow-backend/internal/knowledge"
	"signflow-backend/internal/shared/metrics"
	"signflow-backend/internal/shared/telemetry"
)

//go:embed keywords.yaml
var defaultKeywordTables []byte

// DefaultKeywords parses the embedded per-type keyword sets.
func DefaultKeywords() (map[DocumentType][]string, error) {
	raw := map[string][]string{}
	if err := yaml.Unmarshal(defaultKeywordTables, &raw); err != nil {
		return nil, fmt.Errorf("parse keyword tables: %w", err)
	}
	out := make(map[DocumentType][]string, len(raw))
	for key, words := range raw {
		out[DocumentType(key)] = words
	}
	return out, nil
}

// Classifier assigns a document type via the knowledge service, with a
// deterministic keyword-density fallback that is the availability boundary of
// the whole pipeline.
type Classifier struct {
	Knowledge knowledge.Client
	Keywords  map[DocumentType][]string
}

// NewClassifier constructs a Classifier with the embedded keyword tables.
// A nil knowledge client means the fallback path is always used.
func NewClassifier(kn knowledge.Client) (*Classifier, error) {
	keywords, err := DefaultKeywords()
	if err != nil {
		return nil, err
	}
	return &Classifier{Knowledge: kn, Keywords: keywords}, nil
}

type knowledgeClassification struct {
	Type       string   `json:"type"`
	Confidence *float64 `json:"confidence"`
	Reasoning  string   `json:"reasoning"`
}

// Classify never returns an error: any knowledge failure or malformed answer
// routes to ClassifyByKeywords. The fallback result reports FallbackUsed via
// the second return value.
func (c *Classifier) Classify(ctx context.Context, text string, actx Context) (Classification, bool) {
	if c.Knowledge == nil {
		return c.ClassifyByKeywords(text), true
	}

	answer, err := c.Knowledge.Query(ctx, knowledge.BuildClassificationPrompt(text))
	if err != nil {
		metrics.IncKnowledgeFailure()
		telemetry.Info("classify.fallback", map[string]any{
			"document_id": actx.DocumentID,
			"reason":      err.Error(),
		})
		return c.ClassifyByKeywords(text), true
	}

	parsed, ok := parseKnowledgeClassification(answer)
	if !ok {
		telemetry.Info("classify.fallback", map[string]any{
			"document_id": actx.DocumentID,
			"reason":      "malformed classification answer",
		})
		return c.ClassifyByKeywords(text), true
	}
	return parsed, false
}

func parseKnowledgeClassification(answer string) (Classification, bool) {
	trimmed := strings.TrimSpace(answer)
	// Some models wrap JSON in code fences.
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)

	var parsed knowledgeClassification
	if err := json.Unmarshal([]byte(trimmed), &parsed); err != nil {
		return Classification{}, false
	}
	if parsed.Confidence == nil {
		return Classification{}, false
	}

	docType := DocumentType(strings.ToLower(strings.TrimSpace(parsed.Type)))
	if !validDocumentType(docType) {
		return Classification{}, false
	}
	return Classification{
		Type:       docType,
		Confidence: clamp01(*parsed.Confidence),
	}, true
}

// ClassifyByKeywords scores each candidate type by the fraction of its keyword
// set present in the lower-cased text (word-boundary matches) and reports
// confidence = min(0.8, fraction + 0.2). No matches at all yields unknown/0.5.
func (c *Classifier) ClassifyByKeywords(text string) Classification {
	padded := normalizeWords(text)

	bestType := TypeUnknown
	bestFraction := 0.0
	for _, docType := range AllDocumentTypes {
		words := c.Keywords[docType]
		if len(words) == 0 {
			continue
		}
		hits := 0
		for _, w := range words {
			if strings.Contains(padded, " "+strings.ToLower(w)+" ") {
				hits++
			}
		}
		fraction := float64(hits) / float64(len(words))
		if fraction > bestFraction {
			bestFraction = fraction
			bestType = docType
		}
	}

	if bestFraction == 0 {
		return Classification{Type: TypeUnknown, Confidence: 0.5}
	}
	confidence := bestFraction + 0.2
	if confidence > 0.8 {
		confidence = 0.8
	}
	return Classification{Type: bestType, Confidence: clamp01(confidence)}
}

func validDocumentType(t DocumentType) bool {
	if t == TypeUnknown {
		return true
	}
	for _, known := range AllDocumentTypes {
		if t == known {
			return true
		}
	}
	return false
}

// normalizeWords lower-cases the text, strips punctuation, and pads with
// spaces so " kw " containment is a word-boundary match.
func normalizeWords(text string) string {
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '/' {
			return r
		}
		return ' '
	}, strings.ToLower(text))
	return " " + strings.Join(strings.Fields(mapped), " ") + " "
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
