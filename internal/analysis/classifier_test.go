package analysis

import (
	"context"
	"errors"
	"testing"
)

type stubKnowledge struct {
	answer string
	err    error
}

func (s *stubKnowledge) Query(ctx context.Context, prompt string) (string, error) {
	return s.answer, s.err
}

func mustClassifier(t *testing.T, kn *stubKnowledge) *Classifier {
	t.Helper()
	var c *Classifier
	var err error
	if kn == nil {
		c, err = NewClassifier(nil)
	} else {
		c, err = NewClassifier(kn)
	}
	if err != nil {
		t.Fatalf("NewClassifier: %v", err)
	}
	return c
}

func TestClassifyByKeywordsPicksDominantType(t *testing.T) {
	c := mustClassifier(t, nil)

	text := "This Service Agreement covers the services, deliverables, and scope of work provided by the service provider."
	got := c.ClassifyByKeywords(text)

	if got.Type != TypeServiceAgreement {
		t.Fatalf("expected service_agreement, got %s", got.Type)
	}
	// 4 of 6 keywords present: fraction 0.667 plus the 0.2 floor, capped at 0.8.
	if got.Confidence < 0.6 || got.Confidence > 0.8 {
		t.Fatalf("confidence out of expected range: %f", got.Confidence)
	}
}

func TestClassifyByKeywordsNoMatchesIsUnknown(t *testing.T) {
	c := mustClassifier(t, nil)

	got := c.ClassifyByKeywords("the quick brown fox jumps over the lazy dog")
	if got.Type != TypeUnknown {
		t.Fatalf("expected unknown, got %s", got.Type)
	}
	if got.Confidence != 0.5 {
		t.Fatalf("expected confidence 0.5, got %f", got.Confidence)
	}
}

func TestClassifyByKeywordsConfidenceCap(t *testing.T) {
	c := mustClassifier(t, nil)

	text := "invoice invoice number amount due payment terms bill to due date"
	got := c.ClassifyByKeywords(text)

	if got.Type != TypeInvoice {
		t.Fatalf("expected invoice, got %s", got.Type)
	}
	if got.Confidence != 0.8 {
		t.Fatalf("expected confidence capped at 0.8, got %f", got.Confidence)
	}
}

func TestClassifyByKeywordsMatchesThroughPunctuation(t *testing.T) {
	c := mustClassifier(t, nil)

	text := "Scope of work: services, deliverables. Provided by the service provider; service fees apply."
	got := c.ClassifyByKeywords(text)

	if got.Type != TypeServiceAgreement {
		t.Fatalf("expected service_agreement, got %s", got.Type)
	}
}

func TestClassifyUsesKnowledgeAnswer(t *testing.T) {
	kn := &stubKnowledge{answer: "```json\n{\"type\": \"nda\", \"confidence\": 0.92, \"reasoning\": \"confidentiality terms\"}\n```"}
	c := mustClassifier(t, kn)

	got, fallback := c.Classify(context.Background(), "some document", Context{})
	if fallback {
		t.Fatalf("expected primary path, got fallback")
	}
	if got.Type != TypeNDA {
		t.Fatalf("expected nda, got %s", got.Type)
	}
	if got.Confidence != 0.92 {
		t.Fatalf("expected confidence 0.92, got %f", got.Confidence)
	}
}

func TestClassifyClampsKnowledgeConfidence(t *testing.T) {
	kn := &stubKnowledge{answer: `{"type": "invoice", "confidence": 1.7}`}
	c := mustClassifier(t, kn)

	got, fallback := c.Classify(context.Background(), "some document", Context{})
	if fallback {
		t.Fatalf("expected primary path, got fallback")
	}
	if got.Confidence != 1.0 {
		t.Fatalf("expected confidence clamped to 1.0, got %f", got.Confidence)
	}
}

func TestClassifyFallsBackOnKnowledgeError(t *testing.T) {
	kn := &stubKnowledge{err: errors.New("upstream timeout")}
	c := mustClassifier(t, kn)

	text := "purchase order po number quantity unit price delivery date buyer"
	got, fallback := c.Classify(context.Background(), text, Context{})
	if !fallback {
		t.Fatalf("expected fallback on knowledge error")
	}
	if got.Type != TypePurchaseOrder {
		t.Fatalf("expected purchase_order from fallback, got %s", got.Type)
	}
}

func TestClassifyFallsBackOnMalformedAnswer(t *testing.T) {
	cases := []string{
		"not json at all",
		`{"type": "nda"}`,                            // missing confidence
		`{"type": "mortgage", "confidence": 0.9}`,    // unknown label
		`{"type": "", "confidence": 0.9}`,            // empty label
	}
	for _, answer := range cases {
		kn := &stubKnowledge{answer: answer}
		c := mustClassifier(t, kn)

		_, fallback := c.Classify(context.Background(), "invoice amount due", Context{})
		if !fallback {
			t.Fatalf("answer %q: expected fallback", answer)
		}
	}
}

func TestClassifyNilKnowledgeAlwaysFallsBack(t *testing.T) {
	c := mustClassifier(t, nil)

	_, fallback := c.Classify(context.Background(), "whereas hereinafter witnesseth", Context{})
	if !fallback {
		t.Fatalf("expected fallback with nil knowledge client")
	}
}
