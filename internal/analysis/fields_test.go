package analysis

import "testing"

func TestDetectFieldsSinglePartyDocument(t *testing.T) {
	fields := DetectFields(Classification{Type: TypeInvoice, Confidence: 0.8})

	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(fields))
	}
	if fields[0].Type != FieldSignature || fields[1].Type != FieldDate {
		t.Fatalf("expected signature+date pair, got %s+%s", fields[0].Type, fields[1].Type)
	}
	for _, f := range fields {
		if f.SuggestedRole != "Signer" {
			t.Fatalf("expected role Signer, got %q", f.SuggestedRole)
		}
		if f.X < 0 || f.X > 1 || f.Y < 0 || f.Y > 1 {
			t.Fatalf("coordinates not normalized: %+v", f)
		}
	}
}

func TestDetectFieldsMultiPartyDocument(t *testing.T) {
	fields := DetectFields(Classification{Type: TypePartnershipAgreement, Confidence: 0.9})

	if len(fields) != 4 {
		t.Fatalf("expected 4 fields, got %d", len(fields))
	}

	roles := map[string]int{}
	signatures := 0
	for _, f := range fields {
		roles[f.SuggestedRole]++
		if f.Type == FieldSignature {
			signatures++
		}
	}
	if signatures != 2 {
		t.Fatalf("expected 2 signature fields, got %d", signatures)
	}
	if roles["Primary Party"] != 2 || roles["Secondary Party"] != 2 {
		t.Fatalf("unexpected role distribution: %v", roles)
	}
}

func TestDetectFieldsSecondaryPairPlacedBelowPrimary(t *testing.T) {
	fields := DetectFields(Classification{Type: TypeServiceAgreement, Confidence: 0.7})

	if len(fields) != 4 {
		t.Fatalf("expected 4 fields, got %d", len(fields))
	}
	if fields[2].Y <= fields[0].Y {
		t.Fatalf("secondary signature not below primary: %f vs %f", fields[2].Y, fields[0].Y)
	}
}
