package analysis

// Static placement defaults for proposed fields. Coordinates are normalized to
// the page; confidence values are fixed hints, not measurements.
const (
	fieldConfidenceSignature = 0.75
	fieldConfidenceDate      = 0.70
)

// DetectFields proposes signature and date field placements for a classified
// document. It always returns at least one signature/date pair; multi-party
// document types get a second pair with distinct suggested roles.
func DetectFields(classification Classification) []DetectedField {
	primaryRole := "Signer"
	if classification.Type.IsMultiParty() {
		primaryRole = "Primary Party"
	}

	fields := []DetectedField{
		{
			Page: 1, X: 0.08, Y: 0.78, Width: 0.28, Height: 0.05,
			Type: FieldSignature, Confidence: fieldConfidenceSignature,
			SuggestedRole: primaryRole,
		},
		{
			Page: 1, X: 0.42, Y: 0.78, Width: 0.14, Height: 0.04,
			Type: FieldDate, Confidence: fieldConfidenceDate,
			SuggestedRole: primaryRole,
		},
	}

	if classification.Type.IsMultiParty() {
		fields = append(fields,
			DetectedField{
				Page: 1, X: 0.08, Y: 0.88, Width: 0.28, Height: 0.05,
				Type: FieldSignature, Confidence: fieldConfidenceSignature,
				SuggestedRole: "Secondary Party",
			},
			DetectedField{
				Page: 1, X: 0.42, Y: 0.88, Width: 0.14, Height: 0.04,
				Type: FieldDate, Confidence: fieldConfidenceDate,
				SuggestedRole: "Secondary Party",
			},
		)
	}

	return fields
}
