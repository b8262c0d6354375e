package compliance

import (
	"strings"
	"testing"

	"signflow-backend/internal/extract"
)

func passingContractInput() Input {
	text := `This Service Agreement is made and entered into on January 5, 2026 between
Acme Corporation and Beta LLC (each a "party" and together the "parties").
The parties consent to transact by electronic record and electronic signature.
This agreement shall be governed by the laws of the State of Delaware and any
dispute is subject to the exclusive jurisdiction of its courts. Each party shall
retain a copy of the signed record for its files. The undersigned represent that
they are authorized to execute this agreement on behalf of their organizations.
` + strings.Repeat("The provider shall deliver the services described in the statement of work. ", 10)
	return Input{
		Content: extract.Content{
			Text:      text,
			WordCount: len(strings.Fields(text)),
			Language:  "en",
			FileHash:  "abc123",
		},
		DocumentType: "service_agreement",
	}
}

func TestCheckPassingDocumentIsCompliant(t *testing.T) {
	engine, err := NewEngine(Config{})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	result := engine.Check(passingContractInput())
	if result.Score < 90 || result.Score > 100 {
		t.Fatalf("expected score >= 90, got %d", result.Score)
	}
	if result.Status != StatusCompliant {
		t.Fatalf("expected compliant, got %s (score %d, issues %v)", result.Status, result.Score, result.Issues)
	}
	if len(result.Issues) != 0 {
		t.Fatalf("expected no issues, got %v", result.Issues)
	}
}

func TestCheckEmptyDocumentRunsFullBattery(t *testing.T) {
	engine, err := NewEngine(Config{})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	result := engine.Check(Input{DocumentType: "unknown"})

	if len(result.Checks) != 12 {
		t.Fatalf("expected all 12 rules evaluated, got %d", len(result.Checks))
	}
	if result.Score < 0 || result.Score > 100 {
		t.Fatalf("score out of range: %d", result.Score)
	}
	// Missing signature language is a critical failure.
	if result.Status != StatusNonCompliant {
		t.Fatalf("expected non_compliant, got %s", result.Status)
	}
	if len(result.Issues) == 0 {
		t.Fatalf("expected issues for failed checks")
	}
}

func TestCriticalFailureDominatesHighScore(t *testing.T) {
	cfg := Config{
		Weights: map[Severity]int{SeverityCritical: 5, SeverityHigh: 20},
		Batteries: []BatterySpec{{
			Name: "custom",
			Rules: []RuleSpec{
				{ID: "crit", Severity: SeverityCritical},
				{ID: "h1", Severity: SeverityHigh},
				{ID: "h2", Severity: SeverityHigh},
				{ID: "h3", Severity: SeverityHigh},
				{ID: "h4", Severity: SeverityHigh},
				{ID: "h5", Severity: SeverityHigh},
			},
		}},
	}
	pass := func(Input) (CheckStatus, string, string) { return CheckPassed, "ok", "" }
	fail := func(Input) (CheckStatus, string, string) { return CheckFailed, "bad", "" }
	engine := &Engine{cfg: cfg, evals: map[string]evalFunc{
		"crit": fail, "h1": pass, "h2": pass, "h3": pass, "h4": pass, "h5": pass,
	}}

	result := engine.Check(Input{})
	if result.Score < 90 {
		t.Fatalf("test setup expected a high score, got %d", result.Score)
	}
	if result.Status != StatusNonCompliant {
		t.Fatalf("critical failure must dominate: got %s with score %d", result.Status, result.Score)
	}
}

func TestManyHighFailuresForceReview(t *testing.T) {
	cfg := Config{
		Weights: map[Severity]int{SeverityHigh: 1, SeverityLow: 20},
		Batteries: []BatterySpec{{
			Name: "custom",
			Rules: []RuleSpec{
				{ID: "h1", Severity: SeverityHigh},
				{ID: "h2", Severity: SeverityHigh},
				{ID: "h3", Severity: SeverityHigh},
				{ID: "l1", Severity: SeverityLow},
				{ID: "l2", Severity: SeverityLow},
				{ID: "l3", Severity: SeverityLow},
				{ID: "l4", Severity: SeverityLow},
				{ID: "l5", Severity: SeverityLow},
			},
		}},
	}
	pass := func(Input) (CheckStatus, string, string) { return CheckPassed, "ok", "" }
	fail := func(Input) (CheckStatus, string, string) { return CheckFailed, "bad", "" }
	engine := &Engine{cfg: cfg, evals: map[string]evalFunc{
		"h1": fail, "h2": fail, "h3": fail,
		"l1": pass, "l2": pass, "l3": pass, "l4": pass, "l5": pass,
	}}

	result := engine.Check(Input{})
	if result.Score < 90 {
		t.Fatalf("test setup expected a high score, got %d", result.Score)
	}
	if result.Status != StatusNeedsReview {
		t.Fatalf("more than 2 high failures must force needs_review, got %s", result.Status)
	}
}

func TestWarningContributesHalfWeight(t *testing.T) {
	cfg := Config{
		Weights: map[Severity]int{SeverityHigh: 15},
		Batteries: []BatterySpec{{
			Name:  "custom",
			Rules: []RuleSpec{{ID: "w1", Severity: SeverityHigh}},
		}},
	}
	warn := func(Input) (CheckStatus, string, string) { return CheckWarning, "meh", "tighten it" }
	engine := &Engine{cfg: cfg, evals: map[string]evalFunc{"w1": warn}}

	result := engine.Check(Input{})
	if result.Score != 50 {
		t.Fatalf("expected score 50 for a lone warning, got %d", result.Score)
	}
	if len(result.Recommendations) != 1 {
		t.Fatalf("expected warning recommendation to be collected, got %v", result.Recommendations)
	}
}

func TestPanickingRuleIsIsolated(t *testing.T) {
	cfg := Config{
		Weights: map[Severity]int{SeverityMedium: 10},
		Batteries: []BatterySpec{{
			Name: "custom",
			Rules: []RuleSpec{
				{ID: "boom", Severity: SeverityMedium},
				{ID: "ok", Severity: SeverityMedium},
			},
		}},
	}
	engine := &Engine{cfg: cfg, evals: map[string]evalFunc{
		"boom": func(Input) (CheckStatus, string, string) { panic("rule bug") },
		"ok":   func(Input) (CheckStatus, string, string) { return CheckPassed, "ok", "" },
	}}

	result := engine.Check(Input{})
	if len(result.Checks) != 2 {
		t.Fatalf("expected both rules recorded, got %d", len(result.Checks))
	}
	if result.Checks[0].Status != CheckFailed {
		t.Fatalf("panicking rule must record as failed, got %s", result.Checks[0].Status)
	}
	if result.Checks[1].Status != CheckPassed {
		t.Fatalf("later rule must still run, got %s", result.Checks[1].Status)
	}
}

func TestNotApplicableExcludedFromScore(t *testing.T) {
	engine, err := NewEngine(Config{})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	result := engine.Check(passingContractInput())
	for _, check := range result.Checks {
		if check.ID == "qualified_signature" && check.Status != CheckNotApplicable {
			t.Fatalf("expected qualified_signature to be not_applicable without cross-border signals, got %s", check.Status)
		}
	}
}
