package compliance

import (
	_ "embed"
	"fmt"
	"math"

	"gopkg.in/yaml.v3"
)

//go:embed tables.yaml
var defaultTables []byte

// RuleSpec describes one rule as declared in the battery tables.
type RuleSpec struct {
	ID       string   `yaml:"id"`
	Name     string   `yaml:"name"`
	Citation string   `yaml:"citation"`
	Severity Severity `yaml:"severity"`
}

// BatterySpec is a named, ordered set of weighted rules for one legal framework.
type BatterySpec struct {
	Name  string     `yaml:"name"`
	Rules []RuleSpec `yaml:"rules"`
}

// Config carries the scoring policy: severity weights and battery membership.
type Config struct {
	Weights   map[Severity]int `yaml:"weights"`
	Batteries []BatterySpec    `yaml:"batteries"`
}

// DefaultConfig parses the embedded battery tables.
func DefaultConfig() (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(defaultTables, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse compliance tables: %w", err)
	}
	return cfg, nil
}

// Engine evaluates the fixed rule batteries against a document. It is stateless
// per request; the config and evaluator table are injected at construction.
type Engine struct {
	cfg   Config
	evals map[string]evalFunc
}

// NewEngine constructs an Engine with the given config and the default
// evaluator table. A zero-value config falls back to the embedded tables.
func NewEngine(cfg Config) (*Engine, error) {
	if len(cfg.Batteries) == 0 {
		parsed, err := DefaultConfig()
		if err != nil {
			return nil, err
		}
		cfg = parsed
	}
	if len(cfg.Weights) == 0 {
		cfg.Weights = map[Severity]int{
			SeverityCritical: 25,
			SeverityHigh:     15,
			SeverityMedium:   10,
			SeverityLow:      5,
		}
	}
	return &Engine{cfg: cfg, evals: defaultEvaluators()}, nil
}

// Check runs every rule in every battery against the input. A rule that panics
// is recorded as failed with a generic message rather than aborting the batch.
func (e *Engine) Check(in Input) Result {
	checks := make([]Check, 0, 16)
	for _, battery := range e.cfg.Batteries {
		for _, spec := range battery.Rules {
			eval, ok := e.evals[spec.ID]
			if !ok {
				continue
			}
			checks = append(checks, e.runRule(spec, eval, in))
		}
	}

	score := e.score(checks)
	result := Result{
		Status: deriveStatus(checks, score),
		Score:  score,
		Checks: checks,
	}
	for _, check := range checks {
		if check.Status == CheckFailed {
			result.Issues = append(result.Issues, check.Message)
		}
		if (check.Status == CheckFailed || check.Status == CheckWarning) && check.Recommendation != "" {
			result.Recommendations = append(result.Recommendations, check.Recommendation)
		}
	}
	return result
}

func (e *Engine) runRule(spec RuleSpec, eval evalFunc, in Input) (check Check) {
	check = Check{
		ID:       spec.ID,
		Name:     spec.Name,
		Citation: spec.Citation,
		Severity: spec.Severity,
	}
	defer func() {
		if r := recover(); r != nil {
			check.Status = CheckFailed
			check.Message = "Rule evaluation failed"
		}
	}()
	status, message, recommendation := eval(in)
	check.Status = status
	check.Message = message
	check.Recommendation = recommendation
	return check
}

// score computes round(100 * achieved / total) where a warning contributes half
// its weight, a failure none, and not_applicable checks are excluded entirely.
func (e *Engine) score(checks []Check) int {
	total := 0.0
	achieved := 0.0
	for _, check := range checks {
		weight := float64(e.cfg.Weights[check.Severity])
		switch check.Status {
		case CheckPassed:
			total += weight
			achieved += weight
		case CheckWarning:
			total += weight
			achieved += weight / 2
		case CheckFailed:
			total += weight
		case CheckNotApplicable:
		}
	}
	if total == 0 {
		return 100
	}
	score := int(math.Round(100 * achieved / total))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// deriveStatus applies the hard tie-break contract: critical failures dominate
// regardless of aggregate score.
func deriveStatus(checks []Check, score int) Status {
	highFailures := 0
	for _, check := range checks {
		if check.Status != CheckFailed {
			continue
		}
		switch check.Severity {
		case SeverityCritical:
			return StatusNonCompliant
		case SeverityHigh:
			highFailures++
		}
	}
	if highFailures > 2 || score < 70 {
		return StatusNeedsReview
	}
	if score >= 90 {
		return StatusCompliant
	}
	return StatusNeedsReview
}
