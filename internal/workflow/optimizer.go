package workflow

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"signflow-backend/internal/shared/metrics"
	"signflow-backend/internal/shared/telemetry"
)

const (
	baseResponseHours    = 24.0
	weekendSlowdown      = 1.5
	minSuccessProb       = 0.60
	maxSuccessProb       = 0.95
	highRiskThreshold    = 50
	sequentialComplexity = 70
)

// Optimizer derives a signing plan from the parties and, when available, the
// document analysis. All scoring is deterministic for a given clock.
type Optimizer struct {
	cfg OptimizerConfig
	now func() time.Time
}

// NewOptimizer constructs an Optimizer, filling unset config tables with the
// defaults.
func NewOptimizer(cfg OptimizerConfig) *Optimizer {
	return &Optimizer{cfg: cfg.withDefaults(), now: time.Now}
}

// Optimize produces a plan for the request. It never panics outward: any
// scoring failure degrades to a conservative sequential fallback plan.
func (o *Optimizer) Optimize(req Request) (plan Plan) {
	defer func() {
		if r := recover(); r != nil {
			telemetry.Error("workflow.optimize_panic", map[string]any{
				"panic":   fmt.Sprintf("%v", r),
				"parties": len(req.Parties),
			})
			metrics.IncWorkflowFallback()
			plan = o.fallbackPlan(req)
		}
	}()

	analyses := make([]PartyAnalysis, 0, len(req.Parties))
	for _, p := range req.Parties {
		analyses = append(analyses, o.analyzeParty(p, req))
	}

	planType, typeReason := o.selectType(req, analyses)
	order := o.orderParties(req.Parties, analyses, planType)
	probability, probReasons := o.successProbability(req, analyses)

	reasons := append([]string{typeReason}, probReasons...)

	plan = Plan{
		Type:               planType,
		Order:              order,
		Parties:            analyses,
		SuccessProbability: probability,
		EstimatedHours:     o.estimateHours(order, analyses, planType),
		Reasons:            reasons,
		Reminders:          o.scheduleReminders(analyses, req.Urgency),
		GeneratedAt:        o.now().UTC(),
	}

	metrics.IncWorkflowPlanned()
	telemetry.Info("workflow.planned", map[string]any{
		"type":        string(planType),
		"parties":     len(req.Parties),
		"probability": probability,
		"hours":       plan.EstimatedHours,
	})
	return plan
}

// analyzeParty scores one party. A panic in scoring yields neutral defaults so
// one bad party cannot sink the whole plan.
func (o *Optimizer) analyzeParty(p Party, req Request) (pa PartyAnalysis) {
	defer func() {
		if r := recover(); r != nil {
			telemetry.Error("workflow.party_panic", map[string]any{
				"party_id": p.ID,
				"panic":    fmt.Sprintf("%v", r),
			})
			pa = PartyAnalysis{
				PartyID:                p.ID,
				Priority:               50,
				Risk:                   50,
				EstimatedResponseHours: baseResponseHours,
				PreferredChannel:       "email",
			}
		}
	}()

	channel := "email"
	if strings.TrimSpace(p.Phone) != "" {
		channel = "sms"
	}

	return PartyAnalysis{
		PartyID:                p.ID,
		Priority:               o.partyPriority(p, req),
		Risk:                   o.partyRisk(p, req),
		EstimatedResponseHours: o.responseHours(p, req),
		PreferredChannel:       channel,
	}
}

func (o *Optimizer) partyPriority(p Party, req Request) int {
	priority := 50
	priority += o.cfg.RoleBoosts[strings.ToLower(p.Role)]
	priority += roleAlignmentBoost(p.Role, req.DocumentType)
	if p.SigningOrder == 1 {
		priority += 25
	}
	return clampScore(priority)
}

// roleAlignmentBoost rewards roles that match the document's approval shape:
// financial documents want an approver first, formal agreements a witness.
func roleAlignmentBoost(role, docType string) int {
	switch strings.ToLower(role) {
	case "approver":
		if docType == "invoice" || docType == "purchase_order" {
			return 20
		}
	case "witness":
		if docType == "legal_document" || docType == "partnership_agreement" {
			return 15
		}
	}
	return 0
}

func (o *Optimizer) partyRisk(p Party, req Request) int {
	risk := 20

	if req.Analysis != nil {
		if req.Analysis.Compliance.Score < 80 {
			risk += 15
		}
		if len(req.Analysis.Fields)/2 > 3 {
			risk += 10
		}
		for _, rf := range req.Analysis.RiskFactors {
			switch rf.Severity {
			case "high":
				risk += 10
			case "medium":
				risk += 5
			}
		}
	}

	if strings.TrimSpace(p.Phone) != "" {
		risk -= 10
	}
	return clampScore(risk)
}

func (o *Optimizer) isCrossBorder(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}
	domain := strings.ToLower(email[at+1:])
	for _, tld := range o.cfg.CrossBorderTLDs {
		if strings.HasSuffix(domain, tld) {
			return true
		}
	}
	return false
}

func (o *Optimizer) responseHours(p Party, req Request) float64 {
	typeFactor, ok := o.cfg.TypeComplexity[req.DocumentType]
	if !ok {
		typeFactor = 1.0
	}
	roleFactor, ok := o.cfg.RoleResponseFactor[strings.ToLower(p.Role)]
	if !ok {
		roleFactor = 1.0
	}
	hours := baseResponseHours * typeFactor * roleFactor
	if isWeekend(o.now()) {
		hours *= weekendSlowdown
	}
	return hours
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

func (o *Optimizer) selectType(req Request, analyses []PartyAnalysis) (Type, string) {
	n := len(req.Parties)

	if isHighValueType(req.DocumentType) {
		return TypeSequential, fmt.Sprintf("sequential routing: %s documents need controlled ordering", req.DocumentType)
	}
	if score := o.complexityScore(req); score > sequentialComplexity {
		return TypeSequential, fmt.Sprintf("sequential routing: document complexity %d exceeds the parallel threshold", score)
	}
	if n <= 3 && req.Urgency == UrgencyHigh && meanRisk(analyses) < 30 {
		return TypeParallel, "parallel routing: few low-risk parties under high urgency"
	}
	if n >= 4 && n <= 6 {
		return TypeHybrid, "hybrid routing: key parties sign first, the rest in parallel"
	}
	return TypeSequential, "sequential routing: default for this party count and risk profile"
}

func isHighValueType(docType string) bool {
	return docType == "partnership_agreement" || docType == "legal_document"
}

// complexityScore folds type complexity and field count into 0..100.
func (o *Optimizer) complexityScore(req Request) int {
	typeFactor, ok := o.cfg.TypeComplexity[req.DocumentType]
	if !ok {
		typeFactor = 1.0
	}
	score := int(typeFactor * 25)
	if req.Analysis != nil {
		fieldPart := 5 * len(req.Analysis.Fields)
		if fieldPart > 40 {
			fieldPart = 40
		}
		score += fieldPart
	}
	return clampScore(score)
}

// orderParties returns party IDs in signing order. Parallel plans keep the
// caller's order; sequential and hybrid plans sort by priority, breaking ties
// toward lower risk and faster expected response.
func (o *Optimizer) orderParties(parties []Party, analyses []PartyAnalysis, planType Type) []string {
	order := make([]string, len(parties))
	idx := make([]int, len(parties))
	for i := range parties {
		idx[i] = i
	}

	if planType != TypeParallel {
		sort.SliceStable(idx, func(a, b int) bool {
			pa, pb := analyses[idx[a]], analyses[idx[b]]
			if pa.Priority != pb.Priority {
				return pa.Priority > pb.Priority
			}
			if pa.Risk != pb.Risk {
				return pa.Risk < pb.Risk
			}
			return pa.EstimatedResponseHours < pb.EstimatedResponseHours
		})
	}

	for i, j := range idx {
		order[i] = parties[j].ID
	}
	return order
}

func (o *Optimizer) successProbability(req Request, analyses []PartyAnalysis) (float64, []string) {
	probability := 0.85
	var reasons []string

	n := len(analyses)
	if n > 5 {
		probability -= 0.10
		reasons = append(reasons, fmt.Sprintf("%d parties slow coordination", n))
		if n > 8 {
			probability -= 0.10
		}
	}

	if complexity := o.complexityScore(req); complexity > sequentialComplexity {
		probability -= 0.10
		reasons = append(reasons, "document complexity reduces completion odds")
		if complexity > 85 {
			probability -= 0.05
		}
	}

	// Mean party risk translates into a percentage-point penalty: risk/10 pp.
	mean := meanRisk(analyses)
	probability -= float64(mean) / 1000
	if mean >= highRiskThreshold {
		reasons = append(reasons, "mean party risk is elevated")
	}

	switch req.Urgency {
	case UrgencyHigh:
		probability += 0.05
	case UrgencyLow:
		probability -= 0.05
	}

	if isWeekend(o.now()) {
		probability -= 0.10
		reasons = append(reasons, "weekend start slows responses")
	}

	for _, p := range req.Parties {
		if o.isCrossBorder(p.Email) {
			probability -= 0.05
			reasons = append(reasons, "cross-border party adds coordination overhead")
			break
		}
	}

	if probability < minSuccessProb {
		probability = minSuccessProb
	}
	if probability > maxSuccessProb {
		probability = maxSuccessProb
	}
	return probability, reasons
}

func meanRisk(analyses []PartyAnalysis) int {
	if len(analyses) == 0 {
		return 0
	}
	total := 0
	for _, pa := range analyses {
		total += pa.Risk
	}
	return total / len(analyses)
}

// estimateHours estimates wall-clock completion. Parallel is bounded by the
// slowest party, sequential by the sum; hybrid runs the first half in
// parallel and the rest sequentially.
func (o *Optimizer) estimateHours(order []string, analyses []PartyAnalysis, planType Type) float64 {
	byID := make(map[string]PartyAnalysis, len(analyses))
	for _, pa := range analyses {
		byID[pa.PartyID] = pa
	}

	switch planType {
	case TypeParallel:
		max := 0.0
		for _, pa := range analyses {
			if pa.EstimatedResponseHours > max {
				max = pa.EstimatedResponseHours
			}
		}
		return max
	case TypeHybrid:
		h := (len(order) + 1) / 2
		firstMax := 0.0
		for _, id := range order[:h] {
			if est := byID[id].EstimatedResponseHours; est > firstMax {
				firstMax = est
			}
		}
		rest := 0.0
		for _, id := range order[h:] {
			rest += byID[id].EstimatedResponseHours
		}
		return firstMax + rest
	default:
		total := 0.0
		for _, pa := range analyses {
			total += pa.EstimatedResponseHours
		}
		return total
	}
}

// scheduleReminders emits one nudge per party on their preferred channel, plus
// an escalated email for high-risk parties shortly before their expected
// response time runs out.
func (o *Optimizer) scheduleReminders(analyses []PartyAnalysis, urgency Urgency) []Reminder {
	scale := 1.0
	switch urgency {
	case UrgencyHigh:
		scale = 0.5
	case UrgencyLow:
		scale = 1.5
	}

	var reminders []Reminder
	for _, pa := range analyses {
		first := 0.5 * pa.EstimatedResponseHours
		if first < 4 {
			first = 4
		}
		reminders = append(reminders, Reminder{
			PartyID:    pa.PartyID,
			Channel:    pa.PreferredChannel,
			AfterHours: first * scale,
			Urgency:    "normal",
		})
		if pa.Risk > highRiskThreshold {
			reminders = append(reminders, Reminder{
				PartyID:    pa.PartyID,
				Channel:    "email",
				AfterHours: 0.8 * pa.EstimatedResponseHours,
				Urgency:    "high",
			})
		}
	}
	return reminders
}

// fallbackPlan is the conservative answer when scoring fails: everyone signs
// in the order given, one day apiece, with a single slow reminder each.
func (o *Optimizer) fallbackPlan(req Request) Plan {
	order := make([]string, 0, len(req.Parties))
	analyses := make([]PartyAnalysis, 0, len(req.Parties))
	reminders := make([]Reminder, 0, len(req.Parties))
	for _, p := range req.Parties {
		order = append(order, p.ID)
		analyses = append(analyses, PartyAnalysis{
			PartyID:                p.ID,
			Priority:               50,
			Risk:                   50,
			EstimatedResponseHours: baseResponseHours,
			PreferredChannel:       "email",
		})
		reminders = append(reminders, Reminder{
			PartyID:    p.ID,
			Channel:    "email",
			AfterHours: 72,
			Urgency:    "normal",
			Message:    "This document is still waiting for your signature.",
		})
	}
	return Plan{
		Type:               TypeSequential,
		Order:              order,
		Parties:            analyses,
		SuccessProbability: 0.75,
		EstimatedHours:     baseResponseHours * float64(len(req.Parties)),
		Reasons:            []string{"optimizer degraded; using a conservative sequential plan"},
		Reminders:          reminders,
		FallbackUsed:       true,
		GeneratedAt:        o.now().UTC(),
	}
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
