package workflow

// OptimizerConfig holds the scoring tables. Zero-valued fields fall back to
// the defaults, so callers can override selectively.
type OptimizerConfig struct {
	// RoleBoosts adds to the base priority per party role.
	RoleBoosts map[string]int
	// TypeComplexity scales the 24h base response estimate per document type.
	TypeComplexity map[string]float64
	// RoleResponseFactor scales the response estimate per party role.
	RoleResponseFactor map[string]float64
	// CrossBorderTLDs lists email-domain suffixes treated as cross-border
	// signers when estimating success probability.
	CrossBorderTLDs []string
}

func defaultRoleBoosts() map[string]int {
	return map[string]int{
		"approver":      15,
		"notary":        20,
		"legal_counsel": 20,
		"signer":        10,
		"witness":       5,
		"cc":            0,
	}
}

func defaultTypeComplexity() map[string]float64 {
	return map[string]float64{
		"invoice":               0.5,
		"purchase_order":        0.8,
		"nda":                   1.0,
		"service_agreement":     1.2,
		"employment_contract":   1.5,
		"partnership_agreement": 2.0,
		"legal_document":        2.5,
		"unknown":               1.0,
	}
}

func defaultRoleResponseFactor() map[string]float64 {
	return map[string]float64{
		"notary":        1.5,
		"legal_counsel": 1.4,
		"approver":      1.2,
		"signer":        1.0,
		"witness":       0.8,
		"cc":            0.5,
	}
}

func defaultCrossBorderTLDs() []string {
	return []string{".de", ".fr", ".es", ".it", ".nl", ".eu", ".uk", ".jp", ".au", ".br"}
}

func (c OptimizerConfig) withDefaults() OptimizerConfig {
	if c.RoleBoosts == nil {
		c.RoleBoosts = defaultRoleBoosts()
	}
	if c.TypeComplexity == nil {
		c.TypeComplexity = defaultTypeComplexity()
	}
	if c.RoleResponseFactor == nil {
		c.RoleResponseFactor = defaultRoleResponseFactor()
	}
	if c.CrossBorderTLDs == nil {
		c.CrossBorderTLDs = defaultCrossBorderTLDs()
	}
	return c
}
