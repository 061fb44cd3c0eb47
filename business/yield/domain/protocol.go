// Package domain holds the core yield analysis types and rules:
// pools, protocol metadata, migration costs, breakeven math inputs
// and history summaries.
package domain

// RiskTier classifies how risky a pool or protocol is considered.
type RiskTier int

const (
	RiskLow RiskTier = iota
	RiskMedium
	RiskHigh
)

// String returns the display label for the tier.
func (r RiskTier) String() string {
	switch r {
	case RiskLow:
		return "LOW"
	case RiskMedium:
		return "MED"
	case RiskHigh:
		return "HIGH"
	}
	return "UNKNOWN"
}

// Escalate returns the riskier of the two tiers.
func (r RiskTier) Escalate(other RiskTier) RiskTier {
	if other > r {
		return other
	}
	return r
}

// ProtocolInfo describes a vetted protocol.
type ProtocolInfo struct {
	Slug          string   `json:"slug"`
	Name          string   `json:"name"`
	Chains        []string `json:"chains"`
	VaultStandard string   `json:"vault_standard"`
	Audits        string   `json:"audits"`
	BaseRisk      RiskTier `json:"-"`
	RiskNotes     string   `json:"risk_notes"`
}
