package domain

// SupportedChains are the chains pools are scanned on.
var SupportedChains = []string{"Base", "Arbitrum"}

// DefaultRegistry returns the registry of vetted USDC protocols.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	for _, info := range []ProtocolInfo{
		{
			Slug:          "morpho-v1",
			Name:          "Morpho",
			Chains:        []string{"Base", "Arbitrum"},
			VaultStandard: "ERC-4626",
			Audits:        "Spearbit, Trail of Bits, Cantina",
			BaseRisk:      RiskLow,
			RiskNotes:     "Non-custodial, immutable markets. Curated vaults add a layer of risk management.",
		},
		{
			Slug:          "euler-v2",
			Name:          "Euler v2",
			Chains:        []string{"Base", "Arbitrum"},
			VaultStandard: "ERC-4626",
			Audits:        "Spearbit, Certora, Trail of Bits",
			BaseRisk:      RiskLow,
			RiskNotes:     "Modular vault system. v2 is a full rewrite after v1 exploit. Formal verification.",
		},
		{
			Slug:          "lazy-summer-protocol",
			Name:          "Lazy Summer",
			Chains:        []string{"Base"},
			VaultStandard: "ERC-4626",
			Audits:        "Community audited",
			BaseRisk:      RiskMedium,
			RiskNotes:     "Yield aggregator on Base. Allocates across underlying protocols.",
		},
		{
			Slug:          "silo-v2",
			Name:          "Silo v2",
			Chains:        []string{"Base", "Arbitrum"},
			VaultStandard: "Custom (isolated markets)",
			Audits:        "ABDK, Quantstamp",
			BaseRisk:      RiskMedium,
			RiskNotes:     "Isolated lending markets. Risk is contained per pair.",
		},
		{
			Slug:          "moonwell-lending",
			Name:          "Moonwell",
			Chains:        []string{"Base"},
			VaultStandard: "cToken (Compound-style)",
			Audits:        "Halborn, Code4rena",
			BaseRisk:      RiskMedium,
			RiskNotes:     "Fork of Compound/Moonbeam. Governance-managed parameters.",
		},
		{
			Slug:          "compound-v3",
			Name:          "Compound v3",
			Chains:        []string{"Base", "Arbitrum"},
			VaultStandard: "Comet (single-asset)",
			Audits:        "OpenZeppelin, Trail of Bits, ChainSecurity",
			BaseRisk:      RiskLow,
			RiskNotes:     "Battle-tested. Single-borrowable-asset model. COMP rewards may fluctuate.",
		},
		{
			Slug:          "aave-v3",
			Name:          "Aave v3",
			Chains:        []string{"Base", "Arbitrum"},
			VaultStandard: "aToken (rebasing)",
			Audits:        "SigmaPrime, Trail of Bits, Certora",
			BaseRisk:      RiskLow,
			RiskNotes:     "Largest DeFi lending protocol. E-mode, isolation mode for risk segmentation.",
		},
		{
			Slug:          "harvest-finance",
			Name:          "Harvest Finance",
			Chains:        []string{"Base", "Arbitrum"},
			VaultStandard: "Custom (fToken)",
			Audits:        "Haechi, PeckShield",
			BaseRisk:      RiskMedium,
			RiskNotes:     "Yield aggregator. Auto-compounds. Strategy risk depends on underlying.",
		},
		{
			Slug:          "40-acres",
			Name:          "40 Acres",
			Chains:        []string{"Base"},
			VaultStandard: "ERC-4626",
			Audits:        "Community audited",
			BaseRisk:      RiskHigh,
			RiskNotes:     "Newer protocol. Lower TVL means higher smart contract risk.",
		},
		{
			Slug:          "wasabi-protocol",
			Name:          "Wasabi",
			Chains:        []string{"Arbitrum"},
			VaultStandard: "Custom",
			Audits:        "Community audited",
			BaseRisk:      RiskHigh,
			RiskNotes:     "Options/perps protocol. Yield from options premiums.",
		},
		{
			Slug:          "yo-protocol",
			Name:          "Yo Protocol",
			Chains:        []string{"Base"},
			VaultStandard: "Custom",
			Audits:        "Community audited",
			BaseRisk:      RiskHigh,
			RiskNotes:     "Newer protocol. Lower TVL. Verify before large deposits.",
		},
	} {
		r.Register(info)
	}

	return r
}
