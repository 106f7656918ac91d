package reconcile

// Config holds the tunable data and thresholds of the engine.
type Config struct {
	// StopWords are stripped from the Oracle's residual text before it is
	// inspected. Matching is per token and case-insensitive.
	StopWords []string
	// LeakageTokens are words that belong to a real address component. Finding
	// one in the residual text means the extractor missed a component.
	LeakageTokens []string
	// ShortAddressThreshold is the formatted-address length, in characters,
	// below which a non-top-tier address is flagged.
	ShortAddressThreshold int
	// DensityCharsPerComponent sets how many characters of formatted address
	// call for one populated structural component.
	DensityCharsPerComponent int
	// MaxDensityRequirement caps the number of components the density check demands.
	MaxDensityRequirement int
	// CapQualityOnCritical caps the final quality at Bad when any critical
	// remark is present. The Oracle's rating is never raised.
	CapQualityOnCritical bool
}

// DefaultConfig returns the tuned starting configuration.
func DefaultConfig() Config {
	return Config{
		StopWords: []string{
			"near", "opp", "opposite", "behind", "beside", "next", "front", "back", "side",
			"to", "of", "the", "and", "in", "at", "on", "via", "post", "po", "ps",
			"dist", "district", "tehsil", "taluk", "tq", "state", "india", "pin", "pincode", "code",
			"house", "h.no", "hno", "no", "flat", "plot", "c/o", "s/o", "w/o", "d/o",
			"mob", "mobile", "ph", "phone", "contact",
		},
		LeakageTokens: []string{
			"road", "rd", "street", "lane", "marg", "path", "gali", "galli",
			"colony", "nagar", "sector", "block", "phase", "layout", "extension",
			"society", "apartment", "apartments", "apts", "complex", "tower", "towers", "residency",
			"enclave", "vihar", "puram", "pura", "chowk", "bazar", "bazaar", "market",
			"cross", "mohalla", "ward", "village", "vill", "wadi", "peth",
		},
		ShortAddressThreshold:    35,
		DensityCharsPerComponent: 30,
		MaxDensityRequirement:    3,
		CapQualityOnCritical:     true,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.StopWords == nil {
		c.StopWords = d.StopWords
	}
	if c.LeakageTokens == nil {
		c.LeakageTokens = d.LeakageTokens
	}
	if c.ShortAddressThreshold <= 0 {
		c.ShortAddressThreshold = d.ShortAddressThreshold
	}
	if c.DensityCharsPerComponent <= 0 {
		c.DensityCharsPerComponent = d.DensityCharsPerComponent
	}
	if c.MaxDensityRequirement <= 0 {
		c.MaxDensityRequirement = d.MaxDensityRequirement
	}
	return c
}
