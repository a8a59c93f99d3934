package pricing

// Tiered, model-weighted pricing for metered gateway usage.
// All prices are carried as integer micro-USD per 1K tokens and all weights
// as basis points, so identical inputs always price identically regardless of
// platform float behavior.

// Tier is one token-volume bracket. Brackets are contiguous and
// non-overlapping over [0, ∞); a cumulative volume sitting exactly on a
// boundary belongs to the upper tier.
type Tier struct {
	Name                string
	TokenRangeLow       uint64
	TokenRangeHigh      uint64 // exclusive; 0 means unbounded
	BasePricePer1KMicro int64  // micro-USD per 1K tokens
	VolumeDiscountBps   int64  // basis points off after markup and weighting
}

const (
	// MaxMarkupPct bounds the admin-configured markup; anything outside
	// [0, MaxMarkupPct] is clamped, not rejected
	MaxMarkupPct = 500

	bpsDenominator = 10_000
)

// defaultTiers is the static tier table
var defaultTiers = []Tier{
	{Name: "Starter", TokenRangeLow: 0, TokenRangeHigh: 100_000, BasePricePer1KMicro: 20_000, VolumeDiscountBps: 0},        // $0.020/1K
	{Name: "Growth", TokenRangeLow: 100_000, TokenRangeHigh: 1_000_000, BasePricePer1KMicro: 15_000, VolumeDiscountBps: 500},  // $0.015/1K, 5% off
	{Name: "Scale", TokenRangeLow: 1_000_000, TokenRangeHigh: 0, BasePricePer1KMicro: 10_000, VolumeDiscountBps: 1_200},       // $0.010/1K, 12% off
}

// modelMultipliersBps weights the unit price per model, in basis points.
// Unknown models price at 1.0: pricing must never crash on a model id it has
// not seen.
var modelMultipliersBps = map[string]int64{
	"gpt-4":             30_000, // 3.0x
	"gpt-4o":            12_500, // 1.25x
	"gpt-4o-mini":       5_000,  // 0.5x
	"gpt-3.5-turbo":     2_500,  // 0.25x
	"claude-3-opus":     25_000, // 2.5x
	"claude-3-5-sonnet": 12_000, // 1.2x
	"claude-3-haiku":    2_000,  // 0.2x
}

// Tiers returns the static tier table
func Tiers() []Tier {
	return defaultTiers
}

// ResolveTier selects the tier whose [low, high) range contains the
// cumulative token volume
func ResolveTier(cumulativeTokens uint64) Tier {
	for _, tier := range defaultTiers {
		if cumulativeTokens < tier.TokenRangeLow {
			continue
		}
		if tier.TokenRangeHigh == 0 || cumulativeTokens < tier.TokenRangeHigh {
			return tier
		}
	}
	// Tiers cover [0, ∞), so this is unreachable with a well-formed table
	return defaultTiers[len(defaultTiers)-1]
}

// ModelMultiplierBps returns the weight for a model id in basis points,
// defaulting to 1.0 for unknown models
func ModelMultiplierBps(modelID string) int64 {
	if bps, ok := modelMultipliersBps[modelID]; ok {
		return bps
	}
	return bpsDenominator
}

// ClampMarkup validates and clamps a markup percentage to [0, MaxMarkupPct]
func ClampMarkup(markupPct int64) int64 {
	if markupPct < 0 {
		return 0
	}
	if markupPct > MaxMarkupPct {
		return MaxMarkupPct
	}
	return markupPct
}

// Price computes the effective unit price in micro-USD per 1K tokens for the
// given cumulative volume, model and markup:
//
//	withMarkup = tier.base * (1 + markup/100)
//	withModel  = withMarkup * multiplier(model)
//	final      = withModel * (1 - tier.discount)
func Price(cumulativeTokens uint64, modelID string, markupPct int64) int64 {
	tier := ResolveTier(cumulativeTokens)
	markup := ClampMarkup(markupPct)

	withMarkup := tier.BasePricePer1KMicro * (100 + markup) / 100
	withModel := withMarkup * ModelMultiplierBps(modelID) / bpsDenominator
	return withModel * (bpsDenominator - tier.VolumeDiscountBps) / bpsDenominator
}

// Cost converts a token count to micro-USD at a per-1K unit price
func Cost(tokens uint64, unitPricePer1KMicro int64) int64 {
	return int64(tokens) * unitPricePer1KMicro / 1000
}
