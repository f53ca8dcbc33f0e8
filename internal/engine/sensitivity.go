package engine

// The sensitivity dial (0-100) maps to three strictness bands. Earlier
// engine generations carried slightly different hand-tuned cutoffs; this
// mapping is the documented one, the others are superseded drafts.

// Band is a sensitivity strictness band.
type Band int

const (
	BandRelaxed  Band = iota // 0-35
	BandBalanced             // 36-65
	BandStrict               // 66-100
)

func (b Band) String() string {
	switch b {
	case BandRelaxed:
		return "relaxed"
	case BandBalanced:
		return "balanced"
	default:
		return "strict"
	}
}

// BandFor returns the band a sensitivity value falls in. Out-of-range
// values are treated as the nearest band edge.
func BandFor(sensitivity int) Band {
	switch {
	case sensitivity <= 35:
		return BandRelaxed
	case sensitivity <= 65:
		return BandBalanced
	default:
		return BandStrict
	}
}

// StrongCutoffs returns the pair of cutoffs the score layer decides on:
// score >= edu is definitely educational, score <= nonEdu definitely not.
// Relaxed is more permissive on both ends, strict less.
func StrongCutoffs(sensitivity int) (edu, nonEdu int) {
	switch BandFor(sensitivity) {
	case BandRelaxed:
		return 40, 10
	case BandBalanced:
		return 50, 20
	default:
		return 60, 30
	}
}

// OracleBand returns the half-open score interval [lo, hi) in which the
// category oracle is worth consulting.
func OracleBand(sensitivity int) (lo, hi int) {
	switch BandFor(sensitivity) {
	case BandRelaxed:
		return -40, 50
	case BandBalanced:
		return -50, 60
	default:
		return -60, 70
	}
}

// FallbackThreshold maps sensitivity through a three-band piecewise-linear
// function to the final show/hide threshold: relaxed interpolates 20..35
// over sensitivity 0..35, balanced 45..55 over 36..65, strict 65..85 over
// 66..100. Integer interpolation rounds half up.
func FallbackThreshold(sensitivity int) int {
	if sensitivity < 0 {
		sensitivity = 0
	}
	if sensitivity > 100 {
		sensitivity = 100
	}
	switch BandFor(sensitivity) {
	case BandRelaxed:
		return lerp(20, 35, sensitivity, 0, 35)
	case BandBalanced:
		return lerp(45, 55, sensitivity, 36, 65)
	default:
		return lerp(65, 85, sensitivity, 66, 100)
	}
}

// Threshold relief applied when the oracle is off and a relaxed-band score
// sits just under the threshold.
const (
	oracleOffMargin = 10
	oracleOffRelief = 5
)

func lerp(lo, hi, s, sLo, sHi int) int {
	return lo + ((hi-lo)*(s-sLo)+(sHi-sLo)/2)/(sHi-sLo)
}
