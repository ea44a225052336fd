package model

import "math"

// Impact is the qualitative bucket of an audit, derived from its numeric score.
type Impact string

const (
	// ImpactInfo marks an audit without a numeric score.
	ImpactInfo Impact = "info"

	// ImpactPass marks an audit scoring 0.9 or higher.
	ImpactPass Impact = "pass"

	// ImpactWarning marks an audit scoring in [0.5, 0.9).
	ImpactWarning Impact = "warning"

	// ImpactFail marks an audit scoring below 0.5.
	ImpactFail Impact = "fail"
)

// Impact thresholds on the 0-1 audit score scale.
const (
	passThreshold    = 0.9
	warningThreshold = 0.5
)

// ImpactFromScore buckets an audit score. A nil score means the audit
// is informational only.
func ImpactFromScore(score *float64) Impact {
	switch {
	case score == nil:
		return ImpactInfo
	case *score >= passThreshold:
		return ImpactPass
	case *score >= warningThreshold:
		return ImpactWarning
	default:
		return ImpactFail
	}
}

// NeedsAttention reports whether the impact belongs in the opportunities list.
func (i Impact) NeedsAttention() bool {
	return i == ImpactFail || i == ImpactWarning
}

// String returns the impact label.
func (i Impact) String() string {
	return string(i)
}

// Round rounds to the nearest integer with ties going toward positive
// infinity (2.5 -> 3, -2.5 -> -2).
func Round(f float64) int {
	return int(math.Floor(f + 0.5))
}

// Float returns a pointer to f. It is a convenience for building audits
// with a known score.
func Float(f float64) *float64 {
	return &f
}
