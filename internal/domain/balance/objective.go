package balance

import "math"

const scoreEpsilon = 1e-9

// Score is the balancing objective, compared lexicographically: skill
// average gap, then age average gap, then players outside their primary
// position. Lower is better.
type Score struct {
	SkillGap   float64
	AgeGap     float64
	OffPrimary int
}

func (s Score) Less(other Score) bool {
	if c := compareFloat(s.SkillGap, other.SkillGap); c != 0 {
		return c < 0
	}
	if c := compareFloat(s.AgeGap, other.AgeGap); c != 0 {
		return c < 0
	}
	return s.OffPrimary < other.OffPrimary
}

func compareFloat(a, b float64) int {
	switch {
	case a < b-scoreEpsilon:
		return -1
	case a > b+scoreEpsilon:
		return 1
	default:
		return 0
	}
}

func averageGap(sumA, countA, sumB, countB int) float64 {
	return math.Abs(average(sumA, countA) - average(sumB, countB))
}

func average(sum, count int) float64 {
	if count == 0 {
		return 0
	}
	return float64(sum) / float64(count)
}
