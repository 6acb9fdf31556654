package market

import (
	"business_planner/pkg/core/assumption"
)

// Position labels relative to the largest competitor.
const (
	PositionLeader     = "leader"
	PositionChallenger = "challenger"
	PositionFollower   = "follower"
	PositionNiche      = "niche"
)

// Concentration bands on the fractional HHI scale.
const (
	ConcentrationLow      = "unconcentrated"
	ConcentrationModerate = "moderately_concentrated"
	ConcentrationHigh     = "highly_concentrated"
)

// nicheThreshold is the share (percent) below which a non-leading player is niche.
const nicheThreshold = 5.0

// HHI is the sum of squared market shares of the own position and every
// competitor. Shares are percent on input and fractions in the result, so a
// monopoly scores 1.
func HHI(ownShare float64, competitors []assumption.Competitor) float64 {
	s := pct(ownShare)
	hhi := s * s
	for _, c := range competitors {
		cs := pct(c.MarketShare)
		hhi += cs * cs
	}
	return hhi
}

// ConcentrationLevel buckets an HHI value.
func ConcentrationLevel(hhi float64) string {
	switch {
	case hhi < 0.15:
		return ConcentrationLow
	case hhi < 0.25:
		return ConcentrationModerate
	}
	return ConcentrationHigh
}

// LargestCompetitor returns the highest competitor share (percent), 0 without competitors.
func LargestCompetitor(competitors []assumption.Competitor) float64 {
	largest := 0.0
	for _, c := range competitors {
		if c.MarketShare > largest {
			largest = c.MarketShare
		}
	}
	return largest
}

// CompetitivePosition labels an own share against the competitors.
func CompetitivePosition(ownShare float64, competitors []assumption.Competitor) string {
	largest := LargestCompetitor(competitors)
	switch {
	case ownShare > 0 && ownShare >= largest:
		return PositionLeader
	case largest > 0 && ownShare >= largest/2:
		return PositionChallenger
	case ownShare >= nicheThreshold:
		return PositionFollower
	}
	return PositionNiche
}

// CombinedShare is the own share plus every competitor's, in percent.
func CombinedShare(ownShare float64, competitors []assumption.Competitor) float64 {
	total := ownShare
	for _, c := range competitors {
		total += c.MarketShare
	}
	return total
}
