package report

import (
	"github.com/logesh2496/imayavarman-silambam/internal/achievement"
)

// MedalTally counts achievements per medal tier.
type MedalTally struct {
	Gold   int `json:"gold"`
	Silver int `json:"silver"`
	Bronze int `json:"bronze"`
}

// Total sums all tiers.
func (t MedalTally) Total() int {
	return t.Gold + t.Silver + t.Bronze
}

// TallyMedals reduces achievements into per-tier counts. Order does not
// matter; unknown medal values are ignored.
func TallyMedals(achievements []achievement.Achievement) MedalTally {
	var t MedalTally
	for _, a := range achievements {
		switch a.Medal {
		case achievement.MedalGold:
			t.Gold++
		case achievement.MedalSilver:
			t.Silver++
		case achievement.MedalBronze:
			t.Bronze++
		}
	}
	return t
}
