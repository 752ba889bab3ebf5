// Package achievement records competition results per student.
package achievement

import (
	"github.com/logesh2496/imayavarman-silambam/internal/apperr"
)

// Competition levels.
const (
	LevelDistrict = "District"
	LevelState    = "State"
	LevelNational = "National"
)

// Medal tiers.
const (
	MedalGold   = "Gold"
	MedalSilver = "Silver"
	MedalBronze = "Bronze"
)

// Achievement is a single competition result.
type Achievement struct {
	ID          string `json:"id"`
	StudentID   string `json:"studentId"`
	Level       string `json:"level"`
	Medal       string `json:"medal"`
	Description string `json:"description"`
}

// CreateInput carries a new achievement.
type CreateInput struct {
	StudentID   string `json:"studentId"`
	Level       string `json:"level"`
	Medal       string `json:"medal"`
	Description string `json:"description"`
}

// Validate reports the first invalid field.
func (in CreateInput) Validate() error {
	if in.StudentID == "" {
		return apperr.NewValidation("studentId", "student id is required")
	}
	switch in.Level {
	case LevelDistrict, LevelState, LevelNational:
	default:
		return apperr.NewValidation("level", "level must be one of District, State, National")
	}
	switch in.Medal {
	case MedalGold, MedalSilver, MedalBronze:
	default:
		return apperr.NewValidation("medal", "medal must be one of Gold, Silver, Bronze")
	}
	return nil
}
