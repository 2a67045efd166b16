package service

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/paddock/internal/models"
	"github.com/yourusername/paddock/internal/racing"
	"github.com/yourusername/paddock/internal/scoring"
)

// DataValidator checks race and entrant records before feature building. Only
// missing or duplicate horse numbers are fatal; everything else is reported as
// a warning because the feature builder substitutes defaults.
type DataValidator struct {
	logger *logrus.Logger
}

// NewDataValidator creates a new data validator
func NewDataValidator(logger *logrus.Logger) *DataValidator {
	return &DataValidator{logger: logger}
}

// ValidateRace validates race data for required fields and constraints
func (v *DataValidator) ValidateRace(race models.RaceContext) []string {
	var warnings []string

	if race.RaceID == "" {
		warnings = append(warnings, "race_id is empty")
	}
	if _, ok := racing.LookupVenue(race.Venue); !ok {
		warnings = append(warnings, fmt.Sprintf("unknown venue %q, using a neutral course", race.Venue))
	}
	if race.Distance <= 0 {
		warnings = append(warnings, "distance is missing")
	} else if race.Distance < 800 || race.Distance > 4000 {
		warnings = append(warnings, fmt.Sprintf("distance out of range (800-4000m), got %d", race.Distance))
	}
	if race.TrackCondition != "" && !race.TrackCondition.Valid() {
		warnings = append(warnings, fmt.Sprintf("unknown track condition %q, treated as good", race.TrackCondition))
	}

	return warnings
}

// ValidateEntrant validates one entrant's optional fields
func (v *DataValidator) ValidateEntrant(e models.Entrant) []string {
	var warnings []string

	if e.Odds != nil && *e.Odds <= 1 {
		warnings = append(warnings, fmt.Sprintf("horse %d: odds %.2f below 1.0", e.HorseNumber, *e.Odds))
	}
	if e.RunningStyle != "" && !e.RunningStyle.Valid() {
		warnings = append(warnings, fmt.Sprintf("horse %d: unknown running style %q, treated as VERSATILE", e.HorseNumber, e.RunningStyle))
	}
	if e.Weight != nil && (*e.Weight < 48 || *e.Weight > 65) {
		warnings = append(warnings, fmt.Sprintf("horse %d: carried weight %.1fkg out of range", e.HorseNumber, *e.Weight))
	}
	if e.MLPlaceProbability != nil && !scoring.ValidProbability(*e.MLPlaceProbability) {
		warnings = append(warnings, fmt.Sprintf("horse %d: supplied ML probability %.3f ignored", e.HorseNumber, *e.MLPlaceProbability))
	}

	return warnings
}

// ValidateField checks the whole field. It returns an error for non-positive or
// duplicate horse numbers and warnings for everything else.
func (v *DataValidator) ValidateField(race models.RaceContext, entrants []models.Entrant) ([]string, error) {
	seen := make(map[int]bool, len(entrants))
	for _, e := range entrants {
		if e.HorseNumber <= 0 {
			return nil, fmt.Errorf("%w: got %d", models.ErrInvalidHorseNumber, e.HorseNumber)
		}
		if seen[e.HorseNumber] {
			return nil, fmt.Errorf("%w: %d", models.ErrDuplicateEntrant, e.HorseNumber)
		}
		seen[e.HorseNumber] = true
	}

	warnings := v.ValidateRace(race)
	for _, e := range entrants {
		warnings = append(warnings, v.ValidateEntrant(e)...)
	}

	for _, w := range warnings {
		v.logger.WithField("race_id", race.RaceID).Warn(w)
	}
	return warnings, nil
}
