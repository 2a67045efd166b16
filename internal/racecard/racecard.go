// Package racecard loads race cards (a race and its entrants) from YAML or JSON files.
package racecard

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/yourusername/paddock/internal/models"
	"github.com/yourusername/paddock/internal/racing"
)

// ErrInvalidCard is returned when a race card cannot be used as prediction input.
var ErrInvalidCard = errors.New("invalid race card")

// Card is a race and its field as read from a file.
type Card struct {
	Race     models.RaceContext `yaml:"race"`
	Entrants []models.Entrant   `yaml:"entrants" validate:"min=1,dive"`
}

var cardValidator = validator.New()

// LoadFile reads and validates a race card file. YAML is a superset of JSON,
// so both formats are accepted.
func LoadFile(path string) (*Card, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open race card: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// Decode parses a race card and normalises enum spellings.
func Decode(r io.Reader) (*Card, error) {
	var card Card
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&card); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidCard)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidCard, err)
	}

	card.normalize()

	if err := cardValidator.Struct(&card); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCard, describe(err))
	}
	return &card, nil
}

// normalize canonicalises case. Unknown values are kept as written so that
// field validation can report them.
func (c *Card) normalize() {
	if ct, ok := racing.ParseCourseType(string(c.Race.CourseType)); ok {
		c.Race.CourseType = ct
	} else if c.Race.CourseType == "" {
		c.Race.CourseType = racing.CourseTurf
	}
	if tc, ok := racing.ParseTrackCondition(string(c.Race.TrackCondition)); ok {
		c.Race.TrackCondition = tc
	} else if c.Race.TrackCondition == "" {
		c.Race.TrackCondition = racing.TrackGood
	}

	for i := range c.Entrants {
		e := &c.Entrants[i]
		if e.RunningStyle != "" {
			if s, ok := racing.ParseRunningStyle(string(e.RunningStyle)); ok {
				e.RunningStyle = s
			}
		}
		e.WorkoutEvaluation = racing.WorkoutGrade(strings.ToUpper(strings.TrimSpace(string(e.WorkoutEvaluation))))
	}
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
	}
	return strings.Join(msgs, "; ")
}
