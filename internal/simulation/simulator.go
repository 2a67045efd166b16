// Package simulation re-scores a field under forced pace and going scenarios and
// derives the positional race trace used for visualization.
package simulation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yourusername/paddock/internal/models"
	"github.com/yourusername/paddock/internal/pace"
	"github.com/yourusername/paddock/internal/racing"
	"github.com/yourusername/paddock/internal/scoring"
)

// Options tunes scenario output.
type Options struct {
	TopN             int  `mapstructure:"top_n" json:"top_n"`
	FrameCount       int  `mapstructure:"frame_count" json:"frame_count"`
	IncludeAnimation bool `mapstructure:"include_animation" json:"include_animation"`
}

// DefaultOptions returns the standard simulation options.
func DefaultOptions() Options {
	return Options{TopN: 5, FrameCount: DefaultFrameCount, IncludeAnimation: true}
}

// Simulator runs the scoring pipeline under every scenario value.
type Simulator struct {
	classifier *pace.Classifier
	integrator *scoring.Integrator
	ranker     *scoring.Ranker
	detector   *scoring.DarkHorseDetector
	opts       Options
	now        func() time.Time
}

// NewSimulator creates a simulator.
func NewSimulator(classifier *pace.Classifier, integrator *scoring.Integrator, detector *scoring.DarkHorseDetector, opts Options) *Simulator {
	if opts.TopN <= 0 {
		opts.TopN = DefaultOptions().TopN
	}
	if opts.FrameCount < 2 {
		opts.FrameCount = DefaultFrameCount
	}
	return &Simulator{
		classifier: classifier,
		integrator: integrator,
		ranker:     scoring.NewRanker(),
		detector:   detector,
		opts:       opts,
		now:        time.Now,
	}
}

// WithClock replaces the simulator's time source.
func (s *Simulator) WithClock(now func() time.Time) *Simulator {
	s.now = now
	return s
}

// Simulate builds the scenario comparison and race trace for one field. mlProbs
// follows the same regime rule as prediction: it is used only if it covers the field.
func (s *Simulator) Simulate(ctx context.Context, race models.RaceContext, vectors []models.FeatureVector, mlProbs map[int]float64) (models.RaceSimulation, error) {
	if len(vectors) < models.MinFieldSize {
		return models.RaceSimulation{}, models.NewInvalidEntrantCountError(len(vectors))
	}

	base := s.classifier.Classify(race, vectors)
	ranked, regime, err := s.rank(vectors, base, mlProbs)
	if err != nil {
		return models.RaceSimulation{}, err
	}

	paceScenarios := make([]models.ScenarioResult, len(racing.Paces))
	trackScenarios := make([]models.ScenarioResult, len(racing.TrackConditions))
	probs := pace.ScenarioProbabilities(base)

	g, gctx := errgroup.WithContext(ctx)
	for i, p := range racing.Paces {
		i, p := i, p
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			pc := s.classifier.ForcePace(base, p)
			res, err := s.scenario(models.AxisPace, vectors, pc, mlProbs)
			if err != nil {
				return fmt.Errorf("pace scenario %s: %w", p, err)
			}
			prob := probs[p]
			res.Probability = &prob
			paceScenarios[i] = res
			return nil
		})
	}
	for i, tc := range racing.TrackConditions {
		i, tc := i, tc
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			pc := s.classifier.ForceTrack(base, tc)
			res, err := s.scenario(models.AxisTrackCondition, vectors, pc, mlProbs)
			if err != nil {
				return fmt.Errorf("track scenario %s: %w", tc, err)
			}
			trackScenarios[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return models.RaceSimulation{}, err
	}

	return models.RaceSimulation{
		RaceID:         race.RaceID,
		PredictedPace:  base,
		Regime:         regime,
		Trace:          s.Trace(ranked, base),
		PaceScenarios:  paceScenarios,
		TrackScenarios: trackScenarios,
		GeneratedAt:    s.now().UTC(),
	}, nil
}

// Trace derives the formation, corner positions and, if enabled, the animation
// frames for a ranked field.
func (s *Simulator) Trace(ranked []models.ScoreResult, pc models.PaceContext) models.SimulationTrace {
	corners := CornerPositions(ranked, pc)
	trace := models.SimulationTrace{
		Formation: BuildFormation(ranked),
		Corners:   corners,
	}
	if s.opts.IncludeAnimation {
		trace.Frames = Animate(corners, s.opts.FrameCount)
	}
	return trace
}

func (s *Simulator) rank(vectors []models.FeatureVector, pc models.PaceContext, mlProbs map[int]float64) ([]models.ScoreResult, models.Regime, error) {
	scored, err := s.integrator.Score(vectors, pc, mlProbs)
	if err != nil {
		return nil, "", err
	}
	ranked := s.detector.Detect(s.ranker.Rank(scored), scored.Weights)
	return ranked, scored.Regime, nil
}

func (s *Simulator) scenario(axis models.ScenarioAxis, vectors []models.FeatureVector, pc models.PaceContext, mlProbs map[int]float64) (models.ScenarioResult, error) {
	ranked, _, err := s.rank(vectors, pc, mlProbs)
	if err != nil {
		return models.ScenarioResult{}, err
	}

	n := s.opts.TopN
	if n > len(ranked) {
		n = len(ranked)
	}
	entries := make([]models.ScenarioEntry, n)
	for i := 0; i < n; i++ {
		r := ranked[i]
		entries[i] = models.ScenarioEntry{
			Rank:         r.Rank,
			HorseNumber:  r.HorseNumber,
			HorseName:    r.HorseName,
			RunningStyle: r.RunningStyle,
			Score:        r.IntegratedScore,
		}
	}

	return models.ScenarioResult{
		Axis:               axis,
		Pace:               pc.Pace,
		TrackCondition:     pc.TrackCondition,
		PaceContext:        pc,
		FrontAdvantage:     pc.FrontAdvantageScore,
		Ranking:            entries,
		KeyEntrants:        scoring.KeyEntrants(ranked),
		AdvantageousStyles: append([]racing.RunningStyle(nil), pc.AdvantageousStyles...),
		Description:        describe(axis, pc, entries),
	}, nil
}

func describe(axis models.ScenarioAxis, pc models.PaceContext, top []models.ScenarioEntry) string {
	var b strings.Builder
	switch axis {
	case models.AxisPace:
		fmt.Fprintf(&b, "%s pace", pc.Pace)
	case models.AxisTrackCondition:
		fmt.Fprintf(&b, "%s going (front advantage %+.2f)", pc.TrackCondition, pc.FrontAdvantageScore)
	}
	if len(top) > 0 {
		fmt.Fprintf(&b, ": No.%d leads the ranking", top[0].HorseNumber)
	}
	if len(pc.AdvantageousStyles) > 0 {
		styles := make([]string, len(pc.AdvantageousStyles))
		for i, st := range pc.AdvantageousStyles {
			styles[i] = strings.ToLower(string(st))
		}
		fmt.Fprintf(&b, ", %s favoured", strings.Join(styles, "/"))
	}
	return b.String()
}
