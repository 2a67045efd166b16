// Package service composes the prediction engine into request pipelines.
package service

import (
	"github.com/yourusername/paddock/internal/betting"
	"github.com/yourusername/paddock/internal/config"
	"github.com/yourusername/paddock/internal/features"
	"github.com/yourusername/paddock/internal/models"
	"github.com/yourusername/paddock/internal/pace"
	"github.com/yourusername/paddock/internal/scoring"
	"github.com/yourusername/paddock/internal/simulation"
)

// Engine holds the stateless pipeline stages configured for one deployment.
// All stages are safe for concurrent use.
type Engine struct {
	Builder      *features.Builder
	Classifier   *pace.Classifier
	Integrator   *scoring.Integrator
	Ranker       *scoring.Ranker
	Detector     *scoring.DarkHorseDetector
	Recommender  *betting.Recommender
	Simulator    *simulation.Simulator
	MinFieldSize int
}

// NewEngine builds the pipeline stages from configuration. Weighting regimes
// that do not sum to 1 and unbalanced ticket settings are rejected here.
func NewEngine(cfg *config.Config) (*Engine, error) {
	integrator, err := scoring.NewIntegrator(cfg.Prediction.Weights.MLPresent, cfg.Prediction.Weights.Fallback)
	if err != nil {
		return nil, err
	}
	recommender, err := betting.NewRecommender(cfg.Betting)
	if err != nil {
		return nil, err
	}

	classifier := pace.NewClassifier()
	detector := scoring.NewDarkHorseDetector(cfg.Prediction.DarkHorseMargin)

	minField := cfg.Prediction.MinFieldSize
	if minField < models.MinFieldSize {
		minField = models.MinFieldSize
	}

	return &Engine{
		Builder:      features.NewBuilder(),
		Classifier:   classifier,
		Integrator:   integrator,
		Ranker:       scoring.NewRanker(),
		Detector:     detector,
		Recommender:  recommender,
		Simulator:    simulation.NewSimulator(classifier, integrator, detector, cfg.Simulation),
		MinFieldSize: minField,
	}, nil
}

// CheckFieldSize rejects fields too small to rank or bet.
func (e *Engine) CheckFieldSize(n int) error {
	if n < e.MinFieldSize {
		return &models.InvalidEntrantCountError{Count: n, Min: e.MinFieldSize}
	}
	return nil
}
