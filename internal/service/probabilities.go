package service

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yourusername/paddock/internal/ml"
	"github.com/yourusername/paddock/internal/models"
	"github.com/yourusername/paddock/internal/scoring"
)

// Fallback reasons reported in notes and metrics.
const (
	fallbackTimeout            = "timeout"
	fallbackCircuitOpen        = "circuit_open"
	fallbackInvalidProbability = "invalid_probability"
	fallbackUnavailable        = "unavailable"
)

// probabilitySource gathers ML place probabilities for a field. Probabilities
// supplied on the entrant records win; the oracle is asked for the rest.
type probabilitySource struct {
	oracle  ml.Oracle
	timeout time.Duration
}

// fetch returns a probability for every entrant or an MLUnavailableError. A
// single failure abandons the whole field: the regime is chosen per race.
func (s probabilitySource) fetch(ctx context.Context, raceID string, entrants []models.Entrant, vectors []models.FeatureVector) (map[int]float64, error) {
	probs := make([]float64, len(entrants))
	var pending []int
	for i, e := range entrants {
		if e.MLPlaceProbability != nil && scoring.ValidProbability(*e.MLPlaceProbability) {
			probs[i] = *e.MLPlaceProbability
			continue
		}
		pending = append(pending, i)
	}

	if len(pending) > 0 {
		if s.oracle == nil {
			return nil, &models.MLUnavailableError{Reason: fallbackUnavailable, Err: ml.ErrOracleUnavailable}
		}

		tctx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()

		g, gctx := errgroup.WithContext(tctx)
		for _, i := range pending {
			i := i
			g.Go(func() error {
				p, err := s.oracle.EstimatePlaceProbability(gctx, ml.PlaceRequest{RaceID: raceID, Features: vectors[i]})
				if err != nil {
					return err
				}
				if !scoring.ValidProbability(p) {
					return ml.ErrInvalidProbability
				}
				probs[i] = p
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			reason := fallbackReason(err)
			if errors.Is(tctx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
				reason = fallbackTimeout
			}
			return nil, &models.MLUnavailableError{Reason: reason, Err: err}
		}
	}

	out := make(map[int]float64, len(entrants))
	for i, e := range entrants {
		out[e.HorseNumber] = probs[i]
	}
	return out, nil
}

func fallbackReason(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return fallbackTimeout
	case errors.Is(err, ml.ErrCircuitOpen):
		return fallbackCircuitOpen
	case errors.Is(err, ml.ErrInvalidProbability), errors.Is(err, ml.ErrInvalidResponse):
		return fallbackInvalidProbability
	default:
		return fallbackUnavailable
	}
}
