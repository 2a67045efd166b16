package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypedErrorsMatchSentinels(t *testing.T) {
	err := fmt.Errorf("predict: %w", NewInvalidEntrantCountError(2))
	assert.True(t, errors.Is(err, ErrInvalidEntrantCount))

	var countErr *InvalidEntrantCountError
	assert.True(t, errors.As(err, &countErr))
	assert.Equal(t, 2, countErr.Count)
	assert.Equal(t, MinFieldSize, countErr.Min)

	cfgErr := NewInconsistentConfigError("weights", "sum %.2f", 0.9)
	assert.True(t, errors.Is(cfgErr, ErrInconsistentConfig))
	assert.Contains(t, cfgErr.Error(), "sum 0.90")

	cause := errors.New("dial tcp: refused")
	mlErr := &MLUnavailableError{Reason: "connection", Err: cause}
	assert.True(t, errors.Is(mlErr, ErrMLUnavailable))
	assert.True(t, errors.Is(mlErr, cause))
}

func TestFeatureVectorImmutable(t *testing.T) {
	values := map[string]float64{FeatureOdds: 3.5}
	fv := NewFeatureVector(4, "Blue Comet", "", values, []string{FeaturePopularity})
	values[FeatureOdds] = 99

	assert.Equal(t, 3.5, fv.Value(FeatureOdds))

	next := fv.With(FeaturePaceAdvantage, 1.15)
	assert.False(t, fv.Has(FeaturePaceAdvantage))
	assert.Equal(t, 1.15, next.Value(FeaturePaceAdvantage))
	assert.True(t, next.IsDefaulted(FeaturePopularity))
}
