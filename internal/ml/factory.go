package ml

import (
	"github.com/sirupsen/logrus"

	"github.com/yourusername/paddock/internal/config"
)

// NewOracle builds the oracle described by the configuration: an always
// unavailable oracle when disabled, otherwise a cached HTTP oracle.
func NewOracle(cfg *config.MLOracleConfig, log *logrus.Logger) Oracle {
	if cfg == nil || !cfg.Enabled || cfg.URL == "" {
		return UnavailableOracle{}
	}
	httpOracle := NewHTTPOracle(cfg, log)
	if cfg.CacheTTLSeconds <= 0 {
		return httpOracle
	}
	return NewCachedOracle(httpOracle, cfg, log)
}
