package main

import (
	"context"
	"time"

	"github.com/yourusername/paddock/internal/racecard"
)

// loadCard reads a race card from a local file or an upstream URL.
func loadCard(ctx context.Context, location string) (*racecard.Card, error) {
	if !racecard.IsRemote(location) {
		return racecard.LoadFile(location)
	}

	cfg := racecard.DefaultRemoteConfig()
	if app.cfg.RaceCard.TimeoutMs > 0 {
		cfg.Timeout = time.Duration(app.cfg.RaceCard.TimeoutMs) * time.Millisecond
	}
	cfg.MaxRetries = app.cfg.RaceCard.MaxRetries
	cfg.RateLimit = app.cfg.RaceCard.RateLimit
	cfg.APIKey = app.cfg.RaceCard.APIKey

	src := racecard.NewRemoteSource(cfg, app.log)
	defer src.Close()
	return src.Fetch(ctx, location)
}
