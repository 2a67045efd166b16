// Package ml provides place-probability oracles backed by the external ML service.
package ml

import "errors"

var (
	// ErrOracleUnavailable indicates the oracle cannot answer right now
	ErrOracleUnavailable = errors.New("place probability oracle unavailable")

	// ErrInvalidProbability indicates the oracle returned a value outside [0, 1]
	ErrInvalidProbability = errors.New("invalid place probability")

	// ErrConnectionFailed indicates the HTTP call to the ML service failed
	ErrConnectionFailed = errors.New("ml service connection failed")

	// ErrCircuitOpen indicates calls are suspended after repeated failures
	ErrCircuitOpen = errors.New("ml service circuit breaker open")

	// ErrInvalidResponse indicates an undecodable response from the ML service
	ErrInvalidResponse = errors.New("invalid response from ml service")
)
