// Package ml connects the ensemble to the external tree-model prediction service.
package ml

import "errors"

var (
	// ErrMLServiceUnavailable indicates the ML service is unreachable
	ErrMLServiceUnavailable = errors.New("ml service unavailable")

	// ErrInvalidPrediction indicates the prediction response is invalid
	ErrInvalidPrediction = errors.New("invalid prediction response")

	// ErrModelNotTrained indicates the model has not been trained yet
	ErrModelNotTrained = errors.New("model not trained")

	// ErrConnectionFailed indicates gRPC connection failed
	ErrConnectionFailed = errors.New("grpc connection failed")

	// ErrTimeout indicates request timed out
	ErrTimeout = errors.New("request timeout")

	// ErrInvalidResponse indicates invalid response from ML service
	ErrInvalidResponse = errors.New("invalid response from ml service")

	// ErrCircuitOpen indicates the HTTP client stopped calling after repeated failures
	ErrCircuitOpen = errors.New("circuit breaker open")
)
