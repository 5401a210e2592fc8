package domain

import "errors"

var (
	ErrDecode             = errors.New("image decode failed")
	ErrInvalidPrompt      = errors.New("invalid prompt")
	ErrEmptyResult        = errors.New("empty generation result")
	ErrRateLimited        = errors.New("rate limited")
	ErrContentBlocked     = errors.New("content blocked")
	ErrUnexpectedResponse = errors.New("unexpected response")
	ErrGenerationFailed   = errors.New("generation failed")
	ErrGenerationInFlight = errors.New("generation in flight")
	ErrNoResult           = errors.New("no result available")
)
