package srs

import "github.com/phrazzld/lingo-api/internal/domain"

// Params defines all configurable parameters for the SRS algorithm
type Params struct {
	// Core limits
	MinEaseFactor float64

	// Grades at or above PassingQuality count as a successful recall
	PassingQuality int

	// Applied to the ease factor on a failed recall
	FailureEasePenalty float64

	// Interval after a failed recall
	ResetInterval int

	// Intervals for the first and second consecutive success
	FirstInterval  int
	SecondInterval int
}

// ParamsConfig allows overriding the default parameters when creating a new Params instance
type ParamsConfig struct {
	MinEaseFactor      float64
	PassingQuality     int
	FailureEasePenalty float64
	ResetInterval      int
	FirstInterval      int
	SecondInterval     int
}

// NewDefaultParams creates a new Params instance with default values
func NewDefaultParams() *Params {
	return &Params{
		MinEaseFactor:      domain.MinEaseFactor,
		PassingQuality:     3,
		FailureEasePenalty: 0.2,
		ResetInterval:      1,
		FirstInterval:      1,
		SecondInterval:     6,
	}
}

// NewParams creates a new Params instance with custom configuration
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	if config.MinEaseFactor > 0 {
		params.MinEaseFactor = config.MinEaseFactor
	}
	if config.PassingQuality > 0 {
		params.PassingQuality = config.PassingQuality
	}
	if config.FailureEasePenalty > 0 {
		params.FailureEasePenalty = config.FailureEasePenalty
	}
	if config.ResetInterval > 0 {
		params.ResetInterval = config.ResetInterval
	}
	if config.FirstInterval > 0 {
		params.FirstInterval = config.FirstInterval
	}
	if config.SecondInterval > 0 {
		params.SecondInterval = config.SecondInterval
	}

	return params
}
