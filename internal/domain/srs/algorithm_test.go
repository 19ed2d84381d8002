package srs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNext_ConcreteVectors(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	testCases := []struct {
		name     string
		quality  int
		interval int
		reps     int
		ease     float64
		wantInt  int
		wantReps int
		wantEase float64
	}{
		{"perfect recall after second success", 5, 6, 1, 2.5, 6, 2, 2.6},
		{"hesitant recall after second success", 3, 6, 1, 2.5, 6, 2, 2.36},
		{"third success multiplies interval", 5, 6, 2, 2.5, 15, 3, 2.6},
		{"third success hesitant", 3, 6, 2, 2.5, 15, 3, 2.36},
		{"first success", 4, 0, 0, 2.5, 1, 1, 2.5},
		{"rounding half up", 4, 3, 5, 1.5, 5, 6, 1.5},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Next(tc.quality, tc.interval, tc.reps, tc.ease, params)
			assert.Equal(t, tc.wantInt, got.Interval)
			assert.Equal(t, tc.wantReps, got.Repetitions)
			assert.InDelta(t, tc.wantEase, got.EaseFactor, 1e-9)
		})
	}
}

func TestNext_FailureReset(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	for q := 0; q < 3; q++ {
		for _, prior := range []struct {
			interval int
			reps     int
			ease     float64
		}{
			{0, 0, 2.5},
			{15, 4, 2.7},
			{1, 1, 1.4},
			{30, 9, 1.3},
		} {
			got := Next(q, prior.interval, prior.reps, prior.ease, params)
			assert.Equal(t, 1, got.Interval)
			assert.Equal(t, 0, got.Repetitions)
			assert.InDelta(t, max(1.3, prior.ease-0.2), got.EaseFactor, 1e-9)
		}
	}
}

func TestNext_SuccessIntervals(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	for q := 3; q <= 5; q++ {
		assert.Equal(t, 1, Next(q, 17, 0, 2.5, params).Interval)
		assert.Equal(t, 6, Next(q, 17, 1, 2.5, params).Interval)
	}
}

func TestNext_EaseFloor(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	for q := 0; q <= 5; q++ {
		for _, ease := range []float64{1.3, 1.35, 1.5, 2.0, 2.5, 3.1} {
			for reps := 0; reps < 4; reps++ {
				got := Next(q, 10, reps, ease, params)
				assert.GreaterOrEqual(t, got.EaseFactor, 1.3,
					"q=%d ease=%.2f reps=%d", q, ease, reps)
			}
		}
	}
}
