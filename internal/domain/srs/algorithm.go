package srs

import "math"

// Schedule is the scheduling state produced by one grading.
type Schedule struct {
	Interval    int
	Repetitions int
	EaseFactor  float64
}

// Next computes the schedule that follows a recall graded with quality.
//
// It is a pure SM-2 variant:
//   - quality below the passing grade resets the card: interval ResetInterval,
//     repetitions 0, ease factor lowered by FailureEasePenalty
//   - otherwise repetitions grow by one and the interval is FirstInterval after
//     the first success, SecondInterval after the second, and
//     round(priorInterval * priorEase) after that
//   - on success the ease factor moves by 0.1 - (5-q)*(0.08 + (5-q)*0.02)
//
// The ease factor never drops below MinEaseFactor. quality must already be in
// [0,5]; callers validate it.
func Next(quality, priorInterval, priorRepetitions int, priorEase float64, params *Params) Schedule {
	if quality < params.PassingQuality {
		return Schedule{
			Interval:    params.ResetInterval,
			Repetitions: 0,
			EaseFactor:  clampEase(priorEase-params.FailureEasePenalty, params),
		}
	}

	var interval int
	switch priorRepetitions {
	case 0:
		interval = params.FirstInterval
	case 1:
		interval = params.SecondInterval
	default:
		interval = int(math.Round(float64(priorInterval) * priorEase))
	}

	return Schedule{
		Interval:    interval,
		Repetitions: priorRepetitions + 1,
		EaseFactor:  clampEase(priorEase+easeDelta(quality), params),
	}
}

// easeDelta is the SM-2 ease adjustment for a passing grade.
func easeDelta(quality int) float64 {
	miss := float64(5 - quality)
	return 0.1 - miss*(0.08+miss*0.02)
}

func clampEase(ef float64, params *Params) float64 {
	if ef < params.MinEaseFactor {
		return params.MinEaseFactor
	}
	return ef
}
