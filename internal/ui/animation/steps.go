package animation

import "time"

// Step is one stage of the breathing cycle.
type Step struct {
	Caption  string
	Duration time.Duration
	// Scale is the relative size the caption grows or shrinks to by the
	// end of the step, in [0, 1].
	Scale float32
}

// Sequence returns the steps of one breathing cycle. Stages with a zero
// duration are left out.
func Sequence(config Config) []Step {
	candidates := []Step{
		{Caption: "Breathe in", Duration: config.Inhale, Scale: 1},
		{Caption: "Hold", Duration: config.HoldIn, Scale: 1},
		{Caption: "Breathe out", Duration: config.Exhale, Scale: 0},
		{Caption: "Rest", Duration: config.HoldOut, Scale: 0},
	}
	steps := make([]Step, 0, len(candidates))
	for _, step := range candidates {
		if step.Duration > 0 {
			steps = append(steps, step)
		}
	}
	return steps
}

// CycleDuration returns the length of one full cycle.
func CycleDuration(config Config) time.Duration {
	var total time.Duration
	for _, step := range Sequence(config) {
		total += step.Duration
	}
	return total
}
