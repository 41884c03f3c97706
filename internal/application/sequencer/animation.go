package sequencer

import "math"

// ScoreAnimation interpolates the displayed score from 0 to the target in a
// fixed number of equal increments.
type ScoreAnimation struct {
	target int
	steps  int
	step   int
}

// NewScoreAnimation starts an animation towards target. Steps below one are
// treated as one.
func NewScoreAnimation(target, steps int) ScoreAnimation {
	if steps < 1 {
		steps = 1
	}
	return ScoreAnimation{target: target, steps: steps}
}

// Target returns the final score.
func (a ScoreAnimation) Target() int { return a.target }

// Step returns the number of steps taken so far.
func (a ScoreAnimation) Step() int { return a.step }

// Advance returns the animation one step further. A finished animation is
// returned unchanged.
func (a ScoreAnimation) Advance() ScoreAnimation {
	if !a.Done() {
		a.step++
	}
	return a
}

// Current is the unrounded interpolated value, clamped to the target.
func (a ScoreAnimation) Current() float64 {
	if a.step >= a.steps {
		return float64(a.target)
	}
	v := float64(a.target) / float64(a.steps) * float64(a.step)
	return math.Min(v, float64(a.target))
}

// Displayed is Current rounded to the nearest integer.
func (a ScoreAnimation) Displayed() int {
	return int(math.Round(a.Current()))
}

// Done reports whether the displayed value has reached the target. A zero
// target completes on the first step.
func (a ScoreAnimation) Done() bool {
	if a.step >= a.steps {
		return true
	}
	return a.step > 0 && a.Current() >= float64(a.target)
}
