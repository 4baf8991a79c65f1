package dsp

import "math"

// PIController is a proportional-integral feedback controller with a
// selectable integral-limiting strategy.
type PIController struct {
	PRate    float64
	IRate    float64
	ILimit   float64
	Gain     float64
	Saturate bool // false = reset-on-overflow variant, true = saturate variant

	Proportional float64
	Integral     float64
	Output       float64
}

// NewPIController builds a PI controller. When saturate is false, the
// integral term resets to zero on overflow; when true, it clamps to
// +/-ILimit.
func NewPIController(p, i, iLimit, gain float64, saturate bool) *PIController {
	return &PIController{PRate: p, IRate: i, ILimit: iLimit, Gain: gain, Saturate: saturate}
}

// Update computes the controller's output for one input sample.
func (c *PIController) Update(sample float64) float64 {
	c.Proportional = c.Gain * c.PRate * sample
	c.Integral += c.Gain * c.IRate * sample
	if math.Abs(c.Integral) > c.ILimit {
		if c.Saturate {
			if c.Integral > 0 {
				c.Integral = c.ILimit
			} else {
				c.Integral = -c.ILimit
			}
		} else {
			c.Integral = 0
		}
	}
	c.Output = c.Proportional + c.Integral
	return c.Output
}

// Reset clears accumulated state.
func (c *PIController) Reset() {
	c.Integral = 0
	c.Proportional = 0
	c.Output = 0
}
