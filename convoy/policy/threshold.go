package policy

// DefaultThreshold is the single-obstacle braking distance.
const DefaultThreshold = 10.0

// ThresholdPolicy is the minimal single-obstacle variant: brake below the
// threshold, full throttle otherwise. It predates SafetyPolicy and is kept
// for scenarios that track only one leading distance.
type ThresholdPolicy struct {
	Threshold float64
}

// NewThresholdPolicy returns a policy with DefaultThreshold.
func NewThresholdPolicy() *ThresholdPolicy {
	return &ThresholdPolicy{Threshold: DefaultThreshold}
}

// Decide maps a single leading distance to a fixed brake or cruise command.
func (p *ThresholdPolicy) Decide(distance float64) ControlCommand {
	if distance < p.Threshold {
		return ControlCommand{Steering: 0.0, Throttle: 0.2}
	}
	return ControlCommand{Steering: 0.0, Throttle: 1.0}
}
