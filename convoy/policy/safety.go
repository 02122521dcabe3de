package policy

// ControlCommand is a bounded steering/throttle pair consumed by the
// simulation driver. Both components are clamped to [-1, 1].
type ControlCommand struct {
	Steering float64
	Throttle float64
}

// SensorSnapshot is one agent's view of its surroundings for a single
// tick. Both fields are optional: an empty Ranging array or a short
// SideClearance vector simply disables the checks that need them.
type SensorSnapshot struct {
	// Ranging holds distance samples around 360°, in the simulator's
	// fixed circular ordering.
	Ranging []float64

	// SideClearance holds corner distances in the order
	// [left_front, left_rear, right_rear, right_front].
	SideClearance []float64
}

// Sector indices into SideClearance.
const (
	sideLeftFront = iota
	sideLeftRear
	sideRightRear
	sideRightFront
	sideClearanceLen
)

// SectorConfig maps angular sectors of the ranging array to index windows.
// The simulator never formalizes the array's orientation, so the windows
// are configuration rather than hard-coded geometry; the defaults match a
// 240-point array where the front ±30° arc spans [90, 150).
type SectorConfig struct {
	FrontLo, FrontHi int
	LeftLo, LeftHi   int
	RightLo, RightHi int
}

// DefaultSectors returns the sector windows for the standard 240-point
// ranging array.
func DefaultSectors() SectorConfig {
	return SectorConfig{
		FrontLo: 90, FrontHi: 150,
		LeftLo: 150, LeftHi: 180,
		RightLo: 60, RightHi: 90,
	}
}

// Distance thresholds, in simulator units (meters).
const (
	DangerDistance   = 10.0 // brake hard
	WarningDistance  = 20.0 // slow down significantly
	SafeDistance     = 30.0 // gentle deceleration below this
	SideObstacleDist = 5.0  // steer away from a near side obstacle
	AdjacentDist     = 5.0  // adjacent vehicle at a front corner
)

// Throttle levels keyed to the distance bands.
const (
	CruiseThrottle    = 0.7
	CautiousThrottle  = 0.4
	SlowThrottle      = 0.2
	BrakeThrottle     = -0.5
	AdjacentThrottle  = 0.3
	AvoidanceSteering = 0.1
)

// SafetyPolicy is the full collision-avoidance decision maker. The zero
// value is not usable; construct with NewSafetyPolicy.
type SafetyPolicy struct {
	Sectors SectorConfig
}

// NewSafetyPolicy returns a policy with the default sector windows.
func NewSafetyPolicy() *SafetyPolicy {
	return &SafetyPolicy{Sectors: DefaultSectors()}
}

// Decide derives the control command for one tick. Deterministic for a
// given snapshot, and never fails: absent or short sensor data leaves the
// corresponding defaults in place.
func (p *SafetyPolicy) Decide(s SensorSnapshot) ControlCommand {
	cmd := ControlCommand{Steering: 0.0, Throttle: CruiseThrottle}

	if len(s.Ranging) > 0 {
		if front, ok := sectorMin(s.Ranging, p.Sectors.FrontLo, p.Sectors.FrontHi); ok {
			switch {
			case front < DangerDistance:
				cmd.Throttle = BrakeThrottle
			case front < WarningDistance:
				cmd.Throttle = SlowThrottle
			case front < SafeDistance:
				cmd.Throttle = CautiousThrottle
			default:
				cmd.Throttle = CruiseThrottle
			}
		}

		left, haveLeft := sectorMin(s.Ranging, p.Sectors.LeftLo, p.Sectors.LeftHi)
		right, haveRight := sectorMin(s.Ranging, p.Sectors.RightLo, p.Sectors.RightHi)
		if haveLeft && haveRight {
			// Left obstacle wins the tie: bias away from it first.
			if left < SideObstacleDist {
				cmd.Steering = AvoidanceSteering
			} else if right < SideObstacleDist {
				cmd.Steering = -AvoidanceSteering
			}
		}
	}

	if len(s.SideClearance) >= sideClearanceLen {
		if s.SideClearance[sideLeftFront] < AdjacentDist || s.SideClearance[sideRightFront] < AdjacentDist {
			// Adjacent-vehicle caution caps the throttle but never raises it.
			cmd.Throttle = min(cmd.Throttle, AdjacentThrottle)
		}
	}

	return clamp(cmd)
}

// sectorMin returns the minimum sample in ranging[lo:hi), tolerating
// windows that extend past the end of the array.
func sectorMin(ranging []float64, lo, hi int) (float64, bool) {
	if lo < 0 {
		lo = 0
	}
	if hi > len(ranging) {
		hi = len(ranging)
	}
	if lo >= hi {
		return 0, false
	}
	m := ranging[lo]
	for _, v := range ranging[lo+1 : hi] {
		if v < m {
			m = v
		}
	}
	return m, true
}

func clamp(cmd ControlCommand) ControlCommand {
	cmd.Steering = clampUnit(cmd.Steering)
	cmd.Throttle = clampUnit(cmd.Throttle)
	return cmd
}

func clampUnit(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}
