package sim

import "github.com/openfleet/convoy/convoy/policy"

// AgentInfo carries the per-agent diagnostics the engine reports each step.
type AgentInfo struct {
	Crash      bool
	ArriveDest bool
}

// StepResult is everything the engine returns for one advanced tick.
type StepResult struct {
	Observations map[string]policy.SensorSnapshot
	Rewards      map[string]float64
	Terminated   map[string]bool
	Truncated    map[string]bool
	Infos        map[string]AgentInfo
}

// Done reports whether the episode is over for the given agent.
func (r StepResult) Done(agentID string) bool {
	return r.Terminated[agentID] || r.Truncated[agentID]
}

// AllDone reports whether every observed agent has finished the episode.
func (r StepResult) AllDone() bool {
	if len(r.Observations) == 0 {
		return true
	}
	for agentID := range r.Observations {
		if !r.Done(agentID) {
			return false
		}
	}
	return true
}

// Driver is the external simulation engine. It owns reset, termination,
// and episode semantics; the runner only feeds it commands and paces the
// loop.
type Driver interface {
	// Reset starts a new episode and returns the initial observations.
	Reset() (map[string]policy.SensorSnapshot, error)

	// Step applies one command per agent and advances a tick.
	Step(actions map[string]policy.ControlCommand) (StepResult, error)

	// Render draws the current frame, if the engine renders at all.
	Render()

	// Close releases the engine's resources.
	Close() error
}
