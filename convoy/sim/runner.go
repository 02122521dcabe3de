package sim

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/openfleet/convoy/convoy/policy"
)

// DefaultTickDelay paces the loop so rendering stays watchable.
const DefaultTickDelay = 10 * time.Millisecond

// DefaultStatusEvery is how many steps pass between progress log lines.
const DefaultStatusEvery = 100

// Runner owns the simulation tick loop: one policy decision per agent per
// tick, step the engine, track episode statistics, reset when every agent
// is done. It shares nothing with the telemetry loops.
type Runner struct {
	driver Driver
	policy *policy.SafetyPolicy

	// TickDelay is the per-tick pacing sleep. Zero selects
	// DefaultTickDelay; negative disables pacing (tests).
	TickDelay time.Duration

	// StatusEvery controls progress logging; zero selects
	// DefaultStatusEvery, negative disables it.
	StatusEvery int

	// MaxEpisodes stops the loop after that many completed episodes.
	// Zero means run until the context is cancelled.
	MaxEpisodes int
}

// NewRunner wires a driver to the collision-avoidance policy.
func NewRunner(driver Driver, p *policy.SafetyPolicy) *Runner {
	return &Runner{driver: driver, policy: p}
}

// Run executes the tick loop until ctx is cancelled or MaxEpisodes
// completes, returning the stats of all finished episodes. Engine errors
// are fatal: the loop has no way to continue without observations.
func (r *Runner) Run(ctx context.Context) ([]EpisodeStats, error) {
	tickDelay := r.TickDelay
	if tickDelay == 0 {
		tickDelay = DefaultTickDelay
	}
	statusEvery := r.StatusEvery
	if statusEvery == 0 {
		statusEvery = DefaultStatusEvery
	}

	obs, err := r.driver.Reset()
	if err != nil {
		return nil, fmt.Errorf("sim: reset: %w", err)
	}

	var (
		finished []EpisodeStats
		stats    EpisodeStats
	)
	for {
		select {
		case <-ctx.Done():
			return finished, nil
		default:
		}

		actions := make(map[string]policy.ControlCommand, len(obs))
		for agentID, snapshot := range obs {
			actions[agentID] = r.policy.Decide(snapshot)
		}

		res, err := r.driver.Step(actions)
		if err != nil {
			return finished, fmt.Errorf("sim: step: %w", err)
		}
		stats.Observe(res)
		r.driver.Render()

		if statusEvery > 0 && stats.Steps%statusEvery == 0 {
			log.Printf("[Sim] episode %d step %d: agents=%d collisions=%d",
				stats.Episode, stats.Steps, len(res.Observations), stats.Collisions)
		}

		if res.AllDone() {
			done := stats.Finish(res)
			finished = append(finished, done)
			log.Printf("[Sim] %s", done.Summary())

			if r.MaxEpisodes > 0 && len(finished) >= r.MaxEpisodes {
				return finished, nil
			}
			obs, err = r.driver.Reset()
			if err != nil {
				return finished, fmt.Errorf("sim: reset: %w", err)
			}
			continue
		}
		obs = res.Observations

		if tickDelay > 0 {
			select {
			case <-ctx.Done():
				return finished, nil
			case <-time.After(tickDelay):
			}
		}
	}
}
