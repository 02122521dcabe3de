package sim

import "fmt"

// EpisodeStats accumulates per-episode bookkeeping across ticks.
type EpisodeStats struct {
	Episode     int
	Steps       int
	Collisions  int
	Arrivals    int
	TotalReward float64
}

// Observe folds one step result into the running totals.
func (s *EpisodeStats) Observe(res StepResult) {
	s.Steps++
	for agentID := range res.Observations {
		info := res.Infos[agentID]
		if info.Crash {
			s.Collisions++
		}
	}
	for _, r := range res.Rewards {
		s.TotalReward += r
	}
}

// Finish records end-of-episode arrivals and returns the completed stats,
// resetting the receiver for the next episode.
func (s *EpisodeStats) Finish(res StepResult) EpisodeStats {
	for agentID := range res.Observations {
		if res.Infos[agentID].ArriveDest {
			s.Arrivals++
		}
	}
	done := *s
	*s = EpisodeStats{Episode: done.Episode + 1}
	return done
}

func (s EpisodeStats) Summary() string {
	return fmt.Sprintf("episode %d: steps=%d arrivals=%d collisions=%d reward=%.2f",
		s.Episode, s.Steps, s.Arrivals, s.Collisions, s.TotalReward)
}
