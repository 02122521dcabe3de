package main

import (
	"fmt"
	"math/rand"

	"github.com/openfleet/convoy/convoy/policy"
	"github.com/openfleet/convoy/convoy/sim"
)

// demoDriver is a self-contained stand-in for the real simulation engine:
// a seeded random walk over obstacle distances, fixed-length episodes, no
// rendering. It exists so the binary runs end to end without an engine
// attached; real deployments implement sim.Driver against theirs.
type demoDriver struct {
	agents  int
	horizon int
	rng     *rand.Rand
	step    int

	// distance per agent to the vehicle ahead, randomly walked each tick
	leads []float64
}

func newDemoDriver(agents, horizon int, seed int64) *demoDriver {
	if agents < 1 {
		agents = 1
	}
	return &demoDriver{
		agents:  agents,
		horizon: horizon,
		rng:     rand.New(rand.NewSource(seed)),
	}
}

func (d *demoDriver) agentID(i int) string { return fmt.Sprintf("Agent_%d", i+1) }

func (d *demoDriver) Reset() (map[string]policy.SensorSnapshot, error) {
	d.step = 0
	d.leads = make([]float64, d.agents)
	for i := range d.leads {
		d.leads[i] = 20 + d.rng.Float64()*40
	}
	return d.observations(), nil
}

func (d *demoDriver) observations() map[string]policy.SensorSnapshot {
	obs := make(map[string]policy.SensorSnapshot, d.agents)
	sectors := policy.DefaultSectors()
	for i := 0; i < d.agents; i++ {
		ranging := make([]float64, 240)
		for j := range ranging {
			ranging[j] = 50 + d.rng.Float64()*50
		}
		// Drop the lead-vehicle distance into the front sector.
		ranging[(sectors.FrontLo+sectors.FrontHi)/2] = d.leads[i]
		obs[d.agentID(i)] = policy.SensorSnapshot{Ranging: ranging}
	}
	return obs
}

func (d *demoDriver) Step(actions map[string]policy.ControlCommand) (sim.StepResult, error) {
	d.step++
	done := d.step >= d.horizon

	res := sim.StepResult{
		Observations: make(map[string]policy.SensorSnapshot, d.agents),
		Rewards:      make(map[string]float64, d.agents),
		Terminated:   make(map[string]bool, d.agents),
		Truncated:    make(map[string]bool, d.agents),
		Infos:        make(map[string]sim.AgentInfo, d.agents),
	}
	for i := 0; i < d.agents; i++ {
		id := d.agentID(i)
		// Braking opens the gap, throttle closes it, traffic jitters it.
		d.leads[i] += (0.5 - actions[id].Throttle) * 2
		d.leads[i] += (d.rng.Float64() - 0.5) * 4
		if d.leads[i] > 80 {
			d.leads[i] = 80
		}

		crashed := d.leads[i] <= 0
		if crashed {
			d.leads[i] = 15 // respawned behind a new lead vehicle
		}
		res.Rewards[id] = actions[id].Throttle
		res.Terminated[id] = done
		res.Infos[id] = sim.AgentInfo{Crash: crashed, ArriveDest: done && !crashed}
	}
	for id, snapshot := range d.observations() {
		res.Observations[id] = snapshot
	}
	return res, nil
}

func (d *demoDriver) Render() {}

func (d *demoDriver) Close() error { return nil }
