// Package sim defines the boundary to the external simulation engine and
// the tick loop that drives it: per-agent policy decisions, episode
// bookkeeping, and scenario (map layout) configuration.
//
// The physics, traffic, and rendering live behind the Driver interface;
// this package never looks inside them.
package sim
