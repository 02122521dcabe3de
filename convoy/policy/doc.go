// Package policy maps proximity-sensor snapshots to bounded control
// commands. Policies are pure functions of their input: no state, no
// errors, and missing sensor data degrades to the default cruise command.
package policy
