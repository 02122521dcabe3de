// Package convoy provides the inter-agent telemetry exchange for a
// multi-agent vehicle simulation: an encrypted best-effort UDP status
// channel plus a reactive sensor-to-action safety policy.
//
// The subpackages are independent building blocks (crypto, telemetry,
// policy, sim); this package offers a small Node helper that wires the
// trust root and both network loops together for the common case.
package convoy
