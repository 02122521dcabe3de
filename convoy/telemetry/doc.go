// Package telemetry implements the encrypted status broadcast channel
// between simulated agents.
//
// Transport is best-effort UDP over loopback: one datagram per status
// message, no acknowledgment, no retry, silent loss accepted. The sender
// and listener run as independent loops that never synchronize with the
// simulation tick; they share nothing with it beyond the key file.
package telemetry
