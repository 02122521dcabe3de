// Package crypto provides the symmetric trust root for the telemetry channel.
//
// Design goals:
//   - Single deployment-wide key, generated once and persisted to a key file
//   - AEAD encryption via XChaCha20-Poly1305 with a fresh random nonce per message
//   - No session state: every agent sharing the key file can interoperate
package crypto
