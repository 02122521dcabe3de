package telemetry

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Status is the agent lifecycle state carried in a broadcast.
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

var ErrEmptyAgentID = errors.New("telemetry: empty agent id")

// StatusMessage is the fixed-schema record an agent announces to its peers.
// The field names are part of the wire format.
type StatusMessage struct {
	AgentID string  `json:"id"`
	Status  Status  `json:"status"`
	Speed   float64 `json:"speed"`
}

// Encode serializes the message to its wire plaintext (before encryption).
func (m StatusMessage) Encode() ([]byte, error) {
	if m.AgentID == "" {
		return nil, ErrEmptyAgentID
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("telemetry: encode status: %w", err)
	}
	return pack(data), nil
}

// DecodeStatusMessage parses a wire plaintext produced by Encode.
func DecodeStatusMessage(data []byte) (StatusMessage, error) {
	raw, err := unpack(data)
	if err != nil {
		return StatusMessage{}, err
	}
	var m StatusMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return StatusMessage{}, fmt.Errorf("telemetry: decode status: %w", err)
	}
	if m.AgentID == "" {
		return StatusMessage{}, ErrEmptyAgentID
	}
	return m, nil
}

func (m StatusMessage) String() string {
	return fmt.Sprintf("%s status=%s speed=%.1f", m.AgentID, m.Status, m.Speed)
}
