package models

import "time"

// ProbeResult captures the outcome of a single connectivity probe.
type ProbeResult struct {
	Target    string    `json:"target"`
	OK        bool      `json:"ok"`
	LatencyMs int64     `json:"latency_ms"`
	Error     string    `json:"error,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

// HandshakeResult records the optional SDK handshake performed after the
// device probe passes: entering command mode, reading the battery and
// toggling the video stream. It is advisory and never affects the exit code.
type HandshakeResult struct {
	Connected bool   `json:"connected"`
	Battery   int    `json:"battery"`
	StreamOK  bool   `json:"stream_ok"`
	Error     string `json:"error,omitempty"`
}

// Snapshot stores the results of one full diagnostic run.
type Snapshot struct {
	Timestamp time.Time        `json:"timestamp"`
	Internet  ProbeResult      `json:"internet"`
	Device    ProbeResult      `json:"device"`
	Handshake *HandshakeResult `json:"handshake,omitempty"`
}

// Passed reports whether both probes succeeded.
func (s Snapshot) Passed() bool {
	return s.Internet.OK && s.Device.OK
}
