// Package diagnose runs one full preflight pass: the two connectivity
// probes, then — when the drone answered the echo — the SDK handshake.
package diagnose

import (
	"context"
	"time"

	"tellocheck/internal/config"
	"tellocheck/internal/models"
	"tellocheck/internal/probe"
	"tellocheck/internal/tello"
)

// commandClient is the slice of the Tello client the handshake needs.
type commandClient interface {
	Connect() error
	Battery() (int, error)
	StreamOn() error
	StreamOff() error
	Close() error
}

// Runner executes diagnostic passes. The probe and dial functions default to
// the real implementations and exist as fields so tests can substitute them.
type Runner struct {
	cfg config.Config

	internetProbe func(ctx context.Context, url string, timeout time.Duration) models.ProbeResult
	deviceProbe   func(ip string, timeout time.Duration, privileged bool) models.ProbeResult
	dial          func() (commandClient, error)
}

// NewRunner builds a runner for the given configuration.
func NewRunner(cfg config.Config) *Runner {
	r := &Runner{
		cfg:           cfg,
		internetProbe: probe.Internet,
		deviceProbe:   probe.Device,
	}
	r.dial = func() (commandClient, error) {
		client, err := tello.Dial(cfg.Tello.IP, cfg.Tello.CommandPort)
		if err != nil {
			return nil, err
		}
		client.SetCommandTimeout(time.Duration(cfg.Handshake.CommandTimeoutSeconds) * time.Second)
		return client, nil
	}
	return r
}

// Run performs one diagnostic pass. Probes run sequentially; the handshake
// only runs when the device probe passed and the stage is enabled. Nothing
// in here is fatal: every failure ends up inside the snapshot.
func (r *Runner) Run(ctx context.Context) models.Snapshot {
	snap := models.Snapshot{Timestamp: time.Now().UTC()}

	snap.Internet = r.internetProbe(ctx,
		r.cfg.Internet.URL,
		time.Duration(r.cfg.Internet.TimeoutSeconds)*time.Second)

	snap.Device = r.deviceProbe(
		r.cfg.Tello.IP,
		time.Duration(r.cfg.Tello.TimeoutSeconds)*time.Second,
		r.cfg.Tello.PrivilegedPing)

	if snap.Device.OK && r.cfg.Handshake.Enabled {
		snap.Handshake = r.handshake(ctx)
	}
	return snap
}

func (r *Runner) handshake(ctx context.Context) *models.HandshakeResult {
	h := &models.HandshakeResult{}

	client, err := r.dial()
	if err != nil {
		h.Error = err.Error()
		return h
	}
	defer client.Close()

	if err := client.Connect(); err != nil {
		h.Error = err.Error()
		return h
	}
	h.Connected = true

	level, err := client.Battery()
	if err != nil {
		h.Error = err.Error()
		return h
	}
	h.Battery = level

	if err := client.StreamOn(); err != nil {
		h.Error = err.Error()
		return h
	}

	// Let the stream run briefly, like the original smoke test did.
	wait := time.Duration(r.cfg.Handshake.StreamTestSeconds) * time.Second
	if wait > 0 {
		select {
		case <-time.After(wait):
		case <-ctx.Done():
		}
	}

	if err := client.StreamOff(); err != nil {
		h.Error = err.Error()
		return h
	}
	h.StreamOK = true
	return h
}
