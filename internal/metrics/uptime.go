package metrics

import (
	"math"
	"time"

	"tellocheck/internal/models"
)

// ProbeUptime summarises how often a probe passed over the stored history.
type ProbeUptime struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	UptimePercent float64 `json:"uptime_percent"`
	TotalChecks   int     `json:"total_checks"`
	Passing       int     `json:"passing"`
	Failing       int     `json:"failing"`
	LastChecked   string  `json:"last_checked,omitempty"`
}

// ComputeProbeUptime aggregates pass rates for both probes from history.
func ComputeProbeUptime(snaps []models.Snapshot) []ProbeUptime {
	if len(snaps) == 0 {
		return nil
	}

	internet := ProbeUptime{ID: "internet", Name: "Internet"}
	device := ProbeUptime{ID: "tello", Name: "Tello network"}

	var lastInternet, lastDevice time.Time
	for _, snap := range snaps {
		tally(&internet, snap.Internet, &lastInternet)
		tally(&device, snap.Device, &lastDevice)
	}
	finish(&internet, lastInternet)
	finish(&device, lastDevice)

	return []ProbeUptime{internet, device}
}

func tally(u *ProbeUptime, res models.ProbeResult, last *time.Time) {
	if res.OK {
		u.Passing++
	} else {
		u.Failing++
	}
	if res.CheckedAt.After(*last) {
		*last = res.CheckedAt
	}
}

func finish(u *ProbeUptime, last time.Time) {
	u.TotalChecks = u.Passing + u.Failing
	if u.TotalChecks > 0 {
		u.UptimePercent = round2(float64(u.Passing) / float64(u.TotalChecks) * 100)
	}
	if !last.IsZero() {
		u.LastChecked = last.UTC().Format(time.RFC3339)
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
